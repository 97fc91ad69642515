// Package loader builds the view for a route: it fetches the remote
// collection, reads the local overrides, reconciles the two and applies the
// search term. It also carries the mutations on local records.
//
// Network and store failures are absorbed here: a failed fetch is an empty
// collection and a failed store read means no overrides. Only unexpected
// failures reach the caller, wrapped in ErrLoad.
package loader

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Makepad-fr/trail/internal/api"
	"github.com/Makepad-fr/trail/internal/model"
	"github.com/Makepad-fr/trail/internal/reconcile"
	"github.com/Makepad-fr/trail/internal/route"
	"github.com/Makepad-fr/trail/internal/search"
	"github.com/Makepad-fr/trail/internal/store"
)

var (
	// ErrLoad wraps unexpected failures while building a view.
	ErrLoad = errors.New("view load failed")
	// ErrNotCustom is returned when deleting a record that came from the API.
	ErrNotCustom = errors.New("only locally created records can be deleted")
	// ErrInvalid is returned for rejected input.
	ErrInvalid = errors.New("invalid input")
)

// Loader builds views and applies mutations.
type Loader struct {
	fetch       api.Fetcher
	local       *store.Overrides
	ids         IDSource
	logger      *zap.Logger
	concurrency int
}

type Option func(*Loader)

func WithIDs(ids IDSource) Option { return func(l *Loader) { l.ids = ids } }

func WithLogger(lg *zap.Logger) Option { return func(l *Loader) { l.logger = lg } }

// WithConcurrency bounds parallel per-post comment fetches.
func WithConcurrency(n int) Option { return func(l *Loader) { l.concurrency = n } }

func New(fetch api.Fetcher, local *store.Overrides, opts ...Option) *Loader {
	l := &Loader{
		fetch:       fetch,
		local:       local,
		ids:         &ClockIDs{},
		logger:      zap.NewNop(),
		concurrency: 4,
	}
	for _, opt := range opts {
		opt(l)
	}
	if l.concurrency < 1 {
		l.concurrency = 1
	}
	l.logger = l.logger.Named("loader")
	return l
}

// Load builds the view for r narrowed by term. A canceled ctx is returned
// as-is so callers can tell a superseded load from a failed one.
func (l *Loader) Load(ctx context.Context, r route.Route, term string) (v View, err error) {
	defer func() {
		if p := recover(); p != nil {
			l.logger.Error("view load panicked", zap.Stringer("route", r), zap.Any("panic", p))
			v, err = nil, fmt.Errorf("%w: %s: %v", ErrLoad, r, p)
		}
	}()

	switch r.Kind() {
	case route.KindUserTodos:
		id, _ := r.UserID()
		v, err = l.todos(ctx, id, term)
	case route.KindUserPosts:
		id, _ := r.UserID()
		v, err = l.posts(ctx, id, term)
	case route.KindPostComments:
		id, _ := r.PostID()
		v, err = l.comments(ctx, id, term)
	default:
		v, err = l.users(ctx, term)
	}
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return v, nil
}

func (l *Loader) users(ctx context.Context, term string) (View, error) {
	remote := l.remoteUsers(ctx)
	all := reconcile.Users(remote, l.localUsers())
	return UsersView{Users: search.Filter(all, term, search.MatchUser)}, nil
}

func (l *Loader) todos(ctx context.Context, userID uint64, term string) (View, error) {
	var (
		users  []model.User
		remote []model.Todo
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users = l.remoteUsers(gctx)
		return nil
	})
	g.Go(func() error {
		var err error
		remote, err = l.fetch.UserTodos(gctx, userID)
		l.absorb(err, "user todos", zap.Uint64("user", userID))
		return nil
	})
	_ = g.Wait()

	uid := model.NumID(userID)
	local, err := l.local.UserTodos(uid)
	if err != nil {
		l.logger.Warn("reading local todos", zap.Error(err))
		local = nil
	}
	merged := reconcile.Todos(remote, local)
	filtered := search.Filter(merged, term, search.MatchTodo)
	return TodosView{
		UserID: uid,
		Owner:  findUser(reconcile.Users(users, l.localUsers()), uid),
		Todos:  filtered,
		Stats:  model.CountTodos(filtered),
	}, nil
}

func (l *Loader) posts(ctx context.Context, userID uint64, term string) (View, error) {
	var (
		users []model.User
		posts []model.Post
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		users = l.remoteUsers(gctx)
		return nil
	})
	g.Go(func() error {
		var err error
		posts, err = l.fetch.UserPosts(gctx, userID)
		l.absorb(err, "user posts", zap.Uint64("user", userID))
		return nil
	})
	_ = g.Wait()

	summaries := make([]model.PostSummary, len(posts))
	cg, cctx := errgroup.WithContext(ctx)
	cg.SetLimit(l.concurrency)
	for i, p := range posts {
		summaries[i].Post = p
		pid, ok := p.ID.Uint()
		if !ok {
			continue
		}
		i := i
		cg.Go(func() error {
			comments, err := l.fetch.PostComments(cctx, pid)
			l.absorb(err, "post comments", zap.Uint64("post", pid))
			summaries[i].Comments = len(comments)
			return nil
		})
	}
	_ = cg.Wait()

	uid := model.NumID(userID)
	return PostsView{
		UserID: uid,
		Owner:  findUser(reconcile.Users(users, l.localUsers()), uid),
		Posts:  search.Filter(summaries, term, search.MatchPostSummary),
	}, nil
}

func (l *Loader) comments(ctx context.Context, postID uint64, term string) (View, error) {
	var (
		posts    []model.Post
		comments []model.Comment
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		posts, err = l.fetch.Posts(gctx)
		l.absorb(err, "posts")
		return nil
	})
	g.Go(func() error {
		var err error
		comments, err = l.fetch.PostComments(gctx, postID)
		l.absorb(err, "post comments", zap.Uint64("post", postID))
		return nil
	})
	_ = g.Wait()

	pid := model.NumID(postID)
	v := CommentsView{
		PostID:   pid,
		Comments: search.Filter(comments, term, search.MatchComment),
	}
	for i := range posts {
		if posts[i].ID == pid {
			v.Post = &posts[i]
			break
		}
	}
	return v, nil
}

func (l *Loader) remoteUsers(ctx context.Context) []model.User {
	users, err := l.fetch.Users(ctx)
	l.absorb(err, "users")
	return users
}

// localUsers reads custom users fresh from the store.
func (l *Loader) localUsers() []model.User {
	users, err := l.local.Users()
	if err != nil {
		l.logger.Warn("reading local users", zap.Error(err))
		return nil
	}
	return users
}

// absorb logs a fetch failure; the caller carries on with an empty result.
func (l *Loader) absorb(err error, what string, fields ...zap.Field) {
	if err == nil || errors.Is(err, context.Canceled) {
		return
	}
	l.logger.Warn("fetch failed, continuing with local data",
		append(fields, zap.String("resource", what), zap.Error(err))...)
}

func findUser(users []model.User, id model.ID) *model.User {
	for i := range users {
		if users[i].ID == id {
			return &users[i]
		}
	}
	return nil
}

// AddUser stores a new custom user.
func (l *Loader) AddUser(name, email, username string) (model.User, error) {
	name, email, username = strings.TrimSpace(name), strings.TrimSpace(email), strings.TrimSpace(username)
	if name == "" || email == "" {
		return model.User{}, fmt.Errorf("%w: name and email are required", ErrInvalid)
	}
	u := model.User{
		ID:       l.ids.UserID(),
		Name:     name,
		Email:    email,
		Username: username,
		IsCustom: true,
	}
	if err := l.local.SaveUser(u); err != nil {
		return model.User{}, fmt.Errorf("save user: %w", err)
	}
	l.logger.Info("user added", zap.Stringer("id", u.ID))
	return u, nil
}

// DeleteUser removes a custom user and that user's custom todos.
func (l *Loader) DeleteUser(id model.ID) error {
	users, err := l.local.Users()
	if err != nil {
		return fmt.Errorf("read users: %w", err)
	}
	if findUser(users, id) == nil {
		return fmt.Errorf("user %s: %w", id, ErrNotCustom)
	}
	if err := l.local.DeleteUser(id); err != nil {
		return fmt.Errorf("delete user: %w", err)
	}
	l.logger.Info("user deleted", zap.Stringer("id", id))
	return nil
}

// AddTodo stores a new custom todo for userID.
func (l *Loader) AddTodo(userID model.ID, title string, completed bool) (model.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return model.Todo{}, fmt.Errorf("%w: empty title", ErrInvalid)
	}
	if userID.IsZero() {
		return model.Todo{}, fmt.Errorf("%w: missing user", ErrInvalid)
	}
	t := model.Todo{
		ID:        l.ids.TodoID(""),
		UserID:    userID,
		Title:     title,
		Completed: completed,
		IsCustom:  true,
	}
	if err := l.local.SaveTodo(t); err != nil {
		return model.Todo{}, fmt.Errorf("save todo: %w", err)
	}
	l.logger.Info("todo added", zap.Stringer("id", t.ID), zap.Stringer("user", userID))
	return t, nil
}

// ToggleTodo flips the completion of t as it was shown to the user. A
// custom todo is updated in place. A remote todo is never touched: a shadow
// carrying the new state is stored instead, reusing an existing shadow of
// the same remote todo if there is one.
func (l *Loader) ToggleTodo(t model.Todo) (model.Todo, error) {
	completed := !t.Completed
	if t.IsCustom {
		if err := l.local.SetTodoCompleted(t.ID, completed); err != nil {
			return model.Todo{}, fmt.Errorf("update todo: %w", err)
		}
		t.Completed = completed
		return t, nil
	}

	stored, err := l.local.Todos()
	if err != nil {
		return model.Todo{}, fmt.Errorf("read todos: %w", err)
	}
	for _, s := range stored {
		if s.IsShadow() && s.OriginalID == t.ID {
			s.Completed = completed
			if err := l.local.SaveTodo(s); err != nil {
				return model.Todo{}, fmt.Errorf("update shadow: %w", err)
			}
			return s, nil
		}
	}

	shadow := reconcile.Shadow(t, completed, l.ids.TodoID(t.ID))
	if err := l.local.SaveTodo(shadow); err != nil {
		return model.Todo{}, fmt.Errorf("save shadow: %w", err)
	}
	l.logger.Info("todo shadowed", zap.Stringer("original", t.ID), zap.Stringer("id", shadow.ID))
	return shadow, nil
}

// DeleteTodo removes a custom todo. Deleting a shadow brings back the
// remote original on the next load.
func (l *Loader) DeleteTodo(id model.ID) error {
	stored, err := l.local.Todos()
	if err != nil {
		return fmt.Errorf("read todos: %w", err)
	}
	found := false
	for _, t := range stored {
		if t.ID == id {
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("todo %s: %w", id, ErrNotCustom)
	}
	if err := l.local.DeleteTodo(id); err != nil {
		return fmt.Errorf("delete todo: %w", err)
	}
	l.logger.Info("todo deleted", zap.Stringer("id", id))
	return nil
}

// FindTodo looks id up in the reconciled, unfiltered todos of userID.
func (l *Loader) FindTodo(ctx context.Context, userID uint64, id model.ID) (model.Todo, error) {
	v, err := l.todos(ctx, userID, "")
	if err != nil {
		return model.Todo{}, err
	}
	for _, t := range v.(TodosView).Todos {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Todo{}, fmt.Errorf("todo %s of user %d: %w", id, userID, store.ErrNotFound)
}
