package loader

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Makepad-fr/trail/internal/api"
	"github.com/Makepad-fr/trail/internal/model"
	"github.com/Makepad-fr/trail/internal/route"
	"github.com/Makepad-fr/trail/internal/store"
)

// seqIDs hands out predictable ids.
type seqIDs struct{ n atomic.Int64 }

func (s *seqIDs) UserID() model.ID { return model.NumID(uint64(1_700_000_000_000 + s.n.Add(1))) }
func (s *seqIDs) TodoID(original model.ID) model.ID {
	return model.ID("custom_" + original.String() + "_" + model.NumID(uint64(s.n.Add(1))).String())
}

// downFetcher fails every request, like an unreachable API.
type downFetcher struct{}

var errDown = errors.New("connection refused")

func (downFetcher) Users(context.Context) ([]model.User, error) { return nil, errDown }
func (downFetcher) UserTodos(context.Context, uint64) ([]model.Todo, error) {
	return nil, errDown
}
func (downFetcher) UserPosts(context.Context, uint64) ([]model.Post, error) {
	return nil, errDown
}
func (downFetcher) PostComments(context.Context, uint64) ([]model.Comment, error) {
	return nil, errDown
}
func (downFetcher) Posts(context.Context) ([]model.Post, error)       { return nil, errDown }
func (downFetcher) Todos(context.Context) ([]model.Todo, error)       { return nil, errDown }
func (downFetcher) Comments(context.Context) ([]model.Comment, error) { return nil, errDown }

// panicFetcher blows up while loading users.
type panicFetcher struct{ downFetcher }

func (panicFetcher) Users(context.Context) ([]model.User, error) { panic("boom") }

func newLoader(t *testing.T, f api.Fetcher) (*Loader, *store.Overrides) {
	t.Helper()
	local := store.NewOverrides(store.NewMemory(), nil)
	return New(f, local, WithIDs(&seqIDs{})), local
}

func TestLoad_UsersAppendsCustom(t *testing.T) {
	l, _ := newLoader(t, api.NewFixtures())
	u, err := l.AddUser("Zed", "zed@example.com", "zed")
	require.NoError(t, err)

	v, err := l.Load(context.Background(), route.Users(), "")
	require.NoError(t, err)
	users := v.(UsersView).Users
	require.Len(t, users, 3)
	assert.Equal(t, u, users[2])
	assert.Equal(t, "Users", v.Title())
}

func TestLoad_UsersFiltered(t *testing.T) {
	l, _ := newLoader(t, api.NewFixtures())
	v, err := l.Load(context.Background(), route.Users(), "melissa")
	require.NoError(t, err)
	users := v.(UsersView).Users
	require.Len(t, users, 1)
	assert.Equal(t, "Ervin Howell", users[0].Name)
}

func TestLoad_NetworkFailureKeepsLocalData(t *testing.T) {
	l, local := newLoader(t, downFetcher{})
	require.NoError(t, local.SaveUser(model.User{ID: "1700000000001", Name: "Offline", IsCustom: true}))
	require.NoError(t, local.SaveTodo(model.Todo{ID: "custom_1", UserID: "1700000000001", Title: "local", IsCustom: true}))

	v, err := l.Load(context.Background(), route.Users(), "")
	require.NoError(t, err)
	assert.Equal(t, 1, v.Len())

	v, err = l.Load(context.Background(), route.UserTodos(1700000000001), "")
	require.NoError(t, err)
	tv := v.(TodosView)
	require.Len(t, tv.Todos, 1)
	require.NotNil(t, tv.Owner)
	assert.Equal(t, "Todos for Offline", tv.Title())
}

func TestLoad_TodosStatsAndTitle(t *testing.T) {
	l, _ := newLoader(t, api.NewFixtures())
	v, err := l.Load(context.Background(), route.UserTodos(2), "")
	require.NoError(t, err)
	tv := v.(TodosView)
	assert.Equal(t, "Todos for Ervin Howell", tv.Title())
	assert.Equal(t, model.TodoStats{Total: 2, Completed: 1, Pending: 1}, tv.Stats)

	v, err = l.Load(context.Background(), route.UserTodos(99), "")
	require.NoError(t, err)
	assert.Equal(t, "Todos for User #99", v.Title())
	assert.Equal(t, 0, v.Len())
}

func TestToggle_RemoteCreatesShadowAndDeleteRestores(t *testing.T) {
	l, local := newLoader(t, api.NewFixtures())
	ctx := context.Background()

	orig, err := l.FindTodo(ctx, 1, "5")
	require.NoError(t, err)
	require.False(t, orig.Completed)

	shadow, err := l.ToggleTodo(orig)
	require.NoError(t, err)
	assert.True(t, shadow.IsShadow())
	assert.Equal(t, model.ID("5"), shadow.OriginalID)
	assert.True(t, shadow.Completed)
	assert.Equal(t, orig.Title, shadow.Title)

	v, err := l.Load(ctx, route.UserTodos(1), "")
	require.NoError(t, err)
	todos := v.(TodosView).Todos
	require.Len(t, todos, 3)
	for _, todo := range todos {
		assert.NotEqual(t, model.ID("5"), todo.ID)
	}

	// Toggle the shadow back: it is custom, so it is updated in place.
	again, err := l.ToggleTodo(shadow)
	require.NoError(t, err)
	assert.Equal(t, shadow.ID, again.ID)
	assert.False(t, again.Completed)
	stored, err := local.Todos()
	require.NoError(t, err)
	assert.Len(t, stored, 1)

	require.NoError(t, l.DeleteTodo(shadow.ID))
	restored, err := l.FindTodo(ctx, 1, "5")
	require.NoError(t, err)
	assert.False(t, restored.IsCustom)
	assert.False(t, restored.Completed)
}

func TestToggle_StaleRemoteReusesExistingShadow(t *testing.T) {
	l, local := newLoader(t, api.NewFixtures())
	orig, err := l.FindTodo(context.Background(), 1, "1")
	require.NoError(t, err)

	_, err = l.ToggleTodo(orig)
	require.NoError(t, err)
	_, err = l.ToggleTodo(orig)
	require.NoError(t, err)

	stored, err := local.Todos()
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestDelete_RemoteRecordsRejected(t *testing.T) {
	l, _ := newLoader(t, api.NewFixtures())
	assert.ErrorIs(t, l.DeleteTodo("1"), ErrNotCustom)
	assert.ErrorIs(t, l.DeleteUser("1"), ErrNotCustom)
}

func TestDeleteUser_Cascades(t *testing.T) {
	l, local := newLoader(t, api.NewFixtures())
	u, err := l.AddUser("A", "a@example.com", "")
	require.NoError(t, err)
	_, err = l.AddTodo(u.ID, "first", false)
	require.NoError(t, err)

	require.NoError(t, l.DeleteUser(u.ID))
	todos, err := local.Todos()
	require.NoError(t, err)
	assert.Empty(t, todos)
}

func TestAdd_Validation(t *testing.T) {
	l, _ := newLoader(t, api.NewFixtures())
	_, err := l.AddUser(" ", "x@example.com", "")
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = l.AddTodo("1", "   ", false)
	assert.ErrorIs(t, err, ErrInvalid)
	_, err = l.AddTodo("", "x", false)
	assert.ErrorIs(t, err, ErrInvalid)
}

func TestLoad_PostsWithCommentCounts(t *testing.T) {
	l, _ := newLoader(t, api.NewFixtures())
	v, err := l.Load(context.Background(), route.UserPosts(1), "")
	require.NoError(t, err)
	pv := v.(PostsView)
	require.Len(t, pv.Posts, 1)
	assert.Equal(t, 2, pv.Posts[0].Comments)
	assert.Equal(t, "Posts by Leanne Graham", pv.Title())

	v, err = l.Load(context.Background(), route.UserPosts(1), "no such words")
	require.NoError(t, err)
	assert.Equal(t, 0, v.Len())
}

func TestLoad_CommentsResolvesPost(t *testing.T) {
	l, _ := newLoader(t, api.NewFixtures())
	v, err := l.Load(context.Background(), route.PostComments(1), "gardner")
	require.NoError(t, err)
	cv := v.(CommentsView)
	require.Len(t, cv.Comments, 1)
	require.NotNil(t, cv.Post)
	assert.Equal(t, route.UserPosts(1), cv.Back())

	v, err = l.Load(context.Background(), route.PostComments(77), "")
	require.NoError(t, err)
	assert.Equal(t, "Comments for Post #77", v.Title())
	assert.Equal(t, route.Users(), v.(CommentsView).Back())
}

func TestLoad_PanicBecomesErrLoad(t *testing.T) {
	l, _ := newLoader(t, panicFetcher{})
	_, err := l.Load(context.Background(), route.Users(), "")
	assert.ErrorIs(t, err, ErrLoad)
}

func TestLoad_CanceledContext(t *testing.T) {
	l, _ := newLoader(t, api.NewFixtures())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Load(ctx, route.Users(), "")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestClockIDs_Monotonic(t *testing.T) {
	fixed := time.UnixMilli(1_700_000_000_000)
	ids := &ClockIDs{Now: func() time.Time { return fixed }}
	a, b := ids.UserID(), ids.UserID()
	assert.Equal(t, model.ID("1700000000000"), a)
	assert.Equal(t, model.ID("1700000000001"), b)

	_, numeric := ids.TodoID("").Uint()
	assert.False(t, numeric)
	assert.Contains(t, ids.TodoID("5").String(), "custom_5_")
}

func TestFailureMessage(t *testing.T) {
	assert.Equal(t, "Failed to load users", FailureMessage(route.KindUsers))
	assert.Equal(t, "Failed to load comments", FailureMessage(route.KindPostComments))
}
