package router

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Makepad-fr/trail/internal/breadcrumb"
	"github.com/Makepad-fr/trail/internal/loader"
	"github.com/Makepad-fr/trail/internal/model"
	"github.com/Makepad-fr/trail/internal/route"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// stubLoader answers every route with a users view tagged by the route, or
// with err when set. gate, when set for a route, blocks the load until it
// is closed.
type stubLoader struct {
	mu    sync.Mutex
	err   error
	gates map[route.Route]chan struct{}
	terms []string
}

func (s *stubLoader) Load(ctx context.Context, r route.Route, term string) (loader.View, error) {
	s.mu.Lock()
	gate := s.gates[r]
	err := s.err
	s.terms = append(s.terms, term)
	s.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	switch r.Kind() {
	case route.KindUserTodos:
		id, _ := r.UserID()
		return loader.TodosView{UserID: model.NumID(id)}, nil
	case route.KindPostComments:
		id, _ := r.PostID()
		return loader.CommentsView{PostID: model.NumID(id)}, nil
	default:
		return loader.UsersView{}, nil
	}
}

type routeRecorder struct {
	mu    sync.Mutex
	saved []string
}

func (p *routeRecorder) SaveRoute(path string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saved = append(p.saved, path)
	return nil
}

type fixedTerm string

func (f fixedTerm) Term() string { return string(f) }

func TestNavigateTo_MountsAndPersistsCanonical(t *testing.T) {
	region := NewRegion()
	hist := NewHistory("users")
	rec := &routeRecorder{}
	r := New(&stubLoader{}, region, WithSource(hist), WithPersister(rec))

	v, err := r.NavigateTo(context.Background(), "#users#todos#007")
	require.NoError(t, err)
	assert.Equal(t, v, region.Current())
	assert.Equal(t, route.KindUserTodos, r.State().Route.Kind())
	assert.Equal(t, []string{"users#todos#7"}, rec.saved)
	assert.Equal(t, "users#todos#7", hist.Current())
	assert.Equal(t, "User 007 Todos", r.Breadcrumbs()[2].Name)
}

func TestNavigateTo_InvalidPathFallsBackToUsers(t *testing.T) {
	rec := &routeRecorder{}
	r := New(&stubLoader{}, NewRegion(), WithPersister(rec))

	_, err := r.NavigateTo(context.Background(), "users#todos#abc")
	require.NoError(t, err)
	assert.Equal(t, route.KindUsers, r.State().Route.Kind())
	assert.Equal(t, []breadcrumb.Crumb{{Name: "users", Path: "users", Current: true}}, r.Breadcrumbs())
	assert.Equal(t, []string{"users"}, rec.saved)
}

func TestNavigateTo_CommentsCrumbs(t *testing.T) {
	r := New(&stubLoader{}, NewRegion())
	_, err := r.NavigateTo(context.Background(), "users#posts#comments#42")
	require.NoError(t, err)

	want := []breadcrumb.Crumb{
		{Name: "users", Path: "users"},
		{Name: "posts", Path: "users#posts"},
		{Name: "comments", Path: "users#posts#comments"},
		{Name: "Post 42 Comments", Path: "users#posts#comments#42", Current: true},
	}
	assert.Equal(t, want, r.Breadcrumbs())
}

func TestNavigateTo_FailureEntersErrorState(t *testing.T) {
	region := NewRegion()
	rec := &routeRecorder{}
	stub := &stubLoader{}
	r := New(stub, region, WithPersister(rec))

	_, err := r.NavigateTo(context.Background(), "users")
	require.NoError(t, err)

	stub.err = loader.ErrLoad
	v, err := r.NavigateTo(context.Background(), "users#posts#3")
	require.ErrorIs(t, err, loader.ErrLoad)

	st := r.State()
	assert.True(t, st.IsError())
	assert.Equal(t, "Error(Failed to load posts)", st.String())
	ev, ok := v.(loader.ErrorView)
	require.True(t, ok)
	assert.Equal(t, ev, region.Current())
	assert.Equal(t, []string{"users"}, rec.saved, "failed loads must not persist")
}

func TestNavigateTo_StaleLoadIsDropped(t *testing.T) {
	slow := route.UserTodos(1)
	gate := make(chan struct{})
	stub := &stubLoader{gates: map[route.Route]chan struct{}{slow: gate}}
	region := NewRegion()
	rec := &routeRecorder{}
	r := New(stub, region, WithPersister(rec))

	done := make(chan error, 1)
	go func() {
		_, err := r.NavigateTo(context.Background(), slow.String())
		done <- err
	}()

	// Wait until the slow load has taken its generation.
	require.Eventually(t, func() bool {
		stub.mu.Lock()
		defer stub.mu.Unlock()
		return len(stub.terms) == 1
	}, timeout, tick)

	_, err := r.NavigateTo(context.Background(), "users#posts#comments#9")
	require.NoError(t, err)

	close(gate)
	assert.ErrorIs(t, <-done, ErrStale)

	assert.Equal(t, route.KindPostComments, r.State().Route.Kind())
	assert.IsType(t, loader.CommentsView{}, region.Current())
	assert.Equal(t, uint64(1), region.Mounts())
	assert.Equal(t, []string{"users#posts#comments#9"}, rec.saved)
}

func TestNavigateTo_CanceledLoadIsStale(t *testing.T) {
	slow := route.UserPosts(2)
	stub := &stubLoader{gates: map[route.Route]chan struct{}{slow: make(chan struct{})}}
	region := NewRegion()
	r := New(stub, region)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.NavigateTo(ctx, slow.String())
	assert.ErrorIs(t, err, ErrStale)
	assert.Nil(t, region.Current())
	assert.False(t, r.State().IsError())
}

func TestHandleRouteChange_ReadsSourceAndTerm(t *testing.T) {
	hist := NewHistory("users#todos#3")
	stub := &stubLoader{}
	r := New(stub, NewRegion(), WithSource(hist), WithTerms(fixedTerm("milk")))

	_, err := r.HandleRouteChange(context.Background())
	require.NoError(t, err)
	assert.Equal(t, route.UserTodos(3), r.State().Route)
	assert.Equal(t, []string{"milk"}, stub.terms)
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "UserPosts", State{Route: route.UserPosts(1)}.String())
	assert.Equal(t, "Users", State{}.String())
}

func TestNavigateTo_PlainErrorIsNotStale(t *testing.T) {
	boom := errors.New("boom")
	r := New(&stubLoader{err: boom}, NewRegion())
	_, err := r.NavigateTo(context.Background(), "users")
	assert.ErrorIs(t, err, boom)
	assert.NotErrorIs(t, err, ErrStale)
}

func TestNavigateTo_SourceMovedDuringLoad(t *testing.T) {
	slow := route.UserTodos(1)
	gate := make(chan struct{})
	stub := &stubLoader{gates: map[route.Route]chan struct{}{slow: gate}}
	hist := NewHistory("users")
	hist.Push(slow.String())
	region := NewRegion()
	rec := &routeRecorder{}
	r := New(stub, region, WithSource(hist), WithPersister(rec))

	done := make(chan error, 1)
	go func() {
		_, err := r.HandleRouteChange(context.Background())
		done <- err
	}()
	require.Eventually(t, func() bool {
		stub.mu.Lock()
		defer stub.mu.Unlock()
		return len(stub.terms) == 1
	}, timeout, tick)

	// A newer entry lands before its navigation takes a generation.
	hist.Push("users#posts#2")
	close(gate)
	assert.ErrorIs(t, <-done, ErrStale)
	assert.Equal(t, "users#posts#2", hist.Current())
	assert.Nil(t, region.Current())
	assert.Empty(t, rec.saved)

	_, err := r.HandleRouteChange(context.Background())
	require.NoError(t, err)
	assert.Equal(t, route.UserPosts(2), r.State().Route)
	assert.Equal(t, []string{"users#posts#2"}, rec.saved)
}
