// Package router is the navigation state machine. It turns a path into a
// route, runs the route's loader, mounts the result, publishes breadcrumbs
// and persists the canonical path.
//
// Every navigation takes a generation number. A load that resolves after a
// newer navigation started, or after the source moved to another entry, is
// dropped without touching any state.
package router

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/Makepad-fr/trail/internal/breadcrumb"
	"github.com/Makepad-fr/trail/internal/loader"
	"github.com/Makepad-fr/trail/internal/route"
)

// ErrStale is returned by a navigation that a newer one superseded.
var ErrStale = errors.New("navigation superseded")

// Loader builds the view for a route.
type Loader interface {
	Load(ctx context.Context, r route.Route, term string) (loader.View, error)
}

// Source is where the current path comes from and where the canonical form
// is written back. CompareAndReplace only writes when the current entry is
// still old.
type Source interface {
	Current() string
	CompareAndReplace(old, path string) bool
}

// Persister stores the last successfully loaded path.
type Persister interface {
	SaveRoute(path string) error
}

// Terms supplies the applied search term.
type Terms interface {
	Term() string
}

// State is the router's position: a route, or the Error state reached while
// loading one.
type State struct {
	Route route.Route
	Err   string
}

func (s State) IsError() bool { return s.Err != "" }

func (s State) String() string {
	if s.IsError() {
		return fmt.Sprintf("Error(%s)", s.Err)
	}
	return s.Route.Kind().String()
}

type Router struct {
	load    Loader
	region  *Region
	source  Source
	persist Persister
	terms   Terms
	logger  *zap.Logger

	mu     sync.Mutex
	gen    uint64
	state  State
	crumbs []breadcrumb.Crumb
}

type Option func(*Router)

func WithSource(s Source) Option { return func(r *Router) { r.source = s } }

func WithPersister(p Persister) Option { return func(r *Router) { r.persist = p } }

func WithTerms(t Terms) Option { return func(r *Router) { r.terms = t } }

func WithLogger(lg *zap.Logger) Option { return func(r *Router) { r.logger = lg } }

// New returns a router in the Users state with nothing mounted yet.
func New(load Loader, region *Region, opts ...Option) *Router {
	r := &Router{
		load:   load,
		region: region,
		logger: zap.NewNop(),
		state:  State{Route: route.Users()},
		crumbs: breadcrumb.Build(route.Users().String()),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.source == nil {
		r.source = NewHistory(route.Users().String())
	}
	r.logger = r.logger.Named("router")
	return r
}

// NavigateTo parses path, loads its view and, unless a newer navigation has
// started or the source has moved meanwhile, mounts the view, publishes
// breadcrumbs and persists the canonical path.
//
// A failed load moves the router to the Error state and mounts an ErrorView;
// the persisted path is left alone. The returned view is whatever was
// mounted.
func (r *Router) NavigateTo(ctx context.Context, path string) (loader.View, error) {
	rt, valid := route.Parse(path)
	if !valid {
		r.logger.Debug("unknown path, falling back to users", zap.String("path", path))
	}

	r.mu.Lock()
	r.gen++
	gen := r.gen
	from := r.source.Current()
	r.mu.Unlock()

	term := ""
	if r.terms != nil {
		term = r.terms.Term()
	}
	view, err := r.load.Load(ctx, rt, term)

	r.mu.Lock()
	defer r.mu.Unlock()
	if gen != r.gen || errors.Is(err, context.Canceled) {
		r.logger.Debug("dropping stale load",
			zap.Stringer("route", rt), zap.Uint64("generation", gen), zap.Uint64("current", r.gen))
		return nil, ErrStale
	}

	// The canonical form is only written back while the source still shows
	// the entry this load started from.
	canonical := rt.String()
	var moved bool
	if err != nil {
		moved = r.source.Current() != from
	} else {
		moved = !r.source.CompareAndReplace(from, canonical)
	}
	if moved {
		r.logger.Debug("source moved during load",
			zap.Stringer("route", rt), zap.String("from", from), zap.String("current", r.source.Current()))
		return nil, ErrStale
	}

	crumbPath := path
	if !valid {
		crumbPath = canonical
	}
	r.crumbs = breadcrumb.Build(crumbPath)

	if err != nil {
		msg := loader.FailureMessage(rt.Kind())
		r.logger.Error("view load failed", zap.Stringer("route", rt), zap.Error(err))
		r.state = State{Route: rt, Err: msg}
		ev := loader.ErrorView{Route: rt, Message: msg}
		r.region.Mount(ev)
		return ev, fmt.Errorf("navigate %s: %w", rt, err)
	}

	r.state = State{Route: rt}
	r.region.Mount(view)
	if r.persist != nil {
		if err := r.persist.SaveRoute(canonical); err != nil {
			r.logger.Warn("persisting route", zap.String("route", canonical), zap.Error(err))
		}
	}
	return view, nil
}

// HandleRouteChange re-reads the path from the source and navigates to it.
func (r *Router) HandleRouteChange(ctx context.Context) (loader.View, error) {
	return r.NavigateTo(ctx, r.source.Current())
}

func (r *Router) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Breadcrumbs returns the trail published by the last completed navigation.
func (r *Router) Breadcrumbs() []breadcrumb.Crumb {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]breadcrumb.Crumb(nil), r.crumbs...)
}
