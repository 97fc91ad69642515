// Package app wires the browser together. An App owns the router, the
// search state, the history and the loader; front ends drive it by
// dispatching commands.
package app

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/Makepad-fr/trail/internal/api"
	"github.com/Makepad-fr/trail/internal/loader"
	"github.com/Makepad-fr/trail/internal/route"
	"github.com/Makepad-fr/trail/internal/router"
	"github.com/Makepad-fr/trail/internal/search"
	"github.com/Makepad-fr/trail/internal/store"
)

// Config holds what New needs beyond the fetcher and the store.
type Config struct {
	Logger      *zap.Logger
	Debounce    time.Duration
	Concurrency int
	IDs         loader.IDSource

	// OnTerm is called from the debounce timer when a search term applies.
	// When nil the App reloads the current route itself.
	OnTerm func(term string)
}

type App struct {
	Router  *router.Router
	Search  *search.State
	History *router.History
	Loader  *loader.Loader
	Region  *router.Region
	Store   *store.Overrides

	logger *zap.Logger
}

// New builds an App whose history starts at the persisted route, or at
// users when none was saved.
func New(fetch api.Fetcher, local *store.Overrides, cfg Config) *App {
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Store: local, logger: logger.Named("app")}

	opts := []loader.Option{loader.WithLogger(logger)}
	if cfg.Concurrency > 0 {
		opts = append(opts, loader.WithConcurrency(cfg.Concurrency))
	}
	if cfg.IDs != nil {
		opts = append(opts, loader.WithIDs(cfg.IDs))
	}
	a.Loader = loader.New(fetch, local, opts...)

	onTerm := cfg.OnTerm
	if onTerm == nil {
		onTerm = func(string) { _, _ = a.Router.HandleRouteChange(context.Background()) }
	}
	debounce := cfg.Debounce
	if debounce <= 0 {
		debounce = search.DefaultQuiet
	}
	a.Search = search.NewState(debounce, onTerm, logger)

	start := local.Route()
	if start == "" {
		start = route.Users().String()
	}
	a.History = router.NewHistory(start)
	a.Region = router.NewRegion()
	a.Router = router.New(a.Loader, a.Region,
		router.WithSource(a.History),
		router.WithPersister(local),
		router.WithTerms(a.Search),
		router.WithLogger(logger),
	)
	return a
}

// Start loads the initial route.
func (a *App) Start(ctx context.Context) error {
	_, err := a.Router.HandleRouteChange(ctx)
	return err
}

// Close stops the pending search timer.
func (a *App) Close() { a.Search.Stop() }

// Dispatch runs cmd. Commands that change what is shown finish by loading
// the current route; the resulting view is in a.Region.
func (a *App) Dispatch(ctx context.Context, cmd Command) error {
	a.logger.Debug("dispatch", zap.String("command", fmt.Sprintf("%T", cmd)))

	switch c := cmd.(type) {
	case Navigate:
		a.History.Push(c.Path)
	case Back:
		if _, ok := a.History.Back(); !ok {
			return nil
		}
	case Forward:
		if _, ok := a.History.Forward(); !ok {
			return nil
		}
	case Reload:
	case Search:
		if !c.Immediate {
			a.Search.Input(c.Raw)
			return nil
		}
		a.Search.SetTerm(c.Raw)
	case AddUser:
		if _, err := a.Loader.AddUser(c.Name, c.Email, c.Username); err != nil {
			return err
		}
	case AddTodo:
		if _, err := a.Loader.AddTodo(c.UserID, c.Title, c.Completed); err != nil {
			return err
		}
	case Toggle:
		if _, err := a.Loader.ToggleTodo(c.Todo); err != nil {
			return err
		}
	case Delete:
		if !c.Confirmed {
			a.logger.Debug("delete declined", zap.Stringer("entity", c.Entity), zap.Stringer("id", c.ID))
			return nil
		}
		if err := a.delete(c); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unknown command %T", cmd)
	}
	_, err := a.Router.HandleRouteChange(ctx)
	return err
}

func (a *App) delete(c Delete) error {
	if c.Entity == EntityTodo {
		return a.Loader.DeleteTodo(c.ID)
	}
	return a.Loader.DeleteUser(c.ID)
}
