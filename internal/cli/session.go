package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/Makepad-fr/trail/internal/api"
	"github.com/Makepad-fr/trail/internal/app"
	"github.com/Makepad-fr/trail/internal/auth"
	"github.com/Makepad-fr/trail/internal/config"
	"github.com/Makepad-fr/trail/internal/logging"
	"github.com/Makepad-fr/trail/internal/store"
	"github.com/Makepad-fr/trail/internal/store/jsonstore"
	"github.com/Makepad-fr/trail/internal/store/sqlitestore"
	"github.com/Makepad-fr/trail/internal/ui"
)

// session is everything a command needs, opened from the config.
type session struct {
	cfg    *config.Config
	logger *zap.Logger
	app    *app.App
	close  func()
}

func (o *options) loadConfig() (*config.Config, error) {
	path, required := o.configPath, true
	if path == "" {
		path, required = config.DefaultPath(), false
	}
	return config.Load(path, required)
}

// open builds the app. onTerm receives debounced search terms; nil lets
// the app reload by itself.
func (o *options) open(onTerm func(string)) (*session, error) {
	cfg, err := o.loadConfig()
	if err != nil {
		return nil, err
	}
	if o.theme == "" {
		ui.SetTheme(cfg.UI.Theme)
	}

	logger, err := logging.New(cfg.Logging.Level, cfg.Logging.File, o.verbose)
	if err != nil {
		return nil, err
	}

	kv, closeKV, err := openKV(cfg, logger)
	if err != nil {
		_ = logger.Sync()
		return nil, err
	}

	fetch, err := o.fetcher(cfg, logger)
	if err != nil {
		closeKV()
		_ = logger.Sync()
		return nil, err
	}

	local := store.NewOverrides(kv, logger)
	a := app.New(fetch, local, app.Config{
		Logger:      logger,
		Debounce:    cfg.Search.Debounce,
		Concurrency: cfg.API.Concurrency,
		OnTerm:      onTerm,
	})
	if o.search != "" {
		a.Search.SetTerm(o.search)
	}
	logger.Debug("session opened",
		zap.String("backend", cfg.Store.Backend),
		zap.String("store", cfg.Store.Path),
		zap.Bool("offline", cfg.API.Offline || o.offline))

	return &session{
		cfg:    cfg,
		logger: logger,
		app:    a,
		close: func() {
			a.Close()
			closeKV()
			_ = logger.Sync()
		},
	}, nil
}

func (o *options) fetcher(cfg *config.Config, logger *zap.Logger) (api.Fetcher, error) {
	if cfg.API.Offline || o.offline {
		return api.NewFixtures(), nil
	}
	creds := auth.Credentials{Dir: config.DataDir()}
	return api.NewHTTPClient(cfg.API.BaseURL,
		api.WithTimeout(cfg.API.Timeout),
		api.WithAuth(creds.Header),
		api.WithLogger(logger),
	)
}

func openKV(cfg *config.Config, logger *zap.Logger) (store.KV, func(), error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return store.NewMemory(), func() {}, nil
	case config.BackendSQLite:
		s, err := sqlitestore.Open(cfg.Store.Path, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("open sqlite store: %w", err)
		}
		return s, func() { _ = s.Close() }, nil
	default:
		s, err := jsonstore.New(cfg.Store.Path)
		if err != nil {
			return nil, nil, fmt.Errorf("open json store: %w", err)
		}
		return s, func() {}, nil
	}
}
