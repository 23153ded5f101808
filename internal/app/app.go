package app

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/five82/movieflix/internal/config"
	"github.com/five82/movieflix/internal/library"
	"github.com/five82/movieflix/internal/logging"
	"github.com/five82/movieflix/internal/prefs"
	"github.com/five82/movieflix/internal/state"
	"github.com/five82/movieflix/internal/storage"
	"github.com/five82/movieflix/internal/tmdb"
	"github.com/five82/movieflix/internal/ui"
)

// Options configure the movieflix application.
type Options struct {
	ConfigPath string
	PrefsPath  string // empty uses default ~/.config/movieflix/prefs.toml
	Verbose    bool
}

// Env holds the services shared by the TUI and the CLI subcommands.
type Env struct {
	Config  config.Config
	Logger  *zap.Logger
	KV      storage.KV
	Library *library.Library

	catalogOnce sync.Once
	catalog     *tmdb.Client
	catalogErr  error
}

// Setup loads config, opens the logger and the local store, and builds the
// library. The catalog client is created on first use so that commands which
// only touch local data work without an API key.
func Setup(opts Options) (*Env, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	logger, err := logging.New(logging.Options{Path: cfg.LogFile, Verbose: opts.Verbose})
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	kv, err := storage.Open(cfg.StoreBackend, cfg.StorePath())
	if err != nil {
		_ = logger.Sync()
		return nil, fmt.Errorf("open store: %w", err)
	}

	logger.Debug("environment ready",
		zap.String("store_backend", cfg.StoreBackend),
		zap.String("store_path", cfg.StorePath()),
	)

	return &Env{
		Config:  cfg,
		Logger:  logger,
		KV:      kv,
		Library: library.New(kv, library.Options{HistoryLimit: cfg.HistoryLimit, Logger: logger.Named("library")}),
	}, nil
}

// Catalog returns the TMDB client, failing with config.ErrMissingAPIKey when
// no key is configured.
func (e *Env) Catalog() (*tmdb.Client, error) {
	e.catalogOnce.Do(func() {
		if err := e.Config.RequireAPIKey(); err != nil {
			e.catalogErr = err
			return
		}
		e.catalog, e.catalogErr = tmdb.NewClient(tmdb.Options{
			APIKey:  e.Config.APIKey,
			BaseURL: e.Config.APIBaseURL,
		})
		if e.catalogErr != nil {
			e.catalogErr = fmt.Errorf("init catalog client: %w", e.catalogErr)
		}
	})
	return e.catalog, e.catalogErr
}

// Close releases the store and flushes the logger.
func (e *Env) Close() error {
	err := e.KV.Close()
	_ = e.Logger.Sync()
	return err
}

// Run boots the movieflix TUI until the user quits or the context is
// cancelled.
func Run(ctx context.Context, opts Options) error {
	env, err := Setup(opts)
	if err != nil {
		return err
	}
	defer func() { _ = env.Close() }()

	catalog, err := env.Catalog()
	if err != nil {
		return err
	}

	log := env.Logger
	userPrefs := prefs.Load(opts.PrefsPath)
	store := &state.Store{}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	refresher := NewRefresher(store, catalog,
		time.Duration(env.Config.RefreshMinutes)*time.Minute, log.Named("feed"))
	done := refresher.Start(ctx)
	defer func() {
		cancel()
		<-done
	}()

	changes, stopWatch := watchStore(ctx, env.Config.StorePath(), log)
	defer stopWatch()

	log.Info("movieflix starting", zap.String("theme", userPrefs.Theme), zap.Bool("adult_filter", userPrefs.AdultFilter))

	err = ui.Run(ui.Options{
		Context:      ctx,
		Catalog:      catalog,
		ImageBaseURL: env.Config.ImageBaseURL,
		Library:      env.Library,
		Store:        store,
		Changes:      changes,
		Refresh:      refresher.Trigger,
		Logger:       log.Named("ui"),
		PollTick:     ui.DefaultUIInterval,
		Prefs:        userPrefs,
		PrefsPath:    opts.PrefsPath,
	})
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("run ui: %w", err)
	}
	return nil
}

// watchStore reports changes to the store file made by other processes. A
// watcher that cannot start is logged and yields a nil channel; the UI then
// only sees its own writes.
func watchStore(ctx context.Context, path string, log *zap.Logger) (<-chan struct{}, func()) {
	w, err := storage.NewWatcher(path)
	if err != nil {
		log.Warn("store watcher unavailable", zap.String("path", path), zap.Error(err))
		return nil, func() {}
	}

	ctx, cancel := context.WithCancel(ctx)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for {
			select {
			case <-ctx.Done():
				return
			case err := <-w.Errors():
				log.Warn("store watcher error", zap.Error(err))
			}
		}
	}()

	return w.Changes(), func() {
		cancel()
		_ = w.Close()
		wg.Wait()
	}
}
