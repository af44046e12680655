package app

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"time"

	"qlaunch/internal/clipboard"
	"qlaunch/internal/config"
	"qlaunch/internal/database"
	"qlaunch/internal/finder"
	apperrors "qlaunch/internal/infrastructure/errors"
	"qlaunch/internal/infrastructure/logging"
	"qlaunch/internal/platform"
	"qlaunch/internal/repository"
	"qlaunch/internal/translate"
)

const (
	connectTimeout  = 10 * time.Second
	migrateTimeout  = 30 * time.Second
	shutdownTimeout = 30 * time.Second
)

// FileSearcher finds files by name
type FileSearcher interface {
	Search(ctx context.Context, query string) ([]string, error)
}

// Translator translates text between languages
type Translator interface {
	Translate(ctx context.Context, text, from, to string) (string, error)
}

// App is the Wails-bound launcher backend
type App struct {
	ctx      context.Context
	settings *config.Settings
	logger   logging.Logger
	now      func() time.Time

	platform   platform.PlatformOps
	finder     FileSearcher
	translator Translator
	history    *clipboard.History
	watcher    *clipboard.Watcher
	reader     clipboard.Reader
	window     Window
	dbService  database.Service

	// set once the database is usable; nil means running without persistence
	mu        sync.RWMutex
	launches  repository.LaunchRepository
	clipStore repository.ClipboardRepository
	appPaths  map[string]string
}

// Option overrides a collaborator, mostly for tests
type Option func(*App)

// WithPlatform replaces the OS automation backend
func WithPlatform(ops platform.PlatformOps) Option {
	return func(a *App) { a.platform = ops }
}

// WithFinder replaces the file searcher
func WithFinder(f FileSearcher) Option {
	return func(a *App) { a.finder = f }
}

// WithTranslator replaces the translator
func WithTranslator(t Translator) Option {
	return func(a *App) { a.translator = t }
}

// WithClipboardReader replaces the system clipboard
func WithClipboardReader(r clipboard.Reader) Option {
	return func(a *App) { a.reader = r }
}

// WithWindow replaces the Wails window runtime
func WithWindow(w Window) Option {
	return func(a *App) { a.window = w }
}

// WithDatabase replaces the database service
func WithDatabase(svc database.Service) Option {
	return func(a *App) { a.dbService = svc }
}

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(a *App) { a.now = now }
}

// NewApp wires the launcher from settings. Collaborators not supplied as
// options are built for the running platform; an unsupported platform is
// an error.
func NewApp(settings *config.Settings, logger logging.Logger, opts ...Option) (*App, error) {
	if settings == nil {
		settings = config.Default("")
	}
	if logger == nil {
		logger = logging.NewDefaultLogger(logging.WithLevel(settings.Level()))
	}

	a := &App{
		settings: settings,
		logger:   logger,
		now:      time.Now,
		appPaths: make(map[string]string),
	}
	for _, opt := range opts {
		opt(a)
	}

	if a.platform == nil {
		ops, err := platform.NewPlatformOps(runtime.GOOS, nil, logger)
		if err != nil {
			return nil, err
		}
		a.platform = ops
	}
	if a.finder == nil {
		finderOpts := []finder.Option{finder.WithLogger(logger)}
		if len(settings.SearchRoots) > 0 {
			finderOpts = append(finderOpts, finder.WithRoots(settings.SearchRoots...))
		}
		a.finder = finder.New(finderOpts...)
	}
	if a.translator == nil {
		a.translator = translate.New(settings.Translate, logger)
	}
	if a.window == nil {
		a.window = wailsWindow{}
	}
	if a.dbService == nil {
		a.dbService = database.NewSQLiteService(logger)
	}

	a.history = clipboard.NewHistory(settings.Clipboard.Capacity)
	a.watcher = clipboard.NewWatcher(a.history, a.reader, settings.Clipboard.PollInterval, logger)
	return a, nil
}

// Startup is called by Wails once the window exists
func (a *App) Startup(ctx context.Context) {
	a.ctx = ctx

	if err := a.initializeDatabase(ctx); err != nil {
		logging.LogError(a.logger, err, "startup", nil)
		a.logger.Warn("Continuing without database persistence; launch counts and clipboard history will not be saved")
	}
	a.restoreClipboardHistory(ctx)
	a.watcher.Start(ctx)

	a.logger.Info("Application started", "environment", a.settings.Environment, "platform", runtime.GOOS)
}

// initializeDatabase connects, migrates and prunes old launch history
func (a *App) initializeDatabase(ctx context.Context) error {
	if a.dbService == nil || a.settings.Database == nil {
		return apperrors.HandleConnectionError("startup", "database service not initialized")
	}

	connectCtx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()
	if err := a.dbService.Connect(connectCtx, a.settings.Database); err != nil {
		return err
	}

	if a.settings.Database.AutoMigrate {
		migrateCtx, cancel := context.WithTimeout(ctx, migrateTimeout)
		defer cancel()
		if err := a.dbService.Migrate(migrateCtx); err != nil {
			if closeErr := a.dbService.Close(); closeErr != nil {
				a.logger.Debug("Failed to close database after migration failure", "error", closeErr)
			}
			return err
		}
	}

	repo := repository.NewSQLiteRepository(a.dbService, a.logger)
	a.mu.Lock()
	a.launches = repo
	a.clipStore = repo
	a.mu.Unlock()

	if retention := a.settings.Database.Retention(); retention > 0 {
		if _, err := repo.DeleteLaunchesBefore(ctx, a.now().Add(-retention)); err != nil {
			a.logger.Warn("Failed to prune launch history", "error", err)
		}
	}
	return nil
}

func (a *App) restoreClipboardHistory(ctx context.Context) {
	store := a.clipboardStore()
	if store == nil {
		return
	}
	entries, err := store.LoadClipboardHistory(ctx)
	if err != nil {
		a.logger.Warn("Failed to restore clipboard history", "error", err)
		return
	}
	items := make([]string, 0, len(entries))
	for _, e := range entries {
		items = append(items, e.Content)
	}
	a.history.Restore(items)
	a.logger.Debug("Clipboard history restored", "items", a.history.Len())
}

// DomReady is called after front-end resources have been loaded
func (a *App) DomReady(ctx context.Context) {}

// BeforeClose is called when the application is about to quit
func (a *App) BeforeClose(ctx context.Context) (prevent bool) {
	return false
}

// Shutdown stops the watcher, saves the clipboard history and closes the
// database
func (a *App) Shutdown(ctx context.Context) {
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	a.watcher.Stop()

	if store := a.clipboardStore(); store != nil {
		if err := store.SaveClipboardHistory(shutdownCtx, a.history.Items()); err != nil {
			a.logger.Warn("Failed to persist clipboard history", "error", err)
		}
	}

	if err := a.closeDatabaseConnection(shutdownCtx); err != nil {
		logging.LogError(a.logger, err, "shutdown", nil)
	}
	a.logger.Info("Application shutdown completed")
}

// closeDatabaseConnection closes the database, giving up when ctx expires
func (a *App) closeDatabaseConnection(ctx context.Context) error {
	a.mu.Lock()
	connected := a.launches != nil
	a.launches, a.clipStore = nil, nil
	a.mu.Unlock()
	if !connected {
		return nil
	}

	done := make(chan error, 1)
	go func() { done <- a.dbService.Close() }()

	select {
	case err := <-done:
		if err != nil {
			return apperrors.WrapWithContext("shutdown", err, map[string]string{"operation": "close_connection"})
		}
		return nil
	case <-ctx.Done():
		return apperrors.New("shutdown", fmt.Errorf("database close timed out: %w", ctx.Err()), apperrors.ErrCodeTimeout)
	}
}

func (a *App) launchStore() repository.LaunchRepository {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.launches
}

func (a *App) clipboardStore() repository.ClipboardRepository {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.clipStore
}

// context returns the Wails context, or Background before Startup
func (a *App) context() context.Context {
	if a.ctx != nil {
		return a.ctx
	}
	return context.Background()
}

// GetLogger returns the application's structured logger
func (a *App) GetLogger() logging.Logger {
	return a.logger
}

// uiError carries the full error for callers while rendering only the
// human-readable message, which Wails hands to the frontend
type uiError struct {
	err error
}

func (e uiError) Error() string {
	var appErr *apperrors.AppError
	if errors.As(e.err, &appErr) {
		return appErr.Message()
	}
	return e.err.Error()
}

func (e uiError) Unwrap() error { return e.err }

func present(err error) error {
	if err == nil {
		return nil
	}
	return uiError{err: err}
}
