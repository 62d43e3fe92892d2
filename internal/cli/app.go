// Package cli wires the startpage dependencies for the cobra commands.
package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/bnema/startpage/internal/application/usecase"
	"github.com/bnema/startpage/internal/cli/styles"
	"github.com/bnema/startpage/internal/domain/build"
	"github.com/bnema/startpage/internal/domain/engine"
	"github.com/bnema/startpage/internal/domain/repository"
	"github.com/bnema/startpage/internal/infrastructure/cache"
	"github.com/bnema/startpage/internal/infrastructure/clipboard"
	"github.com/bnema/startpage/internal/infrastructure/config"
	"github.com/bnema/startpage/internal/infrastructure/desktop"
	"github.com/bnema/startpage/internal/infrastructure/persistence/sqlite"
	"github.com/bnema/startpage/internal/infrastructure/proxyclient"
	"github.com/bnema/startpage/internal/logging"
)

const dataDirPerm = 0o755

// App holds CLI dependencies.
type App struct {
	Config    *config.Config
	Manager   *config.Manager
	Theme     *styles.Theme
	BuildInfo build.Info

	db       *sqlite.LazyDB
	Settings repository.SettingsRepository

	Suggestions *cache.SuggestionCache
	Proxy       *proxyclient.Client

	// Use cases
	EnginesUC   *usecase.ManageEnginesUseCase
	MetadataUC  *usecase.FetchMetadataUseCase
	TransferUC  *usecase.TransferSettingsUseCase
	ClipboardUC *usecase.ClipboardUseCase
	NavigateUC  *usecase.NavigateUseCase

	ctx        context.Context
	logCleanup func()
}

// Options tunes NewApp for the command being run.
type Options struct {
	// FileLog enables the rotating log file when the config asks for it.
	FileLog bool
}

// NewApp creates a new CLI application with all dependencies.
// The settings database is opened on first use.
func NewApp(opts Options) (*App, error) {
	mgr, cfg := loadConfig()
	theme := styles.NewTheme(cfg)

	logger, logCleanup, logErr := logging.NewWithFile(
		logging.Config{
			Level:      logging.ParseLevel(cfg.Logging.Level),
			Format:     cfg.Logging.Format,
			TimeFormat: "15:04:05",
		},
		logging.FileConfig{
			Enabled:       opts.FileLog && cfg.Logging.EnableFileLog,
			Dir:           cfg.Logging.LogDir,
			MaxSizeMB:     cfg.Logging.MaxSizeMB,
			MaxBackups:    cfg.Logging.MaxBackups,
			MaxAgeDays:    cfg.Logging.MaxAgeDays,
			Compress:      cfg.Logging.Compress,
			WriteToStderr: true,
		},
	)
	ctx := logging.WithContext(context.Background(), logger)
	if logErr != nil {
		logger.Warn().Err(logErr).Msg("file logging disabled")
	}

	dbFile := cfg.Database.Path
	if dbFile == "" {
		var err error
		if dbFile, err = config.GetDatabaseFile(); err != nil {
			return nil, fmt.Errorf("resolve database path: %w", err)
		}
	}
	if err := os.MkdirAll(filepath.Dir(dbFile), dataDirPerm); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	db := sqlite.NewLazyDB(dbFile)
	settings := sqlite.NewSettingsRepository(db)

	proxy := proxyclient.New(cfg.Proxy.BaseURL,
		proxyclient.WithSuggestTimeout(cfg.Proxy.ClientTimeout()),
		proxyclient.WithMetadataTimeout(cfg.Proxy.MetadataTimeout()),
	)

	enginesUC := usecase.NewManageEnginesUseCase(settings, engine.Builtins(), cfg.Search.FallbackEngine)
	opener := desktop.NewOpener()

	return &App{
		Config:      cfg,
		Manager:     mgr,
		Theme:       theme,
		db:          db,
		Settings:    settings,
		Suggestions: cache.NewSuggestionCache(cfg.Search.CacheSize),
		Proxy:       proxy,
		EnginesUC:   enginesUC,
		MetadataUC:  usecase.NewFetchMetadataUseCase(proxy, settings, cfg.Favicon.MaxAge(), cfg.Favicon.MaxEntries),
		TransferUC:  usecase.NewTransferSettingsUseCase(settings),
		ClipboardUC: usecase.NewClipboardUseCase(clipboard.New()),
		NavigateUC:  usecase.NewNavigateUseCase(opener, enginesUC),
		ctx:         ctx,
		logCleanup:  logCleanup,
	}, nil
}

// Registry returns the live engine registry built from stored settings.
func (a *App) Registry() *engine.Registry {
	return a.EnginesUC.Registry(a.ctx)
}

// Resolver builds the navigation resolver over reg.
func (a *App) Resolver(reg *engine.Registry) *usecase.ResolveNavigationUseCase {
	return usecase.NewResolveNavigationUseCase(reg, a.Config.Search.FallbackEngine, a.Config.Search.FallbackTemplate)
}

// SuggestionsUC builds the suggestion fetcher over reg, sharing the cache.
func (a *App) SuggestionsUC(reg *engine.Registry) *usecase.FetchSuggestionsUseCase {
	return usecase.NewFetchSuggestionsUseCase(reg, a.Proxy, a.Suggestions, a.Config.Search.MaxSuggestions)
}

// Renderer returns a renderer using the app theme.
func (a *App) Renderer() *styles.Renderer {
	return styles.NewRenderer(a.Theme)
}

// Debounce is the search box quiet period before a suggestion request.
func (a *App) Debounce() time.Duration {
	return a.Config.Search.Debounce()
}

// Close releases all resources.
func (a *App) Close() error {
	if a.logCleanup != nil {
		a.logCleanup()
	}
	if a.db != nil {
		return a.db.Close()
	}
	return nil
}

// Ctx returns the application context with logger.
func (a *App) Ctx() context.Context {
	return a.ctx
}

// loadConfig loads configuration from standard locations, falling back to
// defaults when the file cannot be read. The manager is nil in that case.
func loadConfig() (*config.Manager, *config.Config) {
	mgr, err := config.NewManager()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v (using defaults)\n", err)
		return nil, withDatabasePath(config.DefaultConfig())
	}

	if err := mgr.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "config: %v (using defaults)\n", err)
		return nil, withDatabasePath(config.DefaultConfig())
	}

	return mgr, mgr.Get()
}

func withDatabasePath(cfg *config.Config) *config.Config {
	if path, err := config.GetDatabaseFile(); err == nil {
		cfg.Database.Path = path
	}
	if dir, err := config.GetLogDir(); err == nil {
		cfg.Logging.LogDir = dir
	}
	return cfg
}
