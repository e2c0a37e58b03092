package app

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bobmcallan/cryptodash/internal/clients/coingecko"
	"github.com/bobmcallan/cryptodash/internal/common"
	"github.com/bobmcallan/cryptodash/internal/interfaces"
	"github.com/bobmcallan/cryptodash/internal/notify"
	"github.com/bobmcallan/cryptodash/internal/scheduler"
	"github.com/bobmcallan/cryptodash/internal/services/alerts"
	"github.com/bobmcallan/cryptodash/internal/services/portfolio"
	"github.com/bobmcallan/cryptodash/internal/services/preferences"
	"github.com/bobmcallan/cryptodash/internal/services/watchlist"
	"github.com/bobmcallan/cryptodash/internal/storage"
)

// App holds the storage, market client, stores and schedulers for one
// data directory. It is built once and shared by every command.
type App struct {
	Config      *common.Config
	Logger      *common.Logger
	Store       interfaces.KVStore
	Market      interfaces.MarketDataClient
	Notifier    interfaces.Notifier
	Portfolio   *portfolio.Service
	Watchlist   *watchlist.Service
	Alerts      *alerts.Service
	Preferences *preferences.Service
	StartupTime time.Time

	mu        sync.Mutex
	scheduler *scheduler.Group
	closed    bool
}

// Option customises NewAppFromConfig
type Option func(*options)

type options struct {
	logger   *common.Logger
	market   interfaces.MarketDataClient
	notifier interfaces.Notifier
	output   io.Writer
}

// WithLogger replaces the logger built from [logging]
func WithLogger(l *common.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithMarketClient replaces the CoinGecko client
func WithMarketClient(c interfaces.MarketDataClient) Option {
	return func(o *options) { o.market = c }
}

// WithNotifier replaces the console notifier
func WithNotifier(n interfaces.Notifier) Option {
	return func(o *options) { o.notifier = n }
}

// WithOutput sets where the console notifier writes (default stdout)
func WithOutput(w io.Writer) Option {
	return func(o *options) { o.output = w }
}

// getBinaryDir returns the directory containing the executable.
func getBinaryDir() string {
	exe, err := os.Executable()
	if err != nil {
		return "."
	}
	return filepath.Dir(exe)
}

// ResolveConfigPath picks the config file: the given path, CRYPTODASH_CONFIG,
// cryptodash.toml next to the binary, then config/cryptodash.toml.
func ResolveConfigPath(configPath string) string {
	if configPath == "" {
		configPath = os.Getenv("CRYPTODASH_CONFIG")
	}
	if configPath == "" {
		configPath = filepath.Join(getBinaryDir(), "cryptodash.toml")
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			configPath = "config/cryptodash.toml"
		}
	}
	return configPath
}

// NewApp loads configuration and initialises everything.
// configPath may be empty, in which case ResolveConfigPath applies.
func NewApp(configPath string, opts ...Option) (*App, error) {
	config, err := common.LoadConfig(ResolveConfigPath(configPath))
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewAppFromConfig(config, opts...)
}

// NewAppFromConfig builds the App from an already loaded config.
func NewAppFromConfig(config *common.Config, opts ...Option) (*App, error) {
	startupStart := time.Now()

	o := options{output: os.Stdout}
	for _, opt := range opts {
		opt(&o)
	}

	logger := o.logger
	if logger == nil {
		logger = common.NewLoggerFromConfig(config.Logging)
	}

	store, err := storage.NewStore(logger, config.Storage)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	market := o.market
	if market == nil {
		market = coingecko.NewClientFromConfig(config.Clients.CoinGecko, logger)
	}

	notifier := o.notifier
	if notifier == nil {
		notifier = notify.NewConsole(o.output, logger)
	}

	ctx := context.Background()

	prefs := preferences.NewService(store, notifier, logger, config.Currency)
	if err := prefs.Init(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load preferences: %w", err)
	}
	currency := prefs.Currency()

	alertService := alerts.NewService(store, market, notifier, logger, alerts.WithCurrency(currency))
	portfolioService := portfolio.NewService(store, market, notifier, logger,
		portfolio.WithCurrency(currency),
		portfolio.WithObserver(alertService),
	)
	watchlistService := watchlist.NewService(store, market, notifier, logger,
		watchlist.WithCurrency(currency),
		watchlist.WithObserver(alertService),
	)

	for _, st := range []struct {
		name string
		init func(context.Context) error
	}{
		{"portfolio", portfolioService.Init},
		{"watchlist", watchlistService.Init},
		{"alerts", alertService.Init},
	} {
		if err := st.init(ctx); err != nil {
			store.Close()
			return nil, fmt.Errorf("failed to load %s: %w", st.name, err)
		}
	}

	a := &App{
		Config:      config,
		Logger:      logger,
		Store:       store,
		Market:      market,
		Notifier:    notifier,
		Portfolio:   portfolioService,
		Watchlist:   watchlistService,
		Alerts:      alertService,
		Preferences: prefs,
		StartupTime: startupStart,
	}

	logger.Info().
		Str("backend", config.Storage.Backend).
		Str("currency", currency).
		Dur("startup", time.Since(startupStart)).
		Msg("App initialized")

	return a, nil
}

// StartSchedulers launches the periodic refresh of every store.
// It does nothing when already started.
func (a *App) StartSchedulers(ctx context.Context) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.scheduler != nil || a.closed {
		return
	}
	a.scheduler = scheduler.NewGroup(refreshJobs(a), a.Config.Refresh.GetInterval(), a.Config.Refresh.Coalesce, a.Logger)
	a.scheduler.Start(ctx)
}

// Scheduler returns the running scheduler group, or nil.
func (a *App) Scheduler() *scheduler.Group {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.scheduler
}

// Close releases all resources held by the App.
// Shutdown order: stop schedulers, drain background refreshes, close storage.
func (a *App) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	group := a.scheduler
	a.scheduler = nil
	a.mu.Unlock()

	if group != nil {
		group.Stop()
	}
	a.Portfolio.Close()
	a.Watchlist.Close()
	a.Alerts.Close()
	if err := a.Store.Close(); err != nil {
		a.Logger.Warn().Err(err).Msg("Failed to close storage")
	}
}
