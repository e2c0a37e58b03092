package interfaces

import (
	"context"

	"github.com/bobmcallan/cryptodash/internal/models"
)

// Notifier receives transient user-visible notifications.
type Notifier interface {
	Notify(n models.Notification)
}

// PriceObserver is told about every successfully fetched coin set.
type PriceObserver interface {
	ObservePrices(ctx context.Context, coins []models.CoinMarket)
}

// PortfolioService owns the holding list.
type PortfolioService interface {
	Init(ctx context.Context) error
	AddAsset(ctx context.Context, input models.HoldingInput) (*models.Holding, error)
	RemoveAsset(ctx context.Context, id string)
	UpdateAsset(ctx context.Context, id string, update models.HoldingUpdate) error
	ClearPortfolio(ctx context.Context)
	Holdings() []models.Holding
	RefreshPrices(ctx context.Context) error
	TrackedIDs() []string
	Close() error
}

// WatchlistService owns the watched coin id set.
type WatchlistService interface {
	Init(ctx context.Context) error
	AddToWatchlist(ctx context.Context, coinID string) error
	RemoveFromWatchlist(ctx context.Context, coinID string)
	ToggleWatchlist(ctx context.Context, coinID string) error
	IsInWatchlist(coinID string) bool
	ClearWatchlist(ctx context.Context)
	Items() []string
	MarketData() []models.CoinMarket
	RefreshMarketData(ctx context.Context) error
	Close() error
}

// AlertService owns price alerts and evaluates them.
type AlertService interface {
	PriceObserver
	Init(ctx context.Context) error
	CreateAlert(ctx context.Context, input models.AlertInput) (*models.Alert, error)
	UpdateAlert(ctx context.Context, id string, update models.AlertUpdate) error
	DeleteAlert(ctx context.Context, id string)
	DisableAlert(ctx context.Context, id string) error
	Alerts() []models.Alert
	ActiveAlerts() []models.Alert
	Evaluate(ctx context.Context, coins []models.CoinMarket) []models.Alert
	RefreshAndEvaluate(ctx context.Context) error
	Close() error
}

// PreferencesService owns display preferences.
type PreferencesService interface {
	Init(ctx context.Context) error
	Theme() models.Theme
	SetTheme(ctx context.Context, theme models.Theme) error
	ToggleTheme(ctx context.Context) models.Theme
	Currency() string
	SetCurrency(ctx context.Context, currency string) error
}
