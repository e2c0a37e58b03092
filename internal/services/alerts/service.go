// Package alerts owns one-shot price alerts and evaluates them against fetched prices.
package alerts

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/cryptodash/internal/common"
	"github.com/bobmcallan/cryptodash/internal/interfaces"
	"github.com/bobmcallan/cryptodash/internal/models"
	"github.com/bobmcallan/cryptodash/internal/notify"
	"github.com/bobmcallan/cryptodash/internal/storage"
	"github.com/bobmcallan/cryptodash/internal/validate"
)

var _ interfaces.AlertService = (*Service)(nil)

var (
	// ErrAlertNotFound is returned for an unknown alert id.
	ErrAlertNotFound = errors.New("alert not found")
	// ErrAlertNotActive is returned when changing the rule of a triggered or disabled alert.
	ErrAlertNotActive = errors.New("alert is not active")
)

// TriggerDuration is how long a trigger notification stays visible.
const TriggerDuration = 5 * time.Second

const (
	msgCreated    = "Alert created successfully!"
	msgUpdated    = "Alert updated!"
	msgDeleted    = "Alert deleted!"
	msgDisabled   = "Alert disabled!"
	msgSaveFailed = "Could not save alerts. Changes are kept for this session only."
)

// Service implements AlertService
type Service struct {
	store    interfaces.KVStore
	market   interfaces.CoinFetcher
	notifier interfaces.Notifier
	logger   *common.Logger
	currency string
	now      func() time.Time

	mu     sync.RWMutex
	alerts []models.Alert
}

// Option configures the service
type Option func(*Service)

// WithCurrency sets the vs-currency used by RefreshAndEvaluate
func WithCurrency(vs string) Option {
	return func(s *Service) {
		if vs != "" {
			s.currency = vs
		}
	}
}

// WithClock overrides time.Now
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		s.now = now
	}
}

// NewService creates a new alert service. market may be nil when alerts are
// only fed through ObservePrices.
func NewService(store interfaces.KVStore, market interfaces.CoinFetcher, notifier interfaces.Notifier, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		market:   market,
		notifier: notifier,
		logger:   logger,
		currency: "usd",
		now:      time.Now,
		alerts:   []models.Alert{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init loads persisted alerts. A blob with an unknown status is treated as corrupt.
func (s *Service) Init(ctx context.Context) error {
	var loaded []models.Alert
	found, err := storage.LoadJSON(ctx, s.store, storage.KeyAlerts, &loaded)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Msg("Alerts blob unreadable, starting empty")
		s.alerts = []models.Alert{}
	case !found || loaded == nil:
		s.alerts = []models.Alert{}
	default:
		s.alerts = loaded
	}

	s.logger.Info().Int("alerts", len(s.alerts)).Msg("Alerts loaded")
	return nil
}

func (s *Service) persistLocked(ctx context.Context) {
	if err := storage.SaveJSON(ctx, s.store, storage.KeyAlerts, s.alerts); err != nil {
		s.logger.Error().Err(err).Str("key", storage.KeyAlerts).Msg("Failed to persist alerts")
		notify.Error(s.notifier, msgSaveFailed)
	}
}

func (s *Service) indexLocked(id string) int {
	for i, a := range s.alerts {
		if a.ID == id {
			return i
		}
	}
	return -1
}

// CreateAlert stores a new active alert.
func (s *Service) CreateAlert(ctx context.Context, input models.AlertInput) (*models.Alert, error) {
	if err := validate.Alert(input); err != nil {
		return nil, err
	}

	a := models.Alert{
		ID:          uuid.NewString(),
		CoinID:      input.CoinID,
		CoinName:    input.CoinName,
		Type:        input.Type,
		TargetPrice: input.TargetPrice,
		Status:      models.AlertActive,
		CreatedAt:   s.now().UTC(),
	}

	s.mu.Lock()
	s.alerts = append(s.alerts, a)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Info().Str("id", a.ID).Str("coin_id", a.CoinID).Str("type", string(a.Type)).Float64("target", a.TargetPrice).Msg("Alert created")
	notify.Success(s.notifier, msgCreated)
	return &a, nil
}

// UpdateAlert changes the rule of an active alert. CoinName may change in any state.
func (s *Service) UpdateAlert(ctx context.Context, id string, update models.AlertUpdate) error {
	fields := map[string]string{}
	if update.Type != nil && !update.Type.Valid() {
		fields["type"] = "Alert type must be price_above or price_below"
	}
	if update.TargetPrice != nil {
		if err := validate.Price(*update.TargetPrice); err != nil {
			fields["targetPrice"] = err.Error()
		}
	}
	if len(fields) > 0 {
		return &validate.ValidationError{Fields: fields}
	}

	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("failed to update alert '%s': %w", id, ErrAlertNotFound)
	}
	a := &s.alerts[idx]
	if (update.Type != nil || update.TargetPrice != nil) && !a.IsActive() {
		s.mu.Unlock()
		return fmt.Errorf("failed to update alert '%s' (%s): %w", id, a.Status, ErrAlertNotActive)
	}
	if update.Type != nil {
		a.Type = *update.Type
	}
	if update.TargetPrice != nil {
		a.TargetPrice = *update.TargetPrice
	}
	if update.CoinName != nil {
		a.CoinName = *update.CoinName
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Info().Str("id", id).Msg("Alert updated")
	notify.Success(s.notifier, msgUpdated)
	return nil
}

// DeleteAlert removes the alert. Unknown ids are a no-op.
func (s *Service) DeleteAlert(ctx context.Context, id string) {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.alerts = append(s.alerts[:idx], s.alerts[idx+1:]...)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Info().Str("id", id).Msg("Alert deleted")
	notify.Success(s.notifier, msgDeleted)
}

// DisableAlert stops evaluating an active alert.
func (s *Service) DisableAlert(ctx context.Context, id string) error {
	s.mu.Lock()
	idx := s.indexLocked(id)
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("failed to disable alert '%s': %w", id, ErrAlertNotFound)
	}
	if err := s.alerts[idx].Disable(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Info().Str("id", id).Msg("Alert disabled")
	notify.Success(s.notifier, msgDisabled)
	return nil
}

// Alerts returns a copy of every alert.
func (s *Service) Alerts() []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Alert, len(s.alerts))
	copy(out, s.alerts)
	return out
}

// ActiveAlerts returns the alerts still being evaluated.
func (s *Service) ActiveAlerts() []models.Alert {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := []models.Alert{}
	for _, a := range s.alerts {
		if a.IsActive() {
			out = append(out, a)
		}
	}
	return out
}

// Evaluate checks every active alert against coins and triggers those whose
// threshold is crossed. Alerts for coins absent from coins are skipped.
// The newly triggered alerts are returned; each one is notified once.
func (s *Service) Evaluate(ctx context.Context, coins []models.CoinMarket) []models.Alert {
	if len(coins) == 0 {
		return nil
	}
	byID := make(map[string]models.CoinMarket, len(coins))
	for _, c := range coins {
		byID[c.ID] = c
	}

	type fired struct {
		alert models.Alert
		coin  models.CoinMarket
	}
	var triggered []fired

	s.mu.Lock()
	at := s.now().UTC()
	for i := range s.alerts {
		a := &s.alerts[i]
		if !a.IsActive() {
			continue
		}
		coin, ok := byID[a.CoinID]
		if !ok || !a.Type.Crossed(coin.CurrentPrice, a.TargetPrice) {
			continue
		}
		if err := a.Trigger(at); err != nil {
			continue
		}
		triggered = append(triggered, fired{alert: *a, coin: coin})
	}
	if len(triggered) > 0 {
		s.persistLocked(ctx)
	}
	s.mu.Unlock()

	out := make([]models.Alert, 0, len(triggered))
	for _, f := range triggered {
		s.logger.Info().
			Str("id", f.alert.ID).
			Str("coin_id", f.alert.CoinID).
			Float64("price", f.coin.CurrentPrice).
			Float64("target", f.alert.TargetPrice).
			Msg("Alert triggered")
		s.notifier.Notify(triggerNotification(f.alert, f.coin))
		out = append(out, f.alert)
	}
	return out
}

func triggerNotification(a models.Alert, coin models.CoinMarket) models.Notification {
	name := coin.Name
	if name == "" {
		name = a.CoinName
	}
	if name == "" {
		name = a.CoinID
	}
	target := strconv.FormatFloat(a.TargetPrice, 'f', -1, 64)

	if a.Type == models.AlertPriceBelow {
		return notify.New(models.SeverityWarning, fmt.Sprintf("%s dropped to $%s!", name, target), TriggerDuration)
	}
	return notify.New(models.SeveritySuccess, fmt.Sprintf("%s reached $%s!", name, target), TriggerDuration)
}

// ObservePrices evaluates alerts against a coin set fetched by another store.
func (s *Service) ObservePrices(ctx context.Context, coins []models.CoinMarket) {
	s.Evaluate(ctx, coins)
}

// RefreshAndEvaluate fetches prices for coins with active alerts and evaluates them.
func (s *Service) RefreshAndEvaluate(ctx context.Context) error {
	if s.market == nil {
		return nil
	}

	seen := map[string]bool{}
	var ids []string
	for _, a := range s.ActiveAlerts() {
		if !seen[a.CoinID] {
			seen[a.CoinID] = true
			ids = append(ids, a.CoinID)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	coins, err := s.market.GetCoinsByIDs(ctx, ids, models.MarketsParams{
		VsCurrency:            s.currency,
		PriceChangePercentage: "24h",
	})
	if err != nil {
		s.logger.Warn().Err(err).Int("coins", len(ids)).Msg("Alert price refresh failed")
		return err
	}
	s.Evaluate(ctx, coins)
	return nil
}

func (s *Service) Close() error {
	return nil
}
