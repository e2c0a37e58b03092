// Package portfolio owns the holding list: mutations, persistence and price refresh.
package portfolio

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/bobmcallan/cryptodash/internal/common"
	"github.com/bobmcallan/cryptodash/internal/interfaces"
	"github.com/bobmcallan/cryptodash/internal/models"
	"github.com/bobmcallan/cryptodash/internal/notify"
	"github.com/bobmcallan/cryptodash/internal/storage"
	"github.com/bobmcallan/cryptodash/internal/validate"
	"github.com/bobmcallan/cryptodash/internal/valuation"
)

// Compile-time interface check
var _ interfaces.PortfolioService = (*Service)(nil)

// ErrHoldingNotFound is returned by UpdateAsset for an unknown id.
var ErrHoldingNotFound = errors.New("holding not found")

// Notification messages.
const (
	msgAdded      = "Asset added to portfolio!"
	msgMerged     = "Asset updated in portfolio!"
	msgRemoved    = "Asset removed from portfolio!"
	msgUpdated    = "Asset updated!"
	msgCleared    = "Portfolio cleared!"
	msgSaveFailed = "Could not save portfolio. Changes are kept for this session only."
)

// Service implements PortfolioService
type Service struct {
	store    interfaces.KVStore
	market   interfaces.CoinFetcher
	notifier interfaces.Notifier
	observer interfaces.PriceObserver
	logger   *common.Logger
	currency string
	now      func() time.Time

	mu       sync.RWMutex
	holdings []models.Holding
	applied  uint64 // sequence of the last applied refresh, guarded by mu

	seq        atomic.Uint64
	background sync.WaitGroup
}

// Option configures the service
type Option func(*Service)

// WithObserver registers a hook told about every applied price refresh
func WithObserver(o interfaces.PriceObserver) Option {
	return func(s *Service) {
		s.observer = o
	}
}

// WithCurrency sets the vs-currency prices are fetched in
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

// NewService creates a new portfolio service
func NewService(store interfaces.KVStore, market interfaces.CoinFetcher, notifier interfaces.Notifier, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		market:   market,
		notifier: notifier,
		logger:   logger,
		currency: "usd",
		now:      time.Now,
		holdings: []models.Holding{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init loads the persisted holdings. A missing or corrupt blob yields an empty portfolio.
func (s *Service) Init(ctx context.Context) error {
	var loaded []models.Holding
	found, err := storage.LoadJSON(ctx, s.store, storage.KeyPortfolio, &loaded)

	s.mu.Lock()
	defer s.mu.Unlock()
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Msg("Portfolio blob unreadable, starting empty")
		s.holdings = []models.Holding{}
	case !found || loaded == nil:
		s.holdings = []models.Holding{}
	default:
		s.holdings = loaded
	}

	s.logger.Info().Int("holdings", len(s.holdings)).Msg("Portfolio loaded")
	return nil
}

// persistLocked writes the holding list. Caller holds mu.
// Failures are logged and reported; in-memory state is kept.
func (s *Service) persistLocked(ctx context.Context, notifyFailure bool) {
	if err := storage.SaveJSON(ctx, s.store, storage.KeyPortfolio, s.holdings); err != nil {
		s.logger.Error().Err(err).Str("key", storage.KeyPortfolio).Msg("Failed to persist portfolio")
		if notifyFailure {
			notify.Error(s.notifier, msgSaveFailed)
		}
	}
}

func (s *Service) indexLocked(match func(models.Holding) bool) int {
	for i, h := range s.holdings {
		if match(h) {
			return i
		}
	}
	return -1
}

// AddAsset adds a holding, or merges into the existing holding for the same coin
// by volume-weighted average cost. A price refresh is started in the background.
// Only validation errors are returned.
func (s *Service) AddAsset(ctx context.Context, input models.HoldingInput) (*models.Holding, error) {
	if err := validate.PortfolioAsset(input, s.now()); err != nil {
		return nil, err
	}

	s.mu.Lock()
	var result models.Holding
	if idx := s.indexLocked(func(h models.Holding) bool { return h.CoinID == input.CoinID }); idx >= 0 {
		h := &s.holdings[idx]
		h.Amount, h.BuyPrice = valuation.MergeCost(h.Amount, h.BuyPrice, input.Amount, input.BuyPrice)
		result = *h
		s.persistLocked(ctx, true)
		s.mu.Unlock()

		s.logger.Info().Str("coin_id", input.CoinID).Float64("amount", result.Amount).Float64("buy_price", result.BuyPrice).Msg("Holding merged")
		notify.Success(s.notifier, msgMerged)
	} else {
		result = models.Holding{
			ID:           uuid.NewString(),
			CoinID:       input.CoinID,
			Name:         input.Name,
			Symbol:       input.Symbol,
			Image:        input.Image,
			Amount:       input.Amount,
			BuyPrice:     input.BuyPrice,
			PurchaseDate: input.PurchaseDate,
			AddedAt:      s.now().UTC(),
		}
		s.holdings = append(s.holdings, result)
		s.persistLocked(ctx, true)
		s.mu.Unlock()

		s.logger.Info().Str("coin_id", input.CoinID).Str("id", result.ID).Msg("Holding added")
		notify.Success(s.notifier, msgAdded)
	}

	s.refreshInBackground()
	return &result, nil
}

// refreshInBackground issues a user-triggered refresh. Its transport error is
// surfaced as one error notification.
func (s *Service) refreshInBackground() {
	s.background.Add(1)
	go func() {
		defer s.background.Done()
		if err := s.RefreshPrices(context.Background()); err != nil {
			notify.Error(s.notifier, err.Error())
		}
	}()
}

// RemoveAsset removes the holding with the given id. Unknown ids are a no-op.
func (s *Service) RemoveAsset(ctx context.Context, id string) {
	s.mu.Lock()
	idx := s.indexLocked(func(h models.Holding) bool { return h.ID == id })
	if idx < 0 {
		s.mu.Unlock()
		s.logger.Debug().Str("id", id).Msg("Remove of unknown holding ignored")
		return
	}
	coinID := s.holdings[idx].CoinID
	s.holdings = append(s.holdings[:idx], s.holdings[idx+1:]...)
	s.persistLocked(ctx, true)
	s.mu.Unlock()

	s.logger.Info().Str("id", id).Str("coin_id", coinID).Msg("Holding removed")
	notify.Success(s.notifier, msgRemoved)
}

// UpdateAsset shallow-merges update into the holding with the given id.
func (s *Service) UpdateAsset(ctx context.Context, id string, update models.HoldingUpdate) error {
	fields := map[string]string{}
	if update.Amount != nil {
		if err := validate.Amount(*update.Amount); err != nil {
			fields["amount"] = err.Error()
		}
	}
	if update.BuyPrice != nil {
		if err := validate.Price(*update.BuyPrice); err != nil {
			fields["buyPrice"] = err.Error()
		}
	}
	if update.PurchaseDate != nil {
		if err := validate.Date(update.PurchaseDate.Time, s.now()); err != nil {
			fields["date"] = err.Error()
		}
	}
	if len(fields) > 0 {
		return &validate.ValidationError{Fields: fields}
	}

	s.mu.Lock()
	idx := s.indexLocked(func(h models.Holding) bool { return h.ID == id })
	if idx < 0 {
		s.mu.Unlock()
		return fmt.Errorf("failed to update '%s': %w", id, ErrHoldingNotFound)
	}
	update.Apply(&s.holdings[idx])
	s.persistLocked(ctx, true)
	s.mu.Unlock()

	s.logger.Info().Str("id", id).Msg("Holding updated")
	notify.Success(s.notifier, msgUpdated)
	return nil
}

// ClearPortfolio removes every holding.
func (s *Service) ClearPortfolio(ctx context.Context) {
	s.mu.Lock()
	s.holdings = []models.Holding{}
	s.persistLocked(ctx, true)
	s.mu.Unlock()

	s.logger.Info().Msg("Portfolio cleared")
	notify.Success(s.notifier, msgCleared)
}

// Holdings returns a copy of the current holdings.
func (s *Service) Holdings() []models.Holding {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Holding, len(s.holdings))
	copy(out, s.holdings)
	return out
}

// Find returns the holding with the given id or coin id.
func (s *Service) Find(idOrCoinID string) (models.Holding, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idx := s.indexLocked(func(h models.Holding) bool { return h.ID == idOrCoinID || h.CoinID == idOrCoinID })
	if idx < 0 {
		return models.Holding{}, false
	}
	return s.holdings[idx], true
}

// Summary computes the headline figures over the current snapshot.
func (s *Service) Summary() valuation.Summary {
	return valuation.Summarize(s.Holdings())
}

// TrackedIDs returns the coin ids of all holdings in portfolio order.
func (s *Service) TrackedIDs() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make([]string, len(s.holdings))
	for i, h := range s.holdings {
		ids[i] = h.CoinID
	}
	return ids
}

// RefreshPrices fetches prices for every held coin in one batched request and
// merges them in. A response older than the last applied one is discarded.
// On failure existing prices are left untouched and the TransportError is returned.
func (s *Service) RefreshPrices(ctx context.Context) error {
	ids := s.TrackedIDs()
	if len(ids) == 0 {
		return nil
	}

	seq := s.seq.Add(1)
	coins, err := s.market.GetCoinsByIDs(ctx, ids, models.MarketsParams{
		VsCurrency:            s.currency,
		PriceChangePercentage: "24h",
	})
	if err != nil {
		s.logger.Warn().Err(err).Uint64("seq", seq).Int("coins", len(ids)).Msg("Portfolio price refresh failed")
		return err
	}

	if !s.applyPrices(ctx, seq, coins) {
		return nil
	}
	if s.observer != nil {
		s.observer.ObservePrices(ctx, coins)
	}
	return nil
}

// applyPrices merges fetched prices into matching holdings unless seq is stale.
func (s *Service) applyPrices(ctx context.Context, seq uint64, coins []models.CoinMarket) bool {
	byID := make(map[string]models.CoinMarket, len(coins))
	for _, c := range coins {
		byID[c.ID] = c
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.applied {
		s.logger.Debug().Uint64("seq", seq).Uint64("applied", s.applied).Msg("Stale portfolio refresh discarded")
		return false
	}
	s.applied = seq

	updated := 0
	for i := range s.holdings {
		c, ok := byID[s.holdings[i].CoinID]
		if !ok {
			continue
		}
		h := &s.holdings[i]
		h.CurrentPrice = c.CurrentPrice
		h.PriceChangePercent24h = c.PriceChangePercentage24h
		if c.Image != "" {
			h.Image = c.Image
		}
		if c.Symbol != "" {
			h.Symbol = c.Symbol
		}
		if c.Name != "" {
			h.Name = c.Name
		}
		updated++
	}
	s.persistLocked(ctx, false)

	s.logger.Debug().Uint64("seq", seq).Int("updated", updated).Msg("Portfolio prices applied")
	return true
}

// Close waits for background refreshes started by AddAsset.
func (s *Service) Close() error {
	s.background.Wait()
	return nil
}
