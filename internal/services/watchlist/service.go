// Package watchlist owns the set of watched coin ids and their market snapshot.
package watchlist

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/bobmcallan/cryptodash/internal/common"
	"github.com/bobmcallan/cryptodash/internal/interfaces"
	"github.com/bobmcallan/cryptodash/internal/models"
	"github.com/bobmcallan/cryptodash/internal/notify"
	"github.com/bobmcallan/cryptodash/internal/storage"
	"github.com/bobmcallan/cryptodash/internal/validate"
)

var _ interfaces.WatchlistService = (*Service)(nil)

const (
	msgDuplicate  = "Already in watchlist!"
	msgAdded      = "Added to watchlist!"
	msgRemoved    = "Removed from watchlist!"
	msgCleared    = "Watchlist cleared!"
	msgSaveFailed = "Could not save watchlist. Changes are kept for this session only."
)

// Service implements WatchlistService
type Service struct {
	store    interfaces.KVStore
	market   interfaces.CoinFetcher
	notifier interfaces.Notifier
	observer interfaces.PriceObserver
	logger   *common.Logger
	currency string

	mu       sync.RWMutex
	items    []string
	snapshot map[string]models.CoinMarket // last fetched, not persisted
	applied  uint64

	seq atomic.Uint64
}

// Option configures the service
type Option func(*Service)

// WithObserver registers a hook told about every applied market refresh
func WithObserver(o interfaces.PriceObserver) Option {
	return func(s *Service) {
		s.observer = o
	}
}

// WithCurrency sets the vs-currency market data is fetched in
func WithCurrency(vs string) Option {
	return func(s *Service) {
		if vs != "" {
			s.currency = vs
		}
	}
}

// NewService creates a new watchlist service
func NewService(store interfaces.KVStore, market interfaces.CoinFetcher, notifier interfaces.Notifier, logger *common.Logger, opts ...Option) *Service {
	s := &Service{
		store:    store,
		market:   market,
		notifier: notifier,
		logger:   logger,
		currency: "usd",
		items:    []string{},
		snapshot: map[string]models.CoinMarket{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Init loads the persisted watchlist. A missing or corrupt blob yields an empty list.
func (s *Service) Init(ctx context.Context) error {
	var loaded []string
	found, err := storage.LoadJSON(ctx, s.store, storage.KeyWatchlist, &loaded)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = []string{}
	switch {
	case err != nil:
		s.logger.Warn().Err(err).Msg("Watchlist blob unreadable, starting empty")
	case found:
		seen := make(map[string]bool, len(loaded))
		for _, id := range loaded {
			if id == "" || seen[id] {
				continue
			}
			seen[id] = true
			s.items = append(s.items, id)
		}
	}

	s.logger.Info().Int("coins", len(s.items)).Msg("Watchlist loaded")
	return nil
}

func (s *Service) persistLocked(ctx context.Context) {
	if err := storage.SaveJSON(ctx, s.store, storage.KeyWatchlist, s.items); err != nil {
		s.logger.Error().Err(err).Str("key", storage.KeyWatchlist).Msg("Failed to persist watchlist")
		notify.Error(s.notifier, msgSaveFailed)
	}
}

func (s *Service) indexLocked(coinID string) int {
	for i, id := range s.items {
		if id == coinID {
			return i
		}
	}
	return -1
}

// AddToWatchlist appends coinID. Adding a coin already present only warns.
func (s *Service) AddToWatchlist(ctx context.Context, coinID string) error {
	if err := validate.CoinID(coinID); err != nil {
		return validate.NewValidationError("coinId", err.Error())
	}

	s.mu.Lock()
	if s.indexLocked(coinID) >= 0 {
		s.mu.Unlock()
		notify.Warning(s.notifier, msgDuplicate)
		return nil
	}
	s.items = append(s.items, coinID)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Info().Str("coin_id", coinID).Msg("Coin watched")
	notify.Success(s.notifier, msgAdded)
	return nil
}

// RemoveFromWatchlist drops coinID and its cached market entry.
func (s *Service) RemoveFromWatchlist(ctx context.Context, coinID string) {
	s.mu.Lock()
	idx := s.indexLocked(coinID)
	if idx < 0 {
		s.mu.Unlock()
		return
	}
	s.items = append(s.items[:idx], s.items[idx+1:]...)
	delete(s.snapshot, coinID)
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Info().Str("coin_id", coinID).Msg("Coin unwatched")
	notify.Success(s.notifier, msgRemoved)
}

// ToggleWatchlist removes coinID if present, otherwise adds it.
func (s *Service) ToggleWatchlist(ctx context.Context, coinID string) error {
	if s.IsInWatchlist(coinID) {
		s.RemoveFromWatchlist(ctx, coinID)
		return nil
	}
	return s.AddToWatchlist(ctx, coinID)
}

func (s *Service) IsInWatchlist(coinID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.indexLocked(coinID) >= 0
}

// ClearWatchlist empties the list and the market cache.
func (s *Service) ClearWatchlist(ctx context.Context) {
	s.mu.Lock()
	s.items = []string{}
	s.snapshot = map[string]models.CoinMarket{}
	s.persistLocked(ctx)
	s.mu.Unlock()

	s.logger.Info().Msg("Watchlist cleared")
	notify.Success(s.notifier, msgCleared)
}

// Items returns the watched ids in insertion order.
func (s *Service) Items() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string{}, s.items...)
}

// MarketData returns cached entries for watched coins, ordered as the watchlist.
// Coins without a cached entry are skipped.
func (s *Service) MarketData() []models.CoinMarket {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.CoinMarket, 0, len(s.items))
	for _, id := range s.items {
		if c, ok := s.snapshot[id]; ok {
			out = append(out, c)
		}
	}
	return out
}

// RefreshMarketData fetches market data with 7d sparklines for every watched coin.
// An empty watchlist clears the cache without a request.
func (s *Service) RefreshMarketData(ctx context.Context) error {
	ids := s.Items()
	seq := s.seq.Add(1)

	if len(ids) == 0 {
		s.apply(seq, nil)
		return nil
	}

	coins, err := s.market.GetCoinsByIDs(ctx, ids, models.MarketsParams{
		VsCurrency:            s.currency,
		Sparkline:             true,
		PriceChangePercentage: "24h,7d",
	})
	if err != nil {
		s.logger.Warn().Err(err).Uint64("seq", seq).Int("coins", len(ids)).Msg("Watchlist refresh failed")
		return err
	}

	if s.apply(seq, coins) && s.observer != nil {
		s.observer.ObservePrices(ctx, coins)
	}
	return nil
}

// apply replaces the cache unless seq is stale. Entries for coins removed
// while the request was in flight are dropped.
func (s *Service) apply(seq uint64, coins []models.CoinMarket) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if seq < s.applied {
		s.logger.Debug().Uint64("seq", seq).Uint64("applied", s.applied).Msg("Stale watchlist refresh discarded")
		return false
	}
	s.applied = seq

	next := make(map[string]models.CoinMarket, len(coins))
	for _, c := range coins {
		if s.indexLocked(c.ID) >= 0 {
			next[c.ID] = c
		}
	}
	s.snapshot = next
	return true
}

func (s *Service) Close() error {
	return nil
}
