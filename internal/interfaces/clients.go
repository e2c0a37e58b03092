// Package interfaces defines service contracts for cryptodash
package interfaces

import (
	"context"

	"github.com/bobmcallan/cryptodash/internal/models"
)

// MarketDataClient provides read-only access to the market-data API.
// All errors returned are classified transport errors.
type MarketDataClient interface {
	Ping(ctx context.Context) error
	GetCoinsList(ctx context.Context) ([]models.CoinListEntry, error)
	GetCoinsMarkets(ctx context.Context, params models.MarketsParams) ([]models.CoinMarket, error)
	GetCoinsByIDs(ctx context.Context, ids []string, params models.MarketsParams) ([]models.CoinMarket, error)
	GetTopCoins(ctx context.Context, limit int, vsCurrency string) ([]models.CoinMarket, error)
	GetTopGainers(ctx context.Context, limit int, vsCurrency string) ([]models.CoinMarket, error)
	GetTopLosers(ctx context.Context, limit int, vsCurrency string) ([]models.CoinMarket, error)
	GetCoinDetail(ctx context.Context, id string, params models.DetailParams) (*models.CoinDetail, error)
	GetMarketChart(ctx context.Context, id, vsCurrency string, days int) (*models.MarketChart, error)
	Search(ctx context.Context, query string) (*models.SearchResult, error)
	GetTrending(ctx context.Context) (*models.Trending, error)
	GetGlobal(ctx context.Context) (*models.GlobalMarket, error)
}

// CoinFetcher is the subset of MarketDataClient the stores refresh with.
type CoinFetcher interface {
	GetCoinsByIDs(ctx context.Context, ids []string, params models.MarketsParams) ([]models.CoinMarket, error)
}
