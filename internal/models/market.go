package models

import "time"

// Sparkline holds the 7-day price series returned with market snapshots.
type Sparkline struct {
	Price []float64 `json:"price"`
}

// CoinMarket is one record of the batched markets endpoint.
type CoinMarket struct {
	ID                                 string     `json:"id"`
	Symbol                             string     `json:"symbol"`
	Name                               string     `json:"name"`
	Image                              string     `json:"image"`
	CurrentPrice                       float64    `json:"current_price"`
	MarketCap                          float64    `json:"market_cap"`
	MarketCapRank                      int        `json:"market_cap_rank"`
	TotalVolume                        float64    `json:"total_volume"`
	High24h                            float64    `json:"high_24h"`
	Low24h                             float64    `json:"low_24h"`
	PriceChange24h                     float64    `json:"price_change_24h"`
	PriceChangePercentage24h           float64    `json:"price_change_percentage_24h"`
	PriceChangePercentage7dInCurrency  float64    `json:"price_change_percentage_7d_in_currency"`
	PriceChangePercentage24hInCurrency float64    `json:"price_change_percentage_24h_in_currency"`
	CirculatingSupply                  float64    `json:"circulating_supply"`
	TotalSupply                        float64    `json:"total_supply"`
	MaxSupply                          float64    `json:"max_supply"`
	ATH                                float64    `json:"ath"`
	LastUpdated                        time.Time  `json:"last_updated"`
	SparklineIn7d                      *Sparkline `json:"sparkline_in_7d,omitempty"`
}

// CoinListEntry is one record of the coins list endpoint.
type CoinListEntry struct {
	ID     string `json:"id"`
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}

// SearchCoin is one coin hit from the search endpoint.
type SearchCoin struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	APISymbol     string `json:"api_symbol"`
	Symbol        string `json:"symbol"`
	MarketCapRank int    `json:"market_cap_rank"`
	Thumb         string `json:"thumb"`
	Large         string `json:"large"`
}

// SearchResult is the search endpoint response. Only coins are decoded.
type SearchResult struct {
	Coins []SearchCoin `json:"coins"`
}

// CoinDetailMarketData is the market_data sub-object of a coin detail.
type CoinDetailMarketData struct {
	CurrentPrice             map[string]float64 `json:"current_price"`
	MarketCap                map[string]float64 `json:"market_cap"`
	TotalVolume              map[string]float64 `json:"total_volume"`
	High24h                  map[string]float64 `json:"high_24h"`
	Low24h                   map[string]float64 `json:"low_24h"`
	PriceChangePercentage24h float64            `json:"price_change_percentage_24h"`
	PriceChangePercentage7d  float64            `json:"price_change_percentage_7d"`
	PriceChangePercentage30d float64            `json:"price_change_percentage_30d"`
	CirculatingSupply        float64            `json:"circulating_supply"`
	TotalSupply              float64            `json:"total_supply"`
	MaxSupply                float64            `json:"max_supply"`
	MarketCapRank            int                `json:"market_cap_rank"`
	SparklineIn7d            *Sparkline         `json:"sparkline_7d,omitempty"`
}

// CoinDetail is the single-coin detail endpoint response.
type CoinDetail struct {
	ID            string                `json:"id"`
	Symbol        string                `json:"symbol"`
	Name          string                `json:"name"`
	Description   map[string]string     `json:"description"`
	Image         map[string]string     `json:"image"`
	MarketCapRank int                   `json:"market_cap_rank"`
	MarketData    *CoinDetailMarketData `json:"market_data,omitempty"`
}

// PriceIn returns the current price in the given currency, or 0 when absent.
func (d *CoinDetail) PriceIn(currency string) float64 {
	if d == nil || d.MarketData == nil {
		return 0
	}
	return d.MarketData.CurrentPrice[currency]
}

// TrendingItem is one trending coin.
type TrendingItem struct {
	ID            string  `json:"id"`
	CoinID        int     `json:"coin_id"`
	Name          string  `json:"name"`
	Symbol        string  `json:"symbol"`
	MarketCapRank int     `json:"market_cap_rank"`
	Thumb         string  `json:"thumb"`
	Score         int     `json:"score"`
	PriceBTC      float64 `json:"price_btc"`
}

// Trending is the trending endpoint response.
type Trending struct {
	Coins []struct {
		Item TrendingItem `json:"item"`
	} `json:"coins"`
}

// GlobalMarket is the data object of the global endpoint.
type GlobalMarket struct {
	ActiveCryptocurrencies          int                `json:"active_cryptocurrencies"`
	Markets                         int                `json:"markets"`
	TotalMarketCap                  map[string]float64 `json:"total_market_cap"`
	TotalVolume                     map[string]float64 `json:"total_volume"`
	MarketCapPercentage             map[string]float64 `json:"market_cap_percentage"`
	MarketCapChangePercentage24hUSD float64            `json:"market_cap_change_percentage_24h_usd"`
	UpdatedAt                       int64              `json:"updated_at"`
}

// MarketsParams selects the optional parts of a markets request.
type MarketsParams struct {
	VsCurrency            string // defaults to "usd"
	Order                 string // defaults to "market_cap_desc"
	PerPage               int    // defaults to 100
	Page                  int    // defaults to 1
	Sparkline             bool
	PriceChangePercentage string // comma-joined windows, e.g. "24h,7d"
}

// DetailParams selects which sub-objects a coin detail request includes.
type DetailParams struct {
	Localization  bool
	Tickers       bool
	MarketData    bool
	CommunityData bool
	DeveloperData bool
	Sparkline     bool
}

// DefaultDetailParams returns market data and sparkline only.
func DefaultDetailParams() DetailParams {
	return DetailParams{MarketData: true, Sparkline: true}
}

// MarketChart is the market_chart endpoint response. Each point is [unix ms, value].
type MarketChart struct {
	Prices       [][2]float64 `json:"prices"`
	MarketCaps   [][2]float64 `json:"market_caps"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// PriceSeries returns the price points as times and values.
func (m *MarketChart) PriceSeries() ([]time.Time, []float64) {
	times := make([]time.Time, len(m.Prices))
	values := make([]float64, len(m.Prices))
	for i, p := range m.Prices {
		times[i] = time.UnixMilli(int64(p[0]))
		values[i] = p[1]
	}
	return times, values
}
