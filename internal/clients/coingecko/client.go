// Package coingecko provides a client for the CoinGecko v3 market-data API
package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/bobmcallan/cryptodash/internal/common"
	"github.com/bobmcallan/cryptodash/internal/interfaces"
	"github.com/bobmcallan/cryptodash/internal/models"
)

const (
	DefaultBaseURL   = "https://api.coingecko.com/api/v3"
	DefaultTimeout   = 30 * time.Second
	DefaultRateLimit = 1 // requests per second; the public tier allows ~30/min
	APIKeyHeader     = "x-cg-demo-api-key"

	// moversPageSize is how many coins gainers and losers are picked from.
	moversPageSize = 250
)

// Client implements interfaces.MarketDataClient
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *common.Logger
	limiter    *rate.Limiter
	now        func() time.Time
}

var _ interfaces.MarketDataClient = (*Client)(nil)

// ClientOption configures the client
type ClientOption func(*Client)

// WithBaseURL sets the base URL
func WithBaseURL(baseURL string) ClientOption {
	return func(c *Client) {
		c.baseURL = strings.TrimRight(baseURL, "/")
	}
}

// WithAPIKey sets the demo API key sent in the x-cg-demo-api-key header
func WithAPIKey(key string) ClientOption {
	return func(c *Client) {
		c.apiKey = key
	}
}

// WithLogger sets the logger
func WithLogger(logger *common.Logger) ClientOption {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithRateLimit sets the rate limit
func WithRateLimit(requestsPerSecond int) ClientOption {
	return func(c *Client) {
		if requestsPerSecond <= 0 {
			c.limiter = rate.NewLimiter(rate.Inf, 1)
			return
		}
		c.limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), requestsPerSecond)
	}
}

// WithTimeout sets the HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(c *Client) {
		c.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the HTTP client
func WithHTTPClient(hc *http.Client) ClientOption {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithClock sets the clock used for the cache-buster parameter
func WithClock(now func() time.Time) ClientOption {
	return func(c *Client) {
		c.now = now
	}
}

// NewClient creates a new CoinGecko client
func NewClient(opts ...ClientOption) *Client {
	c := &Client{
		baseURL: DefaultBaseURL,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(DefaultRateLimit), DefaultRateLimit),
		logger:  common.NewSilentLogger(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	return c
}

// NewClientFromConfig builds a client from the [clients.coingecko] section
func NewClientFromConfig(cfg common.CoinGeckoConfig, logger *common.Logger) *Client {
	opts := []ClientOption{
		WithTimeout(cfg.GetTimeout()),
		WithLogger(logger),
		WithAPIKey(cfg.APIKey),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, WithBaseURL(cfg.BaseURL))
	}
	if cfg.RateLimit != 0 {
		opts = append(opts, WithRateLimit(cfg.RateLimit))
	}
	return NewClient(opts...)
}

// get performs a rate-limited GET request and decodes the JSON body into result.
// Every failure is returned as a *TransportError.
func (c *Client) get(ctx context.Context, path string, params url.Values, result interface{}) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return &TransportError{Kind: KindNetwork, Endpoint: path, Err: fmt.Errorf("rate limit wait: %w", err)}
	}

	reqURL := c.baseURL + path
	if len(params) > 0 {
		params.Set("_t", strconv.FormatInt(c.now().UnixMilli(), 10))
		reqURL += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return &TransportError{Kind: KindUnknown, Endpoint: path, Err: fmt.Errorf("failed to create request: %w", err)}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set(APIKeyHeader, c.apiKey)
	}

	c.logger.Debug().Str("endpoint", path).Msg("CoinGecko API request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		te := &TransportError{Kind: KindNetwork, Endpoint: path, Err: err}
		c.logger.Warn().Str("endpoint", path).Err(err).Msg("CoinGecko request failed without response")
		return te
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		te := &TransportError{
			Kind:       KindForStatus(resp.StatusCode),
			StatusCode: resp.StatusCode,
			Endpoint:   path,
			Err:        errors.New(strings.TrimSpace(string(body))),
		}
		c.logger.Warn().Str("endpoint", path).Int("status", resp.StatusCode).Str("kind", string(te.Kind)).Msg("CoinGecko API error")
		return te
	}

	if result == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &TransportError{Kind: KindUnknown, StatusCode: resp.StatusCode, Endpoint: path, Err: fmt.Errorf("failed to decode response: %w", err)}
	}
	return nil
}

func marketsValues(p models.MarketsParams) url.Values {
	v := url.Values{}
	vs := p.VsCurrency
	if vs == "" {
		vs = "usd"
	}
	order := p.Order
	if order == "" {
		order = "market_cap_desc"
	}
	perPage := p.PerPage
	if perPage <= 0 {
		perPage = 100
	}
	page := p.Page
	if page <= 0 {
		page = 1
	}
	pcp := p.PriceChangePercentage
	if pcp == "" {
		pcp = "24h"
	}
	v.Set("vs_currency", vs)
	v.Set("order", order)
	v.Set("per_page", strconv.Itoa(perPage))
	v.Set("page", strconv.Itoa(page))
	v.Set("sparkline", strconv.FormatBool(p.Sparkline))
	v.Set("price_change_percentage", pcp)
	return v
}

// Ping checks the API is reachable
func (c *Client) Ping(ctx context.Context) error {
	return c.get(ctx, "/ping", nil, nil)
}

// GetCoinsList returns every coin id, symbol and name
func (c *Client) GetCoinsList(ctx context.Context) ([]models.CoinListEntry, error) {
	var out []models.CoinListEntry
	if err := c.get(ctx, "/coins/list", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCoinsMarkets returns one page of market snapshots
func (c *Client) GetCoinsMarkets(ctx context.Context, params models.MarketsParams) ([]models.CoinMarket, error) {
	var out []models.CoinMarket
	if err := c.get(ctx, "/coins/markets", marketsValues(params), &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetCoinsByIDs returns market snapshots for the given ids in one batched request.
// An empty id set returns nil without a request.
func (c *Client) GetCoinsByIDs(ctx context.Context, ids []string, params models.MarketsParams) ([]models.CoinMarket, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	v := marketsValues(params)
	v.Set("ids", strings.Join(ids, ","))
	if params.PerPage <= 0 && len(ids) > 100 {
		v.Set("per_page", strconv.Itoa(len(ids)))
	}
	var out []models.CoinMarket
	if err := c.get(ctx, "/coins/markets", v, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// GetTopCoins returns the top coins by market cap
func (c *Client) GetTopCoins(ctx context.Context, limit int, vsCurrency string) ([]models.CoinMarket, error) {
	if limit <= 0 {
		limit = 10
	}
	return c.GetCoinsMarkets(ctx, models.MarketsParams{VsCurrency: vsCurrency, PerPage: limit, Page: 1})
}

func (c *Client) movers(ctx context.Context, limit int, vsCurrency string, gainers bool) ([]models.CoinMarket, error) {
	if limit <= 0 {
		limit = 10
	}
	coins, err := c.GetCoinsMarkets(ctx, models.MarketsParams{
		VsCurrency:            vsCurrency,
		PerPage:               moversPageSize,
		Page:                  1,
		PriceChangePercentage: "24h",
	})
	if err != nil {
		return nil, err
	}
	sort.SliceStable(coins, func(i, j int) bool {
		if gainers {
			return coins[i].PriceChangePercentage24h > coins[j].PriceChangePercentage24h
		}
		return coins[i].PriceChangePercentage24h < coins[j].PriceChangePercentage24h
	})
	if len(coins) > limit {
		coins = coins[:limit]
	}
	return coins, nil
}

// GetTopGainers returns the largest 24h gainers among the top 250 coins
func (c *Client) GetTopGainers(ctx context.Context, limit int, vsCurrency string) ([]models.CoinMarket, error) {
	return c.movers(ctx, limit, vsCurrency, true)
}

// GetTopLosers returns the largest 24h losers among the top 250 coins
func (c *Client) GetTopLosers(ctx context.Context, limit int, vsCurrency string) ([]models.CoinMarket, error) {
	return c.movers(ctx, limit, vsCurrency, false)
}

// GetCoinDetail returns a single coin with the selected sub-objects
func (c *Client) GetCoinDetail(ctx context.Context, id string, params models.DetailParams) (*models.CoinDetail, error) {
	v := url.Values{}
	v.Set("localization", strconv.FormatBool(params.Localization))
	v.Set("tickers", strconv.FormatBool(params.Tickers))
	v.Set("market_data", strconv.FormatBool(params.MarketData))
	v.Set("community_data", strconv.FormatBool(params.CommunityData))
	v.Set("developer_data", strconv.FormatBool(params.DeveloperData))
	v.Set("sparkline", strconv.FormatBool(params.Sparkline))

	var out models.CoinDetail
	if err := c.get(ctx, "/coins/"+url.PathEscape(id), v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetMarketChart returns daily price history for a coin
func (c *Client) GetMarketChart(ctx context.Context, id, vsCurrency string, days int) (*models.MarketChart, error) {
	if vsCurrency == "" {
		vsCurrency = "usd"
	}
	if days <= 0 {
		days = 7
	}
	v := url.Values{}
	v.Set("vs_currency", vsCurrency)
	v.Set("days", strconv.Itoa(days))
	v.Set("interval", "daily")

	var out models.MarketChart
	if err := c.get(ctx, "/coins/"+url.PathEscape(id)+"/market_chart", v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// Search finds coins matching a free-text query
func (c *Client) Search(ctx context.Context, query string) (*models.SearchResult, error) {
	v := url.Values{}
	v.Set("query", query)
	var out models.SearchResult
	if err := c.get(ctx, "/search", v, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetTrending returns the trending coins
func (c *Client) GetTrending(ctx context.Context) (*models.Trending, error) {
	var out models.Trending
	if err := c.get(ctx, "/search/trending", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetGlobal returns global market figures
func (c *Client) GetGlobal(ctx context.Context) (*models.GlobalMarket, error) {
	var out struct {
		Data models.GlobalMarket `json:"data"`
	}
	if err := c.get(ctx, "/global", nil, &out); err != nil {
		return nil, err
	}
	return &out.Data, nil
}
