package coingecko

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/cryptodash/internal/models"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...ClientOption) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	base := []ClientOption{WithBaseURL(srv.URL), WithRateLimit(0)}
	return NewClient(append(base, opts...)...)
}

func TestGetCoinsByIDs_BuildsBatchedRequest(t *testing.T) {
	var captured *http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode([]models.CoinMarket{
			{ID: "bitcoin", Symbol: "btc", Name: "Bitcoin", CurrentPrice: 61000, PriceChangePercentage24h: 2.5},
			{ID: "ethereum", Symbol: "eth", Name: "Ethereum", CurrentPrice: 3000},
		})
	}, WithAPIKey("demo-key"), WithClock(func() time.Time { return time.UnixMilli(1700000000123) }))

	coins, err := client.GetCoinsByIDs(context.Background(), []string{"bitcoin", "ethereum"}, models.MarketsParams{
		Sparkline:             true,
		PriceChangePercentage: "24h,7d",
	})
	if err != nil {
		t.Fatalf("GetCoinsByIDs failed: %v", err)
	}

	if captured.URL.Path != "/coins/markets" {
		t.Errorf("expected path /coins/markets, got %s", captured.URL.Path)
	}
	q := captured.URL.Query()
	assert.Equal(t, "bitcoin,ethereum", q.Get("ids"))
	assert.Equal(t, "usd", q.Get("vs_currency"))
	assert.Equal(t, "market_cap_desc", q.Get("order"))
	assert.Equal(t, "100", q.Get("per_page"))
	assert.Equal(t, "1", q.Get("page"))
	assert.Equal(t, "true", q.Get("sparkline"))
	assert.Equal(t, "24h,7d", q.Get("price_change_percentage"))
	assert.Equal(t, "1700000000123", q.Get("_t"))
	assert.Equal(t, "demo-key", captured.Header.Get(APIKeyHeader))
	assert.Equal(t, "application/json", captured.Header.Get("Content-Type"))

	require.Len(t, coins, 2)
	assert.Equal(t, 61000.0, coins[0].CurrentPrice)
	assert.Equal(t, 2.5, coins[0].PriceChangePercentage24h)
}

func TestGetCoinsByIDs_EmptySetMakesNoRequest(t *testing.T) {
	var calls int32
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	})

	coins, err := client.GetCoinsByIDs(context.Background(), nil, models.MarketsParams{})
	assert.NoError(t, err)
	assert.Nil(t, coins)
	assert.Zero(t, atomic.LoadInt32(&calls))
}

func TestPing_NoParamsNoCacheBusterNoKey(t *testing.T) {
	var captured *http.Request
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		captured = r
		w.Write([]byte(`{"gecko_says":"(V3) To the Moon!"}`))
	})

	require.NoError(t, client.Ping(context.Background()))
	assert.Empty(t, captured.URL.RawQuery)
	assert.Empty(t, captured.Header.Get(APIKeyHeader))
}

func TestErrorClassification(t *testing.T) {
	cases := []struct {
		status  int
		kind    ErrorKind
		message string
	}{
		{http.StatusBadRequest, KindBadRequest, "Invalid request. Please check your input."},
		{http.StatusUnauthorized, KindUnauthorized, "Unauthorized. Please check your API key."},
		{http.StatusForbidden, KindForbidden, "Access forbidden."},
		{http.StatusNotFound, KindNotFound, "Resource not found."},
		{http.StatusTooManyRequests, KindRateLimited, "Too many requests. Please try again later."},
		{http.StatusInternalServerError, KindServerError, "Server error. Please try again later."},
		{http.StatusBadGateway, KindServerError, "Server error. Please try again later."},
		{http.StatusServiceUnavailable, KindServerError, "Server error. Please try again later."},
		{http.StatusGatewayTimeout, KindServerError, "Server error. Please try again later."},
		{http.StatusTeapot, KindUnknown, "An error occurred. Please try again."},
	}

	for _, tc := range cases {
		t.Run(http.StatusText(tc.status), func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, `{"error":"nope"}`, tc.status)
			})

			_, err := client.GetCoinDetail(context.Background(), "bitcoin", models.DefaultDetailParams())
			require.Error(t, err)

			var te *TransportError
			require.True(t, errors.As(err, &te))
			assert.Equal(t, tc.kind, te.Kind)
			assert.Equal(t, tc.status, te.StatusCode)
			assert.Equal(t, "/coins/bitcoin", te.Endpoint)
			assert.Equal(t, tc.message, err.Error())
			assert.True(t, IsKind(err, tc.kind))
		})
	}
}

func TestNetworkError_Timeout(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}, WithTimeout(20*time.Millisecond))

	_, err := client.Search(context.Background(), "bitcoin")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindNetwork))
	assert.Equal(t, "Network error. Please check your connection.", err.Error())
}

func TestNetworkError_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	addr := srv.URL
	srv.Close()

	client := NewClient(WithBaseURL(addr), WithRateLimit(0))
	_, err := client.GetCoinsList(context.Background())
	assert.True(t, IsKind(err, KindNetwork))
}

func TestDecodeFailureIsUnknown(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})
	_, err := client.GetCoinsList(context.Background())
	assert.True(t, IsKind(err, KindUnknown))
}

func TestGetCoinDetail_Params(t *testing.T) {
	var query url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(`{"id":"bitcoin","name":"Bitcoin","market_data":{"current_price":{"usd":61000,"eur":56000}}}`))
	})

	detail, err := client.GetCoinDetail(context.Background(), "bitcoin", models.DefaultDetailParams())
	require.NoError(t, err)
	assert.Equal(t, "false", query.Get("localization"))
	assert.Equal(t, "false", query.Get("tickers"))
	assert.Equal(t, "true", query.Get("market_data"))
	assert.Equal(t, "false", query.Get("community_data"))
	assert.Equal(t, "false", query.Get("developer_data"))
	assert.Equal(t, "true", query.Get("sparkline"))
	assert.NotEmpty(t, query.Get("_t"))

	assert.Equal(t, 56000.0, detail.PriceIn("eur"))
	assert.Zero(t, detail.PriceIn("jpy"))
}

func TestSearch(t *testing.T) {
	var query url.Values
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.Query()
		w.Write([]byte(`{"coins":[{"id":"bitcoin","name":"Bitcoin","symbol":"BTC","market_cap_rank":1,"thumb":"t.png","large":"l.png"}],"exchanges":[]}`))
	})

	res, err := client.Search(context.Background(), "bit")
	require.NoError(t, err)
	assert.Equal(t, "bit", query.Get("query"))
	require.Len(t, res.Coins, 1)
	assert.Equal(t, "bitcoin", res.Coins[0].ID)
	assert.Equal(t, 1, res.Coins[0].MarketCapRank)
}

func TestGetTopGainersAndLosers(t *testing.T) {
	var perPage string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		perPage = r.URL.Query().Get("per_page")
		json.NewEncoder(w).Encode([]models.CoinMarket{
			{ID: "flat", PriceChangePercentage24h: 0},
			{ID: "up", PriceChangePercentage24h: 12},
			{ID: "down", PriceChangePercentage24h: -8},
		})
	})

	gainers, err := client.GetTopGainers(context.Background(), 2, "usd")
	require.NoError(t, err)
	assert.Equal(t, "250", perPage)
	require.Len(t, gainers, 2)
	assert.Equal(t, "up", gainers[0].ID)

	losers, err := client.GetTopLosers(context.Background(), 1, "usd")
	require.NoError(t, err)
	require.Len(t, losers, 1)
	assert.Equal(t, "down", losers[0].ID)
}

func TestGetGlobalAndMarketChart(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/global":
			w.Write([]byte(`{"data":{"active_cryptocurrencies":12000,"total_market_cap":{"usd":2.5e12}}}`))
		case "/coins/bitcoin/market_chart":
			assert.Equal(t, "7", r.URL.Query().Get("days"))
			w.Write([]byte(`{"prices":[[1700000000000,100],[1700086400000,110]]}`))
		default:
			http.NotFound(w, r)
		}
	})

	global, err := client.GetGlobal(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12000, global.ActiveCryptocurrencies)
	assert.Equal(t, 2.5e12, global.TotalMarketCap["usd"])

	chart, err := client.GetMarketChart(context.Background(), "bitcoin", "usd", 0)
	require.NoError(t, err)
	times, prices := chart.PriceSeries()
	assert.Equal(t, []float64{100, 110}, prices)
	assert.Equal(t, int64(1700086400000), times[1].UnixMilli())
}
