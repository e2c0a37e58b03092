package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/cryptodash/internal/models"
	"github.com/bobmcallan/cryptodash/internal/valuation"
)

var pngMagic = []byte{0x89, 'P', 'N', 'G'}

func sampleHoldings() []models.Holding {
	return []models.Holding{
		{ID: "h1", CoinID: "bitcoin", Name: "Bitcoin", Symbol: "btc", Amount: 0.5, BuyPrice: 20000, CurrentPrice: 30000, PriceChangePercent24h: 10},
		{ID: "h2", CoinID: "ethereum", Name: "Ethereum", Symbol: "eth", Amount: 2, BuyPrice: 3000, CurrentPrice: 2500, PriceChangePercent24h: -2},
	}
}

func TestPortfolioMarkdown(t *testing.T) {
	holdings := sampleHoldings()
	md := PortfolioMarkdown(valuation.Summarize(holdings), holdings, "usd")

	assert.Contains(t, md, "| Total Value | $20.00K |")
	assert.Contains(t, md, "| Assets | 2 |")
	assert.Contains(t, md, "| Best Performer | Bitcoin +50.00% |")
	assert.Contains(t, md, "| Worst Performer | Ethereum -16.67% |")
	assert.Contains(t, md, "| Bitcoin (BTC) |")
	assert.Contains(t, md, "| 75.0% |")

	// largest position first
	assert.Less(t, strings.Index(md, "Bitcoin (BTC)"), strings.Index(md, "Ethereum (ETH)"))
}

func TestPortfolioMarkdown_Empty(t *testing.T) {
	md := PortfolioMarkdown(valuation.Summarize(nil), nil, "usd")
	assert.Contains(t, md, "No holdings yet")
	assert.NotContains(t, md, "| Metric |")
}

func TestSummaryMarkdown(t *testing.T) {
	md := SummaryMarkdown(valuation.Summarize(sampleHoldings()), "usd")
	assert.Contains(t, md, "# Portfolio Summary")
	assert.Contains(t, md, "| Profit/Loss | $4.00K (+25.00%) |")
	assert.NotContains(t, md, "## Holdings")
}

func TestTrendingAndGlobalMarkdown(t *testing.T) {
	tr := &models.Trending{}
	tr.Coins = append(tr.Coins, struct {
		Item models.TrendingItem `json:"item"`
	}{Item: models.TrendingItem{ID: "pepe", Name: "Pepe", Symbol: "PEPE", MarketCapRank: 30, PriceBTC: 0.0000000002}})
	md := TrendingMarkdown(tr)
	assert.Contains(t, md, "| 1 | pepe | Pepe (PEPE) | 30 |")

	g := &models.GlobalMarket{
		ActiveCryptocurrencies: 12000,
		TotalMarketCap:         map[string]float64{"usd": 2.5e12},
		MarketCapPercentage:    map[string]float64{"btc": 52.34},
	}
	md = GlobalMarkdown(g, "usd")
	assert.Contains(t, md, "| Market Cap | $2.50T |")
	assert.Contains(t, md, "| BTC Dominance | 52.3% |")
	assert.Contains(t, md, "| Active Coins | 12,000 |")
}

func TestWatchlistMarkdown_ListsPending(t *testing.T) {
	coins := []models.CoinMarket{{ID: "bitcoin", Name: "Bitcoin", Symbol: "btc", CurrentPrice: 65000, MarketCapRank: 1, MarketCap: 1.28e12}}
	md := WatchlistMarkdown([]string{"bitcoin", "solana"}, coins, "usd")

	assert.Contains(t, md, "| 1 | Bitcoin (BTC) | $65.00K |")
	assert.Contains(t, md, "$1.28T")
	assert.Contains(t, md, "Waiting for market data: solana")

	assert.Contains(t, WatchlistMarkdown(nil, nil, "usd"), "empty")
}

func TestAlertsMarkdown(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	triggered := now.Add(-2 * time.Hour)
	alerts := []models.Alert{
		{ID: "0123456789", CoinID: "bitcoin", Type: models.AlertPriceAbove, TargetPrice: 50000, Status: models.AlertTriggered, CreatedAt: now.Add(-48 * time.Hour), TriggeredAt: &triggered},
		{ID: "abc", CoinID: "ethereum", CoinName: "Ethereum", Type: models.AlertPriceBelow, TargetPrice: 1500, Status: models.AlertActive, CreatedAt: now.Add(-time.Hour)},
	}
	md := AlertsMarkdown(alerts, "usd", now)

	assert.Contains(t, md, "| 01234567 | bitcoin | above | $50.00K | triggered 2 hours ago | 2 days ago |")
	assert.Contains(t, md, "| abc | Ethereum | below | $1.50K | active | 1 hour ago |")
	assert.Less(t, strings.Index(md, "bitcoin"), strings.Index(md, "Ethereum"))
}

func TestSearchAndCoinMarkdown(t *testing.T) {
	md := SearchMarkdown("bit", &models.SearchResult{Coins: []models.SearchCoin{{ID: "bitcoin", Name: "Bitcoin", Symbol: "BTC", MarketCapRank: 1}}})
	assert.Contains(t, md, "| 1 | bitcoin | Bitcoin (BTC) |")
	assert.Contains(t, SearchMarkdown("zzz", nil), "No coins found")

	detail := &models.CoinDetail{
		ID: "bitcoin", Name: "Bitcoin", Symbol: "btc",
		Description: map[string]string{"en": "Peer-to-peer cash."},
		MarketData: &models.CoinDetailMarketData{
			CurrentPrice: map[string]float64{"usd": 500},
			MarketCap:    map[string]float64{"usd": 2e9},
		},
	}
	md = CoinMarkdown(detail, "usd")
	assert.Contains(t, md, "| Price | $500.00 |")
	assert.Contains(t, md, "| Market Cap | $2.00B |")
	assert.Contains(t, md, "Peer-to-peer cash.")
	assert.NotContains(t, md, "Technical")

	detail.MarketData.SparklineIn7d = &models.Sparkline{Price: []float64{480, 450, 520, 500}}
	md = CoinMarkdown(detail, "usd")
	assert.Contains(t, md, "## Technical (7d hourly)")
	assert.Contains(t, md, "| Support | $450.00 |")
	assert.Contains(t, md, "| Resistance | $520.00 |")
	assert.Contains(t, md, "Neutral: mixed signals")
}

func TestRender(t *testing.T) {
	out := Render("# Portfolio\n\nTotal value here\n", "notty", 80)
	assert.Contains(t, out, "Total value here")
	assert.Equal(t, "dark", StyleFor(models.ThemeDark))
	assert.Equal(t, "light", StyleFor(models.ThemeLight))
}

func TestSparklinePNG(t *testing.T) {
	coin := models.CoinMarket{ID: "bitcoin", Name: "Bitcoin", SparklineIn7d: &models.Sparkline{Price: []float64{100, 105, 98, 110, 120}}}
	data, err := SparklinePNG(coin)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))

	flat := models.CoinMarket{ID: "tether", SparklineIn7d: &models.Sparkline{Price: []float64{1, 1, 1}}}
	data, err = SparklinePNG(flat)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))

	_, err = SparklinePNG(models.CoinMarket{ID: "empty"})
	assert.Error(t, err)
}

func TestPriceChartPNG(t *testing.T) {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	mc := &models.MarketChart{}
	for i, p := range []float64{100, 102, 101, 107} {
		mc.Prices = append(mc.Prices, [2]float64{float64(start.AddDate(0, 0, i).UnixMilli()), p})
	}

	data, err := PriceChartPNG("Bitcoin 7d", mc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, pngMagic))

	_, err = PriceChartPNG("none", &models.MarketChart{})
	assert.Error(t, err)
}

func TestChartDays(t *testing.T) {
	assert.Equal(t, 1, ChartDays(0))
	assert.Equal(t, 7, ChartDays(5))
	assert.Equal(t, 30, ChartDays(14))
	assert.Equal(t, 365, ChartDays(1000))
}
