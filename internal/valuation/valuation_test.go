package valuation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/cryptodash/internal/models"
)

func TestAssetProfitLoss_ZeroInputsShortCircuit(t *testing.T) {
	cases := []struct {
		name                           string
		amount, buyPrice, currentPrice float64
	}{
		{"zero amount", 0, 100, 200},
		{"zero buy price", 1, 0, 200},
		{"zero current price", 1, 100, 0},
		{"nan amount", math.NaN(), 100, 200},
		{"inf price", 1, math.Inf(1), 200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := AssetProfitLoss(tc.amount, tc.buyPrice, tc.currentPrice)
			assert.Equal(t, AssetPL{}, got)
			assert.False(t, got.IsProfit)
		})
	}
}

func TestAssetProfitLoss_Values(t *testing.T) {
	got := AssetProfitLoss(2, 100, 150)
	assert.Equal(t, 100.0, got.Profit)
	assert.Equal(t, 50.0, got.Percentage)
	assert.True(t, got.IsProfit)
	assert.Equal(t, 200.0, got.Invested)
	assert.Equal(t, 300.0, got.CurrentValue)

	loss := AssetProfitLoss(1, 100, 75)
	assert.Equal(t, -25.0, loss.Profit)
	assert.Equal(t, -25.0, loss.Percentage)
	assert.False(t, loss.IsProfit)

	flat := AssetProfitLoss(1, 100, 100)
	assert.True(t, flat.IsProfit)
}

func TestEmptyPortfolio_AllZero(t *testing.T) {
	for _, holdings := range [][]models.Holding{nil, {}} {
		assert.Zero(t, TotalValue(holdings))
		assert.Zero(t, TotalInvestment(holdings))
		assert.Zero(t, TotalProfitLoss(holdings))
		assert.Zero(t, TotalProfitLossPercent(holdings))
		assert.Equal(t, Change{}, Change24h(holdings))
		assert.Empty(t, PortfolioDistribution(holdings))

		best, worst := BestWorstPerformers(holdings)
		assert.Nil(t, best)
		assert.Nil(t, worst)
	}
}

func TestTotals_BitcoinScenario(t *testing.T) {
	holdings := []models.Holding{{CoinID: "bitcoin", Amount: 0.5, BuyPrice: 20000, CurrentPrice: 30000}}

	assert.Equal(t, 15000.0, TotalValue(holdings))
	assert.Equal(t, 10000.0, TotalInvestment(holdings))
	assert.Equal(t, 5000.0, TotalProfitLoss(holdings))
	assert.Equal(t, 50.0, TotalProfitLossPercent(holdings))
}

func TestTotals_NonFiniteFieldsCountAsZero(t *testing.T) {
	holdings := []models.Holding{
		{Amount: math.NaN(), BuyPrice: 10, CurrentPrice: 10},
		{Amount: 1, BuyPrice: math.Inf(1), CurrentPrice: 10},
		{Amount: 1, BuyPrice: 5, CurrentPrice: 10},
	}
	assert.Equal(t, 20.0, TotalValue(holdings))
	assert.Equal(t, 5.0, TotalInvestment(holdings))
	assert.False(t, math.IsNaN(TotalProfitLossPercent(holdings)))
}

func TestTotalProfitLossPercent_NothingInvested(t *testing.T) {
	holdings := []models.Holding{{Amount: 1, CurrentPrice: 100}}
	assert.Zero(t, TotalProfitLossPercent(holdings))
}

func TestPortfolioDistribution_SumsTo100AndIsIdempotent(t *testing.T) {
	holdings := []models.Holding{
		{CoinID: "bitcoin", Amount: 0.3, CurrentPrice: 61234.12},
		{CoinID: "ethereum", Amount: 4.2, CurrentPrice: 3011.7},
		{CoinID: "solana", Amount: 17, CurrentPrice: 143.33},
	}

	first := PortfolioDistribution(holdings)
	second := PortfolioDistribution(holdings)
	assert.Equal(t, first, second)

	var sum float64
	for i, d := range first {
		assert.Equal(t, holdings[i].CoinID, d.Holding.CoinID)
		sum += d.Distribution
	}
	assert.InDelta(t, 100.0, sum, 1e-9)
}

func TestPortfolioDistribution_ZeroTotal(t *testing.T) {
	holdings := []models.Holding{{CoinID: "a", Amount: 1}, {CoinID: "b", Amount: 2}}
	for _, d := range PortfolioDistribution(holdings) {
		assert.Zero(t, d.Distribution)
		assert.False(t, math.IsNaN(d.Distribution))
	}
}

func TestChange24h_Scenario(t *testing.T) {
	holdings := []models.Holding{{Amount: 1, CurrentPrice: 110, PriceChangePercent24h: 10}}
	got := Change24h(holdings)
	assert.InDelta(t, 10.0, got.Value, 1e-9)
	assert.InDelta(t, 10.0, got.Percentage, 1e-9)
}

func TestChange24h_TotalLossMove(t *testing.T) {
	holdings := []models.Holding{{Amount: 1, CurrentPrice: 5, PriceChangePercent24h: -100}}
	got := Change24h(holdings)
	assert.Equal(t, 5.0, got.Value)
	assert.Zero(t, got.Percentage)
}

func TestBestWorstPerformers(t *testing.T) {
	holdings := []models.Holding{
		{CoinID: "flat", Amount: 1, BuyPrice: 100, CurrentPrice: 100},
		{CoinID: "up", Amount: 1, BuyPrice: 100, CurrentPrice: 250},
		{CoinID: "down", Amount: 1, BuyPrice: 100, CurrentPrice: 40},
	}
	best, worst := BestWorstPerformers(holdings)
	require.NotNil(t, best)
	require.NotNil(t, worst)
	assert.Equal(t, "up", best.Holding.CoinID)
	assert.Equal(t, 150.0, best.Performance)
	assert.Equal(t, "down", worst.Holding.CoinID)
	assert.Equal(t, -60.0, worst.Performance)

	single := holdings[:1]
	best, worst = BestWorstPerformers(single)
	assert.Equal(t, "flat", best.Holding.CoinID)
	assert.Equal(t, "flat", worst.Holding.CoinID)
}

func TestBestWorstPerformers_DoesNotMutateInput(t *testing.T) {
	holdings := []models.Holding{
		{CoinID: "a", Amount: 1, BuyPrice: 100, CurrentPrice: 50},
		{CoinID: "b", Amount: 1, BuyPrice: 100, CurrentPrice: 200},
	}
	BestWorstPerformers(holdings)
	SortByValue(holdings, Descending)
	assert.Equal(t, "a", holdings[0].CoinID)
}

func TestSummarize(t *testing.T) {
	holdings := []models.Holding{{CoinID: "bitcoin", Amount: 0.5, BuyPrice: 20000, CurrentPrice: 30000}}
	s := Summarize(holdings)
	assert.Equal(t, 15000.0, s.TotalValue)
	assert.Equal(t, 50.0, s.TotalProfitLossPercent)
	assert.Equal(t, 1, s.AssetCount)
	require.NotNil(t, s.Best)
	assert.Equal(t, "bitcoin", s.Best.Holding.CoinID)
}
