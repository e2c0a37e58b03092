package valuation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bobmcallan/cryptodash/internal/models"
)

func TestSafeDiv(t *testing.T) {
	assert.Equal(t, 2.0, SafeDiv(4, 2))
	assert.Zero(t, SafeDiv(4, 0))
	assert.Zero(t, SafeDiv(math.NaN(), 2))
	assert.Zero(t, SafeDiv(1, math.Inf(-1)))
	assert.Equal(t, 25.0, SafeRatio(1, 4))
	assert.Equal(t, 50.0, SafePercent(150, 100))
	assert.Zero(t, SafePercent(150, 0))
}

func TestROIAndPriceChange(t *testing.T) {
	assert.Equal(t, 20.0, ROI(120, 100))
	assert.Zero(t, ROI(120, 0))

	assert.Equal(t, Change{Value: 50, Percentage: 50}, PriceChange(100, 150))
	assert.Equal(t, Change{}, PriceChange(0, 150))
}

func TestMarketDominanceAndPositionSize(t *testing.T) {
	assert.Equal(t, 50.0, MarketDominance(1e12, 2e12))
	assert.Zero(t, MarketDominance(1e12, 0))
	assert.Equal(t, 10.0, PositionSize(100, 1000))
	assert.Zero(t, PositionSize(100, 0))
}

func TestCAGR(t *testing.T) {
	assert.InDelta(t, 10.0, CAGR(100, 121, 2), 1e-9)
	assert.Zero(t, CAGR(0, 121, 2))
	assert.Zero(t, CAGR(100, 121, 0))
	assert.False(t, math.IsNaN(CAGR(100, -50, 0.5)))
}

func TestVolatility(t *testing.T) {
	assert.Zero(t, Volatility(nil))
	assert.Zero(t, Volatility([]float64{100}))
	assert.Zero(t, Volatility([]float64{100, 100, 100}))

	// returns +10% and -10%: mean 0, population std dev 0.1
	assert.InDelta(t, 10.0, Volatility([]float64{100, 110, 99}), 1e-9)

	assert.False(t, math.IsNaN(Volatility([]float64{0, 10, 20})))
}

func TestBreakEvenAndAverageBuyPrice(t *testing.T) {
	assert.Equal(t, 250.0, BreakEvenPrice(500, 2))
	assert.Zero(t, BreakEvenPrice(500, 0))

	txs := []models.Transaction{{Amount: 1, Price: 100}, {Amount: 3, Price: 200}}
	assert.Equal(t, 175.0, AverageBuyPrice(txs))
	assert.Zero(t, AverageBuyPrice(nil))
}

func TestMergeCost(t *testing.T) {
	amount, price := MergeCost(1, 100, 1, 300)
	assert.Equal(t, 2.0, amount)
	assert.Equal(t, 200.0, price)
}
