package signals

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSMA(t *testing.T) {
	tests := []struct {
		name     string
		prices   []float64
		period   int
		expected float64
	}{
		{
			name:     "simple 3-point SMA",
			prices:   []float64{10, 20, 30},
			period:   3,
			expected: 20.0,
		},
		{
			name:     "uses the newest points",
			prices:   []float64{100, 10, 20, 30, 40, 50},
			period:   5,
			expected: 30.0,
		},
		{
			name:     "insufficient data",
			prices:   []float64{10, 20},
			period:   5,
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, SMA(tt.prices, tt.period), 0.01)
		})
	}
}

func TestEMA_ConstantSeries(t *testing.T) {
	assert.InDelta(t, 42.0, EMA(trend(42, 0, 30), 10), 1e-9)
	assert.Equal(t, 0.0, EMA([]float64{1, 2}, 10))
}

func TestEMA_WeightsRecentPoints(t *testing.T) {
	prices := trend(100, 1, 50)
	assert.Greater(t, EMA(prices, 10), SMA(prices, 10)-1)
	assert.Less(t, EMA(prices, 10), prices[len(prices)-1])
}

func TestRSI(t *testing.T) {
	tests := []struct {
		name   string
		prices []float64
		period int
		minRSI float64
		maxRSI float64
	}{
		{
			name:   "uptrend only has gains",
			prices: trend(50, 1, 20),
			period: 14,
			minRSI: 100,
			maxRSI: 100,
		},
		{
			name:   "downtrend has low RSI",
			prices: trend(50, -1, 20),
			period: 14,
			minRSI: 0,
			maxRSI: 1,
		},
		{
			name:   "flat series is neutral",
			prices: trend(50, 0, 20),
			period: 14,
			minRSI: 50,
			maxRSI: 50,
		},
		{
			name:   "insufficient data is neutral",
			prices: []float64{1, 2, 3},
			period: 14,
			minRSI: 50,
			maxRSI: 50,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rsi := RSI(tt.prices, tt.period)
			assert.GreaterOrEqual(t, rsi, tt.minRSI)
			assert.LessOrEqual(t, rsi, tt.maxRSI)
		})
	}
}

func TestClassifyRSI(t *testing.T) {
	assert.Equal(t, "overbought", ClassifyRSI(75))
	assert.Equal(t, "oversold", ClassifyRSI(25))
	assert.Equal(t, "neutral", ClassifyRSI(50))
}

func TestSupportResistance(t *testing.T) {
	prices := []float64{5, 1, 9, 4, 6}

	s, r := SupportResistance(prices, 0)
	assert.Equal(t, 1.0, s)
	assert.Equal(t, 9.0, r)

	s, r = SupportResistance(prices, 2)
	assert.Equal(t, 4.0, s)
	assert.Equal(t, 6.0, r)

	s, r = SupportResistance(nil, 3)
	assert.Zero(t, s)
	assert.Zero(t, r)
}

func TestDetectCrossover(t *testing.T) {
	// flat then a jump on the last point pulls the short average above the long one
	golden := append(trend(10, 0, 10), 30)
	assert.Equal(t, GoldenCross, DetectCrossover(golden, 2, 5))

	death := append(trend(10, 0, 10), 1)
	assert.Equal(t, DeathCross, DetectCrossover(death, 2, 5))

	assert.Equal(t, NoCross, DetectCrossover(trend(10, 1, 10), 2, 5))
	assert.Equal(t, NoCross, DetectCrossover([]float64{1, 2}, 2, 5))
}

func TestDetermineTrend(t *testing.T) {
	assert.Equal(t, TrendBullish, DetermineTrend(110, 105, 100))
	assert.Equal(t, TrendBearish, DetermineTrend(90, 95, 100))
	assert.Equal(t, TrendNeutral, DetermineTrend(101, 99, 100))
	assert.Equal(t, TrendNeutral, DetermineTrend(101, 0, 0))
}

func TestDistanceToSMA(t *testing.T) {
	assert.InDelta(t, 10.0, DistanceToSMA(110, 100), 1e-9)
	assert.InDelta(t, -10.0, DistanceToSMA(90, 100), 1e-9)
	assert.Equal(t, 0.0, DistanceToSMA(90, 0))
}

func TestCompute(t *testing.T) {
	assert.Nil(t, Compute([]float64{1}))

	ind := Compute(trend(100, 1, 168))
	require.NotNil(t, ind)
	assert.Equal(t, 267.0, ind.Price)
	assert.Equal(t, TrendBullish, ind.Trend)
	assert.Equal(t, "overbought", ind.RSILabel)
	assert.Equal(t, 100.0, ind.Support)
	assert.Equal(t, 267.0, ind.Resistance)
	assert.Contains(t, ind.Description, "Bullish")
}

// trend builds n points starting at start and moving step per point.
func trend(start, step float64, n int) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + step*float64(i)
	}
	return out
}
