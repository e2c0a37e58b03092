// Package signals computes technical indicators over a price series.
//
// Series are ordered oldest first, as returned in sparkline_in_7d and
// market_chart. Windows are measured in points, not days.
package signals

import "math"

// Crossover names a moving-average cross on the latest point.
type Crossover string

const (
	GoldenCross Crossover = "golden_cross"
	DeathCross  Crossover = "death_cross"
	NoCross     Crossover = "none"
)

// Trend classifies the direction of a series.
type Trend string

const (
	TrendBullish Trend = "bullish"
	TrendBearish Trend = "bearish"
	TrendNeutral Trend = "neutral"
)

// SMA is the simple moving average of the last period points.
func SMA(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period {
		return 0
	}

	sum := 0.0
	for _, p := range prices[len(prices)-period:] {
		sum += p
	}
	return sum / float64(period)
}

// EMA is the exponential moving average seeded with the SMA of the first period points.
func EMA(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period {
		return 0
	}

	multiplier := 2.0 / float64(period+1)
	ema := SMA(prices[:period], period)
	for _, p := range prices[period:] {
		ema = (p-ema)*multiplier + ema
	}
	return ema
}

// RSI is the relative strength index over the last period changes.
// Fewer than period+1 points yields the neutral 50.
func RSI(prices []float64, period int) float64 {
	if period <= 0 || len(prices) < period+1 {
		return 50
	}

	var gains, losses float64
	tail := prices[len(prices)-period-1:]
	for i := 1; i < len(tail); i++ {
		change := tail[i] - tail[i-1]
		if change > 0 {
			gains += change
		} else {
			losses -= change
		}
	}

	if losses == 0 {
		if gains == 0 {
			return 50
		}
		return 100
	}
	rs := gains / losses
	return 100 - (100 / (1 + rs))
}

// ClassifyRSI labels an RSI value.
func ClassifyRSI(rsi float64) string {
	if rsi >= 70 {
		return "overbought"
	}
	if rsi <= 30 {
		return "oversold"
	}
	return "neutral"
}

// SupportResistance returns the lowest and highest price of the last lookback points.
func SupportResistance(prices []float64, lookback int) (support, resistance float64) {
	if len(prices) == 0 {
		return 0, 0
	}
	if lookback <= 0 || lookback > len(prices) {
		lookback = len(prices)
	}

	window := prices[len(prices)-lookback:]
	support, resistance = math.Inf(1), math.Inf(-1)
	for _, p := range window {
		support = math.Min(support, p)
		resistance = math.Max(resistance, p)
	}
	return support, resistance
}

// DetectCrossover reports whether the short SMA crossed the long SMA on the latest point.
func DetectCrossover(prices []float64, shortPeriod, longPeriod int) Crossover {
	if len(prices) < longPeriod+1 {
		return NoCross
	}

	shortSMA := SMA(prices, shortPeriod)
	longSMA := SMA(prices, longPeriod)
	prev := prices[:len(prices)-1]
	prevShort := SMA(prev, shortPeriod)
	prevLong := SMA(prev, longPeriod)

	if prevShort <= prevLong && shortSMA > longSMA {
		return GoldenCross
	}
	if prevShort >= prevLong && shortSMA < longSMA {
		return DeathCross
	}
	return NoCross
}

// DistanceToSMA is the percentage distance of price from sma.
func DistanceToSMA(price, sma float64) float64 {
	if sma == 0 {
		return 0
	}
	return ((price - sma) / sma) * 100
}

// DetermineTrend is bullish when price is above the long average and the
// short average leads it, bearish for the mirror case.
func DetermineTrend(price, shortSMA, longSMA float64) Trend {
	if shortSMA == 0 || longSMA == 0 {
		return TrendNeutral
	}
	if price > longSMA && shortSMA > longSMA {
		return TrendBullish
	}
	if price < longSMA && shortSMA < longSMA {
		return TrendBearish
	}
	return TrendNeutral
}

// TrendDescription returns a one-line summary of the trend.
func TrendDescription(trend Trend, cross Crossover) string {
	switch trend {
	case TrendBullish:
		desc := "Bullish: price above the long average with positive momentum"
		if cross == GoldenCross {
			desc += " (golden cross)"
		}
		return desc
	case TrendBearish:
		desc := "Bearish: price below the long average with negative momentum"
		if cross == DeathCross {
			desc += " (death cross)"
		}
		return desc
	}
	return "Neutral: mixed signals"
}
