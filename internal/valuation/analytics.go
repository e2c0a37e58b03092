package valuation

import (
	"math"

	"github.com/bobmcallan/cryptodash/internal/models"
)

// ROI is the percentage return of currentValue over initialInvestment.
func ROI(currentValue, initialInvestment float64) float64 {
	return SafePercent(currentValue, initialInvestment)
}

// PriceChange is the move from oldPrice to newPrice. Zero when oldPrice is 0.
func PriceChange(oldPrice, newPrice float64) Change {
	oldPrice, newPrice = finite(oldPrice), finite(newPrice)
	if oldPrice == 0 {
		return Change{}
	}
	return Change{Value: finite(newPrice - oldPrice), Percentage: SafePercent(newPrice, oldPrice)}
}

// MarketDominance is the asset's share of total market cap.
func MarketDominance(assetMarketCap, totalMarketCap float64) float64 {
	return SafeRatio(assetMarketCap, totalMarketCap)
}

// CAGR is the compound annual growth rate in percent.
func CAGR(initialValue, finalValue, years float64) float64 {
	initialValue, finalValue, years = finite(initialValue), finite(finalValue), finite(years)
	if initialValue == 0 || years == 0 {
		return 0
	}
	return finite((math.Pow(SafeDiv(finalValue, initialValue), 1/years) - 1) * 100)
}

// Volatility is the population standard deviation of period-over-period returns,
// in percent. Fewer than two prices yields 0; a zero previous price counts as a
// zero return.
func Volatility(prices []float64) float64 {
	if len(prices) < 2 {
		return 0
	}
	returns := make([]float64, 0, len(prices)-1)
	var sum float64
	for i := 1; i < len(prices); i++ {
		r := SafeDiv(finite(prices[i])-finite(prices[i-1]), prices[i-1])
		returns = append(returns, r)
		sum += r
	}
	mean := sum / float64(len(returns))
	var variance float64
	for _, r := range returns {
		variance += (r - mean) * (r - mean)
	}
	variance /= float64(len(returns))
	return finite(math.Sqrt(variance) * 100)
}

// BreakEvenPrice is the unit price at which the position recovers its cost.
func BreakEvenPrice(totalInvested, totalAmount float64) float64 {
	return SafeDiv(totalInvested, totalAmount)
}

// PositionSize is the asset's share of portfolio value in percent.
func PositionSize(assetValue, portfolioValue float64) float64 {
	return SafeRatio(assetValue, portfolioValue)
}

// AverageBuyPrice is the volume-weighted average price of the transactions.
func AverageBuyPrice(transactions []models.Transaction) float64 {
	var amount, cost float64
	for _, tx := range transactions {
		a := finite(tx.Amount)
		amount += a
		cost += a * finite(tx.Price)
	}
	return SafeDiv(cost, amount)
}

// MergeCost returns the combined amount and volume-weighted buy price of two lots.
func MergeCost(oldAmount, oldPrice, addAmount, addPrice float64) (amount, price float64) {
	amount = finite(finite(oldAmount) + finite(addAmount))
	price = SafeDiv(finite(oldAmount)*finite(oldPrice)+finite(addAmount)*finite(addPrice), amount)
	return amount, price
}
