// Package valuation computes portfolio figures from holding snapshots.
//
// Every function is pure: it reads the slice it is given and never mutates it.
// Missing or non-finite numeric fields count as 0, and every division goes
// through SafeDiv so no result is ever NaN or infinite.
package valuation

import (
	"sort"

	"github.com/bobmcallan/cryptodash/internal/models"
)

// AssetPL is the profit/loss of a single position.
type AssetPL struct {
	Profit       float64 `json:"profit"`
	Percentage   float64 `json:"percentage"`
	IsProfit     bool    `json:"isProfit"`
	Invested     float64 `json:"invested"`
	CurrentValue float64 `json:"currentValue"`
}

// Change is an absolute and relative move.
type Change struct {
	Value      float64 `json:"value"`
	Percentage float64 `json:"percentage"`
}

// Distribution is a holding's share of total portfolio value.
type Distribution struct {
	Holding      models.Holding `json:"holding"`
	Value        float64        `json:"value"`
	Distribution float64        `json:"distribution"`
}

// Performer is a holding with its profit/loss percentage.
type Performer struct {
	Holding     models.Holding `json:"holding"`
	Performance float64        `json:"performance"`
}

// Summary bundles the headline portfolio figures.
type Summary struct {
	TotalValue             float64    `json:"totalValue"`
	TotalInvestment        float64    `json:"totalInvestment"`
	TotalProfitLoss        float64    `json:"totalProfitLoss"`
	TotalProfitLossPercent float64    `json:"totalProfitLossPercent"`
	Change24h              Change     `json:"change24h"`
	Best                   *Performer `json:"best,omitempty"`
	Worst                  *Performer `json:"worst,omitempty"`
	AssetCount             int        `json:"assetCount"`
}

func holdingValue(h models.Holding) float64 {
	return finite(finite(h.Amount) * finite(h.CurrentPrice))
}

func holdingCost(h models.Holding) float64 {
	return finite(finite(h.Amount) * finite(h.BuyPrice))
}

// TotalValue is the sum of amount x current price.
func TotalValue(holdings []models.Holding) float64 {
	var total float64
	for _, h := range holdings {
		total += holdingValue(h)
	}
	return finite(total)
}

// TotalInvestment is the sum of amount x buy price.
func TotalInvestment(holdings []models.Holding) float64 {
	var total float64
	for _, h := range holdings {
		total += holdingCost(h)
	}
	return finite(total)
}

// TotalProfitLoss is value minus investment.
func TotalProfitLoss(holdings []models.Holding) float64 {
	return finite(TotalValue(holdings) - TotalInvestment(holdings))
}

// TotalProfitLossPercent is profit/loss over investment, 0 when nothing is invested.
func TotalProfitLossPercent(holdings []models.Holding) float64 {
	return SafeRatio(TotalProfitLoss(holdings), TotalInvestment(holdings))
}

// AssetProfitLoss returns the position's profit/loss. Any zero input yields
// the zero result, not just a zero buy price.
func AssetProfitLoss(amount, buyPrice, currentPrice float64) AssetPL {
	amount, buyPrice, currentPrice = finite(amount), finite(buyPrice), finite(currentPrice)
	if amount == 0 || buyPrice == 0 || currentPrice == 0 {
		return AssetPL{}
	}
	invested := finite(amount * buyPrice)
	current := finite(amount * currentPrice)
	profit := finite(current - invested)
	return AssetPL{
		Profit:       profit,
		Percentage:   SafeRatio(profit, invested),
		IsProfit:     profit >= 0,
		Invested:     invested,
		CurrentValue: current,
	}
}

// PortfolioDistribution returns each holding's value share in input order.
// Every share is 0 when the total value is 0.
func PortfolioDistribution(holdings []models.Holding) []Distribution {
	if len(holdings) == 0 {
		return []Distribution{}
	}
	total := TotalValue(holdings)
	out := make([]Distribution, len(holdings))
	for i, h := range holdings {
		v := holdingValue(h)
		out[i] = Distribution{Holding: h, Value: v, Distribution: SafeRatio(v, total)}
	}
	return out
}

// Change24h back-derives each holding's price 24h ago from its percentage move
// and compares totals.
//
// This is an approximation: it assumes every amount was the same 24h ago, which
// only holds when nothing was bought or sold in that window. A -100% move
// implies a yesterday price of 0.
func Change24h(holdings []models.Holding) Change {
	if len(holdings) == 0 {
		return Change{}
	}
	current := TotalValue(holdings)
	var yesterday float64
	for _, h := range holdings {
		price := SafeDiv(h.CurrentPrice, 1+finite(h.PriceChangePercent24h)/100)
		yesterday += finite(finite(h.Amount) * price)
	}
	yesterday = finite(yesterday)
	value := finite(current - yesterday)
	return Change{Value: value, Percentage: SafeRatio(value, yesterday)}
}

// BestWorstPerformers ranks holdings by profit/loss percentage. Both results
// are nil for an empty snapshot. Ties keep input order.
func BestWorstPerformers(holdings []models.Holding) (best, worst *Performer) {
	if len(holdings) == 0 {
		return nil, nil
	}
	ranked := make([]Performer, len(holdings))
	for i, h := range holdings {
		ranked[i] = Performer{
			Holding:     h,
			Performance: AssetProfitLoss(h.Amount, h.BuyPrice, h.CurrentPrice).Percentage,
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Performance > ranked[j].Performance
	})
	b, w := ranked[0], ranked[len(ranked)-1]
	return &b, &w
}

// Summarize computes the headline figures in one pass over the snapshot.
func Summarize(holdings []models.Holding) Summary {
	best, worst := BestWorstPerformers(holdings)
	return Summary{
		TotalValue:             TotalValue(holdings),
		TotalInvestment:        TotalInvestment(holdings),
		TotalProfitLoss:        TotalProfitLoss(holdings),
		TotalProfitLossPercent: TotalProfitLossPercent(holdings),
		Change24h:              Change24h(holdings),
		Best:                   best,
		Worst:                  worst,
		AssetCount:             len(holdings),
	}
}
