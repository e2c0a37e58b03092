package valuation

import (
	"sort"
	"strings"

	"github.com/bobmcallan/cryptodash/internal/models"
)

// SortDirection orders a sort ascending or descending
type SortDirection string

const (
	Ascending  SortDirection = "asc"
	Descending SortDirection = "desc"
)

// CoinSortField names a sortable market column.
type CoinSortField string

const (
	SortMarketCap     CoinSortField = "market_cap"
	SortPrice         CoinSortField = "current_price"
	SortChange24h     CoinSortField = "price_change_percentage_24h"
	SortChange7d      CoinSortField = "price_change_percentage_7d_in_currency"
	SortVolume        CoinSortField = "total_volume"
	SortName          CoinSortField = "name"
	SortMarketCapRank CoinSortField = "market_cap_rank"
)

func sortedCopy[T any](in []T, less func(a, b T) bool) []T {
	out := make([]T, len(in))
	copy(out, in)
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// SortByValue orders holdings by current value, highest first unless dir is Ascending.
func SortByValue(holdings []models.Holding, dir SortDirection) []models.Holding {
	return sortedCopy(holdings, func(a, b models.Holding) bool {
		if dir == Ascending {
			return holdingValue(a) < holdingValue(b)
		}
		return holdingValue(a) > holdingValue(b)
	})
}

// SortByProfitLoss orders holdings by absolute profit.
func SortByProfitLoss(holdings []models.Holding, dir SortDirection) []models.Holding {
	pl := func(h models.Holding) float64 { return AssetProfitLoss(h.Amount, h.BuyPrice, h.CurrentPrice).Profit }
	return sortedCopy(holdings, func(a, b models.Holding) bool {
		if dir == Ascending {
			return pl(a) < pl(b)
		}
		return pl(a) > pl(b)
	})
}

// SortByProfitLossPercent orders holdings by profit percentage.
func SortByProfitLossPercent(holdings []models.Holding, dir SortDirection) []models.Holding {
	pct := func(h models.Holding) float64 { return AssetProfitLoss(h.Amount, h.BuyPrice, h.CurrentPrice).Percentage }
	return sortedCopy(holdings, func(a, b models.Holding) bool {
		if dir == Ascending {
			return pct(a) < pct(b)
		}
		return pct(a) > pct(b)
	})
}

func coinField(c models.CoinMarket, field CoinSortField) float64 {
	switch field {
	case SortPrice:
		return finite(c.CurrentPrice)
	case SortChange24h:
		return finite(c.PriceChangePercentage24h)
	case SortChange7d:
		return finite(c.PriceChangePercentage7dInCurrency)
	case SortVolume:
		return finite(c.TotalVolume)
	case SortMarketCapRank:
		return float64(c.MarketCapRank)
	default:
		return finite(c.MarketCap)
	}
}

// SortCoins orders market records by field. Names compare case-insensitively.
func SortCoins(coins []models.CoinMarket, field CoinSortField, dir SortDirection) []models.CoinMarket {
	return sortedCopy(coins, func(a, b models.CoinMarket) bool {
		if field == SortName {
			an, bn := strings.ToLower(a.Name), strings.ToLower(b.Name)
			if dir == Descending {
				return an > bn
			}
			return an < bn
		}
		if dir == Ascending {
			return coinField(a, field) < coinField(b, field)
		}
		return coinField(a, field) > coinField(b, field)
	})
}

// TopCoins returns the n highest coins by field.
func TopCoins(coins []models.CoinMarket, field CoinSortField, n int) []models.CoinMarket {
	return head(SortCoins(coins, field, Descending), n)
}

// BottomCoins returns the n lowest coins by field.
func BottomCoins(coins []models.CoinMarket, field CoinSortField, n int) []models.CoinMarket {
	return head(SortCoins(coins, field, Ascending), n)
}

func head[T any](in []T, n int) []T {
	if n < 0 {
		n = 0
	}
	if n < len(in) {
		return in[:n]
	}
	return in
}

func alertPriority(s models.AlertStatus) int {
	switch s {
	case models.AlertTriggered:
		return 0
	case models.AlertActive:
		return 1
	default:
		return 2
	}
}

// SortAlertsByPriority puts triggered alerts first, then active, then disabled.
func SortAlertsByPriority(alerts []models.Alert) []models.Alert {
	return sortedCopy(alerts, func(a, b models.Alert) bool {
		return alertPriority(a.Status) < alertPriority(b.Status)
	})
}

// SortAlertsByDate orders alerts by creation time, newest first unless dir is Ascending.
func SortAlertsByDate(alerts []models.Alert, dir SortDirection) []models.Alert {
	return sortedCopy(alerts, func(a, b models.Alert) bool {
		if dir == Ascending {
			return a.CreatedAt.Before(b.CreatedAt)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
}
