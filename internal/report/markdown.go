// Package report builds markdown and chart views of the dashboard state.
package report

import (
	"fmt"
	"strings"
	"time"

	"github.com/bobmcallan/cryptodash/internal/format"
	"github.com/bobmcallan/cryptodash/internal/models"
	"github.com/bobmcallan/cryptodash/internal/signals"
	"github.com/bobmcallan/cryptodash/internal/valuation"
)

func coinLabel(name, symbol string) string {
	if symbol == "" {
		return name
	}
	return fmt.Sprintf("%s (%s)", name, strings.ToUpper(symbol))
}

// PortfolioMarkdown renders the summary and every holding, largest position first.
func PortfolioMarkdown(summary valuation.Summary, holdings []models.Holding, currency string) string {
	var sb strings.Builder
	money := func(v float64) string { return format.Currency(v, currency) }

	sb.WriteString("# Portfolio\n\n")
	if len(holdings) == 0 {
		sb.WriteString("_No holdings yet. Add an asset to get started._\n")
		return sb.String()
	}

	sb.WriteString(summaryTable(summary, currency))
	sb.WriteString("\n")

	shares := make(map[string]float64, len(holdings))
	for _, d := range valuation.PortfolioDistribution(holdings) {
		shares[d.Holding.ID] = d.Distribution
	}

	sb.WriteString("## Holdings\n\n")
	sb.WriteString("| Coin | Amount | Avg Buy | Price | Value | P/L | P/L % | 24h | Share |\n")
	sb.WriteString("|------|--------|---------|-------|-------|-----|-------|-----|-------|\n")
	for _, h := range valuation.SortByValue(holdings, valuation.Descending) {
		pl := valuation.AssetProfitLoss(h.Amount, h.BuyPrice, h.CurrentPrice)
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s | %s | %.1f%% |\n",
			coinLabel(h.Name, h.Symbol),
			format.CryptoAmount(h.Amount, 8),
			money(h.BuyPrice),
			money(h.CurrentPrice),
			money(pl.CurrentValue),
			money(pl.Profit),
			format.Percent(pl.Percentage, 2),
			format.Percent(h.PriceChangePercent24h, 2),
			shares[h.ID],
		))
	}
	return sb.String()
}

func summaryTable(summary valuation.Summary, currency string) string {
	var sb strings.Builder
	money := func(v float64) string { return format.Currency(v, currency) }

	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Total Value | %s |\n", money(summary.TotalValue)))
	sb.WriteString(fmt.Sprintf("| Total Invested | %s |\n", money(summary.TotalInvestment)))
	sb.WriteString(fmt.Sprintf("| Profit/Loss | %s (%s) |\n", money(summary.TotalProfitLoss), format.Percent(summary.TotalProfitLossPercent, 2)))
	sb.WriteString(fmt.Sprintf("| 24h Change | %s (%s) |\n", money(summary.Change24h.Value), format.Percent(summary.Change24h.Percentage, 2)))
	sb.WriteString(fmt.Sprintf("| Assets | %d |\n", summary.AssetCount))
	if summary.Best != nil && summary.Worst != nil {
		sb.WriteString(fmt.Sprintf("| Best Performer | %s %s |\n", summary.Best.Holding.Name, format.Percent(summary.Best.Performance, 2)))
		sb.WriteString(fmt.Sprintf("| Worst Performer | %s %s |\n", summary.Worst.Holding.Name, format.Percent(summary.Worst.Performance, 2)))
	}
	return sb.String()
}

// SummaryMarkdown renders only the headline figures.
func SummaryMarkdown(summary valuation.Summary, currency string) string {
	return "# Portfolio Summary\n\n" + summaryTable(summary, currency)
}

// MarketsMarkdown renders a coin table under title.
func MarketsMarkdown(title string, coins []models.CoinMarket, currency string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", title))
	if len(coins) == 0 {
		sb.WriteString("_No coins._\n")
		return sb.String()
	}

	sb.WriteString("| # | Coin | Price | 24h | 7d | Market Cap | Volume |\n")
	sb.WriteString("|---|------|-------|-----|----|------------|--------|\n")
	for _, c := range coins {
		rank := "-"
		if c.MarketCapRank > 0 {
			rank = fmt.Sprintf("%d", c.MarketCapRank)
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s | %s |\n",
			rank,
			coinLabel(c.Name, c.Symbol),
			format.Currency(c.CurrentPrice, currency),
			format.Percent(c.PriceChangePercentage24h, 2),
			format.Percent(c.PriceChangePercentage7dInCurrency, 2),
			format.MarketCap(c.MarketCap, currency),
			format.Volume(c.TotalVolume, currency),
		))
	}
	return sb.String()
}

// WatchlistMarkdown renders the watched coins. ids without market data are
// listed as pending.
func WatchlistMarkdown(ids []string, coins []models.CoinMarket, currency string) string {
	if len(ids) == 0 {
		return "# Watchlist\n\n_Your watchlist is empty._\n"
	}
	md := MarketsMarkdown("Watchlist", coins, currency)

	have := make(map[string]bool, len(coins))
	for _, c := range coins {
		have[c.ID] = true
	}
	var pending []string
	for _, id := range ids {
		if !have[id] {
			pending = append(pending, id)
		}
	}
	if len(pending) > 0 {
		md += fmt.Sprintf("\n_Waiting for market data: %s_\n", strings.Join(pending, ", "))
	}
	return md
}

// AlertsMarkdown renders alerts, triggered ones first.
func AlertsMarkdown(alerts []models.Alert, currency string, now time.Time) string {
	var sb strings.Builder
	sb.WriteString("# Alerts\n\n")
	if len(alerts) == 0 {
		sb.WriteString("_No alerts._\n")
		return sb.String()
	}

	sb.WriteString("| ID | Coin | Rule | Target | Status | Created |\n")
	sb.WriteString("|----|------|------|--------|--------|---------|\n")
	for _, a := range valuation.SortAlertsByPriority(alerts) {
		rule := "above"
		if a.Type == models.AlertPriceBelow {
			rule = "below"
		}
		name := a.CoinName
		if name == "" {
			name = a.CoinID
		}
		status := string(a.Status)
		if a.TriggeredAt != nil {
			status += " " + format.TimeAgo(*a.TriggeredAt, now)
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s | %s |\n",
			shortID(a.ID), name, rule, format.Currency(a.TargetPrice, currency), status, format.TimeAgo(a.CreatedAt, now)))
	}
	return sb.String()
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// TrendingMarkdown lists trending coins in score order.
func TrendingMarkdown(t *models.Trending) string {
	var sb strings.Builder
	sb.WriteString("# Trending\n\n")
	if t == nil || len(t.Coins) == 0 {
		sb.WriteString("_Nothing trending._\n")
		return sb.String()
	}
	sb.WriteString("| Score | ID | Coin | Rank | Price (BTC) |\n")
	sb.WriteString("|-------|----|------|------|-------------|\n")
	for _, c := range t.Coins {
		it := c.Item
		sb.WriteString(fmt.Sprintf("| %d | %s | %s | %d | %s |\n", it.Score+1, it.ID, coinLabel(it.Name, it.Symbol), it.MarketCapRank, format.CryptoAmount(it.PriceBTC, 8)))
	}
	return sb.String()
}

// GlobalMarkdown renders total market figures in currency.
func GlobalMarkdown(g *models.GlobalMarket, currency string) string {
	var sb strings.Builder
	sb.WriteString("# Global Market\n\n")
	if g == nil {
		sb.WriteString("_No data._\n")
		return sb.String()
	}
	sb.WriteString("| Metric | Value |\n")
	sb.WriteString("|--------|-------|\n")
	sb.WriteString(fmt.Sprintf("| Market Cap | %s |\n", format.MarketCap(g.TotalMarketCap[currency], currency)))
	sb.WriteString(fmt.Sprintf("| 24h Volume | %s |\n", format.Volume(g.TotalVolume[currency], currency)))
	sb.WriteString(fmt.Sprintf("| Market Cap 24h | %s |\n", format.Percent(g.MarketCapChangePercentage24hUSD, 2)))
	sb.WriteString(fmt.Sprintf("| BTC Dominance | %.1f%% |\n", g.MarketCapPercentage["btc"]))
	sb.WriteString(fmt.Sprintf("| Active Coins | %s |\n", format.Number(float64(g.ActiveCryptocurrencies), 0)))
	return sb.String()
}

// SearchMarkdown lists search hits.
func SearchMarkdown(query string, result *models.SearchResult) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# Search: %s\n\n", query))
	if result == nil || len(result.Coins) == 0 {
		sb.WriteString("_No coins found._\n")
		return sb.String()
	}
	sb.WriteString("| Rank | ID | Coin |\n")
	sb.WriteString("|------|----|------|\n")
	for _, c := range result.Coins {
		rank := "-"
		if c.MarketCapRank > 0 {
			rank = fmt.Sprintf("%d", c.MarketCapRank)
		}
		sb.WriteString(fmt.Sprintf("| %s | %s | %s |\n", rank, c.ID, coinLabel(c.Name, c.Symbol)))
	}
	return sb.String()
}

// CoinMarkdown renders a coin detail in currency.
func CoinMarkdown(d *models.CoinDetail, currency string) string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("# %s\n\n", coinLabel(d.Name, d.Symbol)))

	if m := d.MarketData; m != nil {
		sb.WriteString("| Metric | Value |\n")
		sb.WriteString("|--------|-------|\n")
		sb.WriteString(fmt.Sprintf("| Price | %s |\n", format.Currency(m.CurrentPrice[currency], currency)))
		sb.WriteString(fmt.Sprintf("| 24h | %s |\n", format.Percent(m.PriceChangePercentage24h, 2)))
		sb.WriteString(fmt.Sprintf("| 7d | %s |\n", format.Percent(m.PriceChangePercentage7d, 2)))
		sb.WriteString(fmt.Sprintf("| 30d | %s |\n", format.Percent(m.PriceChangePercentage30d, 2)))
		sb.WriteString(fmt.Sprintf("| Market Cap | %s |\n", format.MarketCap(m.MarketCap[currency], currency)))
		sb.WriteString(fmt.Sprintf("| Volume | %s |\n", format.Volume(m.TotalVolume[currency], currency)))
		sb.WriteString(fmt.Sprintf("| Circulating Supply | %s |\n", format.Supply(m.CirculatingSupply)))
		if m.SparklineIn7d != nil {
			sb.WriteString(fmt.Sprintf("| 7d Volatility | %.2f |\n", valuation.Volatility(m.SparklineIn7d.Price)))
		}
		sb.WriteString("\n")

		if m.SparklineIn7d != nil {
			sb.WriteString(technicalMarkdown(signals.Compute(m.SparklineIn7d.Price), currency))
		}
	}

	if desc := strings.TrimSpace(d.Description["en"]); desc != "" {
		sb.WriteString(desc)
		sb.WriteString("\n")
	}
	return sb.String()
}

// technicalMarkdown renders indicators computed from the hourly 7d sparkline.
func technicalMarkdown(ind *signals.Indicators, currency string) string {
	if ind == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString("## Technical (7d hourly)\n\n")
	sb.WriteString("| Indicator | Value |\n")
	sb.WriteString("|-----------|-------|\n")
	sb.WriteString(fmt.Sprintf("| SMA %dh | %s (%s) |\n", signals.ShortWindow,
		format.Currency(ind.SMAShort, currency), format.Percent(signals.DistanceToSMA(ind.Price, ind.SMAShort), 2)))
	sb.WriteString(fmt.Sprintf("| SMA %dh | %s (%s) |\n", signals.LongWindow,
		format.Currency(ind.SMALong, currency), format.Percent(signals.DistanceToSMA(ind.Price, ind.SMALong), 2)))
	sb.WriteString(fmt.Sprintf("| RSI %d | %.1f %s |\n", signals.RSIPeriod, ind.RSI, ind.RSILabel))
	sb.WriteString(fmt.Sprintf("| Support | %s |\n", format.Currency(ind.Support, currency)))
	sb.WriteString(fmt.Sprintf("| Resistance | %s |\n", format.Currency(ind.Resistance, currency)))
	sb.WriteString(fmt.Sprintf("\n%s\n\n", ind.Description))
	return sb.String()
}
