package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/bobmcallan/cryptodash/internal/models"
	"github.com/bobmcallan/cryptodash/internal/report"
	"github.com/bobmcallan/cryptodash/internal/validate"
	"github.com/bobmcallan/cryptodash/internal/valuation"
)

var coinSorts = map[string]valuation.CoinSortField{
	"market_cap": valuation.SortMarketCap,
	"rank":       valuation.SortMarketCapRank,
	"price":      valuation.SortPrice,
	"24h":        valuation.SortChange24h,
	"7d":         valuation.SortChange7d,
	"volume":     valuation.SortVolume,
	"name":       valuation.SortName,
}

// marketsCmd prints the top coins, or the biggest movers.
type marketsCmd struct {
	limit   int
	gainers bool
	losers  bool
	sort    string
	asc     bool
	global  bool
}

func (*marketsCmd) Name() string     { return "markets" }
func (*marketsCmd) Synopsis() string { return "display top coins by market cap" }
func (*marketsCmd) Usage() string {
	return `cryptodash markets [-n <count>] [-gainers | -losers] [-sort <field>] [-asc] [-global]

  Sort fields: market_cap, rank, price, 24h, 7d, volume, name.
`
}

func (c *marketsCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.limit, "n", 20, "Number of coins")
	f.BoolVar(&c.gainers, "gainers", false, "Show the biggest 24h gainers")
	f.BoolVar(&c.losers, "losers", false, "Show the biggest 24h losers")
	f.StringVar(&c.sort, "sort", "", "Re-sort the result by this field")
	f.BoolVar(&c.asc, "asc", false, "Sort ascending")
	f.BoolVar(&c.global, "global", false, "Include global market figures")
}

func (c *marketsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.gainers && c.losers {
		fmt.Fprintln(os.Stderr, "Use only one of -gainers and -losers")
		return subcommands.ExitUsageError
	}
	field, ok := coinSorts[c.sort]
	if c.sort != "" && !ok {
		fmt.Fprintf(os.Stderr, "Unknown sort field %q\n", c.sort)
		return subcommands.ExitUsageError
	}
	if c.limit <= 0 {
		c.limit = 20
	}

	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()
	currency := a.Preferences.Currency()

	title := "Top Coins"
	fetch := a.Market.GetTopCoins
	switch {
	case c.gainers:
		title, fetch = "Top Gainers (24h)", a.Market.GetTopGainers
	case c.losers:
		title, fetch = "Top Losers (24h)", a.Market.GetTopLosers
	}

	var coins []models.CoinMarket
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		coins, err = fetch(ctx, c.limit, currency)
		return err
	})
	if err != nil {
		return fail("fetching markets", err)
	}
	if ok {
		dir := valuation.Descending
		if c.asc {
			dir = valuation.Ascending
		}
		coins = valuation.SortCoins(coins, field, dir)
	}

	var md strings.Builder
	if c.global {
		var g *models.GlobalMarket
		err := withRetry(ctx, func(ctx context.Context) error {
			var err error
			g, err = a.Market.GetGlobal(ctx)
			return err
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching global market: %v\n", err)
		} else {
			md.WriteString(report.GlobalMarkdown(g, currency))
			md.WriteString("\n")
		}
	}
	md.WriteString(report.MarketsMarkdown(title, coins, currency))
	printMarkdown(a, md.String())
	return subcommands.ExitSuccess
}

// searchCmd looks coins up by name or symbol.
type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "search coins by name or symbol" }
func (*searchCmd) Usage() string {
	return `cryptodash search <query>
`
}

func (*searchCmd) SetFlags(*flag.FlagSet) {}

func (c *searchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	query := strings.TrimSpace(strings.Join(f.Args(), " "))
	if err := validate.SearchQuery(query); err != nil {
		return fail("searching", validate.NewValidationError("query", err.Error()))
	}
	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	var result *models.SearchResult
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		result, err = a.Market.Search(ctx, query)
		return err
	})
	if err != nil {
		return fail("searching", err)
	}
	printMarkdown(a, report.SearchMarkdown(query, result))
	return subcommands.ExitSuccess
}

// coinCmd prints the detail of one coin.
type coinCmd struct{}

func (*coinCmd) Name() string     { return "coin" }
func (*coinCmd) Synopsis() string { return "display one coin in detail" }
func (*coinCmd) Usage() string {
	return `cryptodash coin <coin-id>
`
}

func (*coinCmd) SetFlags(*flag.FlagSet) {}

func (c *coinCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	id := strings.ToLower(f.Arg(0))
	if err := validate.CoinID(id); err != nil {
		return fail("fetching coin", validate.NewValidationError("coinId", err.Error()))
	}
	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	var detail *models.CoinDetail
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		detail, err = a.Market.GetCoinDetail(ctx, id, models.DefaultDetailParams())
		return err
	})
	if err != nil {
		return fail("fetching "+id, err)
	}
	printMarkdown(a, report.CoinMarkdown(detail, a.Preferences.Currency()))
	return subcommands.ExitSuccess
}

// chartCmd writes a price history chart to a PNG file.
type chartCmd struct {
	days int
	out  string
}

func (*chartCmd) Name() string     { return "chart" }
func (*chartCmd) Synopsis() string { return "write a price chart PNG" }
func (*chartCmd) Usage() string {
	return `cryptodash chart [-days 1|7|30|90|365] [-o <file.png>] <coin-id>
`
}

func (c *chartCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.days, "days", 30, "History window in days")
	f.StringVar(&c.out, "o", "", "Output file (default: <coin-id>-<days>d.png)")
}

func (c *chartCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	id := strings.ToLower(f.Arg(0))
	if err := validate.CoinID(id); err != nil {
		return fail("charting", validate.NewValidationError("coinId", err.Error()))
	}
	days := report.ChartDays(c.days)
	out := c.out
	if out == "" {
		out = fmt.Sprintf("%s-%dd.png", id, days)
	}

	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()
	currency := a.Preferences.Currency()

	var mc *models.MarketChart
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		mc, err = a.Market.GetMarketChart(ctx, id, currency, days)
		return err
	})
	if err != nil {
		return fail("fetching "+id, err)
	}

	title := fmt.Sprintf("%s %dd (%s)", id, days, strings.ToUpper(currency))
	png, err := report.PriceChartPNG(title, mc)
	if err != nil {
		return fail("rendering chart", err)
	}
	if err := os.WriteFile(out, png, 0644); err != nil {
		return fail("writing "+out, err)
	}
	fmt.Println(out)
	return subcommands.ExitSuccess
}

// trendingCmd prints the trending search list.
type trendingCmd struct{}

func (*trendingCmd) Name() string     { return "trending" }
func (*trendingCmd) Synopsis() string { return "display trending coins" }
func (*trendingCmd) Usage() string {
	return `cryptodash trending
`
}

func (*trendingCmd) SetFlags(*flag.FlagSet) {}

func (c *trendingCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	var t *models.Trending
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		t, err = a.Market.GetTrending(ctx)
		return err
	})
	if err != nil {
		return fail("fetching trending", err)
	}
	printMarkdown(a, report.TrendingMarkdown(t))
	return subcommands.ExitSuccess
}
