package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/subcommands"

	"github.com/bobmcallan/cryptodash/internal/report"
)

// watchCmd adds coins to the watchlist.
type watchCmd struct{}

func (*watchCmd) Name() string     { return "watch" }
func (*watchCmd) Synopsis() string { return "add coins to the watchlist" }
func (*watchCmd) Usage() string {
	return `cryptodash watch <coin-id>...
`
}

func (*watchCmd) SetFlags(*flag.FlagSet) {}

func (c *watchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	result := subcommands.ExitSuccess
	for _, id := range f.Args() {
		if err := a.Watchlist.AddToWatchlist(ctx, strings.ToLower(id)); err != nil {
			result = fail("watching "+id, err)
		}
	}
	return result
}

// unwatchCmd removes coins from the watchlist.
type unwatchCmd struct{}

func (*unwatchCmd) Name() string     { return "unwatch" }
func (*unwatchCmd) Synopsis() string { return "remove coins from the watchlist" }
func (*unwatchCmd) Usage() string {
	return `cryptodash unwatch <coin-id>...
`
}

func (*unwatchCmd) SetFlags(*flag.FlagSet) {}

func (c *unwatchCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() == 0 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	for _, id := range f.Args() {
		a.Watchlist.RemoveFromWatchlist(ctx, strings.ToLower(id))
	}
	return subcommands.ExitSuccess
}

// watchlistCmd prints the watched coins with their market data.
type watchlistCmd struct {
	offline    bool
	sparklines string
}

func (*watchlistCmd) Name() string     { return "watchlist" }
func (*watchlistCmd) Synopsis() string { return "display the watchlist" }
func (*watchlistCmd) Usage() string {
	return `cryptodash watchlist [-offline] [-sparklines <dir>]

  Fetches market data for every watched coin and prints it. With -sparklines
  a 7-day PNG per coin is written to <dir>.
`
}

func (c *watchlistCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.offline, "offline", false, "Do not fetch market data")
	f.StringVar(&c.sparklines, "sparklines", "", "Directory to write <coin-id>.png sparklines to")
}

func (c *watchlistCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	if !c.offline {
		if err := withRetry(ctx, a.Watchlist.RefreshMarketData); err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching market data: %v\n", err)
		}
	}

	coins := a.Watchlist.MarketData()
	printMarkdown(a, report.WatchlistMarkdown(a.Watchlist.Items(), coins, a.Preferences.Currency()))

	if c.sparklines == "" {
		return subcommands.ExitSuccess
	}
	if err := os.MkdirAll(c.sparklines, 0755); err != nil {
		return fail("creating "+c.sparklines, err)
	}
	for _, coin := range coins {
		png, err := report.SparklinePNG(coin)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Skipping sparkline for %s: %v\n", coin.ID, err)
			continue
		}
		path := filepath.Join(c.sparklines, coin.ID+".png")
		if err := os.WriteFile(path, png, 0644); err != nil {
			return fail("writing "+path, err)
		}
	}
	return subcommands.ExitSuccess
}
