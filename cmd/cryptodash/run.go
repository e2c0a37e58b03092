package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/google/subcommands"

	"github.com/bobmcallan/cryptodash/internal/app"
	"github.com/bobmcallan/cryptodash/internal/common"
	"github.com/bobmcallan/cryptodash/internal/report"
)

// versionCmd prints build information.
type versionCmd struct {
	out io.Writer // os.Stdout when nil
}

func (*versionCmd) Name() string           { return "version" }
func (*versionCmd) Synopsis() string       { return "print version information" }
func (*versionCmd) Usage() string          { return "cryptodash version\n" }
func (*versionCmd) SetFlags(*flag.FlagSet) {}

func (c *versionCmd) Execute(context.Context, *flag.FlagSet, ...interface{}) subcommands.ExitStatus {
	out := c.out
	if out == nil {
		out = os.Stdout
	}
	fmt.Fprintln(out, common.GetFullVersion())
	return subcommands.ExitSuccess
}

// runCmd keeps every store refreshed and redraws the dashboard until interrupted.
type runCmd struct {
	every string
}

func (*runCmd) Name() string     { return "run" }
func (*runCmd) Synopsis() string { return "run the live dashboard" }
func (*runCmd) Usage() string {
	return `cryptodash run [-every <duration>]

  Refreshes the portfolio, watchlist and alerts on the configured interval and
  prints the dashboard after each round. Stops on SIGINT or SIGTERM.
`
}

func (c *runCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.every, "every", "", "Redraw period (default: [refresh] interval)")
}

func (c *runCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	cfg, err := loadConfig(false)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return subcommands.ExitFailure
	}
	redraw := cfg.Refresh.GetInterval()
	if c.every != "" {
		d, err := time.ParseDuration(c.every)
		if err != nil || d <= 0 {
			fmt.Fprintf(os.Stderr, "Invalid -every %q\n", c.every)
			return subcommands.ExitUsageError
		}
		redraw = d
	}

	a, err := app.NewAppFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error starting dashboard: %v\n", err)
		return subcommands.ExitFailure
	}
	common.PrintBanner(os.Stdout, cfg, a.Logger)

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	a.StartSchedulers(ctx)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	ticker := time.NewTicker(redraw)
	defer ticker.Stop()

	// first frame after the immediate refresh round has had a moment to land
	first := time.NewTimer(2 * time.Second)
	defer first.Stop()

	for {
		select {
		case <-first.C:
			printMarkdown(a, dashboardMarkdown(a))
		case <-ticker.C:
			printMarkdown(a, dashboardMarkdown(a))
		case <-sigChan:
			a.Logger.Info().Msg("Shutdown signal received")
			cancel()
			common.PrintShutdownBanner(os.Stdout, a.Logger)
			a.Close()
			return subcommands.ExitSuccess
		}
	}
}

// dashboardMarkdown renders portfolio, watchlist and alerts from the in-memory stores.
func dashboardMarkdown(a *app.App) string {
	currency := a.Preferences.Currency()
	sections := []string{
		report.PortfolioMarkdown(a.Portfolio.Summary(), a.Portfolio.Holdings(), currency),
		report.WatchlistMarkdown(a.Watchlist.Items(), a.Watchlist.MarketData(), currency),
		report.AlertsMarkdown(a.Alerts.Alerts(), currency, time.Now()),
	}
	return strings.Join(sections, "\n")
}
