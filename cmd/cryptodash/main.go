// Command cryptodash tracks a crypto portfolio, a watchlist and price alerts
// against CoinGecko market data.
package main

import (
	"context"
	"flag"
	"os"
	"path"

	"github.com/google/subcommands"
)

// Global flags, shared by every command.
var (
	configPath = flag.String("config", "", "Path to cryptodash.toml (default: CRYPTODASH_CONFIG, then next to the binary)")
	dataPath   = flag.String("data", "", "Data directory, overrides [storage] path")
	verbose    = flag.Bool("v", false, "Log at the configured level instead of warnings only")
	rawOutput  = flag.Bool("raw", false, "Print markdown without terminal rendering")
)

// register adds every command to the commander.
func register(c *subcommands.Commander) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(&versionCmd{}, "")
	c.Register(&runCmd{}, "")

	c.Register(&addCmd{}, "portfolio")
	c.Register(&removeCmd{}, "portfolio")
	c.Register(&updateCmd{}, "portfolio")
	c.Register(&clearCmd{}, "portfolio")
	c.Register(&holdingsCmd{}, "portfolio")
	c.Register(&summaryCmd{}, "portfolio")

	c.Register(&watchCmd{}, "watchlist")
	c.Register(&unwatchCmd{}, "watchlist")
	c.Register(&watchlistCmd{}, "watchlist")

	c.Register(&alertCmd{}, "alerts")
	c.Register(&alertsCmd{}, "alerts")

	c.Register(&marketsCmd{}, "market")
	c.Register(&searchCmd{}, "market")
	c.Register(&coinCmd{}, "market")
	c.Register(&chartCmd{}, "market")
	c.Register(&trendingCmd{}, "market")

	c.Register(&themeCmd{}, "preferences")
	c.Register(&currencyCmd{}, "preferences")
}

func main() {
	commander := subcommands.NewCommander(flag.CommandLine, path.Base(os.Args[0]))
	register(commander)

	flag.Parse()
	os.Exit(int(commander.Execute(context.Background())))
}
