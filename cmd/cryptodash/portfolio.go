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

// addCmd adds a holding or merges into the existing one for the coin.
type addCmd struct {
	price  string
	date   string
	name   string
	symbol string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "add coins to the portfolio" }
func (*addCmd) Usage() string {
	return `cryptodash add [-price <p>] [-date YYYY-MM-DD] [-name <n>] [-symbol <s>] <coin-id> <amount>

  Adds <amount> of <coin-id> to the portfolio. Adding a coin already held
  merges the amounts at the volume-weighted average price.
  The buy price defaults to the current market price.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.price, "price", "", "Buy price per unit (default: current price)")
	f.StringVar(&c.date, "date", "", "Purchase date, YYYY-MM-DD")
	f.StringVar(&c.name, "name", "", "Display name (default: from market data)")
	f.StringVar(&c.symbol, "symbol", "", "Ticker symbol (default: from market data)")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 2 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	coinID := strings.ToLower(strings.TrimSpace(f.Arg(0)))
	if err := validate.CoinID(coinID); err != nil {
		return fail("adding asset", validate.NewValidationError("coinId", err.Error()))
	}
	amount, err := validate.ParseAmount(f.Arg(1))
	if err != nil {
		return fail("adding asset", validate.NewValidationError("amount", err.Error()))
	}
	purchased, err := parseDate(c.date)
	if err != nil {
		return fail("adding asset", validate.NewValidationError("date", err.Error()))
	}

	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	input := models.HoldingInput{
		CoinID:       coinID,
		Name:         c.name,
		Symbol:       c.symbol,
		Amount:       amount,
		PurchaseDate: purchased,
	}

	if c.price != "" {
		if input.BuyPrice, err = validate.ParsePrice(c.price); err != nil {
			return fail("adding asset", validate.NewValidationError("buyPrice", err.Error()))
		}
	}
	if c.price == "" || c.name == "" || c.symbol == "" {
		coin, err := lookupCoin(ctx, a, coinID)
		if err != nil {
			return fail("fetching "+coinID, err)
		}
		if c.price == "" {
			input.BuyPrice = coin.CurrentPrice
		}
		if input.Name == "" {
			input.Name = coin.Name
		}
		if input.Symbol == "" {
			input.Symbol = coin.Symbol
		}
		input.Image = coin.Image
	}

	if _, err := a.Portfolio.AddAsset(ctx, input); err != nil {
		return fail("adding asset", err)
	}
	return subcommands.ExitSuccess
}

// removeCmd removes one holding.
type removeCmd struct{}

func (*removeCmd) Name() string     { return "remove" }
func (*removeCmd) Synopsis() string { return "remove a holding from the portfolio" }
func (*removeCmd) Usage() string {
	return `cryptodash remove <holding-id|coin-id>
`
}

func (*removeCmd) SetFlags(*flag.FlagSet) {}

func (c *removeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	h, ok := a.Portfolio.Find(f.Arg(0))
	if !ok {
		fmt.Fprintf(os.Stderr, "No holding matches %q\n", f.Arg(0))
		return subcommands.ExitFailure
	}
	a.Portfolio.RemoveAsset(ctx, h.ID)
	return subcommands.ExitSuccess
}

// updateCmd edits the amount, buy price or purchase date of a holding.
type updateCmd struct {
	amount string
	price  string
	date   string
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "edit a holding" }
func (*updateCmd) Usage() string {
	return `cryptodash update [-amount <a>] [-price <p>] [-date YYYY-MM-DD] <holding-id|coin-id>

  Replaces the given fields of a holding. Unset flags are left unchanged.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "amount", "", "New amount")
	f.StringVar(&c.price, "price", "", "New average buy price")
	f.StringVar(&c.date, "date", "", "New purchase date, YYYY-MM-DD")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}

	var update models.HoldingUpdate
	fields := map[string]string{}
	if c.amount != "" {
		if v, err := validate.ParseAmount(c.amount); err != nil {
			fields["amount"] = err.Error()
		} else {
			update.Amount = &v
		}
	}
	if c.price != "" {
		if v, err := validate.ParsePrice(c.price); err != nil {
			fields["buyPrice"] = err.Error()
		} else {
			update.BuyPrice = &v
		}
	}
	if d, err := parseDate(c.date); err != nil {
		fields["date"] = err.Error()
	} else {
		update.PurchaseDate = d
	}
	if len(fields) > 0 {
		return fail("updating holding", &validate.ValidationError{Fields: fields})
	}
	if update.Amount == nil && update.BuyPrice == nil && update.PurchaseDate == nil {
		fmt.Fprintln(os.Stderr, "Nothing to update: set -amount, -price or -date")
		return subcommands.ExitUsageError
	}

	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	h, ok := a.Portfolio.Find(f.Arg(0))
	if !ok {
		fmt.Fprintf(os.Stderr, "No holding matches %q\n", f.Arg(0))
		return subcommands.ExitFailure
	}
	if err := a.Portfolio.UpdateAsset(ctx, h.ID, update); err != nil {
		return fail("updating holding", err)
	}
	return subcommands.ExitSuccess
}

// clearCmd empties the portfolio or the watchlist.
type clearCmd struct {
	watchlist bool
	yes       bool
}

func (*clearCmd) Name() string     { return "clear" }
func (*clearCmd) Synopsis() string { return "remove every holding" }
func (*clearCmd) Usage() string {
	return `cryptodash clear -yes [-watchlist]

  Removes every holding, or every watched coin with -watchlist.
`
}

func (c *clearCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.watchlist, "watchlist", false, "Clear the watchlist instead of the portfolio")
	f.BoolVar(&c.yes, "yes", false, "Confirm the operation")
}

func (c *clearCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if !c.yes {
		fmt.Fprintln(os.Stderr, "Refusing to clear without -yes")
		return subcommands.ExitUsageError
	}
	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	if c.watchlist {
		a.Watchlist.ClearWatchlist(ctx)
	} else {
		a.Portfolio.ClearPortfolio(ctx)
	}
	return subcommands.ExitSuccess
}

var holdingSorts = map[string]func([]models.Holding, valuation.SortDirection) []models.Holding{
	"value": valuation.SortByValue,
	"pl":    valuation.SortByProfitLoss,
	"plpct": valuation.SortByProfitLossPercent,
}

// holdingsCmd prints the portfolio table.
type holdingsCmd struct {
	offline bool
	sort    string
	asc     bool
}

func (*holdingsCmd) Name() string     { return "holdings" }
func (*holdingsCmd) Synopsis() string { return "display the portfolio with profit and loss" }
func (*holdingsCmd) Usage() string {
	return `cryptodash holdings [-offline] [-sort value|pl|plpct] [-asc]

  Refreshes prices, then prints the summary and one row per holding.
`
}

func (c *holdingsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.offline, "offline", false, "Use the last saved prices")
	f.StringVar(&c.sort, "sort", "value", "Sort by value, pl or plpct")
	f.BoolVar(&c.asc, "asc", false, "Sort ascending")
}

func (c *holdingsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	sortFn, ok := holdingSorts[c.sort]
	if !ok {
		fmt.Fprintf(os.Stderr, "Unknown sort %q\n", c.sort)
		return subcommands.ExitUsageError
	}
	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	refreshPortfolio(ctx, a.Portfolio.RefreshPrices, c.offline)

	dir := valuation.Descending
	if c.asc {
		dir = valuation.Ascending
	}
	holdings := sortFn(a.Portfolio.Holdings(), dir)
	printMarkdown(a, report.PortfolioMarkdown(a.Portfolio.Summary(), holdings, a.Preferences.Currency()))
	return subcommands.ExitSuccess
}

// summaryCmd prints the headline portfolio figures only.
type summaryCmd struct {
	offline bool
}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "display portfolio totals" }
func (*summaryCmd) Usage() string {
	return `cryptodash summary [-offline]
`
}

func (c *summaryCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.offline, "offline", false, "Use the last saved prices")
}

func (c *summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	refreshPortfolio(ctx, a.Portfolio.RefreshPrices, c.offline)
	printMarkdown(a, report.SummaryMarkdown(a.Portfolio.Summary(), a.Preferences.Currency()))
	return subcommands.ExitSuccess
}

// refreshPortfolio runs refresh unless offline. A failure is reported and
// the saved prices are used.
func refreshPortfolio(ctx context.Context, refresh func(context.Context) error, offline bool) {
	if offline {
		return
	}
	if err := withRetry(ctx, refresh); err != nil {
		fmt.Fprintf(os.Stderr, "Using saved prices: %v\n", err)
	}
}
