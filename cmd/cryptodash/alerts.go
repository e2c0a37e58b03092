package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/bobmcallan/cryptodash/internal/app"
	"github.com/bobmcallan/cryptodash/internal/models"
	"github.com/bobmcallan/cryptodash/internal/report"
	"github.com/bobmcallan/cryptodash/internal/validate"
)

// alertCmd creates a price alert.
type alertCmd struct {
	above string
	below string
	name  string
}

func (*alertCmd) Name() string     { return "alert" }
func (*alertCmd) Synopsis() string { return "create a price alert" }
func (*alertCmd) Usage() string {
	return `cryptodash alert (-above <price> | -below <price>) [-name <n>] <coin-id>

  Creates a one-shot alert that fires the first time the price crosses the target.
`
}

func (c *alertCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.above, "above", "", "Fire when the price reaches or exceeds this target")
	f.StringVar(&c.below, "below", "", "Fire when the price reaches or falls below this target")
	f.StringVar(&c.name, "name", "", "Coin display name (default: from market data)")
}

func (c *alertCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 || (c.above == "") == (c.below == "") {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	input := models.AlertInput{
		CoinID:   strings.ToLower(f.Arg(0)),
		CoinName: c.name,
		Type:     models.AlertPriceAbove,
	}
	raw := c.above
	if c.below != "" {
		input.Type = models.AlertPriceBelow
		raw = c.below
	}
	target, err := validate.ParsePrice(raw)
	if err != nil {
		return fail("creating alert", validate.NewValidationError("targetPrice", err.Error()))
	}
	input.TargetPrice = target

	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	if err := validate.CoinID(input.CoinID); err == nil {
		if coin, err := lookupCoin(ctx, a, input.CoinID); err != nil {
			fmt.Fprintf(os.Stderr, "Could not check current price: %v\n", err)
		} else {
			if input.CoinName == "" {
				input.CoinName = coin.Name
			}
			if warning, _ := validate.AlertPrice(target, coin.CurrentPrice); warning != "" {
				fmt.Fprintln(os.Stderr, warning)
			}
		}
	}

	if _, err := a.Alerts.CreateAlert(ctx, input); err != nil {
		return fail("creating alert", err)
	}
	return subcommands.ExitSuccess
}

// alertsCmd lists alerts and manages them by id.
type alertsCmd struct {
	check   bool
	disable string
	delete  string
}

func (*alertsCmd) Name() string     { return "alerts" }
func (*alertsCmd) Synopsis() string { return "list, check, disable or delete alerts" }
func (*alertsCmd) Usage() string {
	return `cryptodash alerts [-check] [-disable <id>] [-delete <id>]

  Lists every alert. Ids may be abbreviated to any unique prefix.
  -check fetches prices for the coins of active alerts and fires any that crossed.
`
}

func (c *alertsCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.check, "check", false, "Evaluate active alerts against current prices")
	f.StringVar(&c.disable, "disable", "", "Disable the alert with this id")
	f.StringVar(&c.delete, "delete", "", "Delete the alert with this id")
}

func (c *alertsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	if c.disable != "" {
		id, err := resolveAlertID(a, c.disable)
		if err != nil {
			return fail("disabling alert", err)
		}
		if err := a.Alerts.DisableAlert(ctx, id); err != nil {
			return fail("disabling alert", err)
		}
	}
	if c.delete != "" {
		id, err := resolveAlertID(a, c.delete)
		if err != nil {
			return fail("deleting alert", err)
		}
		a.Alerts.DeleteAlert(ctx, id)
	}
	if c.check {
		if err := withRetry(ctx, a.Alerts.RefreshAndEvaluate); err != nil {
			fmt.Fprintf(os.Stderr, "Error checking alerts: %v\n", err)
		}
	}

	printMarkdown(a, report.AlertsMarkdown(a.Alerts.Alerts(), a.Preferences.Currency(), time.Now()))
	return subcommands.ExitSuccess
}

// resolveAlertID expands a unique id prefix.
func resolveAlertID(a *app.App, prefix string) (string, error) {
	var matches []string
	for _, al := range a.Alerts.Alerts() {
		if al.ID == prefix {
			return al.ID, nil
		}
		if strings.HasPrefix(al.ID, prefix) {
			matches = append(matches, al.ID)
		}
	}
	switch len(matches) {
	case 0:
		return "", fmt.Errorf("no alert matches %q", prefix)
	case 1:
		return matches[0], nil
	}
	return "", fmt.Errorf("%q matches %d alerts", prefix, len(matches))
}
