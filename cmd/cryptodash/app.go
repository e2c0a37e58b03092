package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/google/subcommands"

	"github.com/bobmcallan/cryptodash/internal/app"
	"github.com/bobmcallan/cryptodash/internal/clients/coingecko"
	"github.com/bobmcallan/cryptodash/internal/common"
	"github.com/bobmcallan/cryptodash/internal/models"
	"github.com/bobmcallan/cryptodash/internal/report"
	"github.com/bobmcallan/cryptodash/internal/validate"
)

// loadConfig reads the config file and applies the global flag overrides.
func loadConfig(quiet bool) (*common.Config, error) {
	cfg, err := common.LoadConfig(app.ResolveConfigPath(*configPath))
	if err != nil {
		return nil, err
	}
	if *dataPath != "" {
		cfg.Storage.Path = *dataPath
	}
	if quiet && !*verbose {
		cfg.Logging.Level = "warn"
	}
	return cfg, nil
}

// openApp builds the App for a one-shot command. Errors are printed.
func openApp() (*app.App, subcommands.ExitStatus) {
	cfg, err := loadConfig(true)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		return nil, subcommands.ExitFailure
	}
	a, err := app.NewAppFromConfig(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening data directory: %v\n", err)
		return nil, subcommands.ExitFailure
	}
	return a, subcommands.ExitSuccess
}

// printMarkdown renders md in the preferred theme unless -raw is set.
func printMarkdown(a *app.App, md string) {
	if *rawOutput {
		fmt.Print(md)
		return
	}
	fmt.Print(report.Render(md, report.StyleFor(a.Preferences.Theme()), report.DefaultWidth))
}

// fail prints err, with every field of a validation error on its own line.
func fail(action string, err error) subcommands.ExitStatus {
	var ve *validate.ValidationError
	if errors.As(err, &ve) {
		fmt.Fprintf(os.Stderr, "Error %s:\n", action)
		keys := make([]string, 0, len(ve.Fields))
		for k := range ve.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(os.Stderr, "  %s: %s\n", k, ve.Fields[k])
		}
		return subcommands.ExitUsageError
	}
	fmt.Fprintf(os.Stderr, "Error %s: %v\n", action, err)
	return subcommands.ExitFailure
}

// transient reports whether a failed request is worth repeating.
func transient(err error) bool {
	var te *coingecko.TransportError
	if !errors.As(err, &te) {
		return false
	}
	switch te.Kind {
	case coingecko.KindNetwork, coingecko.KindRateLimited, coingecko.KindServerError:
		return true
	}
	return false
}

// withRetry repeats fn on transient transport errors only.
func withRetry(ctx context.Context, fn func(ctx context.Context) error) error {
	var permanent error
	err := common.Retry(ctx, 2, time.Second, func(ctx context.Context) error {
		err := fn(ctx)
		if err != nil && !transient(err) {
			permanent = err
			return nil
		}
		return err
	})
	if permanent != nil {
		return permanent
	}
	return err
}

// lookupCoin fetches the current market record of one coin.
func lookupCoin(ctx context.Context, a *app.App, id string) (*models.CoinMarket, error) {
	var coins []models.CoinMarket
	err := withRetry(ctx, func(ctx context.Context) error {
		var err error
		coins, err = a.Market.GetCoinsByIDs(ctx, []string{id}, models.MarketsParams{VsCurrency: a.Preferences.Currency()})
		return err
	})
	if err != nil {
		return nil, err
	}
	for i := range coins {
		if coins[i].ID == id {
			return &coins[i], nil
		}
	}
	return nil, fmt.Errorf("coin %q not found", id)
}

// parseDate accepts YYYY-MM-DD in UTC.
func parseDate(raw string) (*models.Date, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	t, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", raw)
	}
	d := models.NewDate(t)
	return &d, nil
}
