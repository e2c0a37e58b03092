package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/subcommands"

	"github.com/bobmcallan/cryptodash/internal/models"
)

// themeCmd shows or changes the display theme.
type themeCmd struct{}

func (*themeCmd) Name() string     { return "theme" }
func (*themeCmd) Synopsis() string { return "show or set the display theme" }
func (*themeCmd) Usage() string {
	return `cryptodash theme [dark|light|toggle]
`
}

func (*themeCmd) SetFlags(*flag.FlagSet) {}

func (c *themeCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	switch arg := strings.ToLower(f.Arg(0)); arg {
	case "":
	case "toggle":
		a.Preferences.ToggleTheme(ctx)
	default:
		if err := a.Preferences.SetTheme(ctx, models.Theme(arg)); err != nil {
			return fail("setting theme", err)
		}
	}
	fmt.Println(a.Preferences.Theme())
	return subcommands.ExitSuccess
}

// currencyCmd shows or changes the display currency.
type currencyCmd struct{}

func (*currencyCmd) Name() string     { return "currency" }
func (*currencyCmd) Synopsis() string { return "show or set the display currency" }
func (*currencyCmd) Usage() string {
	return fmt.Sprintf(`cryptodash currency [%s]
`, strings.Join(models.SupportedCurrencies, "|"))
}

func (*currencyCmd) SetFlags(*flag.FlagSet) {}

func (c *currencyCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() > 1 {
		fmt.Fprint(os.Stderr, c.Usage())
		return subcommands.ExitUsageError
	}
	a, status := openApp()
	if a == nil {
		return status
	}
	defer a.Close()

	if f.NArg() == 1 {
		if err := a.Preferences.SetCurrency(ctx, f.Arg(0)); err != nil {
			return fail("setting currency", err)
		}
	}
	fmt.Println(a.Preferences.Currency())
	return subcommands.ExitSuccess
}
