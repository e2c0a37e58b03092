package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"strings"
	"testing"
	"time"

	"github.com/google/subcommands"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/cryptodash/internal/clients/coingecko"
	"github.com/bobmcallan/cryptodash/internal/common"
	"github.com/bobmcallan/cryptodash/internal/validate"
)

func TestTransient(t *testing.T) {
	assert.True(t, transient(&coingecko.TransportError{Kind: coingecko.KindRateLimited}))
	assert.True(t, transient(&coingecko.TransportError{Kind: coingecko.KindNetwork}))
	assert.True(t, transient(&coingecko.TransportError{Kind: coingecko.KindServerError}))
	assert.False(t, transient(&coingecko.TransportError{Kind: coingecko.KindNotFound}))
	assert.False(t, transient(errors.New("plain")))
}

func TestWithRetry_StopsOnPermanentError(t *testing.T) {
	calls := 0
	notFound := &coingecko.TransportError{Kind: coingecko.KindNotFound}
	err := withRetry(context.Background(), func(context.Context) error {
		calls++
		return notFound
	})
	assert.Equal(t, 1, calls)
	assert.Same(t, notFound, err)
}

func TestWithRetry_RetriesTransient(t *testing.T) {
	calls := 0
	err := withRetry(context.Background(), func(context.Context) error {
		calls++
		if calls == 1 {
			return &coingecko.TransportError{Kind: coingecko.KindServerError}
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 2, calls)
}

func TestParseDate(t *testing.T) {
	d, err := parseDate("")
	require.NoError(t, err)
	assert.Nil(t, d)

	d, err = parseDate("2024-02-29")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d.Time)
	assert.Equal(t, "2024-02-29", d.String())

	_, err = parseDate("29/02/2024")
	assert.Error(t, err)
}

func TestFail_ValidationIsUsageError(t *testing.T) {
	assert.Equal(t, subcommands.ExitUsageError, fail("adding", validate.NewValidationError("amount", "Amount is required")))
	assert.Equal(t, subcommands.ExitFailure, fail("adding", errors.New("boom")))
}

func TestRegister_AllCommands(t *testing.T) {
	c := subcommands.NewCommander(flag.NewFlagSet("cryptodash", flag.ContinueOnError), "cryptodash")
	register(c)

	var names []string
	c.VisitCommands(func(_ *subcommands.CommandGroup, cmd subcommands.Command) {
		names = append(names, cmd.Name())
	})
	for _, want := range []string{"add", "remove", "update", "clear", "holdings", "summary", "watch", "unwatch",
		"watchlist", "alert", "alerts", "markets", "search", "coin", "chart", "trending", "theme", "currency", "version", "run"} {
		assert.Contains(t, names, want)
	}
}

func TestVersionCmd_PrintsNameOnce(t *testing.T) {
	var buf bytes.Buffer
	cmd := &versionCmd{out: &buf}
	status := cmd.Execute(context.Background(), flag.NewFlagSet("version", flag.ContinueOnError))

	assert.Equal(t, subcommands.ExitSuccess, status)
	assert.Equal(t, common.GetFullVersion()+"\n", buf.String())
	assert.Equal(t, 1, strings.Count(buf.String(), "cryptodash"))
}
