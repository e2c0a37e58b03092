package common

import (
	"fmt"
	"io"
	"strings"

	"github.com/ternarybob/banner"
)

// PrintBanner writes the startup banner for the run command.
func PrintBanner(w io.Writer, config *Config, logger *Logger) {
	lineColor := banner.ColorCyan
	textColor := banner.ColorBold + banner.ColorWhite
	hr := lineColor + strings.Repeat("═", 60) + banner.ColorReset

	art := []string{
		`   ___                 _            _           _     `,
		`  / __|_ _ _  _ _ __| |_ ___  __| |__ _ ___| |_   `,
		` | (__| '_| || | '_ \  _/ _ \/ _' / _' (_-<| ' \  `,
		`  \___|_|  \_, | .__/\__\___/\__,_\__,_/__/|_||_| `,
		`           |__/|_|                                `,
	}

	fmt.Fprintf(w, "\n%s\n\n", hr)
	for _, line := range art {
		fmt.Fprintf(w, "%s%s%s\n", textColor, line, banner.ColorReset)
	}
	fmt.Fprintf(w, "\n%s  Crypto Portfolio Dashboard%s\n\n%s\n\n", textColor, banner.ColorReset, hr)

	kvLines := [][2]string{
		{"Version", GetVersion()},
		{"Build", GetBuild()},
		{"Commit", GetGitCommit()},
		{"Environment", config.Environment},
		{"Currency", strings.ToUpper(config.Currency)},
		{"Storage", config.Storage.Backend + " @ " + config.Storage.Path},
		{"API", config.Clients.CoinGecko.BaseURL},
		{"Refresh", config.Refresh.GetInterval().String()},
	}
	for _, kv := range kvLines {
		fmt.Fprintf(w, "%s  %-14s %s%s\n", textColor, kv[0], kv[1], banner.ColorReset)
	}
	fmt.Fprintf(w, "\n%s\n\n", hr)

	logger.Info().
		Str("version", GetVersion()).
		Str("environment", config.Environment).
		Str("storage_backend", config.Storage.Backend).
		Str("storage_path", config.Storage.Path).
		Dur("refresh_interval", config.Refresh.GetInterval()).
		Msg("Dashboard started")
}

// PrintShutdownBanner writes the shutdown line.
func PrintShutdownBanner(w io.Writer, logger *Logger) {
	hr := banner.ColorCyan + strings.Repeat("═", 36) + banner.ColorReset
	fmt.Fprintf(w, "\n%s\n%s  CRYPTODASH: SHUTTING DOWN%s\n%s\n\n", hr, banner.ColorBold+banner.ColorWhite, banner.ColorReset, hr)
	logger.Info().Msg("Dashboard shutting down")
}
