// Package common provides shared utilities for cryptodash
package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	toml "github.com/pelletier/go-toml/v2"
)

// Config holds all configuration for cryptodash
type Config struct {
	Environment string        `toml:"environment"`
	Currency    string        `toml:"currency"` // vs-currency for market data ("usd" default)
	Storage     StorageConfig `toml:"storage"`
	Clients     ClientsConfig `toml:"clients"`
	Refresh     RefreshConfig `toml:"refresh"`
	Logging     LoggingConfig `toml:"logging"`
}

// StorageConfig holds local key-value storage configuration.
type StorageConfig struct {
	Backend  string `toml:"backend"`  // "file" (default) or "badger"
	Path     string `toml:"path"`     // data directory
	Versions int    `toml:"versions"` // file backend: previous versions kept per key
}

// ClientsConfig holds API client configurations
type ClientsConfig struct {
	CoinGecko CoinGeckoConfig `toml:"coingecko"`
}

// CoinGeckoConfig holds market-data API configuration
type CoinGeckoConfig struct {
	BaseURL   string `toml:"base_url"`
	APIKey    string `toml:"api_key"`
	RateLimit int    `toml:"rate_limit"` // requests per second
	Timeout   string `toml:"timeout"`
}

// GetTimeout parses and returns the timeout duration
func (c *CoinGeckoConfig) GetTimeout() time.Duration {
	d, err := time.ParseDuration(c.Timeout)
	if err != nil || d <= 0 {
		return 30 * time.Second
	}
	return d
}

// RefreshConfig holds the refresh scheduler policy.
type RefreshConfig struct {
	Interval string `toml:"interval"`
	// Coalesce skips a scheduled tick while the previous run of the same job is in flight.
	Coalesce bool `toml:"coalesce"`
}

// GetInterval parses and returns the refresh period
func (c *RefreshConfig) GetInterval() time.Duration {
	d, err := time.ParseDuration(c.Interval)
	if err != nil || d <= 0 {
		return 60 * time.Second
	}
	return d
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level      string   `toml:"level"`
	Format     string   `toml:"format"`
	Outputs    []string `toml:"outputs"`
	FilePath   string   `toml:"file_path"`
	MaxSizeMB  int      `toml:"max_size_mb"`
	MaxBackups int      `toml:"max_backups"`
	MaxAgeDays int      `toml:"max_age_days"`
	Compress   bool     `toml:"compress"`
}

// NewDefaultConfig returns a Config with sensible defaults
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Currency:    "usd",
		Storage: StorageConfig{
			Backend:  "file",
			Path:     "data",
			Versions: 2,
		},
		Clients: ClientsConfig{
			CoinGecko: CoinGeckoConfig{
				BaseURL:   "https://api.coingecko.com/api/v3",
				RateLimit: 1,
				Timeout:   "30s",
			},
		},
		Refresh: RefreshConfig{
			Interval: "60s",
			Coalesce: true,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Format:     "console",
			Outputs:    []string{"console"},
			FilePath:   "./logs/cryptodash.log",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 14,
		},
	}
}

// LoadConfig loads configuration from files with environment overrides
func LoadConfig(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	// Later files override earlier ones
	for _, path := range paths {
		if path == "" {
			continue
		}

		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(config)
	config.Currency = strings.ToLower(strings.TrimSpace(config.Currency))
	if config.Currency == "" {
		config.Currency = "usd"
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("CRYPTODASH_ENV"); env != "" {
		config.Environment = env
	}

	if level := os.Getenv("CRYPTODASH_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}

	if path := os.Getenv("CRYPTODASH_DATA_PATH"); path != "" {
		config.Storage.Path = path
	}

	if backend := os.Getenv("CRYPTODASH_STORAGE_BACKEND"); backend != "" {
		config.Storage.Backend = strings.ToLower(backend)
	}

	if key := os.Getenv("CRYPTODASH_API_KEY"); key != "" {
		config.Clients.CoinGecko.APIKey = key
	}

	if u := os.Getenv("CRYPTODASH_API_URL"); u != "" {
		config.Clients.CoinGecko.BaseURL = u
	}

	if interval := os.Getenv("CRYPTODASH_REFRESH_INTERVAL"); interval != "" {
		config.Refresh.Interval = interval
	}

	if v := os.Getenv("CRYPTODASH_REFRESH_COALESCE"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			config.Refresh.Coalesce = b
		}
	}

	if cur := os.Getenv("CRYPTODASH_CURRENCY"); cur != "" {
		config.Currency = cur
	}
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}
