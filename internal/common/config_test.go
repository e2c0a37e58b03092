package common

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Defaults(t *testing.T) {
	cfg := NewDefaultConfig()
	assert.Equal(t, "usd", cfg.Currency)
	assert.Equal(t, "file", cfg.Storage.Backend)
	assert.Equal(t, 60*time.Second, cfg.Refresh.GetInterval())
	assert.True(t, cfg.Refresh.Coalesce)
	assert.Equal(t, 30*time.Second, cfg.Clients.CoinGecko.GetTimeout())
}

func TestConfig_BadDurationsFallBack(t *testing.T) {
	r := RefreshConfig{Interval: "soon"}
	assert.Equal(t, 60*time.Second, r.GetInterval())

	c := CoinGeckoConfig{Timeout: "-5s"}
	assert.Equal(t, 30*time.Second, c.GetTimeout())
}

func TestConfig_EnvOverrides(t *testing.T) {
	t.Setenv("CRYPTODASH_API_KEY", "from-env")
	t.Setenv("CRYPTODASH_DATA_PATH", "/tmp/cd")
	t.Setenv("CRYPTODASH_REFRESH_INTERVAL", "15s")
	t.Setenv("CRYPTODASH_REFRESH_COALESCE", "false")
	t.Setenv("CRYPTODASH_STORAGE_BACKEND", "BADGER")

	cfg := NewDefaultConfig()
	applyEnvOverrides(cfg)

	assert.Equal(t, "from-env", cfg.Clients.CoinGecko.APIKey)
	assert.Equal(t, "/tmp/cd", cfg.Storage.Path)
	assert.Equal(t, 15*time.Second, cfg.Refresh.GetInterval())
	assert.False(t, cfg.Refresh.Coalesce)
	assert.Equal(t, "badger", cfg.Storage.Backend)
}

func TestLoadConfig_FileOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cryptodash.toml")
	content := `
currency = "EUR"

[refresh]
interval = "2m"

[clients.coingecko]
rate_limit = 5
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	cfg, err := LoadConfig(filepath.Join(dir, "missing.toml"), path)
	require.NoError(t, err)

	assert.Equal(t, "eur", cfg.Currency)
	assert.Equal(t, 2*time.Minute, cfg.Refresh.GetInterval())
	assert.Equal(t, 5, cfg.Clients.CoinGecko.RateLimit)
	assert.Equal(t, "https://api.coingecko.com/api/v3", cfg.Clients.CoinGecko.BaseURL)
}

func TestLoadConfig_InvalidTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bad.toml")
	require.NoError(t, os.WriteFile(path, []byte("currency = [\n"), 0644))

	_, err := LoadConfig(path)
	assert.Error(t, err)
}
