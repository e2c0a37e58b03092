package common

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoggerWithOutput_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLoggerWithOutput("warn", &buf)

	logger.Info().Msg("hidden")
	logger.Warn().Str("coin_id", "bitcoin").Msg("visible")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
	assert.Contains(t, out, `"coin_id":"bitcoin"`)
}

func TestLoggerFromConfig_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "cryptodash.log")
	logger := NewLoggerFromConfig(LoggingConfig{
		Level:     "info",
		Outputs:   []string{"file"},
		FilePath:  path,
		MaxSizeMB: 1,
	})
	require.NotNil(t, logger)
	logger.Info().Msg("written to file")
	assert.FileExists(t, path)
}

func TestParseLevel_UnknownDefaultsToInfo(t *testing.T) {
	assert.Equal(t, "info", parseLevel("loud").String())
}
