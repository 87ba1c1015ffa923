package cmd

import (
	"log/slog"
	"testing"

	"github.com/theirongolddev/budgetview/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAmount(t *testing.T) {
	v, err := parseAmount("1,250.50")
	require.NoError(t, err)
	assert.InDelta(t, 1250.5, v, 1e-9)

	v, err = parseAmount(" 0 ")
	require.NoError(t, err)
	assert.Zero(t, v)

	_, err = parseAmount("-5")
	assert.Error(t, err)
	_, err = parseAmount("lots")
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, parseLevel("DEBUG"))
	assert.Equal(t, slog.LevelWarn, parseLevel("warning"))
	assert.Equal(t, slog.LevelError, parseLevel("error"))
	assert.Equal(t, slog.LevelInfo, parseLevel(""))
}

func TestURLAndOutputPrecedence(t *testing.T) {
	t.Setenv(config.APIURLEnv, "")
	cfg := config.DefaultConfig()
	cfg.API.BaseURL = "http://from-config:4000"
	cfg.General.OutputDir = "/from/config"

	assert.Equal(t, "http://from-config:4000", apiURL(cfg))
	assert.Equal(t, "/from/config", outputDir(cfg))

	t.Setenv(config.APIURLEnv, "http://from-env:4000")
	assert.Equal(t, "http://from-env:4000", apiURL(cfg))

	flagAPIURL, flagOutDir = "http://from-flag:4000", "/from/flag"
	t.Cleanup(func() { flagAPIURL, flagOutDir = "", "" })
	assert.Equal(t, "http://from-flag:4000", apiURL(cfg))
	assert.Equal(t, "/from/flag", outputDir(cfg))
}
