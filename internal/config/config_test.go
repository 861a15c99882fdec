package config

import (
	"os"
	"path/filepath"
	"testing"

	"SwingSentinel/internal/backtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"TELEGRAM_BOT_TOKEN", "TELEGRAM_CHAT_ID", "HTTPS_PROXY", "SQLITE_PATH",
		"SWING_SYMBOL", "LOG_LEVEL", "DEBUG_TOPICS",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, []int{5, 10, 21, 50}, cfg.Strategy.EMASpans)
	assert.Equal(t, 14, cfg.Strategy.ATRPeriod)
	assert.Equal(t, 30.0, cfg.Strategy.VIXThreshold)
	assert.Equal(t, "QQQ", cfg.DataSource.Symbol)
	assert.Equal(t, "^VIX", cfg.DataSource.VolatilitySymbol)
	assert.Equal(t, 20.0, cfg.DataSource.FallbackVIX)
	assert.True(t, cfg.HTTP.Enabled)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.NoError(t, cfg.Validate())

	assert.Equal(t, backtest.DefaultConfig(), cfg.Strategy.BacktestConfig())
}

func TestLoad_FileAndEnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
strategy:
  vix_threshold: 25
  max_hold_days: 7
  suppress_overlap: true
  default_shares: 10
data_source:
  symbol: SPY
http:
  enabled: false
telegram:
  enabled: true
  chat_id: "42"
`)
	t.Setenv("TELEGRAM_BOT_TOKEN", "token-from-env")
	t.Setenv("SWING_SYMBOL", "IWM")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, 25.0, cfg.Strategy.VIXThreshold)
	assert.Equal(t, 14, cfg.Strategy.ATRPeriod, "unset keys keep defaults")
	assert.Equal(t, "IWM", cfg.DataSource.Symbol, "env wins over file")
	assert.False(t, cfg.HTTP.Enabled)
	assert.Equal(t, "token-from-env", cfg.Telegram.BotToken)
	assert.Equal(t, "debug", cfg.Log.Level)

	bc := cfg.Strategy.BacktestConfig()
	assert.Equal(t, 25.0, bc.Signals.VIXThreshold)
	assert.Equal(t, 7, bc.Match.MaxHoldDays)
	assert.Equal(t, 10, bc.Match.DefaultShares)
	assert.True(t, bc.Match.SuppressOverlap)
	assert.Equal(t, [4]int{5, 10, 21, 50}, bc.Indicators.EMASpans)
}

func TestLoad_ParseError(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "strategy: [not a map")

	_, err := Load(path)
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"telegram enabled without token", func(c *Config) { c.Telegram.Enabled = true; c.Telegram.ChatID = "1" }, "telegram.bot_token is required"},
		{"target 2 below target 1", func(c *Config) { c.Strategy.ATRTarget2Multiplier = 1 }, "strategy.atr_target2_multiplier"},
		{"three ema spans", func(c *Config) { c.Strategy.EMASpans = []int{5, 10, 21} }, "strategy.ema_spans must have 4 entries"},
		{"zero atr period", func(c *Config) { c.Strategy.ATRPeriod = 0 }, "strategy.atr_period must be greater than 0"},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, "log.format must be one of: console, json"},
		{"negative default shares", func(c *Config) { c.Strategy.DefaultShares = -1 }, "strategy.default_shares"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
			require.NoError(t, err)
			tt.mutate(cfg)

			err = cfg.Validate()

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
