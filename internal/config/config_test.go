package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DISCORD_BOT_TOKEN", "DISCORD_CHANNEL_ID", "ALPHAVANTAGE_API_KEY",
		"POLYGON_API_KEY", "TICKERS", "PRICE_LOOP_SECONDS", "NEWS_LOOP_SECONDS",
		"ALPHA_DAILY_QUOTA", "SQLITE_PATH", "DEDUPE_PATH", "QUOTA_STATE_FILE",
		"HTTPS_PROXY", "LOG_LEVEL",
	} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.Equal(t, DefaultTickers, cfg.Tickers)
	assert.Equal(t, 60*time.Second, cfg.PriceInterval())
	assert.Equal(t, 300*time.Second, cfg.NewsInterval())
	assert.Equal(t, "data/stockpulse.db", cfg.Database.SQLitePath)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoad_EnvOverridesFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
discord:
  bot_token: from-file
  channel_id: "123"
alpha_vantage:
  api_key: alpha-file
tickers: [aapl, msft]
loops:
  price_seconds: 30
`), 0644))

	t.Setenv("DISCORD_BOT_TOKEN", "from-env")
	t.Setenv("PRICE_LOOP_SECONDS", "90")
	t.Setenv("TICKERS", " nvda , amd ,")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.Discord.BotToken)
	assert.Equal(t, "123", cfg.Discord.ChannelID)
	assert.Equal(t, "alpha-file", cfg.AlphaVantage.APIKey)
	assert.Equal(t, 90, cfg.Loops.PriceSeconds)
	assert.Equal(t, []string{"NVDA", "AMD"}, cfg.Tickers)
}

func TestLoad_RecordingDisabled(t *testing.T) {
	clearEnv(t)

	// A set-but-empty SQLITE_PATH beats the file and suppresses the default.
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  sqlite_path: from-file.db
`), 0644))
	t.Setenv("SQLITE_PATH", "")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Database.SQLitePath)

	t.Setenv("SQLITE_PATH", "OFF")
	cfg, err = Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Database.SQLitePath)
}

func TestLoad_RecordingDisabledFromFile(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
database:
  sqlite_path: off
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Empty(t, cfg.Database.SQLitePath)
}

func TestParseTickers(t *testing.T) {
	assert.Equal(t, []string{"AAPL", "MSFT"}, ParseTickers("aapl, msft"))
	assert.Equal(t, []string{"SPY"}, ParseTickers(",spy,,"))
	assert.Empty(t, ParseTickers(",, ,"))
}

func TestValidate(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.NoError(t, err)

	assert.ErrorContains(t, cfg.Validate(), "bot_token")

	cfg.Discord.BotToken = "tok"
	assert.ErrorContains(t, cfg.Validate(), "channel_id")

	cfg.Discord.ChannelID = "123"
	assert.ErrorContains(t, cfg.Validate(), "api_key")

	cfg.AlphaVantage.APIKey = "key"
	assert.NoError(t, cfg.Validate())

	cfg.Loops.PriceSeconds = -1
	assert.ErrorContains(t, cfg.Validate(), "price_seconds")
}
