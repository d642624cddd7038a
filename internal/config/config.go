package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultTickers is used when no ticker list is configured.
var DefaultTickers = []string{"AAPL", "MSFT", "SPY", "TSLA", "QQQ"}

// Config holds all application configuration.
type Config struct {
	Discord struct {
		BotToken  string `yaml:"bot_token"`
		ChannelID string `yaml:"channel_id"`
	} `yaml:"discord"`
	AlphaVantage struct {
		APIKey     string `yaml:"api_key"`
		DailyQuota int    `yaml:"daily_quota"` // 0 = unlimited
	} `yaml:"alpha_vantage"`
	Polygon struct {
		APIKey string `yaml:"api_key"` // empty disables options flow
	} `yaml:"polygon"`
	Tickers []string `yaml:"tickers"`
	Loops   struct {
		PriceSeconds int `yaml:"price_seconds"`
		NewsSeconds  int `yaml:"news_seconds"`
	} `yaml:"loops"`
	Database struct {
		SQLitePath string `yaml:"sqlite_path"` // "off" disables recording
		DedupePath string `yaml:"dedupe_path"`
	} `yaml:"database"`
	Quota struct {
		StateFile string `yaml:"state_file"`
	} `yaml:"quota"`
	LogLevel string `yaml:"log_level"`
	Proxy    string `yaml:"proxy"`
}

// Load reads config from a YAML file, then applies environment variable
// overrides, then defaults.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if len(data) > 0 {
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config: %w", err)
		}
	}

	// Environment variable overrides
	if v := os.Getenv("DISCORD_BOT_TOKEN"); v != "" {
		cfg.Discord.BotToken = v
	}
	if v := os.Getenv("DISCORD_CHANNEL_ID"); v != "" {
		cfg.Discord.ChannelID = v
	}
	if v := os.Getenv("ALPHAVANTAGE_API_KEY"); v != "" {
		cfg.AlphaVantage.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("POLYGON_API_KEY")); v != "" {
		cfg.Polygon.APIKey = v
	}
	if v := os.Getenv("TICKERS"); v != "" {
		cfg.Tickers = ParseTickers(v)
	}
	if v := os.Getenv("PRICE_LOOP_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Loops.PriceSeconds = n
		}
	}
	if v := os.Getenv("NEWS_LOOP_SECONDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Loops.NewsSeconds = n
		}
	}
	if v := os.Getenv("ALPHA_DAILY_QUOTA"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.AlphaVantage.DailyQuota = n
		}
	}
	// SQLITE_PATH set but empty (or "off") disables recording, so the
	// empty value must win over the file here.
	if v, ok := os.LookupEnv("SQLITE_PATH"); ok {
		cfg.Database.SQLitePath = v
	}
	if v := os.Getenv("DEDUPE_PATH"); v != "" {
		cfg.Database.DedupePath = v
	}
	if v := os.Getenv("QUOTA_STATE_FILE"); v != "" {
		cfg.Quota.StateFile = v
	}
	if v := os.Getenv("HTTPS_PROXY"); v != "" {
		cfg.Proxy = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}

	// Defaults
	if len(cfg.Tickers) == 0 {
		cfg.Tickers = DefaultTickers
	}
	if cfg.Loops.PriceSeconds == 0 {
		cfg.Loops.PriceSeconds = 60
	}
	if cfg.Loops.NewsSeconds == 0 {
		cfg.Loops.NewsSeconds = 300
	}
	if strings.EqualFold(cfg.Database.SQLitePath, "off") {
		cfg.Database.SQLitePath = ""
	} else if _, explicit := os.LookupEnv("SQLITE_PATH"); cfg.Database.SQLitePath == "" && !explicit {
		cfg.Database.SQLitePath = "data/stockpulse.db"
	}
	if cfg.Database.DedupePath == "" {
		cfg.Database.DedupePath = "data/news_seen.db"
	}
	if cfg.Quota.StateFile == "" {
		cfg.Quota.StateFile = "data/quota_state.json"
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	return cfg, nil
}

// ParseTickers splits a comma-separated ticker list, trimming and
// upper-casing each symbol and dropping empties.
func ParseTickers(raw string) []string {
	parts := strings.Split(raw, ",")
	tickers := make([]string, 0, len(parts))
	for _, p := range parts {
		if t := strings.ToUpper(strings.TrimSpace(p)); t != "" {
			tickers = append(tickers, t)
		}
	}
	return tickers
}

// PriceInterval returns the price loop interval.
func (c *Config) PriceInterval() time.Duration {
	return time.Duration(c.Loops.PriceSeconds) * time.Second
}

// NewsInterval returns the news loop interval.
func (c *Config) NewsInterval() time.Duration {
	return time.Duration(c.Loops.NewsSeconds) * time.Second
}

// Validate checks that all required fields are set.
func (c *Config) Validate() error {
	if c.Discord.BotToken == "" {
		return fmt.Errorf("discord.bot_token is required (DISCORD_BOT_TOKEN)")
	}
	if c.Discord.ChannelID == "" {
		return fmt.Errorf("discord.channel_id is required (DISCORD_CHANNEL_ID)")
	}
	if c.AlphaVantage.APIKey == "" {
		return fmt.Errorf("alpha_vantage.api_key is required (ALPHAVANTAGE_API_KEY)")
	}
	if c.Loops.PriceSeconds <= 0 {
		return fmt.Errorf("loops.price_seconds must be positive")
	}
	if c.Loops.NewsSeconds <= 0 {
		return fmt.Errorf("loops.news_seconds must be positive")
	}
	return nil
}
