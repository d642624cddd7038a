package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/rs/zerolog"

	"StockPulse/internal/collector"
	"StockPulse/internal/config"
	"StockPulse/internal/news"
	"StockPulse/internal/notifier"
	"StockPulse/internal/quota"
	"StockPulse/internal/recorder"
	"StockPulse/internal/scheduler"
)

func main() {
	// Load config
	cfgPath := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		cfgPath = v
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		startupLog := zerolog.New(os.Stderr)
		startupLog.Fatal().Err(err).Msg("load config")
	}
	if err := cfg.Validate(); err != nil {
		startupLog := zerolog.New(os.Stderr)
		startupLog.Fatal().Err(err).Msg("config validation")
	}

	log := newLogger(cfg.LogLevel)
	log.Info().Msg("StockPulse starting...")

	// State files live under one data dir.
	for _, p := range []string{cfg.Database.SQLitePath, cfg.Database.DedupePath, cfg.Quota.StateFile} {
		if p != "" && p != ":memory:" {
			if err := os.MkdirAll(filepath.Dir(p), 0755); err != nil {
				log.Fatal().Err(err).Str("path", p).Msg("create data dir")
			}
		}
	}

	// Init fetchers
	fetcher := collector.NewAlphaFetcher(cfg.AlphaVantage.APIKey, cfg.Proxy)
	var flow collector.FlowFetcher
	if cfg.Polygon.APIKey != "" {
		pf, err := collector.NewPolygonFlowFetcher(cfg.Polygon.APIKey)
		if err != nil {
			log.Warn().Err(err).Msg("init polygon fetcher failed, options flow disabled")
		} else {
			flow = pf
			log.Info().Msg("options flow enabled")
		}
	}
	log.Info().Str("data_source", fetcher.Name()).Strs("tickers", cfg.Tickers).Msg("collector configured")

	col := collector.NewCollector(fetcher, flow, log.With().Str("component", "collector").Logger())

	// Init API quota manager
	qm, err := quota.NewManager(cfg.Quota.StateFile, cfg.AlphaVantage.DailyQuota, log.With().Str("component", "quota").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("init quota manager")
	}

	// Init news dedupe store
	dedupe, err := news.OpenDedupeStore(cfg.Database.DedupePath)
	if err != nil {
		log.Fatal().Err(err).Msg("open dedupe store")
	}
	defer dedupe.Close()

	// Init recorder
	var rec recorder.Recorder
	if cfg.Database.SQLitePath != "" {
		sr, err := recorder.NewSQLiteRecorder(cfg.Database.SQLitePath, log.With().Str("component", "recorder").Logger())
		if err != nil {
			log.Warn().Err(err).Msg("init sqlite recorder failed, using noop")
			rec = recorder.NewNoopRecorder()
		} else {
			rec = sr
			defer sr.Close()
		}
	} else {
		rec = recorder.NewNoopRecorder()
	}

	// Context for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Init Discord notifier
	dn, err := notifier.NewDiscordNotifier(cfg.Discord.BotToken, cfg.Discord.ChannelID, log.With().Str("component", "discord").Logger())
	if err != nil {
		log.Fatal().Err(err).Msg("init discord notifier")
	}

	// Init scheduler
	sched := scheduler.NewScheduler(ctx, col, dn, dedupe, qm, rec, cfg.Tickers,
		log.With().Str("component", "scheduler").Logger())
	if err := sched.RegisterAll(cfg.PriceInterval(), cfg.NewsInterval()); err != nil {
		log.Fatal().Err(err).Msg("register loops")
	}

	dn.SetCommandHandler(sched.HandleCommand)
	if err := dn.Start(); err != nil {
		log.Fatal().Err(err).Msg("connect to discord")
	}
	defer dn.Close()

	sched.Start()
	defer sched.Stop()

	// Optional: run immediately on start
	if os.Getenv("RUN_ON_START") == "true" {
		log.Info().Msg("RUN_ON_START enabled, executing price task now")
		go sched.RunPriceNow()
	}

	log.Info().
		Dur("price_loop", cfg.PriceInterval()).
		Dur("news_loop", cfg.NewsInterval()).
		Msg("StockPulse is running. Press Ctrl+C to stop.")

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Info().Msg("shutdown signal received, stopping...")
	cancel()
	log.Info().Msg("StockPulse stopped")
}

func newLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stdout,
		TimeFormat: time.RFC3339,
	}).Level(lvl).With().Timestamp().Logger()
}
