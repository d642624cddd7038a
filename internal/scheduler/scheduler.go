package scheduler

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"StockPulse/internal/collector"
	"StockPulse/internal/news"
	"StockPulse/internal/notifier"
	"StockPulse/internal/quota"
	"StockPulse/internal/recorder"
	"StockPulse/internal/signal"
)

const maxSendRetries = 3

// Sender posts messages and embeds to the channel with retry.
type Sender interface {
	SendTextWithRetry(ctx context.Context, text string, maxRetries int) error
	SendEmbedWithRetry(ctx context.Context, embed *discordgo.MessageEmbed, maxRetries int) error
}

// Scheduler runs the price and news loops on cron intervals.
type Scheduler struct {
	Cron      *cron.Cron
	Collector *collector.Collector
	Notifier  Sender
	Dedupe    *news.DedupeStore
	Quota     *quota.Manager
	Recorder  recorder.Recorder
	Tickers   []string
	Ctx       context.Context

	log             zerolog.Logger
	priceSpacing    time.Duration
	newsSpacing     time.Duration
	maxNewsPerCycle int
}

// NewScheduler creates a new Scheduler.
func NewScheduler(ctx context.Context, col *collector.Collector, sender Sender, dedupe *news.DedupeStore,
	qm *quota.Manager, rec recorder.Recorder, tickers []string, log zerolog.Logger) *Scheduler {
	return &Scheduler{
		Cron:            cron.New(),
		Collector:       col,
		Notifier:        sender,
		Dedupe:          dedupe,
		Quota:           qm,
		Recorder:        rec,
		Tickers:         tickers,
		Ctx:             ctx,
		log:             log,
		priceSpacing:    1200 * time.Millisecond,
		newsSpacing:     time.Second,
		maxNewsPerCycle: 10,
	}
}

// RegisterAll registers the price and news loops.
func (s *Scheduler) RegisterAll(priceEvery, newsEvery time.Duration) error {
	if _, err := s.Cron.AddFunc(everySpec(priceEvery), s.priceTask); err != nil {
		return fmt.Errorf("register price loop: %w", err)
	}
	if _, err := s.Cron.AddFunc(everySpec(newsEvery), s.newsTask); err != nil {
		return fmt.Errorf("register news loop: %w", err)
	}
	return nil
}

func everySpec(d time.Duration) string {
	return fmt.Sprintf("@every %ds", int(d.Seconds()))
}

// Start starts the cron scheduler.
func (s *Scheduler) Start() {
	s.Cron.Start()
	s.log.Info().Msg("scheduler started")
}

// Stop stops the cron scheduler gracefully.
func (s *Scheduler) Stop() {
	s.Cron.Stop()
	s.log.Info().Msg("scheduler stopped")
}

// RunPriceNow executes the price task immediately (manual trigger / RUN_ON_START).
func (s *Scheduler) RunPriceNow() {
	s.priceTask()
}

// RunNewsNow executes the news task immediately.
func (s *Scheduler) RunNewsNow() {
	s.newsTask()
}

func (s *Scheduler) priceTask() {
	s.log.Debug().Msg("running price task")

	// One intraday request per ticker.
	if !s.Quota.Allow(len(s.Tickers)) {
		s.log.Warn().Int("remaining", s.Quota.Remaining()).Msg("daily API quota exhausted, skipping price cycle")
		return
	}

	for _, sym := range s.Tickers {
		if s.Ctx.Err() != nil {
			return
		}

		snap, err := s.Collector.CollectPrice(s.Ctx, sym)
		if err != nil {
			if errors.Is(err, collector.ErrThrottled) {
				s.log.Warn().Str("symbol", sym).Msg("market data rate limited, continuing")
			} else {
				s.log.Error().Str("symbol", sym).Err(err).Msg("price collect failed")
			}
			continue
		}

		flow, err := s.Collector.CollectFlow(s.Ctx, sym)
		if err != nil {
			s.log.Warn().Str("symbol", sym).Err(err).Msg("options flow fetch failed")
			flow = nil
		}
		if flow != nil {
			snap.CallVolume = flow.CallVolume
			snap.PutVolume = flow.PutVolume
		}

		sig := signal.Evaluate(snap)
		s.trySend(notifier.FormatPriceUpdate(snap, sig, flow))

		if err := s.Recorder.RecordPrice(&recorder.PriceEvent{
			Symbol: snap.Symbol, Price: snap.Last, Change: snap.Change,
			EMA9: snap.EMA9, EMA21: snap.EMA21, VWAP: snap.VWAP,
			SpikeRatio: snap.SpikeRatio, SpikeVolume: snap.SpikeVolume,
			CallVolume: snap.CallVolume, PutVolume: snap.PutVolume,
		}); err != nil {
			s.log.Error().Err(err).Msg("record price")
		}
		if flow != nil {
			if err := s.Recorder.RecordFlow(&recorder.FlowEvent{
				Symbol: flow.Symbol, CallVolume: flow.CallVolume,
				PutVolume: flow.PutVolume, Contracts: flow.Contracts,
			}); err != nil {
				s.log.Error().Err(err).Msg("record flow")
			}
		}

		s.pause(s.priceSpacing)
	}
}

func (s *Scheduler) newsTask() {
	s.log.Debug().Msg("running news task")

	// The whole news cycle is a single feed request.
	if !s.Quota.Allow(1) {
		s.log.Warn().Msg("daily API quota exhausted, skipping news cycle")
		return
	}

	headlines, err := s.Collector.CollectNews(s.Ctx, s.Tickers)
	if err != nil {
		if errors.Is(err, collector.ErrThrottled) {
			s.log.Warn().Msg("news feed rate limited, continuing")
		} else {
			s.log.Error().Err(err).Msg("news collect failed")
		}
		return
	}

	posted := 0
	for _, h := range headlines {
		if posted >= s.maxNewsPerCycle || s.Ctx.Err() != nil {
			break
		}

		seen, err := s.Dedupe.Seen(h.ID)
		if err != nil {
			s.log.Warn().Str("news_id", h.ID).Err(err).Msg("dedupe lookup failed")
			continue
		}
		if seen {
			continue
		}

		if err := s.Notifier.SendEmbedWithRetry(s.Ctx, notifier.NewsEmbed(h), maxSendRetries); err != nil {
			s.log.Error().Str("news_id", h.ID).Err(err).Msg("send news embed")
			continue
		}
		if err := s.Dedupe.MarkPosted(h.ID); err != nil {
			s.log.Error().Str("news_id", h.ID).Err(err).Msg("mark news posted")
		}
		if err := s.Recorder.RecordNews(&recorder.NewsEvent{
			NewsID: h.ID, Title: h.Title, URL: h.URL,
			Tickers: h.Tickers, Source: h.Source,
		}); err != nil {
			s.log.Error().Err(err).Msg("record news")
		}

		posted++
		s.pause(s.newsSpacing)
	}

	if posted > 0 {
		s.log.Info().Int("posted", posted).Msg("news cycle done")
	}
}

// HandleCommand processes a user command and returns a reply.
func (s *Scheduler) HandleCommand(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return ""
	}

	switch fields[0] {
	case "!price":
		go s.priceTask()
		return ""
	case "!news":
		go s.newsTask()
		return ""
	case "!flow":
		if len(fields) < 2 {
			return "Usage: `!flow SYMBOL`"
		}
		sym := strings.ToUpper(fields[1])
		flow, err := s.Collector.CollectFlow(s.Ctx, sym)
		if err != nil {
			s.log.Error().Str("symbol", sym).Err(err).Msg("flow command")
			return fmt.Sprintf("Failed to fetch options flow for %s.", sym)
		}
		return notifier.FormatFlowReport(flow)
	case "!quota":
		return notifier.FormatQuotaStatus(s.Quota.Remaining(), s.Quota.Limit())
	default:
		return notifier.FormatHelp()
	}
}

func (s *Scheduler) trySend(text string) {
	if err := s.Notifier.SendTextWithRetry(s.Ctx, text, maxSendRetries); err != nil {
		s.log.Error().Err(err).Msg("send notification")
	}
}

func (s *Scheduler) pause(spacing time.Duration) {
	select {
	case <-s.Ctx.Done():
	case <-time.After(spacing):
	}
}
