package collector

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"StockPulse/internal/calculator"
	"StockPulse/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars      []model.Bar
	Headlines []model.Headline
	Err       error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchIntraday(_ context.Context, _ string) ([]model.Bar, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Bars, nil
}

func (m *MockFetcher) FetchNews(_ context.Context, _ []string, limit int) ([]model.Headline, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if len(m.Headlines) > limit {
		return m.Headlines[:limit], nil
	}
	return m.Headlines, nil
}

// Indicator windows, counted from the newest bar backwards.
const (
	emaWindow  = 50  // closes considered for EMA9/EMA21
	vwapWindow = 120 // bars considered for session VWAP
)

// Collector orchestrates data fetching and indicator computation.
type Collector struct {
	Fetcher Fetcher
	Flow    FlowFetcher // nil when no Polygon key is configured
	log     zerolog.Logger
}

// NewCollector creates a new Collector. flow may be nil.
func NewCollector(fetcher Fetcher, flow FlowFetcher, log zerolog.Logger) *Collector {
	return &Collector{Fetcher: fetcher, Flow: flow, log: log}
}

// CollectPrice fetches intraday bars for one symbol and computes all
// indicators. Indicator failures degrade to zero values with a warning; only
// a failed fetch fails the snapshot.
func (c *Collector) CollectPrice(ctx context.Context, symbol string) (*model.PriceSnapshot, error) {
	bars, err := c.Fetcher.FetchIntraday(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch intraday %s: %w", symbol, err)
	}
	if len(bars) == 0 {
		return nil, fmt.Errorf("no intraday bars for %s", symbol)
	}

	closes := calculator.ExtractCloses(bars)
	vols := calculator.ExtractVolumes(bars)

	snap := &model.PriceSnapshot{
		Symbol:    symbol,
		Last:      closes[len(closes)-1],
		FetchedAt: time.Now(),
	}
	if len(closes) > 1 {
		snap.Change = snap.Last - closes[len(closes)-2]
	}

	emaCloses := tail(closes, emaWindow)
	if v, err := calculator.CalculateEMA(emaCloses, 9); err != nil {
		c.log.Warn().Str("symbol", symbol).Err(err).Msg("EMA9 skipped")
	} else {
		snap.EMA9 = v
	}
	if v, err := calculator.CalculateEMA(emaCloses, 21); err != nil {
		c.log.Warn().Str("symbol", symbol).Err(err).Msg("EMA21 skipped")
	} else {
		snap.EMA21 = v
	}

	if v, err := calculator.CalculateVWAP(tail(bars, vwapWindow)); err != nil {
		c.log.Warn().Str("symbol", symbol).Err(err).Msg("VWAP skipped")
	} else {
		snap.VWAP = v
	}

	if ratio, current, ok := calculator.DetectVolumeSpike(vols); ok {
		snap.SpikeRatio = ratio
		snap.SpikeVolume = current
	}

	return snap, nil
}

// CollectFlow fetches the options-flow snapshot for one symbol. Returns
// (nil, nil) when no flow fetcher is configured or no usable data came back.
func (c *Collector) CollectFlow(ctx context.Context, symbol string) (*model.OptionsFlow, error) {
	if c.Flow == nil {
		return nil, nil
	}
	flow, err := c.Flow.FetchOptionsFlow(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("fetch options flow %s: %w", symbol, err)
	}
	return flow, nil
}

// CollectNews fetches the latest headlines for the configured tickers.
func (c *Collector) CollectNews(ctx context.Context, symbols []string) ([]model.Headline, error) {
	headlines, err := c.Fetcher.FetchNews(ctx, symbols, 30)
	if err != nil {
		return nil, fmt.Errorf("fetch news: %w", err)
	}
	return headlines, nil
}

func tail[T any](s []T, n int) []T {
	if len(s) > n {
		return s[len(s)-n:]
	}
	return s
}
