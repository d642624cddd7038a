package collector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/model"
)

func mockBars(n int, basePrice, baseVolume float64) []model.Bar {
	bars := make([]model.Bar, n)
	start := time.Now().Add(-time.Duration(n) * time.Minute)
	for i := range bars {
		p := basePrice + float64(i)*0.01
		bars[i] = model.Bar{
			Time:   start.Add(time.Duration(i) * time.Minute),
			Open:   p,
			High:   p + 0.05,
			Low:    p - 0.05,
			Close:  p,
			Volume: baseVolume,
		}
	}
	return bars
}

func TestCollectPrice(t *testing.T) {
	bars := mockBars(60, 100, 50000)
	bars[59].Volume = 200000 // 4x spike

	col := NewCollector(&MockFetcher{Bars: bars}, nil, zerolog.Nop())
	snap, err := col.CollectPrice(context.Background(), "AAPL")
	require.NoError(t, err)

	assert.Equal(t, "AAPL", snap.Symbol)
	assert.InDelta(t, bars[59].Close, snap.Last, 1e-9)
	assert.InDelta(t, 0.01, snap.Change, 1e-9)
	assert.True(t, snap.HasEMA())
	assert.Greater(t, snap.VWAP, 0.0)
	assert.True(t, snap.HasSpike())
	assert.InDelta(t, 4.0, snap.SpikeRatio, 1e-9)
}

func TestCollectPrice_ShortSeriesDegrades(t *testing.T) {
	// 5 bars: not enough for EMA9/21 or spike detection, but the snapshot
	// still carries price, change and VWAP.
	col := NewCollector(&MockFetcher{Bars: mockBars(5, 100, 1000)}, nil, zerolog.Nop())
	snap, err := col.CollectPrice(context.Background(), "TSLA")
	require.NoError(t, err)

	assert.False(t, snap.HasEMA())
	assert.False(t, snap.HasSpike())
	assert.Greater(t, snap.Last, 0.0)
	assert.Greater(t, snap.VWAP, 0.0)
}

func TestCollectPrice_FetchError(t *testing.T) {
	col := NewCollector(&MockFetcher{Err: errors.New("boom")}, nil, zerolog.Nop())
	_, err := col.CollectPrice(context.Background(), "AAPL")
	assert.Error(t, err)
}

func TestCollectPrice_NoBars(t *testing.T) {
	col := NewCollector(&MockFetcher{}, nil, zerolog.Nop())
	_, err := col.CollectPrice(context.Background(), "AAPL")
	assert.Error(t, err)
}

func TestCollectFlow_NoFetcherConfigured(t *testing.T) {
	col := NewCollector(&MockFetcher{}, nil, zerolog.Nop())
	flow, err := col.CollectFlow(context.Background(), "AAPL")
	require.NoError(t, err)
	assert.Nil(t, flow)
}

func TestCollectNews(t *testing.T) {
	headlines := []model.Headline{
		{ID: "1", Title: "one"},
		{ID: "2", Title: "two"},
	}
	col := NewCollector(&MockFetcher{Headlines: headlines}, nil, zerolog.Nop())
	got, err := col.CollectNews(context.Background(), []string{"AAPL"})
	require.NoError(t, err)
	assert.Len(t, got, 2)
}
