package signal

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"StockPulse/internal/model"
)

func TestEvaluate_UpTrend(t *testing.T) {
	sig := Evaluate(&model.PriceSnapshot{
		Symbol: "AAPL",
		Last:   189.12,
		Change: 0.34,
		EMA9:   189.05,
		EMA21:  188.60,
	})

	assert.Equal(t, "AAPL", sig.Symbol)
	assert.Equal(t, model.DirectionUp, sig.Direction)
	assert.Equal(t, model.TrendUp, sig.Trend)
	assert.Nil(t, sig.Spike)
}

func TestEvaluate_DownWithSpike(t *testing.T) {
	sig := Evaluate(&model.PriceSnapshot{
		Symbol:      "TSLA",
		Last:        240.10,
		Change:      -1.85,
		EMA9:        241.00,
		EMA21:       242.30,
		SpikeRatio:  3.1,
		SpikeVolume: 480000,
	})

	assert.Equal(t, model.DirectionDown, sig.Direction)
	assert.Equal(t, model.TrendDown, sig.Trend)
	require.NotNil(t, sig.Spike)
	assert.InDelta(t, 3.1, sig.Spike.Ratio, 1e-9)
}

func TestEvaluate_ZeroChangeIsUp(t *testing.T) {
	// A flat bar renders green.
	sig := Evaluate(&model.PriceSnapshot{Symbol: "SPY", Change: 0})
	assert.Equal(t, model.DirectionUp, sig.Direction)
}

func TestEvaluate_MissingEMA(t *testing.T) {
	sig := Evaluate(&model.PriceSnapshot{Symbol: "QQQ", Change: 0.1, EMA9: 400})
	assert.Equal(t, model.TrendUnknown, sig.Trend)
}
