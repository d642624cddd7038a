package signal

import "StockPulse/internal/model"

// Evaluate turns a price snapshot into a ticker signal: price direction from
// the 1-minute change, trend from the EMA9/EMA21 relationship, and a spike
// alert when the snapshot carries one.
func Evaluate(snap *model.PriceSnapshot) *model.TickerSignal {
	sig := &model.TickerSignal{
		Symbol:    snap.Symbol,
		Direction: model.DirectionUp,
		Trend:     model.TrendUnknown,
	}
	if snap.Change < 0 {
		sig.Direction = model.DirectionDown
	}

	if snap.HasEMA() {
		switch {
		case snap.EMA9 > snap.EMA21:
			sig.Trend = model.TrendUp
		case snap.EMA9 < snap.EMA21:
			sig.Trend = model.TrendDown
		}
	}

	if snap.HasSpike() {
		sig.Spike = &model.SpikeAlert{
			Ratio:  snap.SpikeRatio,
			Volume: snap.SpikeVolume,
		}
	}

	return sig
}
