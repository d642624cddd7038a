package model

import "time"

// Bar represents a single 1-minute OHLCV bar.
type Bar struct {
	Time   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSnapshot holds the latest price and computed indicators for one ticker.
// Indicator fields are zero when there was not enough data to compute them.
type PriceSnapshot struct {
	Symbol      string
	Last        float64
	Change      float64 // vs previous 1-min close
	EMA9        float64
	EMA21       float64
	VWAP        float64
	SpikeRatio  float64 // latest volume / baseline, 0 when no spike
	SpikeVolume float64
	CallVolume  float64
	PutVolume   float64
	FetchedAt   time.Time
}

// HasSpike reports whether the snapshot carries a volume spike alert.
func (s *PriceSnapshot) HasSpike() bool { return s.SpikeRatio > 0 }

// HasEMA reports whether both moving averages were computable.
func (s *PriceSnapshot) HasEMA() bool { return s.EMA9 > 0 && s.EMA21 > 0 }
