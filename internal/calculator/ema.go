package calculator

import (
	"errors"

	"github.com/markcheno/go-talib"

	"StockPulse/internal/model"
)

// CalculateEMA computes the exponential moving average of the given closes
// over the specified period and returns the latest value.
func CalculateEMA(closes []float64, period int) (float64, error) {
	if period <= 0 {
		return 0, errors.New("period must be positive")
	}
	if len(closes) < period {
		return 0, errors.New("not enough data for EMA calculation")
	}
	out := talib.Ema(closes, period)
	return out[len(out)-1], nil
}

// ExtractCloses returns the close column of the given bars.
func ExtractCloses(bars []model.Bar) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

// ExtractVolumes returns the volume column of the given bars.
func ExtractVolumes(bars []model.Bar) []float64 {
	vols := make([]float64, len(bars))
	for i, b := range bars {
		vols[i] = b.Volume
	}
	return vols
}
