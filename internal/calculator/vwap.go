package calculator

import (
	"errors"

	"StockPulse/internal/model"
)

// CalculateVWAP computes the volume-weighted average price over the given
// 1-minute bars using the typical price (H+L+C)/3.
func CalculateVWAP(bars []model.Bar) (float64, error) {
	if len(bars) == 0 {
		return 0, errors.New("no bars provided")
	}
	var cumPV, cumV float64
	for _, b := range bars {
		typical := (b.High + b.Low + b.Close) / 3.0
		cumPV += typical * b.Volume
		cumV += b.Volume
	}
	if cumV == 0 {
		return 0, errors.New("zero total volume")
	}
	return cumPV / cumV, nil
}
