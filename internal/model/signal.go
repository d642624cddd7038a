package model

// Direction indicates which way the last price moved.
type Direction string

const (
	DirectionUp   Direction = "UP"
	DirectionDown Direction = "DOWN"
)

// Trend indicates the EMA9/EMA21 relationship.
type Trend string

const (
	TrendUp      Trend = "UP"
	TrendDown    Trend = "DOWN"
	TrendUnknown Trend = "UNKNOWN"
)

// SpikeAlert describes an abnormal volume reading.
type SpikeAlert struct {
	Ratio  float64
	Volume float64
}

// TickerSignal is the evaluated view of a price snapshot, ready for formatting.
type TickerSignal struct {
	Symbol    string
	Direction Direction
	Trend     Trend
	Spike     *SpikeAlert
}
