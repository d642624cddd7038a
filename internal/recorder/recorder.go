package recorder

// PriceEvent holds one posted price snapshot.
type PriceEvent struct {
	Symbol      string
	Price       float64
	Change      float64
	EMA9        float64
	EMA21       float64
	VWAP        float64
	SpikeRatio  float64
	SpikeVolume float64
	CallVolume  float64
	PutVolume   float64
}

// NewsEvent holds one posted headline.
type NewsEvent struct {
	NewsID  string
	Title   string
	URL     string
	Tickers []string
	Source  string
}

// FlowEvent holds one options-flow snapshot.
type FlowEvent struct {
	Symbol     string
	CallVolume float64
	PutVolume  float64
	Contracts  int
}

// Recorder persists posted updates for later analysis.
type Recorder interface {
	RecordPrice(evt *PriceEvent) error
	RecordNews(evt *NewsEvent) error
	RecordFlow(evt *FlowEvent) error
	Close() error
}
