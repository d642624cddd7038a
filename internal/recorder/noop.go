package recorder

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordPrice(_ *PriceEvent) error { return nil }
func (n *NoopRecorder) RecordNews(_ *NewsEvent) error   { return nil }
func (n *NoopRecorder) RecordFlow(_ *FlowEvent) error   { return nil }
func (n *NoopRecorder) Close() error                    { return nil }
