package recorder

import "github.com/google/uuid"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordSignal(_ *SignalEvent) error { return nil }
func (n *NoopRecorder) RecordAlert(_ *AlertEvent) error   { return nil }
func (n *NoopRecorder) Close() error                      { return nil }

func (n *NoopRecorder) RecordBacktest(_ *BacktestRun) (string, error) {
	return uuid.NewString(), nil
}
