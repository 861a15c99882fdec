package recorder

import (
	"time"

	"SwingSentinel/internal/backtest"
	"SwingSentinel/internal/model"
)

// SignalEvent is one live evaluation of the latest bar.
type SignalEvent struct {
	Symbol     string
	VIX        float64
	Indicators model.IndicatorRow
	Signal     model.SignalRow
}

// BacktestRun is a complete pipeline run over a history window.
type BacktestRun struct {
	Symbol  string
	From    time.Time
	To      time.Time
	Bars    int
	VIX     float64
	Config  backtest.Config
	Summary model.PerformanceSummary
	Trades  []model.SimulatedTrade
}

// AlertEvent records an entry alert and whether it reached the chat.
type AlertEvent struct {
	Symbol    string
	Price     float64
	Strength  int
	Message   string
	Delivered bool
	Error     string
}

// Recorder persists historical data for analysis.
type Recorder interface {
	RecordSignal(evt *SignalEvent) error
	// RecordBacktest stores the run with its trades and returns the run ID.
	RecordBacktest(run *BacktestRun) (string, error)
	RecordAlert(evt *AlertEvent) error
	Close() error
}
