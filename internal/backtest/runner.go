package backtest

import (
	"fmt"

	"SwingSentinel/internal/calculator"
	"SwingSentinel/internal/model"
	"SwingSentinel/internal/strategy"
)

// Config bundles the parameters of every pipeline stage.
type Config struct {
	Indicators calculator.Params
	Signals    strategy.Params
	Match      Params
}

// DefaultConfig returns the standard configuration of all stages.
func DefaultConfig() Config {
	return Config{
		Indicators: calculator.DefaultParams(),
		Signals:    strategy.DefaultParams(),
		Match:      DefaultParams(),
	}
}

// Result is the output of one pipeline run.
type Result struct {
	Indicators []model.IndicatorRow     `json:"indicators"`
	Signals    []model.SignalRow        `json:"signals"`
	Trades     []model.SimulatedTrade   `json:"trades"`
	Summary    model.PerformanceSummary `json:"summary"`

	// Latest is the evaluation of the most recent bar; LatestErr explains
	// why it is missing, typically insufficient history.
	Latest    *model.SignalRow `json:"latest,omitempty"`
	LatestErr error            `json:"-"`
}

// Run computes indicators, signals, trades and the summary for one series.
// Bars after cfg.Match.To are ignored, so Latest is the last bar in the
// window.
func Run(bars []model.OHLCV, vix float64, cfg Config) (*Result, error) {
	bars = bars[:windowEnd(bars, cfg.Match.To)]
	rows, err := calculator.Compute(bars, cfg.Indicators)
	if err != nil {
		return nil, fmt.Errorf("compute indicators: %w", err)
	}
	signals, err := strategy.EvaluateSeries(bars, rows, vix, cfg.Signals)
	if err != nil {
		return nil, fmt.Errorf("evaluate signals: %w", err)
	}
	trades, err := Simulate(bars, rows, signals, cfg.Match)
	if err != nil {
		return nil, fmt.Errorf("simulate trades: %w", err)
	}

	res := &Result{
		Indicators: rows,
		Signals:    signals,
		Trades:     trades,
		Summary:    Summarize(trades),
	}
	fillReturns(&res.Summary, bars, signals, cfg.Match)
	res.Latest, res.LatestErr = strategy.EvaluateLatest(bars, rows, vix, cfg.Signals)
	return res, nil
}

// fillReturns relates the summary to the account value and compares it with
// holding from the first evaluable bar in the window to the last bar.
func fillReturns(s *model.PerformanceSummary, bars []model.OHLCV, signals []model.SignalRow, p Params) {
	if p.AccountValue > 0 {
		s.TotalReturnPct = s.TotalPnLAbs / p.AccountValue * 100
	}
	for i, sig := range signals {
		if !sig.Ready || bars[i].Close <= 0 || beforeWindow(bars[i].Time, p.From) {
			continue
		}
		s.BuyHoldReturnPct = (bars[len(bars)-1].Close/bars[i].Close - 1) * 100
		s.BuyHoldPnL = s.BuyHoldReturnPct / 100 * p.AccountValue
		return
	}
}
