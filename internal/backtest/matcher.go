package backtest

import (
	"fmt"
	"math"
	"sort"
	"time"

	"SwingSentinel/internal/calculator"
	"SwingSentinel/internal/logger"
	"SwingSentinel/internal/model"
)

var matcherLog = logger.New("matcher")

// Simulate matches every ready entry signal with its exit and returns the
// resulting trades in entry order. Entries whose horizon lies beyond the
// available history are dropped.
//
// A trade held longer than MaxHoldDays, which happens when the horizon
// falls in a gap of missing bars, is always labelled a time-limit exit;
// that check runs before the stop and target checks.
//
// Entries dated before p.From are skipped and bars dated after p.To are
// ignored; a zero bound leaves that side open. Trades may overlap unless
// p.SuppressOverlap is set.
func Simulate(bars []model.OHLCV, rows []model.IndicatorRow, signals []model.SignalRow, p Params) ([]model.SimulatedTrade, error) {
	if len(bars) != len(rows) || len(bars) != len(signals) {
		return nil, &model.MalformedInputError{
			Index:  min(len(bars), len(rows), len(signals)),
			Reason: fmt.Sprintf("length mismatch: %d bars, %d indicator rows, %d signal rows", len(bars), len(rows), len(signals)),
		}
	}
	if err := calculator.ValidateSeries(bars); err != nil {
		return nil, err
	}
	end := windowEnd(bars, p.To)
	bars, rows, signals = bars[:end], rows[:end], signals[:end]

	trades := make([]model.SimulatedTrade, 0)
	lastExit := -1
	for i, sig := range signals {
		if !sig.Ready || !sig.EntrySignal || !rows[i].Ready() || beforeWindow(bars[i].Time, p.From) {
			continue
		}
		if p.SuppressOverlap && i <= lastExit {
			matcherLog.Debug("entry skipped while position open", "entry", bars[i].Time, "open_until", bars[lastExit].Time)
			continue
		}

		trade, exitIdx, ok := matchTrade(bars, rows, signals, i, p)
		if !ok {
			matcherLog.Debug("unresolvable trade dropped", "entry", bars[i].Time)
			continue
		}
		trades = append(trades, trade)
		lastExit = exitIdx
	}
	return trades, nil
}

// matchTrade scans forward from entry bar i for its exit.
func matchTrade(bars []model.OHLCV, rows []model.IndicatorRow, signals []model.SignalRow, i int, p Params) (model.SimulatedTrade, int, bool) {
	entry := bars[i]
	entryDay := civilDate(entry.Time)
	horizon := entryDay.AddDate(0, 0, p.MaxHoldDays)

	exitIdx := -1
	reason := model.ExitSignal
	for j := i + 1; j < len(bars); j++ {
		day := civilDate(bars[j].Time)
		if !day.After(horizon) && signals[j].ExitSignal {
			exitIdx = j
			break
		}
		if !day.Before(horizon) {
			exitIdx, reason = j, model.ExitTimeLimit
			break
		}
	}
	if exitIdx < 0 {
		return model.SimulatedTrade{}, -1, false
	}

	lv := ComputeLevels(entry.Close, rows[i].EMA5, rows[i].ATR, p)
	exit := bars[exitIdx]
	holdDays := int(civilDate(exit.Time).Sub(entryDay).Hours() / 24)

	maxClose := entry.Close
	for j := i + 1; j <= exitIdx; j++ {
		maxClose = math.Max(maxClose, bars[j].Close)
	}

	pnl := exit.Close - entry.Close
	t := model.SimulatedTrade{
		EntryDate:  entry.Time,
		EntryPrice: entry.Close,
		StopLoss:   lv.StopLoss,
		Target1:    lv.Target1,
		Target2:    lv.Target2,
		Shares:     lv.Shares,
		ExitDate:   exit.Time,
		ExitPrice:  exit.Close,
		HoldDays:   holdDays,
		PnLAbs:     pnl,
		TotalPnL:   pnl * float64(lv.Shares),
		ExitReason: classifyExit(reason, exit.Close, maxClose, holdDays, lv, p),
		Outcome:    model.OutcomeLoss,
	}
	if entry.Close != 0 {
		t.PnLPct = pnl / entry.Close * 100
	}
	if pnl > 0 {
		t.Outcome = model.OutcomeWin
	}

	if matcherLog.Enabled() {
		matcherLog.Debug("trade matched",
			"entry", t.EntryDate, "exit", t.ExitDate, "reason", t.ExitReason, "pnl_pct", t.PnLPct)
	}
	return t, exitIdx, true
}

// classifyExit refines the scan result by the path the close took.
// A trade held past MaxHoldDays can only have been closed by the horizon
// reaching a later bar, so it stays a time-limit exit.
func classifyExit(tentative model.ExitReason, exitPrice, maxClose float64, holdDays int, lv Levels, p Params) model.ExitReason {
	switch {
	case holdDays > p.MaxHoldDays:
		return model.ExitTimeLimit
	case math.Abs(exitPrice-lv.StopLoss) <= 0.01*math.Abs(lv.StopLoss):
		return model.ExitStopLoss
	case maxClose >= lv.Target2:
		return model.ExitTarget2
	case maxClose >= lv.Target1:
		return model.ExitTarget1
	case holdDays >= p.MaxHoldDays:
		return model.ExitTimeLimit
	default:
		return tentative
	}
}

// civilDate drops the time of day so calendar-day arithmetic ignores
// session hours and DST.
func civilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// windowEnd returns how many leading bars are dated on or before to.
func windowEnd(bars []model.OHLCV, to time.Time) int {
	if to.IsZero() {
		return len(bars)
	}
	last := civilDate(to)
	return sort.Search(len(bars), func(i int) bool {
		return civilDate(bars[i].Time).After(last)
	})
}

func beforeWindow(t, from time.Time) bool {
	return !from.IsZero() && civilDate(t).Before(civilDate(from))
}
