package notifier

import (
	"testing"
	"time"

	"SwingSentinel/internal/backtest"
	"SwingSentinel/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestHistogram(t *testing.T) {
	got := Histogram([]float64{-3, -1, 0.5, 1, 4.2}, 2)

	assert.Equal(t, []Bucket{
		{Low: -4, High: -2, Count: 1},
		{Low: -2, High: 0, Count: 1},
		{Low: 0, High: 2, Count: 2},
		{Low: 2, High: 4, Count: 0},
		{Low: 4, High: 6, Count: 1},
	}, got)

	assert.Nil(t, Histogram(nil, 2))
	assert.Nil(t, Histogram([]float64{1}, 0))
}

func TestFormatSignalReport(t *testing.T) {
	sig := &model.SignalRow{
		Time:        time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC),
		Close:       448.2,
		EntryLevel:  449.1,
		Strength:    6,
		EntrySignal: true,
		Ready:       true,
		Criteria: []model.Criterion{
			{Name: "EMA alignment", Passed: true, Commentary: "EMA10=1 EMA21=0.5 EMA50=0.2"},
		},
	}
	lv := backtest.Levels{StopLoss: 440, Target1: 460, Target2: 466, RiskPerShare: 8.2, Shares: 121, RR1: 1.43, RR2: 2.17}

	msg := FormatSignalReport("QQQ", 14.5, sig, lv)

	assert.Contains(t, msg, "QQQ swing check")
	assert.Contains(t, msg, "2024-06-03")
	assert.Contains(t, msg, "✅ EMA alignment")
	assert.Contains(t, msg, "STRONG ENTRY")
	assert.Contains(t, msg, "Shares: 121")
	assert.Contains(t, msg, "R:R T1 1.4:1 | T2 2.2:1")
	assert.NotContains(t, msg, "Exit condition")

	sig.EntrySignal = false
	sig.Strength = 4
	msg = FormatSignalReport("QQQ", 14.5, sig, lv)
	assert.Contains(t, msg, "PARTIAL")
	assert.NotContains(t, msg, "Plan")
}

func TestFormatBacktestReport(t *testing.T) {
	from := time.Date(2023, 1, 3, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(1, 0, 0)

	none := backtest.Summarize(nil)
	none.BuyHoldReturnPct, none.BuyHoldPnL = 12.5, 12500
	empty := FormatBacktestReport("QQQ", from, to, none, nil)
	assert.Contains(t, empty, "No trades")
	assert.Contains(t, empty, "Buy & hold: +12.50% (+12500.00)")

	trades := []model.SimulatedTrade{
		{EntryDate: from, ExitDate: from.AddDate(0, 0, 4), EntryPrice: 100, ExitPrice: 103, PnLPct: 3,
			TotalPnL: 300, HoldDays: 4, ExitReason: model.ExitTarget1, Outcome: model.OutcomeWin},
	}
	s := backtest.Summarize(trades)
	s.TotalReturnPct = 0.3
	msg := FormatBacktestReport("QQQ", from, to, s, trades)
	assert.Contains(t, msg, "Trades: 1 (1 W / 0 L)")
	assert.Contains(t, msg, "Total: +300.00 (+0.30% of account)")
	assert.NotContains(t, msg, "Buy & hold")
	assert.Contains(t, msg, "target 1 hit: 1")
	assert.Contains(t, msg, "Recent trades")
}

func TestFormatSessionStatus(t *testing.T) {
	state := model.SessionState{
		Latched:         true,
		LastSignalPrice: 401.5,
		LastSignalAt:    time.Date(2024, 6, 3, 16, 15, 0, 0, time.UTC),
		LastStrength:    6,
		AlertsSent:      1,
	}

	msg := FormatSessionStatus(state)

	assert.Contains(t, msg, "401.50")
	assert.Contains(t, msg, "Alerts sent: 1")

	state.Latched = false
	assert.Contains(t, FormatSessionStatus(state), "Entry alerted: no")
}

func TestFormatExitAlert(t *testing.T) {
	sig := &model.SignalRow{Time: time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC), Close: 390}
	msg := FormatExitAlert("QQQ", sig, model.SessionState{LastSignalPrice: 400})

	assert.Contains(t, msg, "-2.50%")
}
