package backtest

import (
	"math"
	"testing"
	"time"

	"SwingSentinel/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestSummarize_NoTrades(t *testing.T) {
	s := Summarize(nil)

	assert.True(t, s.NoTrades)
	assert.Equal(t, 0, s.TradeCount)
	assert.Equal(t, 0.0, s.WinRate)
	assert.False(t, math.IsNaN(s.AvgPnLPct))
	assert.Empty(t, s.PnLDistribution)
	assert.NotNil(t, s.ExitReasons)
	assert.NotNil(t, s.EquityCurve)
	assert.Empty(t, s.EquityCurve)
}

func TestSummarize(t *testing.T) {
	trades := []model.SimulatedTrade{
		{PnLPct: 2, TotalPnL: 200, HoldDays: 3, ExitReason: model.ExitTarget1, Outcome: model.OutcomeWin},
		{PnLPct: -1, TotalPnL: -100, HoldDays: 10, ExitReason: model.ExitTimeLimit, Outcome: model.OutcomeLoss},
		{PnLPct: 5, TotalPnL: 500, HoldDays: 5, ExitReason: model.ExitTarget1, Outcome: model.OutcomeWin},
	}

	s := Summarize(trades)

	assert.False(t, s.NoTrades)
	assert.Equal(t, 3, s.TradeCount)
	assert.Equal(t, 2, s.Wins)
	assert.Equal(t, 1, s.Losses)
	assert.InDelta(t, 200.0/3, s.WinRate, 1e-9)
	assert.InDelta(t, 2.0, s.AvgPnLPct, 1e-9)
	assert.InDelta(t, 600.0, s.TotalPnLAbs, 1e-9)
	assert.InDelta(t, 6.0, s.AvgHoldDays, 1e-9)
	assert.Equal(t, []float64{-1, 2, 5}, s.PnLDistribution)
	// mean 2, sample stdev 3
	assert.InDelta(t, 2.0/3, s.SharpeRatio, 1e-9)
	assert.Equal(t, 2, s.ExitReasons[model.ExitTarget1])
	assert.Equal(t, 1, s.ExitReasons[model.ExitTimeLimit])

	assert.Equal(t, 2.0, trades[0].PnLPct, "input is not reordered")
}

func TestSummarize_SharpeDegenerate(t *testing.T) {
	single := Summarize([]model.SimulatedTrade{{PnLPct: 3, Outcome: model.OutcomeWin}})
	assert.Equal(t, 0.0, single.SharpeRatio)
	assert.Equal(t, 100.0, single.WinRate)

	same := Summarize([]model.SimulatedTrade{{PnLPct: 1}, {PnLPct: 1}})
	assert.Equal(t, 0.0, same.SharpeRatio)
}

func TestSummarize_Recomputes(t *testing.T) {
	trades := []model.SimulatedTrade{{PnLPct: 1, TotalPnL: 10, Outcome: model.OutcomeWin}}

	first := Summarize(trades)
	trades = append(trades, model.SimulatedTrade{PnLPct: -3, TotalPnL: -30, Outcome: model.OutcomeLoss})
	second := Summarize(trades)

	assert.Equal(t, 1, first.TradeCount)
	assert.Equal(t, 2, second.TradeCount)
	assert.InDelta(t, -20.0, second.TotalPnLAbs, 1e-9)
}

func TestSummarize_EquityCurve(t *testing.T) {
	d := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
	trades := []model.SimulatedTrade{
		{EntryDate: d, ExitDate: d.AddDate(0, 0, 5), TotalPnL: 0.1},
		{EntryDate: d.AddDate(0, 0, 1), ExitDate: d.AddDate(0, 0, 2), TotalPnL: 0.2},
		{EntryDate: d.AddDate(0, 0, 3), ExitDate: d.AddDate(0, 0, 5), TotalPnL: -0.05},
	}

	s := Summarize(trades)

	assert.Equal(t, []model.EquityPoint{
		{Time: d.AddDate(0, 0, 2), CumPnL: 0.2},
		{Time: d.AddDate(0, 0, 5), CumPnL: 0.3},
		{Time: d.AddDate(0, 0, 5), CumPnL: 0.25},
	}, s.EquityCurve)
	assert.Equal(t, s.TotalPnLAbs, s.EquityCurve[2].CumPnL)
	assert.Equal(t, d.AddDate(0, 0, 5), trades[0].ExitDate, "input is not reordered")
}
