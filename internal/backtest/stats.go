package backtest

import (
	"math"
	"sort"

	"SwingSentinel/internal/model"

	"github.com/shopspring/decimal"
)

// Summarize reduces a trade list to its performance statistics.
// An empty list yields NoTrades with zero rates rather than NaN.
func Summarize(trades []model.SimulatedTrade) model.PerformanceSummary {
	s := model.PerformanceSummary{
		TradeCount:      len(trades),
		PnLDistribution: make([]float64, 0, len(trades)),
		ExitReasons:     make(map[model.ExitReason]int),
		EquityCurve:     make([]model.EquityPoint, 0, len(trades)),
	}
	if len(trades) == 0 {
		s.NoTrades = true
		return s
	}

	total := decimal.Zero
	var sumPct, sumHold float64
	for _, t := range trades {
		if t.Outcome == model.OutcomeWin {
			s.Wins++
		} else {
			s.Losses++
		}
		total = total.Add(decimal.NewFromFloat(t.TotalPnL))
		sumPct += t.PnLPct
		sumHold += float64(t.HoldDays)
		s.PnLDistribution = append(s.PnLDistribution, t.PnLPct)
		s.ExitReasons[t.ExitReason]++
	}

	n := float64(len(trades))
	s.WinRate = float64(s.Wins) / n * 100
	s.AvgPnLPct = sumPct / n
	s.TotalPnLAbs = total.InexactFloat64()
	s.AvgHoldDays = sumHold / n
	s.SharpeRatio = sharpe(s.PnLDistribution, s.AvgPnLPct)

	sort.Float64s(s.PnLDistribution)
	s.EquityCurve = equityCurve(trades)
	return s
}

// equityCurve accumulates TotalPnL over the trades ordered by exit date.
// Trades closing on the same date keep their entry order.
func equityCurve(trades []model.SimulatedTrade) []model.EquityPoint {
	byExit := make([]model.SimulatedTrade, len(trades))
	copy(byExit, trades)
	sort.SliceStable(byExit, func(i, j int) bool {
		return byExit[i].ExitDate.Before(byExit[j].ExitDate)
	})

	curve := make([]model.EquityPoint, 0, len(byExit))
	cum := decimal.Zero
	for _, t := range byExit {
		cum = cum.Add(decimal.NewFromFloat(t.TotalPnL))
		curve = append(curve, model.EquityPoint{Time: t.ExitDate, CumPnL: cum.InexactFloat64()})
	}
	return curve
}

// sharpe is the per-trade mean return over its sample standard deviation.
func sharpe(returns []float64, mean float64) float64 {
	if len(returns) < 2 {
		return 0
	}
	var ss float64
	for _, r := range returns {
		ss += (r - mean) * (r - mean)
	}
	std := math.Sqrt(ss / float64(len(returns)-1))
	if std == 0 {
		return 0
	}
	return mean / std
}
