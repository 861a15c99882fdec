package notifier

import (
	"fmt"
	"math"
	"strings"
	"time"

	"SwingSentinel/internal/backtest"
	"SwingSentinel/internal/model"
)

func check(passed bool) string {
	if passed {
		return "✅"
	}
	return "❌"
}

// FormatSignalReport formats the latest bar's evaluation into a Telegram message.
// Levels are printed only when every criterion passes.
func FormatSignalReport(symbol string, vix float64, sig *model.SignalRow, lv backtest.Levels) string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("📊 <b>%s swing check</b> | %s\n\n", symbol, sig.Time.Format("2006-01-02")))
	b.WriteString(fmt.Sprintf("Close: %.2f | VIX: %.1f\n", sig.Close, vix))
	b.WriteString(fmt.Sprintf("Entry level: %.2f\n\n", sig.EntryLevel))

	b.WriteString("📈 <b>Criteria:</b>\n")
	for _, c := range sig.Criteria {
		b.WriteString(fmt.Sprintf("  %s %s (%s)\n", check(c.Passed), c.Name, c.Commentary))
	}
	b.WriteString(fmt.Sprintf("\nStrength: %d/6 <b>%s</b>\n", sig.Strength, sig.Label()))

	if sig.EntrySignal {
		b.WriteString("\n💰 <b>Plan:</b>\n")
		writeLevels(&b, lv)
	}
	if sig.ExitSignal {
		b.WriteString("\n⚠️ Exit condition active: trend break or sharp daily drop\n")
	}
	return b.String()
}

func writeLevels(b *strings.Builder, lv backtest.Levels) {
	b.WriteString(fmt.Sprintf("   Stop: %.2f (risk %.2f/share)\n", lv.StopLoss, lv.RiskPerShare))
	b.WriteString(fmt.Sprintf("   Target 1: %.2f | Target 2: %.2f\n", lv.Target1, lv.Target2))
	b.WriteString(fmt.Sprintf("   R:R T1 %.1f:1 | T2 %.1f:1\n", lv.RR1, lv.RR2))
	b.WriteString(fmt.Sprintf("   Shares: %d\n", lv.Shares))
}

// FormatEntryAlert is sent once per session when the entry signal fires.
func FormatEntryAlert(symbol string, sig *model.SignalRow, lv backtest.Levels) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🚨 <b>%s strong entry signal</b>\n\n", symbol))
	b.WriteString(fmt.Sprintf("Entry: %.2f on %s\n", sig.Close, sig.Time.Format("2006-01-02")))
	writeLevels(&b, lv)
	return b.String()
}

// FormatExitAlert warns that the exit condition fired after an entry alert.
func FormatExitAlert(symbol string, sig *model.SignalRow, state model.SessionState) string {
	change := 0.0
	if state.LastSignalPrice > 0 {
		change = (sig.Close/state.LastSignalPrice - 1) * 100
	}
	return fmt.Sprintf("⚠️ <b>%s exit signal</b>\n\nClose %.2f on %s (%+.2f%% since entry alert at %.2f)\n",
		symbol, sig.Close, sig.Time.Format("2006-01-02"), change, state.LastSignalPrice)
}

// Bucket is one histogram bin of [Low, High).
type Bucket struct {
	Low   float64
	High  float64
	Count int
}

// Histogram bins ascending values into buckets of the given width.
func Histogram(sorted []float64, width float64) []Bucket {
	if len(sorted) == 0 || width <= 0 {
		return nil
	}
	lo := math.Floor(sorted[0]/width) * width
	var out []Bucket
	for _, v := range sorted {
		for len(out) == 0 || v >= out[len(out)-1].High {
			start := lo
			if len(out) > 0 {
				start = out[len(out)-1].High
			}
			out = append(out, Bucket{Low: start, High: start + width})
		}
		out[len(out)-1].Count++
	}
	return out
}

// FormatBacktestReport summarizes a backtest run with a PnL histogram and
// the most recent trades.
func FormatBacktestReport(symbol string, from, to time.Time, s model.PerformanceSummary, trades []model.SimulatedTrade) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("🧪 <b>%s backtest</b> | %s → %s\n\n", symbol, from.Format("2006-01-02"), to.Format("2006-01-02")))

	if s.BuyHoldReturnPct != 0 {
		b.WriteString(fmt.Sprintf("Buy & hold: %+.2f%% (%+.2f)\n", s.BuyHoldReturnPct, s.BuyHoldPnL))
	}
	if s.NoTrades {
		b.WriteString("No trades in this window.\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("Trades: %d (%d W / %d L)\n", s.TradeCount, s.Wins, s.Losses))
	b.WriteString(fmt.Sprintf("Win rate: %.1f%%\n", s.WinRate))
	b.WriteString(fmt.Sprintf("Avg PnL: %+.2f%% | Total: %+.2f (%+.2f%% of account)\n", s.AvgPnLPct, s.TotalPnLAbs, s.TotalReturnPct))
	b.WriteString(fmt.Sprintf("Avg hold: %.1f days | Sharpe: %.2f\n", s.AvgHoldDays, s.SharpeRatio))

	b.WriteString("\n<b>Exit reasons:</b>\n")
	for _, r := range []model.ExitReason{model.ExitTarget2, model.ExitTarget1, model.ExitSignal, model.ExitTimeLimit, model.ExitStopLoss} {
		if n := s.ExitReasons[r]; n > 0 {
			b.WriteString(fmt.Sprintf("  %s: %d\n", r, n))
		}
	}

	b.WriteString("\n<b>PnL distribution:</b>\n")
	for _, bk := range Histogram(s.PnLDistribution, 2) {
		b.WriteString(fmt.Sprintf("  %+5.0f%% … %+5.0f%%: %s %d\n", bk.Low, bk.High, strings.Repeat("▇", bk.Count), bk.Count))
	}

	start := max(len(trades)-5, 0)
	if start < len(trades) {
		b.WriteString("\n<b>Recent trades:</b>\n")
		for _, t := range trades[start:] {
			b.WriteString(fmt.Sprintf("  %s → %s %.2f → %.2f %+.2f%% (%s)\n",
				t.EntryDate.Format("01-02"), t.ExitDate.Format("01-02"), t.EntryPrice, t.ExitPrice, t.PnLPct, t.ExitReason))
		}
	}
	return b.String()
}

// FormatSessionStatus formats the alert latch for display.
func FormatSessionStatus(state model.SessionState) string {
	var b strings.Builder
	b.WriteString("📦 <b>Monitor session</b>\n\n")
	b.WriteString(fmt.Sprintf("Started: %s\n", state.StartedAt.Format("2006-01-02 15:04")))
	if state.Latched {
		b.WriteString(fmt.Sprintf("Entry alerted: %.2f at %s (strength %d)\n",
			state.LastSignalPrice, state.LastSignalAt.Format("2006-01-02 15:04"), state.LastStrength))
		b.WriteString(fmt.Sprintf("Exit alerted: %v\n", state.ExitAlerted))
	} else {
		b.WriteString("Entry alerted: no\n")
	}
	b.WriteString(fmt.Sprintf("Alerts sent: %d\n", state.AlertsSent))
	if !state.LastEvaluatedAt.IsZero() {
		b.WriteString(fmt.Sprintf("Last evaluation: %s\n", state.LastEvaluatedAt.Format("2006-01-02 15:04")))
	}
	return b.String()
}
