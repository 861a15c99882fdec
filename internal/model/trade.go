package model

import "time"

// ExitReason explains how a simulated trade was closed.
type ExitReason string

const (
	ExitSignal    ExitReason = "signal exit"
	ExitTimeLimit ExitReason = "time limit"
	ExitStopLoss  ExitReason = "stop loss"
	ExitTarget2   ExitReason = "target 2 hit"
	ExitTarget1   ExitReason = "target 1 hit"
)

// Outcome classifies a trade by the sign of its PnL.
type Outcome string

const (
	OutcomeWin  Outcome = "win"
	OutcomeLoss Outcome = "loss"
)

// SimulatedTrade is one matched entry/exit pair. PnLAbs and PnLPct are per
// share; TotalPnL scales PnLAbs by Shares.
type SimulatedTrade struct {
	EntryDate  time.Time  `json:"entry_date"`
	EntryPrice float64    `json:"entry_price"`
	StopLoss   float64    `json:"stop_loss"`
	Target1    float64    `json:"target1"`
	Target2    float64    `json:"target2"`
	Shares     int        `json:"shares"`
	ExitDate   time.Time  `json:"exit_date"`
	ExitPrice  float64    `json:"exit_price"`
	HoldDays   int        `json:"hold_days"`
	PnLAbs     float64    `json:"pnl_abs"`
	PnLPct     float64    `json:"pnl_pct"`
	TotalPnL   float64    `json:"total_pnl"`
	ExitReason ExitReason `json:"exit_reason"`
	Outcome    Outcome    `json:"outcome"`
}

// PerformanceSummary aggregates a trade list.
type PerformanceSummary struct {
	TradeCount int  `json:"trade_count"`
	Wins       int  `json:"wins"`
	Losses     int  `json:"losses"`
	NoTrades   bool `json:"no_trades"`

	WinRate     float64 `json:"win_rate"`
	AvgPnLPct   float64 `json:"avg_pnl_pct"`
	TotalPnLAbs float64 `json:"total_pnl_abs"`
	AvgHoldDays float64 `json:"avg_hold_days"`
	SharpeRatio float64 `json:"sharpe_ratio"`

	// PnLDistribution holds every trade's PnLPct sorted ascending;
	// bucketing is left to the consumer.
	PnLDistribution []float64          `json:"pnl_distribution"`
	ExitReasons     map[ExitReason]int `json:"exit_reasons"`

	// EquityCurve is the running sum of TotalPnL in exit-date order.
	EquityCurve []EquityPoint `json:"equity_curve"`

	// The fields below need the account value and the price path, so they
	// are filled by the pipeline runner rather than the trade aggregate.
	TotalReturnPct   float64 `json:"total_return_pct"`
	BuyHoldReturnPct float64 `json:"buy_hold_return_pct"`
	BuyHoldPnL       float64 `json:"buy_hold_pnl"`
}

// EquityPoint is the cumulative realized PnL after the trades closed by Time.
type EquityPoint struct {
	Time   time.Time `json:"time"`
	CumPnL float64   `json:"cum_pnl"`
}
