package backtest

import (
	"math"
	"time"
)

// Params configures position sizing and trade matching.
type Params struct {
	AccountValue         float64
	RiskPercent          float64
	ATRStopMultiplier    float64
	StopLossPercent      float64
	ATRTarget1Multiplier float64
	ATRTarget2Multiplier float64
	MaxHoldDays          int
	// DefaultShares is used when the stop sits at or above the entry price.
	DefaultShares int
	// SuppressOverlap skips entries while a previously emitted trade is
	// still open, modelling a single position at a time.
	SuppressOverlap bool

	// From and To bound the backtest window by calendar date, inclusive.
	// Bars before From still feed the indicators; a zero value is unbounded.
	From time.Time
	To   time.Time
}

// DefaultParams returns the standard sizing and exit rules.
func DefaultParams() Params {
	return Params{
		AccountValue:         100000,
		RiskPercent:          1,
		ATRStopMultiplier:    2,
		StopLossPercent:      2,
		ATRTarget1Multiplier: 2,
		ATRTarget2Multiplier: 3,
		MaxHoldDays:          10,
	}
}

// Levels are the price levels and size fixed at entry.
type Levels struct {
	StopLoss     float64 `json:"stop_loss"`
	Target1      float64 `json:"target1"`
	Target2      float64 `json:"target2"`
	RiskPerShare float64 `json:"risk_per_share"`
	Shares       int     `json:"shares"`

	// RR1 and RR2 are the reward to each target per unit of risk,
	// zero when the stop leaves no risk.
	RR1 float64 `json:"rr1"`
	RR2 float64 `json:"rr2"`
}

// ComputeLevels derives stop, targets and share count for an entry.
// The stop is the tighter of the ATR stop and the percentage stop.
func ComputeLevels(entryPrice, ema5, atr float64, p Params) Levels {
	stop := math.Max(entryPrice-p.ATRStopMultiplier*atr, entryPrice*(1-p.StopLossPercent/100))
	lv := Levels{
		StopLoss:     stop,
		Target1:      ema5 + p.ATRTarget1Multiplier*atr,
		Target2:      ema5 + p.ATRTarget2Multiplier*atr,
		RiskPerShare: entryPrice - stop,
		Shares:       PositionSize(entryPrice, stop, p),
	}
	if lv.RiskPerShare > 0 {
		lv.RR1 = (lv.Target1 - entryPrice) / lv.RiskPerShare
		lv.RR2 = (lv.Target2 - entryPrice) / lv.RiskPerShare
	}
	return lv
}

// PositionSize risks RiskPercent of the account between entry and stop.
// A stop at or above the entry falls back to DefaultShares.
func PositionSize(entryPrice, stopLoss float64, p Params) int {
	riskPerShare := entryPrice - stopLoss
	if riskPerShare <= 0 {
		return max(p.DefaultShares, 0)
	}
	riskAmount := p.AccountValue * p.RiskPercent / 100
	shares := math.Floor(riskAmount / riskPerShare)
	switch {
	case shares < 0 || math.IsNaN(shares):
		return 0
	case shares >= math.MaxInt:
		return math.MaxInt
	}
	return int(shares)
}
