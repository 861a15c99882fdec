package model

import "time"

// Criterion is the outcome of one entry rule for a bar.
type Criterion struct {
	Name       string `json:"name"`
	Passed     bool   `json:"passed"`
	Commentary string `json:"commentary"`
}

// SignalRow is the per-bar output of the signal evaluator.
type SignalRow struct {
	Time  time.Time `json:"time"`
	Close float64   `json:"close"`

	EMAAlignment      bool `json:"ema_alignment"`
	PriceAbove50EMA   bool `json:"price_above_50ema"`
	PriceTouchEntry   bool `json:"price_touch_entry"`
	VolumeAboveAvg    bool `json:"volume_above_avg"`
	VIXBelowThreshold bool `json:"vix_below_threshold"`
	MomentumPositive  bool `json:"momentum_positive"`

	EntryLevel  float64 `json:"entry_level"`
	Strength    int     `json:"strength"`
	EntrySignal bool    `json:"entry_signal"`
	ExitSignal  bool    `json:"exit_signal"`

	// Ready is false for bars inside the warm-up window; the entry
	// fields of such rows are zero and must not be read as a signal.
	Ready    bool        `json:"ready"`
	Criteria []Criterion `json:"criteria,omitempty"`
}

// Strength labels used by reports.
const (
	LabelStrongEntry = "STRONG ENTRY"
	LabelPartial     = "PARTIAL"
	LabelNoEntry     = "NO ENTRY"
)

// Label maps the criteria count to a coarse strength tier.
func (s SignalRow) Label() string {
	switch {
	case s.Strength >= 6:
		return LabelStrongEntry
	case s.Strength >= 4:
		return LabelPartial
	default:
		return LabelNoEntry
	}
}
