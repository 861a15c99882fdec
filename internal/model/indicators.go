package model

import "time"

// IndicatorRow holds the derived indicator values of one bar.
// EMAs are defined from the first bar; ATR and VolumeAvg only once their
// rolling window is full, which HasATR / HasVolumeAvg report.
type IndicatorRow struct {
	Time         time.Time `json:"time"`
	EMA5         float64   `json:"ema_5"`
	EMA10        float64   `json:"ema_10"`
	EMA21        float64   `json:"ema_21"`
	EMA50        float64   `json:"ema_50"`
	ATR          float64   `json:"atr"`
	HasATR       bool      `json:"has_atr"`
	VolumeAvg    float64   `json:"volume_avg"`
	HasVolumeAvg bool      `json:"has_volume_avg"`
}

// Ready reports whether every column of the row is defined.
func (r IndicatorRow) Ready() bool {
	return r.HasATR && r.HasVolumeAvg
}
