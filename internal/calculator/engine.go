package calculator

import (
	"fmt"
	"math"

	"SwingSentinel/internal/logger"
	"SwingSentinel/internal/model"
)

var emaLog = logger.New("ema")

// Params are the indicator windows.
type Params struct {
	EMASpans     [4]int // fast to slow: 5, 10, 21, 50
	ATRPeriod    int
	VolumePeriod int
}

// DefaultParams returns the standard indicator windows.
func DefaultParams() Params {
	return Params{
		EMASpans:     [4]int{5, 10, 21, 50},
		ATRPeriod:    14,
		VolumePeriod: 20,
	}
}

// Compute validates bars and produces one IndicatorRow per bar.
// Cells whose window is not yet full are left zero with their Has flag false.
func Compute(bars []model.OHLCV, p Params) ([]model.IndicatorRow, error) {
	if len(bars) < 2 {
		return nil, &model.InsufficientDataError{Need: 2, Have: len(bars)}
	}
	if err := ValidateSeries(bars); err != nil {
		return nil, err
	}

	closes := extractCloses(bars)
	var emas [4][]float64
	for k, span := range p.EMASpans {
		e, err := EMA(closes, span)
		if err != nil {
			return nil, fmt.Errorf("ema(%d): %w", span, err)
		}
		emas[k] = e
	}
	atr, err := ATR(bars, p.ATRPeriod)
	if err != nil {
		return nil, err
	}
	volAvg, err := RollingMean(extractVolumes(bars), p.VolumePeriod)
	if err != nil {
		return nil, fmt.Errorf("volume average: %w", err)
	}

	rows := make([]model.IndicatorRow, len(bars))
	for i, b := range bars {
		row := model.IndicatorRow{
			Time:  b.Time,
			EMA5:  emas[0][i],
			EMA10: emas[1][i],
			EMA21: emas[2][i],
			EMA50: emas[3][i],
		}
		if !math.IsNaN(atr[i]) {
			row.ATR = atr[i]
			row.HasATR = true
		}
		if !math.IsNaN(volAvg[i]) {
			row.VolumeAvg = volAvg[i]
			row.HasVolumeAvg = true
		}
		rows[i] = row
	}

	if emaLog.Enabled() {
		last := rows[len(rows)-1]
		emaLog.Debug("indicators computed",
			"bars", len(rows), "ema5", last.EMA5, "ema10", last.EMA10, "ema21", last.EMA21, "ema50", last.EMA50)
	}
	return rows, nil
}
