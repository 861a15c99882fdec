package calculator

import (
	"errors"
	"math"

	"SwingSentinel/internal/logger"
	"SwingSentinel/internal/model"
)

var atrLog = logger.New("atr")

// TrueRange returns the per-bar true range. The first bar has no previous
// close, so its range is high minus low.
func TrueRange(bars []model.OHLCV) []float64 {
	tr := make([]float64, len(bars))
	for i, b := range bars {
		if i == 0 {
			tr[i] = b.High - b.Low
			continue
		}
		prevClose := bars[i-1].Close
		tr[i] = math.Max(b.High-b.Low, math.Max(math.Abs(b.High-prevClose), math.Abs(b.Low-prevClose)))
	}
	return tr
}

// ATR returns the simple trailing mean of true range over period bars.
// Values before the first full window are NaN.
func ATR(bars []model.OHLCV, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("atr period must be positive")
	}
	atr, err := RollingMean(TrueRange(bars), period)
	if err != nil {
		return nil, err
	}
	if atrLog.Enabled() && len(atr) > 0 {
		atrLog.Debug("ATR computed", "bars", len(bars), "period", period, "last", atr[len(atr)-1])
	}
	return atr, nil
}
