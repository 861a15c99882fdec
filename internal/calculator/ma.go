package calculator

import (
	"errors"
	"math"

	"SwingSentinel/internal/model"
)

// EMA computes the exponential moving average of values with smoothing
// factor 2/(span+1). The first output equals the first input, so every
// position is defined.
func EMA(values []float64, span int) ([]float64, error) {
	if span <= 0 {
		return nil, errors.New("span must be positive")
	}
	out := make([]float64, len(values))
	if len(values) == 0 {
		return out, nil
	}
	alpha := 2.0 / float64(span+1)
	out[0] = values[0]
	for i := 1; i < len(values); i++ {
		out[i] = alpha*values[i] + (1-alpha)*out[i-1]
	}
	return out, nil
}

// RollingMean returns the trailing simple mean of values over period,
// inclusive of the current position. Positions with fewer than period
// observations are NaN.
func RollingMean(values []float64, period int) ([]float64, error) {
	if period <= 0 {
		return nil, errors.New("period must be positive")
	}
	out := make([]float64, len(values))
	for i := range values {
		if i+1 < period {
			out[i] = math.NaN()
			continue
		}
		// Summing the window each time keeps a zero window exactly zero.
		sum := 0.0
		for j := i + 1 - period; j <= i; j++ {
			sum += values[j]
		}
		out[i] = sum / float64(period)
	}
	return out, nil
}

func extractCloses(bars []model.OHLCV) []float64 {
	closes := make([]float64, len(bars))
	for i, b := range bars {
		closes[i] = b.Close
	}
	return closes
}

func extractVolumes(bars []model.OHLCV) []float64 {
	volumes := make([]float64, len(bars))
	for i, b := range bars {
		volumes[i] = b.Volume
	}
	return volumes
}
