package calculator

import (
	"math"
	"testing"

	"SwingSentinel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrueRange(t *testing.T) {
	bars := []model.OHLCV{
		{Time: day0, Open: 10, High: 12, Low: 9, Close: 11},
		// gap up: |high - prevClose| dominates
		{Time: day0.AddDate(0, 0, 1), Open: 14, High: 15, Low: 14, Close: 14.5},
		// gap down: |low - prevClose| dominates
		{Time: day0.AddDate(0, 0, 2), Open: 11, High: 12, Low: 10, Close: 11},
	}

	tr := TrueRange(bars)

	assert.Equal(t, []float64{3, 4, 4.5}, tr)
}

func TestATR_UndefinedBeforeWindow(t *testing.T) {
	bars := flatBars(20, 100, 1000)
	for i := range bars {
		bars[i].High = 101
		bars[i].Low = 99
	}

	atr, err := ATR(bars, 14)
	require.NoError(t, err)

	for i := 0; i < 13; i++ {
		assert.True(t, math.IsNaN(atr[i]), "bar %d should be undefined", i)
	}
	for i := 13; i < 20; i++ {
		assert.InDelta(t, 2.0, atr[i], 1e-12)
	}
}

func TestATR_NeverNegative(t *testing.T) {
	// Saw-tooth series with gaps in both directions.
	bars := make([]model.OHLCV, 60)
	for i := range bars {
		base := 100.0 + float64(i%7)*3 - float64(i%3)*4
		bars[i] = model.OHLCV{
			Time:   day0.AddDate(0, 0, i),
			Open:   base,
			High:   base + 1.5,
			Low:    base - 2,
			Close:  base - 0.5,
			Volume: 1000,
		}
	}

	atr, err := ATR(bars, 14)
	require.NoError(t, err)
	for i, v := range atr {
		if math.IsNaN(v) {
			continue
		}
		assert.GreaterOrEqual(t, v, 0.0, "bar %d", i)
	}
}
