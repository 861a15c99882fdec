package calculator

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEMA_SeedAndRecursion(t *testing.T) {
	got, err := EMA([]float64{10, 20, 30}, 3)
	require.NoError(t, err)

	// alpha = 0.5
	assert.InDelta(t, 10.0, got[0], 1e-12)
	assert.InDelta(t, 15.0, got[1], 1e-12)
	assert.InDelta(t, 22.5, got[2], 1e-12)
}

func TestEMA_InvalidSpan(t *testing.T) {
	_, err := EMA([]float64{1, 2}, 0)
	assert.Error(t, err)
}

func TestEMA_Empty(t *testing.T) {
	got, err := EMA(nil, 5)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestRollingMean(t *testing.T) {
	got, err := RollingMean([]float64{1, 2, 3, 4, 5}, 3)
	require.NoError(t, err)

	assert.True(t, math.IsNaN(got[0]))
	assert.True(t, math.IsNaN(got[1]))
	assert.InDelta(t, 2.0, got[2], 1e-12)
	assert.InDelta(t, 3.0, got[3], 1e-12)
	assert.InDelta(t, 4.0, got[4], 1e-12)
}

func TestRollingMean_InvalidPeriod(t *testing.T) {
	_, err := RollingMean([]float64{1}, -1)
	assert.Error(t, err)
}
