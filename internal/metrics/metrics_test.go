package metrics

import (
	"testing"
	"time"

	"SwingSentinel/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecorder_Evaluations(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.RecordEvaluation("SPY", ResultEntry, 101.5, 6)
	r.RecordEvaluation("SPY", ResultNoEntry, 100, 3)
	r.RecordEvaluation("SPY", ResultNotReady, 0, 0)

	assert.Equal(t, 1.0, testutil.ToFloat64(r.evaluations.WithLabelValues("SPY", ResultEntry)))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.evaluations.WithLabelValues("SPY", ResultNotReady)))
	assert.Equal(t, 100.0, testutil.ToFloat64(r.lastClose.WithLabelValues("SPY")), "not-ready rows leave gauges alone")
	assert.Equal(t, 3.0, testutil.ToFloat64(r.strength.WithLabelValues("SPY")))
}

func TestRecorder_AlertsAndTrades(t *testing.T) {
	r := New(prometheus.NewRegistry())

	r.RecordAlert("entry", true)
	r.RecordAlert("entry", false)
	r.RecordTrades("SPY", map[model.ExitReason]int{model.ExitTarget2: 3, model.ExitTimeLimit: 1})
	r.RecordTrades("SPY", map[model.ExitReason]int{model.ExitTarget2: 1})

	assert.Equal(t, 1.0, testutil.ToFloat64(r.alerts.WithLabelValues("entry", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(r.alerts.WithLabelValues("entry", "false")))
	assert.Equal(t, 4.0, testutil.ToFloat64(r.trades.WithLabelValues("SPY", "target 2 hit")))
}

func TestRecorder_Latency(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := New(reg)

	r.ObserveSince("backtest", time.Now().Add(-time.Second))

	n, err := testutil.GatherAndCount(reg, "swing_operation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestNew_SeparateRegistries(t *testing.T) {
	assert.NotPanics(t, func() {
		New(prometheus.NewRegistry())
		New(prometheus.NewRegistry())
	})
}
