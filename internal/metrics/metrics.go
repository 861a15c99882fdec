package metrics

import (
	"time"

	"SwingSentinel/internal/model"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Evaluation results.
const (
	ResultEntry    = "entry"
	ResultNoEntry  = "no_entry"
	ResultNotReady = "not_ready"
	ResultError    = "error"
)

// Recorder exposes the engine's Prometheus metrics.
type Recorder struct {
	evaluations *prometheus.CounterVec
	alerts      *prometheus.CounterVec
	trades      *prometheus.CounterVec
	lastClose   *prometheus.GaugeVec
	strength    *prometheus.GaugeVec
	latency     *prometheus.HistogramVec
}

// New registers the metrics with reg. A nil reg uses the default registerer.
func New(reg prometheus.Registerer) *Recorder {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	f := promauto.With(reg)
	return &Recorder{
		evaluations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "swing",
				Name:      "evaluations_total",
				Help:      "Signal evaluations by result",
			},
			[]string{"symbol", "result"},
		),
		alerts: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "swing",
				Name:      "alerts_total",
				Help:      "Alerts by kind and delivery outcome",
			},
			[]string{"kind", "delivered"},
		),
		trades: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "swing",
				Name:      "backtest_trades_total",
				Help:      "Simulated trades by exit reason",
			},
			[]string{"symbol", "exit_reason"},
		),
		lastClose: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "swing",
				Name:      "last_close",
				Help:      "Close of the most recently evaluated bar",
			},
			[]string{"symbol"},
		),
		strength: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "swing",
				Name:      "signal_strength",
				Help:      "Criteria passed on the most recently evaluated bar",
			},
			[]string{"symbol"},
		),
		latency: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "swing",
				Name:      "operation_duration_seconds",
				Help:      "Duration of pipeline operations in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordEvaluation counts one evaluation and updates the latest-bar gauges
// when the bar was ready.
func (r *Recorder) RecordEvaluation(symbol, result string, close float64, strength int) {
	r.evaluations.WithLabelValues(symbol, result).Inc()
	if result == ResultEntry || result == ResultNoEntry {
		r.lastClose.WithLabelValues(symbol).Set(close)
		r.strength.WithLabelValues(symbol).Set(float64(strength))
	}
}

// RecordAlert counts an alert attempt.
func (r *Recorder) RecordAlert(kind string, delivered bool) {
	d := "false"
	if delivered {
		d = "true"
	}
	r.alerts.WithLabelValues(kind, d).Inc()
}

// RecordTrades counts simulated trades per exit reason.
func (r *Recorder) RecordTrades(symbol string, exitReasons map[model.ExitReason]int) {
	for reason, n := range exitReasons {
		r.trades.WithLabelValues(symbol, string(reason)).Add(float64(n))
	}
}

// ObserveSince records the time elapsed since start for op.
func (r *Recorder) ObserveSince(op string, start time.Time) {
	r.latency.WithLabelValues(op).Observe(time.Since(start).Seconds())
}
