// Package metrics exposes Prometheus collectors for ranking runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const (
	StatusOK      = "ok"
	StatusInvalid = "invalid"
	StatusError   = "error"
)

// Metrics records ranking runs by source ("upload" or "api") and outcome.
type Metrics struct {
	runs         *prometheus.CounterVec
	duration     *prometheus.HistogramVec
	alternatives prometheus.Histogram
}

// New registers the collectors with reg. Pass prometheus.DefaultRegisterer
// in production and a fresh registry in tests.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		runs: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "topsis_runs_total",
				Help: "Ranking runs by source and outcome.",
			},
			[]string{"source", "status"},
		),
		duration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "topsis_compute_duration_seconds",
				Help:    "Time spent computing and storing a ranking.",
				Buckets: prometheus.ExponentialBuckets(0.0001, 4, 10),
			},
			[]string{"source"},
		),
		alternatives: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "topsis_alternatives",
				Help:    "Number of alternatives per ranking run.",
				Buckets: prometheus.ExponentialBuckets(2, 2, 12),
			},
		),
	}
}

// ObserveRun records one finished run. A nil receiver is a no-op.
func (m *Metrics) ObserveRun(source, status string, alternatives int, took time.Duration) {
	if m == nil {
		return
	}
	m.runs.WithLabelValues(source, status).Inc()
	m.duration.WithLabelValues(source).Observe(took.Seconds())
	if status == StatusOK {
		m.alternatives.Observe(float64(alternatives))
	}
}
