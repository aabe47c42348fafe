package storage

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics tracks dataset loads.
type Metrics struct {
	Loads        *prometheus.CounterVec
	LoadDuration prometheus.Histogram
	Countries    prometheus.Gauge
}

// NewMetrics registers the loader metrics with reg. A nil reg leaves them
// unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		Loads: f.NewCounterVec(prometheus.CounterOpts{
			Name: "ranch_spec_loads_total",
			Help: "Dataset loads by backend and result",
		}, []string{"backend", "result"}),
		LoadDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "ranch_spec_load_duration_seconds",
			Help:    "Duration of fetching and parsing the latest dataset export",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
		Countries: f.NewGauge(prometheus.GaugeOpts{
			Name: "ranch_spec_countries",
			Help: "Number of countries in the loaded dataset",
		}),
	}
}

// ObserveLoad records one load attempt.
// Call with time.Now() at the start of the operation.
func (m *Metrics) ObserveLoad(backend Backend, result string, start time.Time) {
	m.Loads.WithLabelValues(string(backend), result).Inc()
	m.LoadDuration.Observe(time.Since(start).Seconds())
}
