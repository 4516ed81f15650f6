package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Computation outcomes.
const (
	OutcomeOK           = "ok"
	OutcomeInsufficient = "insufficient_data"
	OutcomeError        = "error"
)

// Metrics holds the server's Prometheus collectors. Each server has its own
// registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	Requests       *prometheus.CounterVec
	Computations   *prometheus.CounterVec
	ComputeSeconds prometheus.Histogram
	ImportedRows   *prometheus.CounterVec
}

// NewMetrics registers the collectors on a fresh registry.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,

		Requests: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tradelog",
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests by route, method and status code",
			},
			[]string{"route", "method", "code"},
		),

		Computations: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tradelog",
				Subsystem: "metrics",
				Name:      "computations_total",
				Help:      "Performance metric computations by outcome",
			},
			[]string{"outcome"},
		),

		ComputeSeconds: f.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: "tradelog",
				Subsystem: "metrics",
				Name:      "compute_seconds",
				Help:      "Time spent computing performance metrics",
				Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5},
			},
		),

		ImportedRows: f.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "tradelog",
				Subsystem: "journal",
				Name:      "imported_rows_total",
				Help:      "Rows added to the journal by kind",
			},
			[]string{"kind"},
		),
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
