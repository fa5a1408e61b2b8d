package server

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Report outcomes recorded in ticketreport_reports_total.
const (
	OutcomeSuccess         = "success"
	OutcomeInvalid         = "invalid_request"
	OutcomeColumnNotFound  = "column_not_found"
	OutcomeGenerationError = "failed"
)

// metrics owns a private registry so several servers can coexist in tests.
type metrics struct {
	registry *prometheus.Registry
	reports  *prometheus.CounterVec
	duration prometheus.Histogram
}

func newMetrics() *metrics {
	m := &metrics{
		registry: prometheus.NewRegistry(),
		reports: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "ticketreport",
			Name:      "reports_total",
			Help:      "Report generation requests by outcome.",
		}, []string{"outcome"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "ticketreport",
			Name:      "report_duration_seconds",
			Help:      "Time spent generating a report.",
			Buckets:   []float64{0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
	}
	m.registry.MustRegister(m.reports, m.duration)
	return m
}

func (m *metrics) observe(outcome string, start time.Time) {
	m.reports.WithLabelValues(outcome).Inc()
	if outcome == OutcomeSuccess {
		m.duration.Observe(time.Since(start).Seconds())
	}
}

func (m *metrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
