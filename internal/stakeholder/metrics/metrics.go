// Package metrics exposes Prometheus instrumentation for the stakeholder
// service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the stakeholder service collectors.
type Metrics struct {
	SearchTotal      *prometheus.CounterVec
	SearchDuration   prometheus.Histogram
	SearchResultSize prometheus.Histogram
	WritesTotal      *prometheus.CounterVec
	TransitionsTotal *prometheus.CounterVec
}

// New registers the stakeholder collectors with reg.
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		SearchTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stakeholder_search_total",
			Help: "Stakeholder searches by outcome (ok, degraded, invalid).",
		}, []string{"outcome"}),
		SearchDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "stakeholder_search_duration_seconds",
			Help:    "Stakeholder search latency.",
			Buckets: prometheus.DefBuckets,
		}),
		SearchResultSize: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "stakeholder_search_result_size",
			Help:    "Number of records returned per search.",
			Buckets: []float64{0, 1, 5, 10, 25, 50, 100, 250, 500},
		}),
		WritesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stakeholder_writes_total",
			Help: "Stakeholder writes by operation and outcome.",
		}, []string{"operation", "outcome"}),
		TransitionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "stakeholder_transitions_total",
			Help: "Workflow transitions by type and outcome.",
		}, []string{"transition", "outcome"}),
	}
}
