// Package metrics provides observability for the tender workflow.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus collectors for the tender module.
type Metrics struct {
	// Transition outcomes by action and result
	Transitions *prometheus.CounterVec

	// Compliance gate rejections by operation (interest, proposal)
	ComplianceGateRejections *prometheus.CounterVec

	// Awards resolved
	Awards prometheus.Counter

	// Award transaction latency
	AwardLatency prometheus.Histogram
}

// New creates and registers all tender module metrics.
func New() *Metrics {
	return &Metrics{
		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "partnerdesk_tender_transitions_total",
			Help: "Total tender and response transitions by action and outcome",
		}, []string{"action", "outcome"}),

		ComplianceGateRejections: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "partnerdesk_compliance_gate_rejections_total",
			Help: "Submissions blocked by the urgency compliance gate",
		}, []string{"operation"}),

		Awards: promauto.NewCounter(prometheus.CounterOpts{
			Name: "partnerdesk_awards_total",
			Help: "Total tenders resolved to a winner",
		}),

		AwardLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "partnerdesk_award_duration_seconds",
			Help:    "Duration of the award transaction",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// RecordTransition records one transition attempt.
func (m *Metrics) RecordTransition(action, outcome string) {
	if m != nil {
		m.Transitions.WithLabelValues(action, outcome).Inc()
	}
}

// RecordComplianceGate records a submission blocked by the urgency gate.
func (m *Metrics) RecordComplianceGate(operation string) {
	if m != nil {
		m.ComplianceGateRejections.WithLabelValues(operation).Inc()
	}
}

// RecordAward records a resolved tender and the transaction duration.
func (m *Metrics) RecordAward(d time.Duration) {
	if m != nil {
		m.Awards.Inc()
		m.AwardLatency.Observe(d.Seconds())
	}
}
