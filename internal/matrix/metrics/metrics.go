package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the applicability matrix module.
type Metrics struct {
	// Applicability decisions by outcome
	Decisions *prometheus.CounterVec

	// Assessments recorded by compliance status
	Assessments *prometheus.CounterVec
}

// New creates a new Metrics instance with all matrix module metrics registered.
func New() *Metrics {
	return &Metrics{
		Decisions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "isms_matrix_decisions_total",
			Help: "Total applicability decisions by outcome",
		}, []string{"outcome"}), // outcome: "applicable", "not_applicable"

		Assessments: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "isms_matrix_assessments_total",
			Help: "Total compliance assessments recorded by status",
		}, []string{"status"}),
	}
}

// ObserveDecision records an applicability decision.
func (m *Metrics) ObserveDecision(applicable bool) {
	if m != nil {
		outcome := "not_applicable"
		if applicable {
			outcome = "applicable"
		}
		m.Decisions.WithLabelValues(outcome).Inc()
	}
}

// ObserveAssessment records a recorded assessment.
func (m *Metrics) ObserveAssessment(status string) {
	if m != nil {
		m.Assessments.WithLabelValues(status).Inc()
	}
}
