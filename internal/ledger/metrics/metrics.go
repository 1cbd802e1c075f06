package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the evidence and gap ledger.
type Metrics struct {
	// Gaps opened by severity
	GapsOpened *prometheus.CounterVec

	// Gap workflow transitions by target status
	GapTransitions *prometheus.CounterVec

	// Evidence items attached
	EvidenceAdded prometheus.Counter
}

// New creates a new Metrics instance with all ledger module metrics registered.
func New() *Metrics {
	return &Metrics{
		GapsOpened: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "isms_ledger_gaps_opened_total",
			Help: "Total gaps opened by severity",
		}, []string{"severity"}),

		GapTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "isms_ledger_gap_transitions_total",
			Help: "Total gap workflow transitions by target status",
		}, []string{"to"}),

		EvidenceAdded: promauto.NewCounter(prometheus.CounterOpts{
			Name: "isms_ledger_evidence_added_total",
			Help: "Total evidence items attached to cells",
		}),
	}
}

// ObserveGapOpened records a newly opened gap.
func (m *Metrics) ObserveGapOpened(severity string) {
	if m != nil {
		m.GapsOpened.WithLabelValues(severity).Inc()
	}
}

// ObserveGapTransition records a workflow transition.
func (m *Metrics) ObserveGapTransition(to string) {
	if m != nil {
		m.GapTransitions.WithLabelValues(to).Inc()
	}
}

// ObserveEvidenceAdded records an attached evidence item.
func (m *Metrics) ObserveEvidenceAdded() {
	if m != nil {
		m.EvidenceAdded.Inc()
	}
}
