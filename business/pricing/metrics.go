package pricing

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	DecisionOutcomesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_decision_outcomes_total",
			Help: "Count of pricing decisions by outcome.",
		},
		[]string{"outcome"},
	)

	AuditWriteFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_audit_write_failures_total",
			Help: "Count of audit rows that could not be persisted after retry.",
		},
	)
)

func init() {
	prometheus.MustRegister(DecisionOutcomesTotal, AuditWriteFailuresTotal)
}
