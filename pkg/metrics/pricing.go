package metrics

import "github.com/prometheus/client_golang/prometheus"

var (
	// Latency of a full pricing decision, correlation to persisted change
	DecisionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "pricing_decision_duration_seconds",
		Help:    "Latency of pricing decisions end to end",
		Buckets: prometheus.DefBuckets,
	})

	// Total number of pricing decisions executed
	DecisionTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricing_decisions_total",
		Help: "Total number of pricing decisions executed",
	})

	// Total number of supervisor cycles run
	CycleTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pricing_cycles_total",
		Help: "Total number of supervisor pricing cycles",
	})
)

func Init() {
	prometheus.MustRegister(
		DecisionDuration,
		DecisionTotal,
		CycleTotal,
	)
}
