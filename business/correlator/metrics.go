package correlator

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	SignalsReceivedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pricing_signals_received_total",
			Help: "Count of analysis signals accepted by the correlator, by topic.",
		},
		[]string{"topic"},
	)

	CorrelationsFiredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pricing_correlations_fired_total",
			Help: "Count of completed signal triples that triggered a pricing decision.",
		},
	)

	OpenProducts = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "pricing_correlator_open_products",
			Help: "Products currently holding a partial signal set.",
		},
	)
)

func init() {
	prometheus.MustRegister(SignalsReceivedTotal, CorrelationsFiredTotal, OpenProducts)
}
