package enum

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	assignmentsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gopherjt",
		Subsystem: "enum",
		Name:      "assignments_total",
		Help:      "Number of accepted assignments written to sinks.",
	}, []string{"strategy"})

	truncationsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "gopherjt",
		Subsystem: "enum",
		Name:      "truncations_total",
		Help:      "Number of enumerations stopped because their sink was full.",
	}, []string{"strategy"})
)

func recordAssignments(strategy Strategy, nb int) {
	assignmentsTotal.WithLabelValues(strategy.String()).Add(float64(nb))
}

func recordTruncation(strategy Strategy) {
	truncationsTotal.WithLabelValues(strategy.String()).Inc()
}
