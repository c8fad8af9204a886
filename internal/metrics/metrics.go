// Package metrics provides internal metrics collection.
// This package is internal and should not be imported by external projects.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Persistence failures are the one error class surfaced to an operator
// channel rather than only spoken back to the user.
var (
	toolInvocationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "voiceagents",
			Name:      "tool_invocations_total",
			Help:      "Total number of tool invocations",
		},
		[]string{"tool", "outcome"},
	)

	casesResolvedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "voiceagents",
			Name:      "fraud_cases_resolved_total",
			Help:      "Total number of fraud cases resolved, by terminal status",
		},
		[]string{"status"},
	)

	persistenceFailuresTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "voiceagents",
			Name:      "persistence_failures_total",
			Help:      "Total number of store read/write failures",
		},
		[]string{"operation"},
	)

	ordersPlacedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Namespace: "voiceagents",
			Name:      "orders_placed_total",
			Help:      "Total number of placed orders",
		},
	)
)

// ObserveToolInvocation records one tool invocation.
func ObserveToolInvocation(tool string, ok bool) {
	outcome := "ok"
	if !ok {
		outcome = "error"
	}
	toolInvocationsTotal.WithLabelValues(tool, outcome).Inc()
}

// ObserveCaseResolved records a terminal case transition.
func ObserveCaseResolved(status string) {
	casesResolvedTotal.WithLabelValues(status).Inc()
}

// ObservePersistenceFailure records a store read/write failure.
func ObservePersistenceFailure(operation string) {
	persistenceFailuresTotal.WithLabelValues(operation).Inc()
}

// ObserveOrderPlaced records a placed order.
func ObserveOrderPlaced() {
	ordersPlacedTotal.Inc()
}
