package services

import "github.com/prometheus/client_golang/prometheus"

// Reconcile outcomes.
const (
	outcomeCreated   = "created"
	outcomeUpdated   = "updated"
	outcomeUnchanged = "unchanged"
)

var (
	// reconcileTotal counts committed reconciliations by mode and outcome.
	reconcileTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_reconcile_total",
			Help: "Committed profile reconciliations by mode and outcome.",
		},
		[]string{"mode", "outcome"},
	)

	// collectionRewrites counts delete-then-insert rewrites per child
	// collection.
	collectionRewrites = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_collection_rewrites_total",
			Help: "Child collection rewrites by collection.",
		},
		[]string{"collection"},
	)

	// plansGenerated counts persisted plans by goal.
	plansGenerated = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "planner_plans_generated_total",
			Help: "Generated training plans by goal.",
		},
		[]string{"goal"},
	)
)

func init() {
	prometheus.MustRegister(reconcileTotal, collectionRewrites, plansGenerated)
}
