// Package metrics provides centralized Prometheus metrics for the application.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Transaction metrics track every unit of work issued against the store
var (
	// TransactionsTotal counts finished transactions by operation and outcome
	TransactionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_transactions_total",
			Help: "Total number of store transactions by outcome",
		},
		[]string{"operation", "outcome"}, // outcome: committed, rolled_back
	)

	// TransactionDuration measures transaction duration in seconds, from BEGIN to COMMIT/ROLLBACK
	TransactionDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "store_transaction_duration_seconds",
			Help:    "Store transaction duration in seconds",
			Buckets: prometheus.ExponentialBuckets(0.001, 2, 12),
		},
		[]string{"operation"},
	)

	// StoreErrorsTotal counts classified store errors
	StoreErrorsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_errors_total",
			Help: "Total number of store errors by classification",
		},
		[]string{"operation", "kind"},
	)

	// TransactionRetriesTotal counts serializable transactions re-run after a conflict
	TransactionRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "store_transaction_retries_total",
			Help: "Total number of transaction retries after serialization conflicts",
		},
		[]string{"operation"},
	)
)

// Business metrics track catalog changes made from the console
var (
	// RecommendationsLinkedTotal counts recommendations linked to a new vaccine in committed transactions
	RecommendationsLinkedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "recommendations_linked_total",
			Help: "Total number of recommendations linked to vaccines",
		},
	)

	// MenuActionsTotal counts console menu selections
	MenuActionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "menu_actions_total",
			Help: "Total number of console menu actions",
		},
		[]string{"option"},
	)
)
