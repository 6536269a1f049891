package metrics

import "time"

// Transaction outcomes.
const (
	OutcomeCommitted  = "committed"
	OutcomeRolledBack = "rolled_back"
)

// RecordTransaction records the outcome and duration of a unit of work.
func RecordTransaction(operation string, committed bool, duration time.Duration) {
	outcome := OutcomeCommitted
	if !committed {
		outcome = OutcomeRolledBack
	}
	TransactionsTotal.WithLabelValues(operation, outcome).Inc()
	TransactionDuration.WithLabelValues(operation).Observe(duration.Seconds())
}

// RecordStoreError records a classified store error.
// Kind should be an entity.ErrorKind label (e.g., "duplicate", "required").
func RecordStoreError(operation, kind string) {
	StoreErrorsTotal.WithLabelValues(operation, kind).Inc()
}

// RecordTransactionRetry records a retried serializable transaction.
func RecordTransactionRetry(operation string) {
	TransactionRetriesTotal.WithLabelValues(operation).Inc()
}

// RecordRecommendationsLinked records recommendations linked by a committed vaccine insert.
func RecordRecommendationsLinked(count int) {
	if count > 0 {
		RecommendationsLinkedTotal.Add(float64(count))
	}
}

// RecordMenuAction records a console menu selection.
func RecordMenuAction(option string) {
	MenuActionsTotal.WithLabelValues(option).Inc()
}
