// Package resilience provides reliability patterns for database access.
//
// The package supports:
//   - A circuit breaker that stops issuing transactions while PostgreSQL is unreachable
//   - Retry logic with exponential backoff and jitter for serialization conflicts
//
// Usage Example:
//
//	runner := circuitbreaker.NewDBCircuitBreaker(db.NewTransactor(pool), circuitbreaker.DBConfig())
//	err := retry.WithBackoff(ctx, retry.DBConfig(), func() error {
//	    return runner.InTx(ctx, "register", opts, fn)
//	})
package resilience
