package circuitbreaker

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"net"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sony/gobreaker"

	"vacuna-catalog/internal/infra/db"
)

// DBCircuitBreaker wraps a transaction runner with circuit breaker protection.
// Only infrastructure failures trip it; constraint violations are user errors.
type DBCircuitBreaker struct {
	cb   *CircuitBreaker
	next db.Runner
}

var _ db.Runner = (*DBCircuitBreaker)(nil)

// DBConfig returns configuration optimized for database circuit breakers.
// Opens after 3 consecutive infrastructure failures, 30 second timeout.
func DBConfig() Config {
	return Config{
		Name:             "database",
		MaxRequests:      1,
		Interval:         time.Minute,
		Timeout:          30 * time.Second,
		FailureThreshold: 0.6,
		MinRequests:      3,
		IsSuccessful:     IsHealthy,
	}
}

// NewDBCircuitBreaker wraps next. A nil cfg.IsSuccessful is replaced by IsHealthy.
func NewDBCircuitBreaker(next db.Runner, cfg Config) *DBCircuitBreaker {
	if cfg.IsSuccessful == nil {
		cfg.IsSuccessful = IsHealthy
	}
	return &DBCircuitBreaker{
		cb:   New(cfg),
		next: next,
	}
}

// InTx runs the transaction through the breaker.
// If the circuit is open, it returns gobreaker.ErrOpenState without touching the database.
func (dcb *DBCircuitBreaker) InTx(ctx context.Context, name string, opts *sql.TxOptions, f func(tx *sql.Tx) error) error {
	_, err := dcb.cb.Execute(func() (interface{}, error) {
		return nil, dcb.next.InTx(ctx, name, opts, f)
	})
	return err
}

// State returns the current state of the circuit breaker.
func (dcb *DBCircuitBreaker) State() gobreaker.State {
	return dcb.cb.State()
}

// IsOpen returns true if the circuit breaker is in the open state.
func (dcb *DBCircuitBreaker) IsOpen() bool {
	return dcb.cb.IsOpen()
}

// IsHealthy reports whether err leaves the database healthy.
// Nil errors and errors raised by statements the server executed count as successes.
func IsHealthy(err error) bool {
	return err == nil || !IsInfrastructureError(err)
}

// IsInfrastructureError reports whether err means the database could not serve the request.
func IsInfrastructureError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) {
		return false
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, driver.ErrBadConn) || errors.Is(err, sql.ErrConnDone) {
		return true
	}

	var connErr *pgconn.ConnectError
	if errors.As(err, &connErr) {
		return true
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgerrcode.IsConnectionException(pgErr.Code) ||
			pgerrcode.IsInsufficientResources(pgErr.Code) ||
			pgerrcode.IsOperatorIntervention(pgErr.Code) ||
			pgerrcode.IsSystemError(pgErr.Code)
	}

	var netErr net.Error
	return errors.As(err, &netErr)
}
