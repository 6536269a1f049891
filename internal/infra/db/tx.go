package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"vacuna-catalog/internal/observability/logging"
	"vacuna-catalog/internal/observability/metrics"
	"vacuna-catalog/internal/observability/tracing"
)

// DBTX is satisfied by *sql.DB and *sql.Tx.
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Runner runs a function inside a transaction.
type Runner interface {
	InTx(ctx context.Context, name string, opts *sql.TxOptions, f func(tx *sql.Tx) error) error
}

// ErrNotCommitted is returned when f exits without returning an error
// but the transaction was not committed (for example after runtime.Goexit).
var ErrNotCommitted = errors.New("transaction was not committed")

// Transactor opens one transaction per unit of work on a pool.
type Transactor struct {
	db *sql.DB
}

// NewTransactor returns a Transactor over db.
func NewTransactor(db *sql.DB) *Transactor {
	return &Transactor{db: db}
}

// DB returns the underlying pool.
func (t *Transactor) DB() *sql.DB {
	return t.db
}

// InTx wraps the given function f in a transaction.
//
// If f returns an error, panics or exits the goroutine, the transaction is rolled back.
// The error returned by f is returned unwrapped, because callers classify it.
// Commit errors are wrapped.
func (t *Transactor) InTx(ctx context.Context, name string, opts *sql.TxOptions, f func(tx *sql.Tx) error) (err error) {
	ctx, span := tracing.GetTracer().Start(ctx, "tx."+name)
	defer span.End()
	if opts != nil {
		span.SetAttributes(
			attribute.String("db.isolation_level", opts.Isolation.String()),
			attribute.Bool("db.read_only", opts.ReadOnly),
		)
	}

	logger := logging.FromContext(ctx)
	start := time.Now()

	tx, err := t.db.BeginTx(ctx, opts)
	if err != nil {
		span.SetStatus(codes.Error, "begin failed")
		return fmt.Errorf("begin %s: %w", name, err)
	}
	logger.Debug("transaction started", slog.String("tx", name))

	var done bool

	defer func() {
		metrics.RecordTransaction(name, done, time.Since(start))

		if done {
			return
		}

		if err == nil {
			err = ErrNotCommitted
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		if e := tx.Rollback(); e != nil && !errors.Is(e, sql.ErrTxDone) {
			logger.Error("failed to perform rollback", slog.String("tx", name), slog.Any("error", e))
			return
		}
		logger.Debug("transaction rolled back", slog.String("tx", name), slog.Any("error", err))
	}()

	if err = f(tx); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		err = fmt.Errorf("commit %s: %w", name, err)
		return err
	}

	done = true
	logger.Debug("transaction committed", slog.String("tx", name), slog.Duration("duration", time.Since(start)))
	return nil
}
