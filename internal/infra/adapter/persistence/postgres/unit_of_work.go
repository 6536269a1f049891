package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"vacuna-catalog/internal/domain/entity"
	"vacuna-catalog/internal/infra/db"
	"vacuna-catalog/internal/observability/logging"
	"vacuna-catalog/internal/observability/metrics"
	"vacuna-catalog/internal/repository"
	"vacuna-catalog/internal/resilience/retry"
)

// UnitOfWork runs repository.Stores bound to a single *sql.Tx.
// Serializable units of work are rerun on serialization conflicts.
type UnitOfWork struct {
	runner db.Runner
	retry  retry.Config
}

var _ repository.UnitOfWork = (*UnitOfWork)(nil)

// NewUnitOfWork returns a unit of work over runner, usually a *db.Transactor
// behind the database circuit breaker.
func NewUnitOfWork(runner db.Runner, retryCfg retry.Config) *UnitOfWork {
	return &UnitOfWork{runner: runner, retry: retryCfg}
}

// NewStores binds every repository to q.
func NewStores(q db.DBTX) repository.Stores {
	return repository.Stores{
		Articles:               NewArticleRepo(q),
		Vaccines:               NewVaccineRepo(q),
		Statistics:             NewStatisticRepo(q),
		Recommendations:        NewRecommendationRepo(q),
		VaccineStatistics:      NewVaccineStatisticRepo(q),
		VaccineRecommendations: NewVaccineRecommendationRepo(q),
	}
}

func (u *UnitOfWork) Do(ctx context.Context, opts repository.TxOptions, fn func(ctx context.Context, s repository.Stores) error) error {
	txOpts := &sql.TxOptions{Isolation: opts.Isolation, ReadOnly: opts.ReadOnly}
	run := func() error {
		return u.runner.InTx(ctx, opts.Name, txOpts, func(tx *sql.Tx) error {
			return fn(ctx, NewStores(tx))
		})
	}

	var err error
	if opts.Isolation == sql.LevelSerializable {
		attempt := 0
		err = retry.WithBackoff(ctx, u.retry, func() error {
			attempt++
			if attempt > 1 {
				metrics.RecordTransactionRetry(opts.Name)
			}
			return run()
		})
	} else {
		err = run()
	}
	if err == nil {
		return nil
	}

	err = translateError(err)
	var se *entity.StoreError
	if errors.As(err, &se) {
		metrics.RecordStoreError(opts.Name, se.Kind.String())
		logging.FromContext(ctx).Warn("unit of work failed",
			slog.String("tx", opts.Name),
			slog.String("kind", se.Kind.String()),
			slog.String("code", se.Code),
			slog.String("constraint", se.Constraint),
			slog.Any("error", err))
	}
	return err
}
