package repository

import (
	"context"
	"database/sql"
)

// Stores groups the repositories bound to one transaction.
type Stores struct {
	Articles               ArticleRepository
	Vaccines               VaccineRepository
	Statistics             StatisticRepository
	Recommendations        RecommendationRepository
	VaccineStatistics      VaccineStatisticRepository
	VaccineRecommendations VaccineRecommendationRepository
}

// TxOptions describes one unit of work.
// Name labels logs, spans and metrics.
type TxOptions struct {
	Name      string
	Isolation sql.IsolationLevel
	ReadOnly  bool
}

// UnitOfWork runs fn inside a single transaction.
//
// The transaction commits when fn returns nil and rolls back otherwise; none of
// the writes performed through s are visible after a rollback. The error returned
// by fn stays in the returned chain so callers can inspect it with errors.Is and
// errors.As; store failures surface as *entity.StoreError.
type UnitOfWork interface {
	Do(ctx context.Context, opts TxOptions, fn func(ctx context.Context, s Stores) error) error
}
