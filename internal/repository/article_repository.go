package repository

import (
	"context"

	"vacuna-catalog/internal/domain/entity"
)

// NewArticle holds the values of an article insert.
// Nil fields are stored as NULL so that the store enforces its constraints.
type NewArticle struct {
	Code  *int64
	Name  *string
	Price *float64
}

type ArticleRepository interface {
	// CreateTable creates the artigo table. It fails with a KindTableExists store error
	// when the table is already there.
	CreateTable(ctx context.Context) error
	// DropTable drops the artigo table. It fails with a KindTableMissing store error
	// when there is no such table.
	DropTable(ctx context.Context) error
	List(ctx context.Context) ([]*entity.Article, error)
	// Get returns nil, nil when no article has the given code.
	Get(ctx context.Context, code int64) (*entity.Article, error)
	// GetForUpdate is Get with the row locked until the transaction ends.
	GetForUpdate(ctx context.Context, code int64) (*entity.Article, error)
	Create(ctx context.Context, article NewArticle) error
	// UpdatePrice returns entity.ErrNoRowsAffected when the code does not exist.
	UpdatePrice(ctx context.Context, code int64, price float64) error
	// Delete returns entity.ErrNoRowsAffected when the code does not exist.
	Delete(ctx context.Context, code int64) error
}
