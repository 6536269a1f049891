package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"vacuna-catalog/internal/domain/entity"
	"vacuna-catalog/internal/infra/db"
	"vacuna-catalog/internal/repository"
)

type ArticleRepo struct {
	db db.DBTX
}

func NewArticleRepo(q db.DBTX) repository.ArticleRepository {
	return &ArticleRepo{db: q}
}

func (repo *ArticleRepo) CreateTable(ctx context.Context) error {
	if _, err := repo.db.ExecContext(ctx, db.ArticleTableDDL); err != nil {
		return fmt.Errorf("CreateTable: %w", translateError(err))
	}
	return nil
}

func (repo *ArticleRepo) DropTable(ctx context.Context) error {
	if _, err := repo.db.ExecContext(ctx, db.ArticleTableDropDDL); err != nil {
		return fmt.Errorf("DropTable: %w", translateError(err))
	}
	return nil
}

func (repo *ArticleRepo) List(ctx context.Context) ([]*entity.Article, error) {
	const query = `
SELECT codart, nomart, prezoart
FROM artigo
ORDER BY codart`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", translateError(err))
	}
	defer func() { _ = rows.Close() }()

	articles := make([]*entity.Article, 0, 16)
	for rows.Next() {
		a, err := scanArticle(rows)
		if err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		articles = append(articles, a)
	}
	return articles, rows.Err()
}

func (repo *ArticleRepo) Get(ctx context.Context, code int64) (*entity.Article, error) {
	const query = `
SELECT codart, nomart, prezoart
FROM artigo
WHERE codart = $1`
	return repo.get(ctx, "Get", query, code)
}

func (repo *ArticleRepo) GetForUpdate(ctx context.Context, code int64) (*entity.Article, error) {
	const query = `
SELECT codart, nomart, prezoart
FROM artigo
WHERE codart = $1
FOR UPDATE`
	return repo.get(ctx, "GetForUpdate", query, code)
}

func (repo *ArticleRepo) get(ctx context.Context, op, query string, code int64) (*entity.Article, error) {
	a, err := scanArticle(repo.db.QueryRowContext(ctx, query, code))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	return a, nil
}

func (repo *ArticleRepo) Create(ctx context.Context, article repository.NewArticle) error {
	const query = `
INSERT INTO artigo (codart, nomart, prezoart)
VALUES ($1, $2, $3)`
	if _, err := repo.db.ExecContext(ctx, query, article.Code, article.Name, article.Price); err != nil {
		return fmt.Errorf("Create: %w", translateError(err))
	}
	return nil
}

func (repo *ArticleRepo) UpdatePrice(ctx context.Context, code int64, price float64) error {
	const query = `
UPDATE artigo
SET prezoart = $1
WHERE codart = $2`
	res, err := repo.db.ExecContext(ctx, query, price, code)
	return checkAffected("UpdatePrice", res, err)
}

func (repo *ArticleRepo) Delete(ctx context.Context, code int64) error {
	const query = `DELETE FROM artigo WHERE codart = $1`
	res, err := repo.db.ExecContext(ctx, query, code)
	return checkAffected("Delete", res, err)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanArticle(row rowScanner) (*entity.Article, error) {
	var (
		a     entity.Article
		price sql.NullFloat64
	)
	if err := row.Scan(&a.Code, &a.Name, &price); err != nil {
		return nil, err
	}
	if price.Valid {
		a.Price = &price.Float64
	}
	return &a, nil
}

// checkAffected maps an exec result to entity.ErrNoRowsAffected when nothing matched.
func checkAffected(op string, res sql.Result, err error) error {
	if err != nil {
		return fmt.Errorf("%s: %w", op, translateError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s: RowsAffected: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("%s: %w", op, entity.ErrNoRowsAffected)
	}
	return nil
}
