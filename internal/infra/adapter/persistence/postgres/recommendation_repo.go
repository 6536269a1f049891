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

type RecommendationRepo struct {
	db db.DBTX
}

func NewRecommendationRepo(q db.DBTX) repository.RecommendationRepository {
	return &RecommendationRepo{db: q}
}

func (repo *RecommendationRepo) Create(ctx context.Context, r repository.NewRecommendation) error {
	const query = `
INSERT INTO recomendacion (cod_recomendacion, organizacion, descripcion)
VALUES ($1, $2, $3)`
	if _, err := repo.db.ExecContext(ctx, query, r.ID, r.Organization, r.Description); err != nil {
		return fmt.Errorf("Create: %w", translateError(err))
	}
	return nil
}

func (repo *RecommendationRepo) Get(ctx context.Context, id int64) (*entity.Recommendation, error) {
	const query = `
SELECT cod_recomendacion, organizacion, descripcion
FROM recomendacion
WHERE cod_recomendacion = $1`
	var r entity.Recommendation
	err := repo.db.QueryRowContext(ctx, query, id).Scan(&r.ID, &r.Organization, &r.Description)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", translateError(err))
	}
	return &r, nil
}

// Update keeps the stored value of every nil field.
func (repo *RecommendationRepo) Update(ctx context.Context, id int64, organization, description *string) error {
	const query = `
UPDATE recomendacion
SET organizacion = COALESCE($1, organizacion),
    descripcion  = COALESCE($2, descripcion)
WHERE cod_recomendacion = $3`
	res, err := repo.db.ExecContext(ctx, query, organization, description, id)
	return checkAffected("Update", res, err)
}
