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

type VaccineRepo struct {
	db db.DBTX
}

func NewVaccineRepo(q db.DBTX) repository.VaccineRepository {
	return &VaccineRepo{db: q}
}

func (repo *VaccineRepo) Create(ctx context.Context, v repository.NewVaccine) error {
	const query = `
INSERT INTO vacuna (cod_vacuna, nombre_vacuna)
VALUES ($1, $2)`
	if _, err := repo.db.ExecContext(ctx, query, v.ID, v.Name); err != nil {
		return fmt.Errorf("Create: %w", translateError(err))
	}
	return nil
}

func (repo *VaccineRepo) Get(ctx context.Context, id int64) (*entity.Vaccine, error) {
	const query = `
SELECT cod_vacuna, nombre_vacuna
FROM vacuna
WHERE cod_vacuna = $1`
	var v entity.Vaccine
	err := repo.db.QueryRowContext(ctx, query, id).Scan(&v.ID, &v.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", translateError(err))
	}
	return &v, nil
}

// FindByName matches the stored upper-cased name exactly.
func (repo *VaccineRepo) FindByName(ctx context.Context, name string) (*entity.Vaccine, error) {
	const query = `
SELECT cod_vacuna, nombre_vacuna
FROM vacuna
WHERE nombre_vacuna = $1`
	var v entity.Vaccine
	err := repo.db.QueryRowContext(ctx, query, entity.NormalizeName(name)).Scan(&v.ID, &v.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByName: %w", translateError(err))
	}
	return &v, nil
}

func (repo *VaccineRepo) List(ctx context.Context) ([]*entity.Vaccine, error) {
	const query = `
SELECT cod_vacuna, nombre_vacuna
FROM vacuna
ORDER BY cod_vacuna`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", translateError(err))
	}
	defer func() { _ = rows.Close() }()

	var vaccines []*entity.Vaccine
	for rows.Next() {
		var v entity.Vaccine
		if err := rows.Scan(&v.ID, &v.Name); err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		vaccines = append(vaccines, &v)
	}
	return vaccines, rows.Err()
}

type StatisticRepo struct {
	db db.DBTX
}

func NewStatisticRepo(q db.DBTX) repository.StatisticRepository {
	return &StatisticRepo{db: q}
}

func (repo *StatisticRepo) Create(ctx context.Context, s repository.NewStatistic) error {
	const query = `
INSERT INTO estadistica (cod_estadistica, nombre_estadistica)
VALUES ($1, $2)`
	if _, err := repo.db.ExecContext(ctx, query, s.ID, s.Name); err != nil {
		return fmt.Errorf("Create: %w", translateError(err))
	}
	return nil
}

func (repo *StatisticRepo) Get(ctx context.Context, id int64) (*entity.Statistic, error) {
	const query = `
SELECT cod_estadistica, nombre_estadistica
FROM estadistica
WHERE cod_estadistica = $1`
	var s entity.Statistic
	err := repo.db.QueryRowContext(ctx, query, id).Scan(&s.ID, &s.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", translateError(err))
	}
	return &s, nil
}

func (repo *StatisticRepo) FindByName(ctx context.Context, name string) (*entity.Statistic, error) {
	const query = `
SELECT cod_estadistica, nombre_estadistica
FROM estadistica
WHERE nombre_estadistica = $1`
	var s entity.Statistic
	err := repo.db.QueryRowContext(ctx, query, entity.NormalizeName(name)).Scan(&s.ID, &s.Name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("FindByName: %w", translateError(err))
	}
	return &s, nil
}

func (repo *StatisticRepo) List(ctx context.Context) ([]*entity.Statistic, error) {
	const query = `
SELECT cod_estadistica, nombre_estadistica
FROM estadistica
ORDER BY cod_estadistica`
	rows, err := repo.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("List: %w", translateError(err))
	}
	defer func() { _ = rows.Close() }()

	var stats []*entity.Statistic
	for rows.Next() {
		var s entity.Statistic
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("List: Scan: %w", err)
		}
		stats = append(stats, &s)
	}
	return stats, rows.Err()
}
