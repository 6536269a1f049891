package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"vacuna-catalog/internal/domain/entity"
	"vacuna-catalog/internal/infra/db"
	"vacuna-catalog/internal/repository"
)

type VaccineStatisticRepo struct {
	db db.DBTX
}

func NewVaccineStatisticRepo(q db.DBTX) repository.VaccineStatisticRepository {
	return &VaccineStatisticRepo{db: q}
}

func (repo *VaccineStatisticRepo) Create(ctx context.Context, vs repository.NewVaccineStatistic) error {
	const query = `
INSERT INTO estadistica_vacuna (cod_vacuna, cod_estadistica, valor, descripcion)
VALUES ($1, $2, $3, $4)`
	if _, err := repo.db.ExecContext(ctx, query, vs.VaccineID, vs.StatisticID, vs.Value, vs.Description); err != nil {
		return fmt.Errorf("Create: %w", translateError(err))
	}
	return nil
}

func (repo *VaccineStatisticRepo) Delete(ctx context.Context, vaccineID, statisticID int64) error {
	const query = `
DELETE FROM estadistica_vacuna
WHERE cod_vacuna = $1 AND cod_estadistica = $2`
	res, err := repo.db.ExecContext(ctx, query, vaccineID, statisticID)
	return checkAffected("Delete", res, err)
}

const statisticReportQuery = `
SELECT v.cod_vacuna, v.nombre_vacuna, e.cod_estadistica, e.nombre_estadistica, ev.valor, ev.descripcion
FROM estadistica_vacuna ev
INNER JOIN vacuna v ON v.cod_vacuna = ev.cod_vacuna
INNER JOIN estadistica e ON e.cod_estadistica = ev.cod_estadistica
WHERE `

func (repo *VaccineStatisticRepo) ReportByVaccineID(ctx context.Context, vaccineID int64) ([]entity.StatisticReportRow, error) {
	return repo.report(ctx, "ReportByVaccineID", "v.cod_vacuna = $1", vaccineID)
}

func (repo *VaccineStatisticRepo) ReportByVaccineName(ctx context.Context, name string) ([]entity.StatisticReportRow, error) {
	return repo.report(ctx, "ReportByVaccineName", "v.nombre_vacuna = $1", entity.NormalizeName(name))
}

func (repo *VaccineStatisticRepo) report(ctx context.Context, op, where string, arg any) ([]entity.StatisticReportRow, error) {
	rows, err := repo.db.QueryContext(ctx, statisticReportQuery+where+"\nORDER BY e.cod_estadistica", arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	defer func() { _ = rows.Close() }()

	var result []entity.StatisticReportRow
	for rows.Next() {
		var (
			r    entity.StatisticReportRow
			desc sql.NullString
		)
		if err := rows.Scan(&r.VaccineID, &r.VaccineName, &r.StatisticID, &r.StatisticName, &r.Value, &desc); err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		if desc.Valid {
			r.Description = &desc.String
		}
		result = append(result, r)
	}
	return result, rows.Err()
}

type VaccineRecommendationRepo struct {
	db db.DBTX
}

func NewVaccineRecommendationRepo(q db.DBTX) repository.VaccineRecommendationRepository {
	return &VaccineRecommendationRepo{db: q}
}

func (repo *VaccineRecommendationRepo) Create(ctx context.Context, vr repository.NewVaccineRecommendation) error {
	const query = `
INSERT INTO recomendacion_vacuna (cod_vacuna, cod_recomendacion, fecha_aplicacion)
VALUES ($1, $2, $3)`
	if _, err := repo.db.ExecContext(ctx, query, vr.VaccineID, vr.RecommendationID, vr.AppliedOn); err != nil {
		return fmt.Errorf("Create: %w", translateError(err))
	}
	return nil
}

func (repo *VaccineRecommendationRepo) Delete(ctx context.Context, vaccineID, recommendationID int64) error {
	const query = `
DELETE FROM recomendacion_vacuna
WHERE cod_vacuna = $1 AND cod_recomendacion = $2`
	res, err := repo.db.ExecContext(ctx, query, vaccineID, recommendationID)
	return checkAffected("Delete", res, err)
}

const recommendationReportQuery = `
SELECT v.cod_vacuna, v.nombre_vacuna, r.cod_recomendacion, r.organizacion, r.descripcion, rv.fecha_aplicacion
FROM recomendacion_vacuna rv
INNER JOIN vacuna v ON v.cod_vacuna = rv.cod_vacuna
INNER JOIN recomendacion r ON r.cod_recomendacion = rv.cod_recomendacion
WHERE `

func (repo *VaccineRecommendationRepo) ReportByVaccineID(ctx context.Context, vaccineID int64) ([]entity.RecommendationReportRow, error) {
	return repo.report(ctx, "ReportByVaccineID", "v.cod_vacuna = $1", vaccineID)
}

func (repo *VaccineRecommendationRepo) ReportByVaccineName(ctx context.Context, name string) ([]entity.RecommendationReportRow, error) {
	return repo.report(ctx, "ReportByVaccineName", "v.nombre_vacuna = $1", entity.NormalizeName(name))
}

func (repo *VaccineRecommendationRepo) report(ctx context.Context, op, where string, arg any) ([]entity.RecommendationReportRow, error) {
	rows, err := repo.db.QueryContext(ctx, recommendationReportQuery+where+"\nORDER BY rv.fecha_aplicacion, r.cod_recomendacion", arg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, translateError(err))
	}
	defer func() { _ = rows.Close() }()

	var result []entity.RecommendationReportRow
	for rows.Next() {
		var r entity.RecommendationReportRow
		if err := rows.Scan(&r.VaccineID, &r.VaccineName, &r.RecommendationID, &r.Organization, &r.Description, &r.AppliedOn); err != nil {
			return nil, fmt.Errorf("%s: Scan: %w", op, err)
		}
		result = append(result, r)
	}
	return result, rows.Err()
}
