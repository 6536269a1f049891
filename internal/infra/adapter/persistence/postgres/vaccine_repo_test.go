package postgres_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"

	"vacuna-catalog/internal/domain/entity"
	pg "vacuna-catalog/internal/infra/adapter/persistence/postgres"
	"vacuna-catalog/internal/repository"
)

/* ─────────────────────────── 1. Vaccine ─────────────────────────── */

func TestVaccineRepo_Create_Duplicate(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO vacuna")).
		WithArgs(int64(1), "GRIPE").
		WillReturnError(&pgconn.PgError{
			Code: pgerrcode.UniqueViolation, ConstraintName: "pk_vacuna",
			Detail: "Key (cod_vacuna)=(1) already exists.",
		})

	err := pg.NewVaccineRepo(db).Create(context.Background(), repository.NewVaccine{ID: ptr(int64(1)), Name: ptr("GRIPE")})

	var se *entity.StoreError
	if !errors.As(err, &se) {
		t.Fatalf("want StoreError, got %v", err)
	}
	if se.Kind != entity.KindDuplicate || se.Table != "vacuna" || se.Field != "cod_vacuna" || se.Value != "1" {
		t.Fatalf("unexpected classification: %+v", se)
	}
}

func TestVaccineRepo_FindByName_Normalizes(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE nombre_vacuna = $1")).
		WithArgs("GRIPE").
		WillReturnRows(sqlmock.NewRows([]string{"cod_vacuna", "nombre_vacuna"}).AddRow(1, "GRIPE"))

	got, err := pg.NewVaccineRepo(db).FindByName(context.Background(), " gripe ")
	if err != nil {
		t.Fatalf("FindByName err=%v", err)
	}
	if diff := cmp.Diff(&entity.Vaccine{ID: 1, Name: "GRIPE"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestVaccineRepo_Get_NotFound(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM vacuna").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"cod_vacuna", "nombre_vacuna"}))

	got, err := pg.NewVaccineRepo(db).Get(context.Background(), 3)
	if err != nil || got != nil {
		t.Fatalf("want nil,nil got %v,%v", got, err)
	}
}

func TestVaccineRepo_List(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("ORDER BY cod_vacuna")).
		WillReturnRows(sqlmock.NewRows([]string{"cod_vacuna", "nombre_vacuna"}).
			AddRow(1, "GRIPE").AddRow(2, "TETANOS"))

	got, err := pg.NewVaccineRepo(db).List(context.Background())
	if err != nil || len(got) != 2 {
		t.Fatalf("List err=%v len=%d", err, len(got))
	}
}

/* ─────────────────────────── 2. Statistic ─────────────────────────── */

func TestStatisticRepo_FindByName(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("WHERE nombre_estadistica = $1")).
		WithArgs("COBERTURA").
		WillReturnRows(sqlmock.NewRows([]string{"cod_estadistica", "nombre_estadistica"}).AddRow(4, "COBERTURA"))

	got, err := pg.NewStatisticRepo(db).FindByName(context.Background(), "cobertura")
	if err != nil {
		t.Fatalf("FindByName err=%v", err)
	}
	if diff := cmp.Diff(&entity.Statistic{ID: 4, Name: "COBERTURA"}, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestStatisticRepo_Create_Required(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO estadistica")).
		WithArgs(nil, "COBERTURA").
		WillReturnError(&pgconn.PgError{Code: pgerrcode.NotNullViolation, ColumnName: "cod_estadistica"})

	err := pg.NewStatisticRepo(db).Create(context.Background(), repository.NewStatistic{Name: ptr("COBERTURA")})

	var se *entity.StoreError
	if !errors.As(err, &se) || se.Kind != entity.KindRequired || se.Field != "cod_estadistica" {
		t.Fatalf("unexpected error: %v", err)
	}
}

/* ─────────────────────────── 3. Recommendation ─────────────────────────── */

func TestRecommendationRepo_Update(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("COALESCE($1, organizacion)")).
		WithArgs("OMS", nil, int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE recomendacion")).
		WithArgs(nil, nil, int64(4)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := pg.NewRecommendationRepo(db)
	if err := repo.Update(context.Background(), 3, ptr("OMS"), nil); err != nil {
		t.Fatalf("Update err=%v", err)
	}
	if err := repo.Update(context.Background(), 4, nil, nil); !errors.Is(err, entity.ErrNoRowsAffected) {
		t.Fatalf("want ErrNoRowsAffected, got %v", err)
	}
}

func TestRecommendationRepo_Get(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery("FROM recomendacion").
		WithArgs(int64(3)).
		WillReturnRows(sqlmock.NewRows([]string{"cod_recomendacion", "organizacion", "descripcion"}).
			AddRow(3, "OMS", "Dos dosis"))

	got, err := pg.NewRecommendationRepo(db).Get(context.Background(), 3)
	if err != nil {
		t.Fatalf("Get err=%v", err)
	}
	want := &entity.Recommendation{ID: 3, Organization: "OMS", Description: "Dos dosis"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

/* ─────────────────────────── 4. Links and reports ─────────────────────────── */

func TestVaccineStatisticRepo_ReportByVaccineName(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectQuery(regexp.QuoteMeta("v.nombre_vacuna = $1")).
		WithArgs("GRIPE").
		WillReturnRows(sqlmock.NewRows([]string{
			"cod_vacuna", "nombre_vacuna", "cod_estadistica", "nombre_estadistica", "valor", "descripcion",
		}).
			AddRow(1, "GRIPE", 2, "COBERTURA", 71.25, "2023").
			AddRow(1, "GRIPE", 3, "DOSIS", 1200.0, nil))

	got, err := pg.NewVaccineStatisticRepo(db).ReportByVaccineName(context.Background(), "gripe")
	if err != nil {
		t.Fatalf("Report err=%v", err)
	}
	want := []entity.StatisticReportRow{
		{VaccineID: 1, VaccineName: "GRIPE", StatisticID: 2, StatisticName: "COBERTURA", Value: 71.25, Description: ptr("2023")},
		{VaccineID: 1, VaccineName: "GRIPE", StatisticID: 3, StatisticName: "DOSIS", Value: 1200},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestVaccineStatisticRepo_Create_NotRegistered(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO estadistica_vacuna")).
		WithArgs(int64(1), int64(9), 10.0, nil).
		WillReturnError(&pgconn.PgError{
			Code: pgerrcode.ForeignKeyViolation, ConstraintName: "fk_ev_estadistica",
			Detail: `Key (cod_estadistica)=(9) is not present in table "estadistica".`,
		})

	err := pg.NewVaccineStatisticRepo(db).Create(context.Background(), repository.NewVaccineStatistic{
		VaccineID: ptr(int64(1)), StatisticID: ptr(int64(9)), Value: ptr(10.0),
	})

	var se *entity.StoreError
	if !errors.As(err, &se) || se.Kind != entity.KindNotRegistered || se.Table != "estadistica" || se.Value != "9" {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestVaccineStatisticRepo_Delete(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM estadistica_vacuna")).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM estadistica_vacuna")).
		WithArgs(int64(1), int64(2)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	repo := pg.NewVaccineStatisticRepo(db)
	if err := repo.Delete(context.Background(), 1, 2); err != nil {
		t.Fatalf("Delete err=%v", err)
	}
	if err := repo.Delete(context.Background(), 1, 2); !errors.Is(err, entity.ErrNoRowsAffected) {
		t.Fatalf("second delete must affect no rows, got %v", err)
	}
}

func TestVaccineRecommendationRepo_ReportByVaccineID(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	applied := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("v.cod_vacuna = $1")).
		WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows([]string{
			"cod_vacuna", "nombre_vacuna", "cod_recomendacion", "organizacion", "descripcion", "fecha_aplicacion",
		}).AddRow(1, "GRIPE", 5, "OMS", "Anual", applied))

	got, err := pg.NewVaccineRecommendationRepo(db).ReportByVaccineID(context.Background(), 1)
	if err != nil {
		t.Fatalf("Report err=%v", err)
	}
	want := []entity.RecommendationReportRow{{
		VaccineID: 1, VaccineName: "GRIPE", RecommendationID: 5,
		Organization: "OMS", Description: "Anual", AppliedOn: applied,
	}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
}

func TestVaccineRecommendationRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	applied := time.Date(2024, 10, 1, 0, 0, 0, 0, time.UTC)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO recomendacion_vacuna")).
		WithArgs(int64(1), int64(5), applied).
		WillReturnResult(sqlmock.NewResult(0, 1))

	err := pg.NewVaccineRecommendationRepo(db).Create(context.Background(), repository.NewVaccineRecommendation{
		VaccineID: ptr(int64(1)), RecommendationID: ptr(int64(5)), AppliedOn: &applied,
	})
	if err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
