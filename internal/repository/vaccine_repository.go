package repository

import (
	"context"
	"time"

	"vacuna-catalog/internal/domain/entity"
)

// NewVaccine holds the values of a vaccine insert. Nil fields are stored as NULL.
type NewVaccine struct {
	ID   *int64
	Name *string
}

// NewStatistic holds the values of a statistic insert. Nil fields are stored as NULL.
type NewStatistic struct {
	ID   *int64
	Name *string
}

// NewRecommendation holds the values of a recommendation insert. Nil fields are stored as NULL.
type NewRecommendation struct {
	ID           *int64
	Organization *string
	Description  *string
}

// NewVaccineStatistic holds the values of an estadistica_vacuna insert.
type NewVaccineStatistic struct {
	VaccineID   *int64
	StatisticID *int64
	Value       *float64
	Description *string
}

// NewVaccineRecommendation holds the values of a recomendacion_vacuna insert.
type NewVaccineRecommendation struct {
	VaccineID        *int64
	RecommendationID *int64
	AppliedOn        *time.Time
}

// VaccineRepository reads and writes the vacuna table.
// Lookups return nil, nil when nothing matches.
type VaccineRepository interface {
	Create(ctx context.Context, v NewVaccine) error
	Get(ctx context.Context, id int64) (*entity.Vaccine, error)
	FindByName(ctx context.Context, name string) (*entity.Vaccine, error)
	List(ctx context.Context) ([]*entity.Vaccine, error)
}

// StatisticRepository reads and writes the estadistica table.
type StatisticRepository interface {
	Create(ctx context.Context, s NewStatistic) error
	Get(ctx context.Context, id int64) (*entity.Statistic, error)
	FindByName(ctx context.Context, name string) (*entity.Statistic, error)
	List(ctx context.Context) ([]*entity.Statistic, error)
}

// RecommendationRepository reads and writes the recomendacion table.
type RecommendationRepository interface {
	Create(ctx context.Context, r NewRecommendation) error
	Get(ctx context.Context, id int64) (*entity.Recommendation, error)
	// Update changes the non-nil fields. It returns entity.ErrNoRowsAffected
	// when the id does not exist.
	Update(ctx context.Context, id int64, organization, description *string) error
}

// VaccineStatisticRepository manages the estadistica_vacuna join table.
type VaccineStatisticRepository interface {
	Create(ctx context.Context, vs NewVaccineStatistic) error
	// Delete returns entity.ErrNoRowsAffected when the pair is not registered.
	Delete(ctx context.Context, vaccineID, statisticID int64) error
	ReportByVaccineID(ctx context.Context, vaccineID int64) ([]entity.StatisticReportRow, error)
	ReportByVaccineName(ctx context.Context, name string) ([]entity.StatisticReportRow, error)
}

// VaccineRecommendationRepository manages the recomendacion_vacuna join table.
type VaccineRecommendationRepository interface {
	Create(ctx context.Context, vr NewVaccineRecommendation) error
	// Delete returns entity.ErrNoRowsAffected when the pair is not registered.
	Delete(ctx context.Context, vaccineID, recommendationID int64) error
	ReportByVaccineID(ctx context.Context, vaccineID int64) ([]entity.RecommendationReportRow, error)
	ReportByVaccineName(ctx context.Context, name string) ([]entity.RecommendationReportRow, error)
}
