package vaccine

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"vacuna-catalog/internal/domain/entity"
	"vacuna-catalog/internal/observability/logging"
	"vacuna-catalog/internal/observability/metrics"
	"vacuna-catalog/internal/repository"
)

// VaccineInput represents the values of a new vaccine. The name is upper-cased.
type VaccineInput struct {
	ID   *int64
	Name *string
}

// StatisticInput represents the values of a new statistic. The name is upper-cased.
type StatisticInput struct {
	ID   *int64
	Name *string
}

// RecommendationInput represents the values of a new recommendation.
type RecommendationInput struct {
	ID           *int64
	Organization *string
	Description  *string
}

// RegistrationInput registers a statistic value for a vaccine.
// Vaccine and Statistic are given either by code or by name.
type RegistrationInput struct {
	Vaccine     entity.Ref
	Statistic   entity.Ref
	Value       *float64
	Description *string
}

// Service provides vaccine schema use cases.
type Service struct {
	UoW repository.UnitOfWork
}

func txOptions(name string, isolation sql.IsolationLevel, readOnly bool) repository.TxOptions {
	return repository.TxOptions{Name: name, Isolation: isolation, ReadOnly: readOnly}
}

func upper(p *string) *string {
	if p == nil {
		return nil
	}
	return entity.OptionalName(*p)
}

// AddVaccine inserts a single vaccine.
func (s *Service) AddVaccine(ctx context.Context, in VaccineInput) error {
	err := s.UoW.Do(ctx, txOptions("insert_vaccine", sql.LevelReadCommitted, false), func(ctx context.Context, st repository.Stores) error {
		return st.Vaccines.Create(ctx, repository.NewVaccine{ID: in.ID, Name: upper(in.Name)})
	})
	if err != nil {
		return fmt.Errorf("add vaccine: %w", err)
	}
	return nil
}

// AddStatistic inserts a single statistic.
func (s *Service) AddStatistic(ctx context.Context, in StatisticInput) error {
	err := s.UoW.Do(ctx, txOptions("insert_statistic", sql.LevelReadCommitted, false), func(ctx context.Context, st repository.Stores) error {
		return st.Statistics.Create(ctx, repository.NewStatistic{ID: in.ID, Name: upper(in.Name)})
	})
	if err != nil {
		return fmt.Errorf("add statistic: %w", err)
	}
	return nil
}

// AddRecommendation inserts a single recommendation.
func (s *Service) AddRecommendation(ctx context.Context, in RecommendationInput) error {
	err := s.UoW.Do(ctx, txOptions("insert_recommendation", sql.LevelReadCommitted, false), func(ctx context.Context, st repository.Stores) error {
		return st.Recommendations.Create(ctx, repository.NewRecommendation(in))
	})
	if err != nil {
		return fmt.Errorf("add recommendation: %w", err)
	}
	return nil
}

// Execute runs p as one serializable unit of work: the vaccine insert, then each
// queued recommendation insert and link in order. It returns the number of linked
// recommendations. If any step fails nothing is kept, the count is zero and the
// error is a *StepError naming the step.
func (s *Service) Execute(ctx context.Context, p *Plan) (int, error) {
	var linked int
	err := s.UoW.Do(ctx, txOptions("insert_vaccine_with_recommendations", sql.LevelSerializable, false), func(ctx context.Context, st repository.Stores) error {
		linked = 0
		v := p.vaccine
		if err := st.Vaccines.Create(ctx, repository.NewVaccine{ID: v.ID, Name: upper(v.Name)}); err != nil {
			return &StepError{Step: 0, Err: err}
		}

		for i, link := range p.links {
			if link.recommendation != nil {
				if err := st.Recommendations.Create(ctx, repository.NewRecommendation(*link.recommendation)); err != nil {
					return &StepError{Step: i + 1, Err: err}
				}
			}
			err := st.VaccineRecommendations.Create(ctx, repository.NewVaccineRecommendation{
				VaccineID:        v.ID,
				RecommendationID: link.recommendationID,
				AppliedOn:        link.appliedOn,
			})
			if err != nil {
				return &StepError{Step: i + 1, Err: err}
			}
			linked++
		}
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("add vaccine with recommendations: %w", err)
	}

	metrics.RecordRecommendationsLinked(linked)
	logging.FromContext(ctx).Info("vaccine added",
		slog.Int("recommendations_linked", linked))
	return linked, nil
}

// RegisterStatistic stores a statistic value for a vaccine. Names are resolved
// to codes inside the same serializable transaction; a name that does not resolve
// aborts the unit of work before the insert with ErrVaccineNotFound or
// ErrStatisticNotFound.
func (s *Service) RegisterStatistic(ctx context.Context, in RegistrationInput) error {
	err := s.UoW.Do(ctx, txOptions("register_vaccine_statistic", sql.LevelSerializable, false), func(ctx context.Context, st repository.Stores) error {
		vaccineID, err := resolveVaccine(ctx, st.Vaccines, in.Vaccine)
		if err != nil {
			return err
		}
		statisticID, err := resolveStatistic(ctx, st.Statistics, in.Statistic)
		if err != nil {
			return err
		}
		return st.VaccineStatistics.Create(ctx, repository.NewVaccineStatistic{
			VaccineID:   vaccineID,
			StatisticID: statisticID,
			Value:       in.Value,
			Description: in.Description,
		})
	})
	if err != nil {
		return fmt.Errorf("register statistic: %w", err)
	}
	return nil
}

// resolveVaccine returns the code of ref. A zero ref yields nil so that the
// store reports the missing code.
func resolveVaccine(ctx context.Context, repo repository.VaccineRepository, ref entity.Ref) (*int64, error) {
	if ref.ID != nil || ref.Name == "" {
		return ref.ID, nil
	}
	v, err := repo.FindByName(ctx, ref.Name)
	if err != nil {
		return nil, err
	}
	if v == nil {
		return nil, fmt.Errorf("%w: %s", ErrVaccineNotFound, ref.Name)
	}
	return &v.ID, nil
}

func resolveStatistic(ctx context.Context, repo repository.StatisticRepository, ref entity.Ref) (*int64, error) {
	if ref.ID != nil || ref.Name == "" {
		return ref.ID, nil
	}
	st, err := repo.FindByName(ctx, ref.Name)
	if err != nil {
		return nil, err
	}
	if st == nil {
		return nil, fmt.Errorf("%w: %s", ErrStatisticNotFound, ref.Name)
	}
	return &st.ID, nil
}

// StatisticsReport returns the statistics registered for the vaccine given by code or name.
func (s *Service) StatisticsReport(ctx context.Context, ref entity.Ref) ([]entity.StatisticReportRow, error) {
	if ref.IsZero() {
		return nil, ErrMissingReference
	}
	var rows []entity.StatisticReportRow
	err := s.UoW.Do(ctx, txOptions("vaccine_statistics_report", sql.LevelReadCommitted, true), func(ctx context.Context, st repository.Stores) error {
		var err error
		if ref.ID != nil {
			rows, err = st.VaccineStatistics.ReportByVaccineID(ctx, *ref.ID)
		} else {
			rows, err = st.VaccineStatistics.ReportByVaccineName(ctx, ref.Name)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("statistics report: %w", err)
	}
	return rows, nil
}

// RecommendationsReport returns the recommendations linked to the vaccine given by code or name.
func (s *Service) RecommendationsReport(ctx context.Context, ref entity.Ref) ([]entity.RecommendationReportRow, error) {
	if ref.IsZero() {
		return nil, ErrMissingReference
	}
	var rows []entity.RecommendationReportRow
	err := s.UoW.Do(ctx, txOptions("vaccine_recommendations_report", sql.LevelReadCommitted, true), func(ctx context.Context, st repository.Stores) error {
		var err error
		if ref.ID != nil {
			rows, err = st.VaccineRecommendations.ReportByVaccineID(ctx, *ref.ID)
		} else {
			rows, err = st.VaccineRecommendations.ReportByVaccineName(ctx, ref.Name)
		}
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("recommendations report: %w", err)
	}
	return rows, nil
}

// ListVaccines returns every vaccine ordered by code.
func (s *Service) ListVaccines(ctx context.Context) ([]*entity.Vaccine, error) {
	var out []*entity.Vaccine
	err := s.UoW.Do(ctx, txOptions("list_vaccines", sql.LevelReadCommitted, true), func(ctx context.Context, st repository.Stores) error {
		var err error
		out, err = st.Vaccines.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list vaccines: %w", err)
	}
	return out, nil
}

// ListStatistics returns every statistic ordered by code.
func (s *Service) ListStatistics(ctx context.Context) ([]*entity.Statistic, error) {
	var out []*entity.Statistic
	err := s.UoW.Do(ctx, txOptions("list_statistics", sql.LevelReadCommitted, true), func(ctx context.Context, st repository.Stores) error {
		var err error
		out, err = st.Statistics.List(ctx)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("list statistics: %w", err)
	}
	return out, nil
}

// FindVaccine returns the vaccine given by code or name.
// An unmatched reference yields an error wrapping ErrVaccineNotFound.
func (s *Service) FindVaccine(ctx context.Context, ref entity.Ref) (*entity.Vaccine, error) {
	if ref.IsZero() {
		return nil, ErrMissingReference
	}
	var v *entity.Vaccine
	err := s.UoW.Do(ctx, txOptions("find_vaccine", sql.LevelReadCommitted, true), func(ctx context.Context, st repository.Stores) error {
		var err error
		if ref.ID != nil {
			v, err = st.Vaccines.Get(ctx, *ref.ID)
		} else {
			v, err = st.Vaccines.FindByName(ctx, ref.Name)
		}
		if err != nil {
			return err
		}
		if v == nil {
			return fmt.Errorf("%w: %s", ErrVaccineNotFound, ref)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find vaccine: %w", err)
	}
	return v, nil
}

// FindStatistic returns the statistic given by code or name.
// An unmatched reference yields an error wrapping ErrStatisticNotFound.
func (s *Service) FindStatistic(ctx context.Context, ref entity.Ref) (*entity.Statistic, error) {
	if ref.IsZero() {
		return nil, ErrMissingReference
	}
	var out *entity.Statistic
	err := s.UoW.Do(ctx, txOptions("find_statistic", sql.LevelReadCommitted, true), func(ctx context.Context, st repository.Stores) error {
		var err error
		if ref.ID != nil {
			out, err = st.Statistics.Get(ctx, *ref.ID)
		} else {
			out, err = st.Statistics.FindByName(ctx, ref.Name)
		}
		if err != nil {
			return err
		}
		if out == nil {
			return fmt.Errorf("%w: %s", ErrStatisticNotFound, ref)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find statistic: %w", err)
	}
	return out, nil
}

// GetRecommendation returns the recommendation with the given code.
func (s *Service) GetRecommendation(ctx context.Context, id int64) (*entity.Recommendation, error) {
	var rec *entity.Recommendation
	err := s.UoW.Do(ctx, txOptions("get_recommendation", sql.LevelReadCommitted, true), func(ctx context.Context, st repository.Stores) error {
		var err error
		rec, err = st.Recommendations.Get(ctx, id)
		if err != nil {
			return err
		}
		if rec == nil {
			return ErrRecommendationNotFound
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("get recommendation: %w", err)
	}
	return rec, nil
}

// UpdateRecommendation changes the non-nil fields of a recommendation.
// A missing code yields an error wrapping entity.ErrNoRowsAffected.
func (s *Service) UpdateRecommendation(ctx context.Context, id int64, organization, description *string) error {
	err := s.UoW.Do(ctx, txOptions("update_recommendation", sql.LevelReadCommitted, false), func(ctx context.Context, st repository.Stores) error {
		return st.Recommendations.Update(ctx, id, organization, description)
	})
	if err != nil {
		return fmt.Errorf("update recommendation: %w", err)
	}
	return nil
}

// DeleteVaccineStatistic removes the statistic value registered for a vaccine.
// An unregistered pair yields an error wrapping entity.ErrNoRowsAffected.
func (s *Service) DeleteVaccineStatistic(ctx context.Context, vaccineID, statisticID int64) error {
	err := s.UoW.Do(ctx, txOptions("delete_vaccine_statistic", sql.LevelReadCommitted, false), func(ctx context.Context, st repository.Stores) error {
		return st.VaccineStatistics.Delete(ctx, vaccineID, statisticID)
	})
	if err != nil {
		return fmt.Errorf("delete vaccine statistic: %w", err)
	}
	return nil
}

// DeleteVaccineRecommendation removes the link between a vaccine and a recommendation.
// An unregistered pair yields an error wrapping entity.ErrNoRowsAffected.
func (s *Service) DeleteVaccineRecommendation(ctx context.Context, vaccineID, recommendationID int64) error {
	err := s.UoW.Do(ctx, txOptions("delete_vaccine_recommendation", sql.LevelReadCommitted, false), func(ctx context.Context, st repository.Stores) error {
		return st.VaccineRecommendations.Delete(ctx, vaccineID, recommendationID)
	})
	if err != nil {
		return fmt.Errorf("delete vaccine recommendation: %w", err)
	}
	return nil
}
