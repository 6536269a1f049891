// Package vaccine provides use cases for the vaccine schema: vaccines,
// statistics, recommendations and the tables that link them.
package vaccine

import (
	"errors"
	"fmt"

	"vacuna-catalog/internal/domain/entity"
)

// Sentinel errors for vaccine use case operations.
var (
	// ErrVaccineNotFound indicates that a vaccine code or name did not match any row.
	ErrVaccineNotFound = fmt.Errorf("vaccine %w", entity.ErrNotFound)

	// ErrStatisticNotFound indicates that a statistic code or name did not match any row.
	ErrStatisticNotFound = fmt.Errorf("statistic %w", entity.ErrNotFound)

	// ErrRecommendationNotFound indicates that no recommendation has the requested code.
	ErrRecommendationNotFound = fmt.Errorf("recommendation %w", entity.ErrNotFound)

	// ErrMissingReference indicates that neither a code nor a name was given.
	ErrMissingReference = errors.New("a code or a name is required")
)

// StepError reports which recommendation of a Plan made the unit of work fail.
// Step counts from 1; the vaccine insert itself is step 0.
type StepError struct {
	Step int
	Err  error
}

func (e *StepError) Error() string {
	if e.Step == 0 {
		return fmt.Sprintf("vaccine insert: %v", e.Err)
	}
	return fmt.Sprintf("recommendation %d: %v", e.Step, e.Err)
}

func (e *StepError) Unwrap() error {
	return e.Err
}
