package config

import (
	"fmt"
	"time"
)

// ValidatePositiveDuration validates that a duration is positive (greater than zero).
func ValidatePositiveDuration(d time.Duration) error {
	if d <= 0 {
		return fmt.Errorf("duration must be positive, got %v", d)
	}
	return nil
}

// ValidateIntRange validates that value is within [min, max].
func ValidateIntRange(value, min, max int) error {
	if min > max {
		return fmt.Errorf("invalid range: min (%d) cannot be greater than max (%d)", min, max)
	}
	if value < min || value > max {
		return fmt.Errorf("value %d is outside [%d, %d]", value, min, max)
	}
	return nil
}

// ValidateRatio validates that r is in (0, 1].
func ValidateRatio(r float64) error {
	if r <= 0 || r > 1 {
		return fmt.Errorf("ratio must be in (0, 1], got %v", r)
	}
	return nil
}
