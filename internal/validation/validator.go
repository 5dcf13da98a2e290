// Package validation checks orchestrator-supplied inputs before they
// reach the cryptographic layer.
package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
)

// ErrValidation is the sentinel all input validation failures wrap.
var ErrValidation = errors.New("validation failed")

var orgIDPattern = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9._-]*$`)

// ValidateOrgID checks a single organization identifier.
func ValidateOrgID(orgID string) error {
	orgID = strings.TrimSpace(orgID)
	if orgID == "" {
		return fmt.Errorf("%w: organization id cannot be empty", ErrValidation)
	}
	if len(orgID) > 128 {
		return fmt.Errorf("%w: organization id exceeds 128 characters", ErrValidation)
	}
	if !orgIDPattern.MatchString(orgID) {
		return fmt.Errorf("%w: organization id %q contains invalid characters", ErrValidation, orgID)
	}
	return nil
}

// ValidateRoster checks the participant set and threshold together.
func ValidateRoster(orgIDs []string, threshold int) error {
	if threshold < 1 {
		return fmt.Errorf("%w: threshold must be at least 1, got %d", ErrValidation, threshold)
	}
	if len(orgIDs) == 0 {
		return fmt.Errorf("%w: participant set cannot be empty", ErrValidation)
	}
	if threshold > len(orgIDs) {
		return fmt.Errorf("%w: threshold (%d) cannot exceed participant count (%d)",
			ErrValidation, threshold, len(orgIDs))
	}

	seen := make(map[string]bool, len(orgIDs))
	for _, orgID := range orgIDs {
		if err := ValidateOrgID(orgID); err != nil {
			return err
		}
		if seen[orgID] {
			return fmt.Errorf("%w: duplicate organization id %q", ErrValidation, orgID)
		}
		seen[orgID] = true
	}

	return nil
}

// ValidateMetricValue checks that a submitted metric is a usable number.
// Range enforcement against the fixed-point domain happens at encoding.
func ValidateMetricValue(v float64) error {
	if math.IsNaN(v) {
		return fmt.Errorf("%w: metric value is NaN", ErrValidation)
	}
	if math.IsInf(v, 0) {
		return fmt.Errorf("%w: metric value is infinite", ErrValidation)
	}
	return nil
}
