package validation

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidateOrgID(t *testing.T) {
	tests := []struct {
		name      string
		orgID     string
		wantError bool
	}{
		{"Simple", "org-1", false},
		{"With dots", "clinic.north.eu", false},
		{"Alphanumeric", "Hospital42", false},
		{"Empty", "", true},
		{"Whitespace only", "   ", true},
		{"Leading dash", "-org", true},
		{"Spaces inside", "org 1", true},
		{"Path characters", "org/../etc", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateOrgID(tt.orgID)
			if tt.wantError {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateRoster(t *testing.T) {
	tests := []struct {
		name      string
		orgIDs    []string
		threshold int
		wantError bool
	}{
		{"Valid 2 of 3", []string{"a", "b", "c"}, 2, false},
		{"Threshold equals count", []string{"a", "b"}, 2, false},
		{"Threshold zero", []string{"a", "b"}, 0, true},
		{"Threshold negative", []string{"a", "b"}, -1, true},
		{"Threshold above count", []string{"a", "b"}, 3, true},
		{"Empty roster", nil, 1, true},
		{"Duplicate org", []string{"a", "b", "a"}, 2, true},
		{"Invalid org id", []string{"a", ""}, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRoster(tt.orgIDs, tt.threshold)
			if tt.wantError {
				assert.ErrorIs(t, err, ErrValidation)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateMetricValue(t *testing.T) {
	assert.NoError(t, ValidateMetricValue(98.6))
	assert.NoError(t, ValidateMetricValue(-12.5))
	assert.NoError(t, ValidateMetricValue(0))

	assert.ErrorIs(t, ValidateMetricValue(math.NaN()), ErrValidation)
	assert.ErrorIs(t, ValidateMetricValue(math.Inf(1)), ErrValidation)
	assert.ErrorIs(t, ValidateMetricValue(math.Inf(-1)), ErrValidation)
}
