package analyzer

import (
	"testing"

	"github.com/metfin/binsight/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyHealth(t *testing.T) {
	tests := []struct {
		name     string
		lower    int
		upper    int
		active   int
		expected types.HealthGrade
	}{
		{
			name:  "perfectly centered is excellent",
			lower: 0, upper: 100, active: 50,
			expected: types.HealthExcellent,
		},
		{
			name:  "ratio exactly 30 is good not excellent",
			lower: 0, upper: 100, active: 30,
			expected: types.HealthGood,
		},
		{
			name:  "ratio just above 30 is excellent",
			lower: 0, upper: 100, active: 31,
			expected: types.HealthExcellent,
		},
		{
			name:  "ratio exactly 20 is fair not good",
			lower: 0, upper: 100, active: 20,
			expected: types.HealthFair,
		},
		{
			name:  "ratio just above 20 is good",
			lower: 0, upper: 100, active: 21,
			expected: types.HealthGood,
		},
		{
			name:  "ratio exactly 10 is poor not fair",
			lower: 0, upper: 100, active: 10,
			expected: types.HealthPoor,
		},
		{
			name:  "ratio just above 10 is fair",
			lower: 0, upper: 100, active: 11,
			expected: types.HealthFair,
		},
		{
			name:  "active at lower edge is poor",
			lower: 0, upper: 100, active: 0,
			expected: types.HealthPoor,
		},
		{
			name:  "active at upper edge is poor",
			lower: 0, upper: 100, active: 100,
			expected: types.HealthPoor,
		},
		{
			name:  "active below range is poor",
			lower: 50, upper: 100, active: 10,
			expected: types.HealthPoor,
		},
		{
			name:  "active far above range is poor",
			lower: 50, upper: 100, active: 100000,
			expected: types.HealthPoor,
		},
		{
			name:  "negative bin ids classify the same",
			lower: -100, upper: 0, active: -50,
			expected: types.HealthExcellent,
		},
		{
			name:  "large bin id domain",
			lower: 8388598, upper: 8388618, active: 8388608,
			expected: types.HealthExcellent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			grade, err := ClassifyHealth(tt.lower, tt.upper, tt.active)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, grade)
		})
	}
}

func TestClassifyHealthZeroWidthRange(t *testing.T) {
	// Width zero leaves no margin whatever the active bin is.
	for _, active := range []int{41, 42, 43, -5} {
		grade, err := ClassifyHealth(42, 42, active)
		require.NoError(t, err)
		assert.Equal(t, types.HealthPoor, grade, "active=%d", active)
	}
}

func TestClassifyHealthInvalidRange(t *testing.T) {
	_, err := ClassifyHealth(100, 50, 75)
	assert.ErrorIs(t, err, ErrInvalidRange)
}

func TestClassifyHealthMonotonicInCentering(t *testing.T) {
	// Walking the active bin from the edge toward the center must never
	// worsen the grade.
	rank := map[types.HealthGrade]int{
		types.HealthPoor:      0,
		types.HealthFair:      1,
		types.HealthGood:      2,
		types.HealthExcellent: 3,
	}

	previous := -1
	for active := 0; active <= 50; active++ {
		grade, err := ClassifyHealth(0, 100, active)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, rank[grade], previous, "active=%d", active)
		previous = rank[grade]
	}
}

func TestClassifyPositions(t *testing.T) {
	positions := []types.Position{
		{ID: "p1", LowerBinID: 0, UpperBinID: 100, ActiveBinID: 50},
		{ID: "p2", LowerBinID: 100, UpperBinID: 50, ActiveBinID: 75}, // invalid range
		{ID: "p3", LowerBinID: 0, UpperBinID: 100, ActiveBinID: 5},
	}

	classified, failures := ClassifyPositions(positions)

	require.Len(t, classified, 3)
	assert.Equal(t, 1, failures)
	assert.Equal(t, types.HealthExcellent, classified[0].Health)
	assert.Empty(t, classified[1].Health, "failed position keeps no grade")
	assert.Equal(t, types.HealthPoor, classified[2].Health)

	// Input set is untouched.
	assert.Empty(t, positions[0].Health)
}
