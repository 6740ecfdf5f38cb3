package analyzer

import (
	"testing"

	"github.com/metfin/binsight/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveActiveBin(t *testing.T) {
	tests := []struct {
		name         string
		distribution []types.BinLiquidity
		expected     int
	}{
		{
			name:         "empty distribution falls back to bin 0",
			distribution: nil,
			expected:     0,
		},
		{
			name: "straddled bin wins",
			distribution: []types.BinLiquidity{
				{BinID: 10, TokenXAmount: 0, TokenYAmount: 5},
				{BinID: 11, TokenXAmount: 2, TokenYAmount: 3},
				{BinID: 12, TokenXAmount: 4, TokenYAmount: 0},
			},
			expected: 11,
		},
		{
			name: "first straddled bin wins when several qualify",
			distribution: []types.BinLiquidity{
				{BinID: 10, TokenXAmount: 1, TokenYAmount: 1},
				{BinID: 11, TokenXAmount: 2, TokenYAmount: 2},
			},
			expected: 10,
		},
		{
			name: "one-sided book falls back to middle element",
			distribution: []types.BinLiquidity{
				{BinID: 10, TokenXAmount: 1, TokenYAmount: 0},
				{BinID: 11, TokenXAmount: 2, TokenYAmount: 0},
				{BinID: 12, TokenXAmount: 3, TokenYAmount: 0},
			},
			expected: 11,
		},
		{
			name: "middle by index for even-length distribution",
			distribution: []types.BinLiquidity{
				{BinID: 10, TokenXAmount: 0, TokenYAmount: 1},
				{BinID: 11, TokenXAmount: 0, TokenYAmount: 1},
				{BinID: 12, TokenXAmount: 0, TokenYAmount: 1},
				{BinID: 13, TokenXAmount: 0, TokenYAmount: 1},
			},
			expected: 12,
		},
		{
			name: "zero amount on one side does not qualify",
			distribution: []types.BinLiquidity{
				{BinID: 5, TokenXAmount: 0, TokenYAmount: 0},
			},
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ResolveActiveBin(tt.distribution))
		})
	}
}

func TestValidateDistribution(t *testing.T) {
	valid := []types.BinLiquidity{
		{BinID: 1, TokenXAmount: 0, TokenYAmount: 5},
		{BinID: 2, TokenXAmount: 3, TokenYAmount: 2},
		{BinID: 4, TokenXAmount: 1, TokenYAmount: 0},
	}
	assert.NoError(t, ValidateDistribution(valid))
	assert.NoError(t, ValidateDistribution(nil))

	t.Run("negative amount", func(t *testing.T) {
		bad := []types.BinLiquidity{
			{BinID: 1, TokenXAmount: -1, TokenYAmount: 0},
		}
		err := ValidateDistribution(bad)
		require.Error(t, err)
		var distErr *DistributionError
		require.ErrorAs(t, err, &distErr)
		assert.Equal(t, 1, distErr.BinID)
	})

	t.Run("duplicate bin id", func(t *testing.T) {
		bad := []types.BinLiquidity{
			{BinID: 1, TokenXAmount: 1, TokenYAmount: 1},
			{BinID: 1, TokenXAmount: 2, TokenYAmount: 2},
		}
		assert.Error(t, ValidateDistribution(bad))
	})

	t.Run("descending bin ids", func(t *testing.T) {
		bad := []types.BinLiquidity{
			{BinID: 5, TokenXAmount: 1, TokenYAmount: 1},
			{BinID: 3, TokenXAmount: 1, TokenYAmount: 1},
		}
		assert.Error(t, ValidateDistribution(bad))
	})
}
