package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputePnLPercentage(t *testing.T) {
	tests := []struct {
		name         string
		pnl          float64
		currentValue float64
		expected     float64
	}{
		{"profit", 100, 1100, 10},
		{"loss", -100, 900, -10},
		{"flat", 0, 1000, 0},
		{"zero cost basis", 500, 500, 0},
		{"empty position", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.expected, ComputePnLPercentage(tt.pnl, tt.currentValue), 1e-9)
		})
	}
}

func TestWithHealthReturnsCopy(t *testing.T) {
	original := Position{ID: "p1"}

	graded := original.WithHealth(HealthGood)

	assert.Equal(t, HealthGood, graded.Health)
	assert.Empty(t, original.Health)
}

func TestPriorityWeight(t *testing.T) {
	assert.Equal(t, 3, PriorityWeight(PriorityHigh))
	assert.Equal(t, 2, PriorityWeight(PriorityMedium))
	assert.Equal(t, 1, PriorityWeight(PriorityLow))
	assert.Equal(t, 0, PriorityWeight(Priority("bogus")))
}

func TestComputeTotals(t *testing.T) {
	snapshot := PortfolioSnapshot{
		Positions: []Position{
			{CurrentValue: 1000, UnclaimedFees: 10, PnL: 50, FeeAPR: 20},
			{CurrentValue: 3000, UnclaimedFees: 30, PnL: -100, FeeAPR: 40},
		},
	}

	snapshot.ComputeTotals()

	assert.Equal(t, 4000.0, snapshot.TotalValue)
	assert.Equal(t, 40.0, snapshot.TotalFees)
	assert.Equal(t, -50.0, snapshot.TotalPnL)
	assert.Equal(t, 30.0, snapshot.AverageAPR)
}

func TestComputeTotalsEmptyPortfolio(t *testing.T) {
	snapshot := PortfolioSnapshot{
		TotalValue: 999, // stale roll-up must be cleared
	}

	snapshot.ComputeTotals()

	assert.Zero(t, snapshot.TotalValue)
	assert.Zero(t, snapshot.AverageAPR)
}
