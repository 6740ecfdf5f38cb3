package simulator

import (
	"testing"

	"github.com/metfin/binsight/internal/config"
	"github.com/metfin/binsight/internal/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixturePosition() types.Position {
	return types.Position{
		ID:          "pos-1",
		PairLabel:   "SOL-USDC",
		LowerBinID:  10,
		UpperBinID:  12,
		ActiveBinID: 11,
		BinDistribution: []types.BinLiquidity{
			{BinID: 10, Price: 95, TokenXAmount: 0, TokenYAmount: 5},
			{BinID: 11, Price: 100, TokenXAmount: 2, TokenYAmount: 3},
			{BinID: 12, Price: 105, TokenXAmount: 4, TokenYAmount: 0},
		},
	}
}

func TestSimulateUnknownStrategy(t *testing.T) {
	s := New(config.DefaultStrategyProfiles)

	_, err := s.Simulate(fixturePosition(), "yolo", 30)
	assert.ErrorIs(t, err, ErrUnknownStrategy)
}

func TestSimulateInvalidHorizon(t *testing.T) {
	s := New(config.DefaultStrategyProfiles)

	_, err := s.Simulate(fixturePosition(), "balanced", 0)
	assert.Error(t, err)

	_, err = s.Simulate(fixturePosition(), "balanced", -5)
	assert.Error(t, err)
}

func TestSimulateScalesReturnToHorizon(t *testing.T) {
	s := New(config.DefaultStrategyProfiles)
	pos := fixturePosition()

	// Range volatility for the fixture is (105-95)/100 = 0.1.
	// balanced: 8.0 * (365/365) * 1.1 = 8.8 for a full year.
	result, err := s.Simulate(pos, "balanced", 365)
	require.NoError(t, err)
	assert.InDelta(t, 8.8, result.ExpectedReturn, 1e-9)

	half, err := s.Simulate(pos, "balanced", 182)
	require.NoError(t, err)
	assert.Less(t, half.ExpectedReturn, result.ExpectedReturn)
}

func TestSimulateRiskOrdering(t *testing.T) {
	s := New(config.DefaultStrategyProfiles)
	pos := fixturePosition()

	narrow, err := s.Simulate(pos, "narrow", 30)
	require.NoError(t, err)
	balanced, err := s.Simulate(pos, "balanced", 30)
	require.NoError(t, err)
	wide, err := s.Simulate(pos, "wide", 30)
	require.NoError(t, err)

	assert.Greater(t, narrow.RiskScore, balanced.RiskScore)
	assert.Greater(t, balanced.RiskScore, wide.RiskScore)

	for _, r := range []types.StrategySimulationResult{narrow, balanced, wide} {
		assert.LessOrEqual(t, r.RiskScore, 1.0)
		assert.GreaterOrEqual(t, r.RiskScore, 0.0)
	}
}

func TestSimulateConfidenceBand(t *testing.T) {
	s := New(config.DefaultStrategyProfiles)
	pos := fixturePosition()

	narrow, err := s.Simulate(pos, "narrow", 30)
	require.NoError(t, err)
	wide, err := s.Simulate(pos, "wide", 30)
	require.NoError(t, err)

	// narrow: 0.75 + 0.2*0.15 = 0.78; wide: 0.75 + 0.75*0.15 = 0.8625
	assert.InDelta(t, 0.78, narrow.Confidence, 1e-9)
	assert.InDelta(t, 0.8625, wide.Confidence, 1e-9)

	for _, r := range []types.StrategySimulationResult{narrow, wide} {
		assert.GreaterOrEqual(t, r.Confidence, 0.75)
		assert.LessOrEqual(t, r.Confidence, 0.95)
	}
}

func TestSimulateSuggestedRange(t *testing.T) {
	s := New(config.DefaultStrategyProfiles)

	result, err := s.Simulate(fixturePosition(), "narrow", 30)
	require.NoError(t, err)

	// Active bin 11 (straddled), narrow width 5.
	assert.Equal(t, 6, result.SuggestedLowerID)
	assert.Equal(t, 16, result.SuggestedUpperID)
	assert.Equal(t, "narrow", result.StrategyName)
	assert.Equal(t, 45.0, result.EstimatedAPR)
}

func TestSimulateEmptyDistributionUsesReportedActiveBin(t *testing.T) {
	s := New(config.DefaultStrategyProfiles)

	pos := fixturePosition()
	pos.BinDistribution = nil
	pos.ActiveBinID = 200

	result, err := s.Simulate(pos, "wide", 30)
	require.NoError(t, err)
	assert.Equal(t, 165, result.SuggestedLowerID)
	assert.Equal(t, 235, result.SuggestedUpperID)
}

func TestProfilesSortedByName(t *testing.T) {
	s := New(config.DefaultStrategyProfiles)

	profiles := s.Profiles()
	require.Len(t, profiles, 3)
	assert.Equal(t, "balanced", profiles[0].Name)
	assert.Equal(t, "narrow", profiles[1].Name)
	assert.Equal(t, "wide", profiles[2].Name)
}
