/*

This file contains the strategy simulator: a pure projection of expected
return and risk for a hypothetical reallocation of one position under a named
strategy profile.

The numbers are heuristics scaled from the profile table, not backtest
output; there is no historical simulation behind them.

*/

package simulator

import (
	"errors"
	"fmt"
	"sort"

	"github.com/metfin/binsight/internal/analyzer"
	"github.com/metfin/binsight/internal/logger"
	"github.com/metfin/binsight/internal/types"
	"github.com/rs/zerolog"
)

// ErrUnknownStrategy indicates that the requested strategy name has no
// profile. The simulator never substitutes a default profile.
var ErrUnknownStrategy = errors.New("unknown strategy name")

const (
	baseConfidence = 0.75
	maxConfidence  = 0.95
)

// Simulator projects strategy outcomes from a fixed profile table. It holds
// only immutable state and is safe for concurrent use.
type Simulator struct {
	profiles map[string]types.StrategyProfile
	logger   zerolog.Logger
}

// New creates a Simulator over the given profile table.
func New(profiles map[string]types.StrategyProfile) *Simulator {
	return &Simulator{
		profiles: profiles,
		logger:   logger.GetForComponent("strategy_simulator"),
	}
}

// Profiles returns the profile table for presentation, sorted by name.
func (s *Simulator) Profiles() []types.StrategyProfile {
	out := make([]types.StrategyProfile, 0, len(s.profiles))
	for _, p := range s.profiles {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Simulate projects the expected outcome of reallocating the position under
// the named strategy over the given horizon.
//
// Expected return and risk come from the profile, scaled by a volatility
// estimate derived from the position's price-range width relative to the
// active-bin price (capped at 0.5). Confidence is a deterministic heuristic
// in [0.75, 0.95]: wider suggested ranges are more forgiving of estimation
// error, so they score slightly higher.
func (s *Simulator) Simulate(pos types.Position, strategyName string, timeHorizonDays int) (types.StrategySimulationResult, error) {
	profile, ok := s.profiles[strategyName]
	if !ok {
		return types.StrategySimulationResult{}, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategyName)
	}
	if timeHorizonDays <= 0 {
		return types.StrategySimulationResult{}, errors.New("time horizon must be positive")
	}

	volatility := analyzer.EstimateRangeVolatility(pos.BinDistribution, pos.LowerBinID, pos.UpperBinID)

	// Scale the profile's annual figures to the horizon, then widen both
	// return and risk by the volatility proxy: movement cuts both ways.
	horizonFraction := float64(timeHorizonDays) / 365.0
	expectedReturn := profile.ExpectedReturn * horizonFraction * (1 + volatility)

	riskScore := profile.RiskWeight * (1 + volatility)
	if riskScore > 1 {
		riskScore = 1
	}

	confidence := baseConfidence + (1-profile.RiskWeight)*0.15
	if confidence > maxConfidence {
		confidence = maxConfidence
	}

	activeBin := analyzer.ResolveActiveBin(pos.BinDistribution)
	if len(pos.BinDistribution) == 0 {
		activeBin = pos.ActiveBinID
	}

	result := types.StrategySimulationResult{
		PositionID:       pos.ID,
		StrategyName:     profile.Name,
		TimeHorizonDays:  timeHorizonDays,
		ExpectedReturn:   expectedReturn,
		RiskScore:        riskScore,
		EstimatedAPR:     profile.ImpliedAPR,
		SuggestedLowerID: activeBin - profile.BinRangeWidth,
		SuggestedUpperID: activeBin + profile.BinRangeWidth,
		Confidence:       confidence,
	}

	s.logger.Debug().
		Str("positionID", pos.ID).
		Str("strategy", profile.Name).
		Int("horizonDays", timeHorizonDays).
		Float64("expectedReturn", expectedReturn).
		Float64("riskScore", riskScore).
		Msg("Strategy simulation completed")

	return result, nil
}
