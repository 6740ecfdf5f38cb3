/*

This file contains the default parameters for the recommendation engine and
the strategy profile table.

The engine thresholds and impact figures are policy constants, not values
derived from market data. They encode when a position is worth acting on and
how confident the engine is in each class of suggestion.

*/

package config

import (
	"github.com/metfin/binsight/internal/types"
)

// DefaultEngineParameters provides the baseline rule thresholds for the
// recommendation engine.
var DefaultEngineParameters = types.EngineParameters{
	FeeCompoundThresholdUSD: 50.0, // Suggest compounding above $50 of unclaimed fees.
	// Rationale: below this, claim-and-redeposit transaction costs eat a
	// meaningful share of the fees. The comparison is strict: exactly $50
	// does not trigger.

	LossExitThresholdPct: -10.0, // Suggest exiting below -10% PnL.
	// Rationale: a position 10% underwater is usually a range placed on the
	// wrong side of a sustained move; holding tends to deepen divergence
	// loss. Strict comparison: exactly -10% does not trigger.

	RebalanceHalfWidthBins: 10, // Suggested replacement range is active bin +/- 10.
	// Rationale: 21 bins is wide enough to survive routine movement without
	// immediately going out of range again, narrow enough to keep fee
	// capture concentrated.

	// Confidence is highest for the exit rule (PnL is a hard number),
	// lower for out-of-range (the range fix is mechanical but fee uplift is
	// an estimate), lowest for compounding (pure yield heuristic).
	OutOfRangeImpact:  types.ExpectedImpact{FeesIncreasePct: 5.0, ILReductionPct: 2.0, ConfidenceScore: 0.85},
	FeeCompoundImpact: types.ExpectedImpact{FeesIncreasePct: 2.5, ILReductionPct: 0.5, ConfidenceScore: 0.75},
	LossExitImpact:    types.ExpectedImpact{FeesIncreasePct: 0, ILReductionPct: 10.0, ConfidenceScore: 0.9},
}

// DefaultStrategyProfiles is the fixed lookup of reallocation styles the
// simulator can project. Keys are the strategy names accepted by the
// simulate API.
var DefaultStrategyProfiles = map[string]types.StrategyProfile{
	"narrow": {
		Name:           "narrow",
		RiskWeight:     0.8,
		ExpectedReturn: 12.0,
		ImpliedAPR:     45.0,
		BinRangeWidth:  5,
		// Concentrated liquidity: highest fee capture while in range,
		// highest chance of falling out of range.
		Description: "Tight range around the active bin for maximum fee capture",
	},
	"balanced": {
		Name:           "balanced",
		RiskWeight:     0.5,
		ExpectedReturn: 8.0,
		ImpliedAPR:     25.0,
		BinRangeWidth:  15,
		Description: "Moderate range balancing fee capture against range risk",
	},
	"wide": {
		Name:           "wide",
		RiskWeight:     0.25,
		ExpectedReturn: 4.5,
		ImpliedAPR:     12.0,
		BinRangeWidth:  35,
		// Diluted fee share, but the range survives large moves.
		Description: "Wide range prioritizing uptime over fee density",
	},
}
