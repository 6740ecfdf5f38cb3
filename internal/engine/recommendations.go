/*

This file contains the recommendation engine: a fixed battery of independent
rules evaluated per position, producing prioritized, explainable rebalancing
recommendations.

Triggers operate in the bin-id domain. The engine is stateless: running it
twice over the same position set yields the same recommendations in the same
order (timestamps aside).

*/

package engine

import (
	"fmt"
	"sort"
	"time"

	"github.com/metfin/binsight/internal/analyzer"
	"github.com/metfin/binsight/internal/logger"
	"github.com/metfin/binsight/internal/types"
	"github.com/rs/zerolog"
)

// Engine evaluates the rule battery over position sets. It holds only
// immutable parameters and a logger; it is safe for concurrent use.
type Engine struct {
	params types.EngineParameters
	logger zerolog.Logger
	now    func() time.Time
}

// New creates an Engine with the given parameters.
func New(params types.EngineParameters) *Engine {
	return &Engine{
		params: params,
		logger: logger.GetForComponent("recommendation_engine"),
		now:    time.Now,
	}
}

// GenerateRecommendations runs all rules over every position and returns the
// aggregated list, stable-sorted by priority (high before medium before low,
// ties preserving input order).
//
// Failures are isolated at position granularity: a position that cannot be
// evaluated (malformed distribution, invalid range, panic during rule
// evaluation) is logged and contributes zero recommendations, and the
// returned count reports how many positions were skipped.
func (e *Engine) GenerateRecommendations(positions []types.Position) ([]types.RebalanceRecommendation, int) {
	recommendations := make([]types.RebalanceRecommendation, 0)
	skipped := 0

	for _, pos := range positions {
		recs, err := e.evaluatePosition(pos)
		if err != nil {
			skipped++
			e.logger.Error().
				Err(err).
				Str("positionID", pos.ID).
				Msg("Skipping position: rule evaluation failed")
			continue
		}
		recommendations = append(recommendations, recs...)
	}

	// Stable sort keeps relative input order within each priority band.
	sort.SliceStable(recommendations, func(i, j int) bool {
		return types.PriorityWeight(recommendations[i].Priority) > types.PriorityWeight(recommendations[j].Priority)
	})

	e.logger.Info().
		Int("positions", len(positions)).
		Int("recommendations", len(recommendations)).
		Int("skipped", skipped).
		Msg("Recommendation run complete")

	return recommendations, skipped
}

// evaluatePosition runs the full rule set for a single position. All rules
// are independent; a position can trigger several in the same run. Panics
// from unexpected input are converted to errors so one bad position never
// aborts the batch.
func (e *Engine) evaluatePosition(pos types.Position) (recs []types.RebalanceRecommendation, err error) {
	defer func() {
		if r := recover(); r != nil {
			recs = nil
			err = fmt.Errorf("panic during rule evaluation: %v", r)
		}
	}()

	if pos.UpperBinID < pos.LowerBinID {
		return nil, fmt.Errorf("invalid bin range [%d, %d]", pos.LowerBinID, pos.UpperBinID)
	}
	if err := analyzer.ValidateDistribution(pos.BinDistribution); err != nil {
		return nil, err
	}

	generatedAt := e.now()

	if rec, ok := e.checkOutOfRange(pos, generatedAt); ok {
		recs = append(recs, rec)
	}
	if rec, ok := e.checkFeeAccumulation(pos, generatedAt); ok {
		recs = append(recs, rec)
	}
	if rec, ok := e.checkLossExit(pos, generatedAt); ok {
		recs = append(recs, rec)
	}
	return recs, nil
}

// checkOutOfRange fires when the position's true active bin lies outside its
// range. The true active bin comes from the bin distribution rather than the
// market-level field, which can lag the book.
func (e *Engine) checkOutOfRange(pos types.Position, generatedAt time.Time) (types.RebalanceRecommendation, bool) {
	trueActiveBin := analyzer.ResolveActiveBin(pos.BinDistribution)

	if trueActiveBin >= pos.LowerBinID && trueActiveBin <= pos.UpperBinID {
		return types.RebalanceRecommendation{}, false
	}

	halfWidth := e.params.RebalanceHalfWidthBins
	return types.RebalanceRecommendation{
		PositionID: pos.ID,
		Type:       types.RecommendationRebalance,
		Priority:   types.PriorityHigh,
		Reason: fmt.Sprintf("Active bin %d is outside the position range [%d, %d]; the position is earning no fees",
			trueActiveBin, pos.LowerBinID, pos.UpperBinID),
		SuggestedAction: fmt.Sprintf("Shift range to include the active bin: [%d, %d]",
			trueActiveBin-halfWidth, trueActiveBin+halfWidth),
		SuggestedLowerBinID: trueActiveBin - halfWidth,
		SuggestedUpperBinID: trueActiveBin + halfWidth,
		ExpectedImpact:      e.params.OutOfRangeImpact,
		GeneratedAt:         generatedAt,
	}, true
}

// checkFeeAccumulation fires when unclaimed fees exceed the compounding
// threshold. Strictly greater: a position sitting exactly on the threshold
// does not trigger.
func (e *Engine) checkFeeAccumulation(pos types.Position, generatedAt time.Time) (types.RebalanceRecommendation, bool) {
	if pos.UnclaimedFees <= e.params.FeeCompoundThresholdUSD {
		return types.RebalanceRecommendation{}, false
	}

	return types.RebalanceRecommendation{
		PositionID: pos.ID,
		Type:       types.RecommendationExpand,
		Priority:   types.PriorityMedium,
		Reason: fmt.Sprintf("Position has $%.2f in unclaimed fees sitting idle",
			pos.UnclaimedFees),
		SuggestedAction: "Compound fees into the position to grow deployed liquidity",
		ExpectedImpact:  e.params.FeeCompoundImpact,
		GeneratedAt:     generatedAt,
	}, true
}

// checkLossExit fires when the position's PnL percentage is strictly below
// the loss threshold.
func (e *Engine) checkLossExit(pos types.Position, generatedAt time.Time) (types.RebalanceRecommendation, bool) {
	if pos.PnLPercentage >= e.params.LossExitThresholdPct {
		return types.RebalanceRecommendation{}, false
	}

	return types.RebalanceRecommendation{
		PositionID: pos.ID,
		Type:       types.RecommendationExit,
		Priority:   types.PriorityHigh,
		Reason: fmt.Sprintf("Position is down %.2f%%, beyond the %.0f%% loss threshold",
			pos.PnLPercentage, e.params.LossExitThresholdPct),
		SuggestedAction: "Close position and reallocate capital",
		ExpectedImpact:  e.params.LossExitImpact,
		GeneratedAt:     generatedAt,
	}, true
}
