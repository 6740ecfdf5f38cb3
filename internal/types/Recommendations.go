/*

This file contains the types emitted by the recommendation engine. They are
outputs, not stored entities: a new set is generated on every run and is never
mutated afterwards.

*/

package types

import "time"

// RecommendationType defines the suggested corrective action.
type RecommendationType string

const (
	RecommendationRebalance RecommendationType = "rebalance"
	RecommendationExpand    RecommendationType = "expand"
	RecommendationExit      RecommendationType = "exit"
)

// Priority orders recommendations for presentation. Weights are defined in
// PriorityWeight.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// PriorityWeight returns the sort weight for a priority. Unknown priorities
// weigh zero and sink to the bottom.
func PriorityWeight(p Priority) int {
	switch p {
	case PriorityHigh:
		return 3
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 1
	default:
		return 0
	}
}

// ExpectedImpact quantifies the projected effect of following a
// recommendation. These are policy constants chosen per rule, not values
// computed from market data.
type ExpectedImpact struct {
	FeesIncreasePct float64 `json:"fees_increase_pct"`
	ILReductionPct  float64 `json:"il_reduction_pct"`
	ConfidenceScore float64 `json:"confidence_score"` // 0.0 to 1.0
}

// RebalanceRecommendation is a single actionable suggestion for one position.
// PositionID is a reference, not ownership; two runs over the same position
// may legitimately produce different recommendation sets.
type RebalanceRecommendation struct {
	PositionID      string             `json:"position_id"`
	Type            RecommendationType `json:"type"`
	Priority        Priority           `json:"priority"`
	Reason          string             `json:"reason"`
	SuggestedAction string             `json:"suggested_action"`

	// Populated for rebalance recommendations only: the suggested new range
	// centered on the true active bin.
	SuggestedLowerBinID int `json:"suggested_lower_bin_id,omitempty"`
	SuggestedUpperBinID int `json:"suggested_upper_bin_id,omitempty"`

	ExpectedImpact ExpectedImpact `json:"expected_impact"`
	GeneratedAt    time.Time      `json:"generated_at"`
}
