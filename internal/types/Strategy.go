/*

This file contains the types for strategy profiles and the tunable parameters
of the recommendation engine.

*/

package types

// StrategyProfile is a named reallocation style the simulator can project.
// The numbers are heuristic policy values, not backtest output.
type StrategyProfile struct {
	Name           string  `json:"name"`
	RiskWeight     float64 `json:"risk_weight"`     // 0.0 to 1.0, higher is riskier
	ExpectedReturn float64 `json:"expected_return"` // Baseline expected return percentage
	ImpliedAPR     float64 `json:"implied_apr"`     // Annualized fee yield the profile implies
	BinRangeWidth  int     `json:"bin_range_width"` // Half-width of the suggested range in bins
	Description    string  `json:"description"`
}

// StrategySimulationResult is the ephemeral output of one simulation call.
// Fresh per call, never mutated, no persistent identity.
type StrategySimulationResult struct {
	PositionID       string  `json:"position_id"`
	StrategyName     string  `json:"strategy_name"`
	TimeHorizonDays  int     `json:"time_horizon_days"`
	ExpectedReturn   float64 `json:"expected_return"` // Percentage over the horizon
	RiskScore        float64 `json:"risk_score"`      // 0.0 to 1.0
	EstimatedAPR     float64 `json:"estimated_apr"`
	SuggestedLowerID int     `json:"suggested_lower_bin_id"`
	SuggestedUpperID int     `json:"suggested_upper_bin_id"`
	Confidence       float64 `json:"confidence"` // Heuristic engine certainty, 0.75 to 0.95
}

// EngineParameters holds the thresholds and policy constants used by the
// recommendation engine. One set is loaded at startup; different sets can
// exist for different risk postures.
type EngineParameters struct {
	// --- Rule Triggers ---
	FeeCompoundThresholdUSD float64 `json:"fee_compound_threshold_usd"` // Unclaimed fees above this (strict) trigger the expand rule.
	LossExitThresholdPct    float64 `json:"loss_exit_threshold_pct"`    // PnL percentage below this (strict) triggers the exit rule.
	RebalanceHalfWidthBins  int     `json:"rebalance_half_width_bins"`  // Half-width of the suggested range around the active bin.

	// --- Expected Impact Policy Constants ---
	OutOfRangeImpact  ExpectedImpact `json:"out_of_range_impact"`
	FeeCompoundImpact ExpectedImpact `json:"fee_compound_impact"`
	LossExitImpact    ExpectedImpact `json:"loss_exit_impact"`
}
