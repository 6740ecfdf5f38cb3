/*

This file contains the types for liquidity positions which carry all the state
needed for health classification and rebalancing analysis.

*/

package types

// HealthGrade is a qualitative classification of how well centered a
// position's bin range is around the market's active bin.
type HealthGrade string

const (
	HealthExcellent HealthGrade = "excellent"
	HealthGood      HealthGrade = "good"
	HealthFair      HealthGrade = "fair"
	HealthPoor      HealthGrade = "poor"
)

// BinLiquidity describes the liquidity a position holds in a single bin.
// A bin with both token amounts strictly positive is the straddled (active)
// bin in a bin-liquidity-book model.
type BinLiquidity struct {
	BinID        int     `json:"bin_id"`
	Price        float64 `json:"price"`          // Spot price of the bin
	TokenXAmount float64 `json:"token_x_amount"` // Base-token liquidity in this bin
	TokenYAmount float64 `json:"token_y_amount"` // Quote-token liquidity in this bin
}

// Position is a snapshot of one liquidity allocation at a point in time.
// A Position is immutable for a given snapshot cycle; Health is the only
// field the analyzer assigns, and it does so via WithHealth which returns
// a copy rather than mutating the receiver.
type Position struct {
	ID           string `json:"id"`      // Opaque stable identifier from the venue
	PairLabel    string `json:"pair"`    // e.g. "SOL-USDC"
	TokenXSymbol string `json:"token_x"` // Base token symbol
	TokenYSymbol string `json:"token_y"` // Quote token symbol

	LowerBinID  int `json:"lower_bin_id"`
	UpperBinID  int `json:"upper_bin_id"`
	ActiveBinID int `json:"active_bin_id"` // Market-level active bin at snapshot time

	CurrentValue      float64 `json:"current_value"`      // USD value of the position
	LiquidityDeployed float64 `json:"liquidity_deployed"` // USD value of deployed liquidity
	UnclaimedFees     float64 `json:"unclaimed_fees"`     // USD value of accrued, unclaimed fees
	PnL               float64 `json:"pnl"`                // Signed USD profit and loss
	PnLPercentage     float64 `json:"pnl_percentage"`     // Signed percentage, see ComputePnLPercentage
	FeeAPR            float64 `json:"fee_apr,omitempty"`  // Annualized fee yield estimate

	Health HealthGrade `json:"health,omitempty"` // Assigned by the analyzer each cycle

	// BinDistribution is ordered by bin id ascending with no duplicate bin
	// ids. It is used to locate the true active bin when the market-level
	// active bin is unreliable or absent.
	BinDistribution []BinLiquidity `json:"bin_distribution,omitempty"`
}

// WithHealth returns a copy of the position with the health grade set.
// The receiver is never modified.
func (p Position) WithHealth(grade HealthGrade) Position {
	p.Health = grade
	return p
}

// ComputePnLPercentage derives the signed PnL percentage from the position's
// PnL and current value: pnl / (currentValue - pnl) * 100. Returns 0 when
// the cost basis (the denominator) is zero.
func ComputePnLPercentage(pnl, currentValue float64) float64 {
	costBasis := currentValue - pnl
	if costBasis == 0 {
		return 0
	}
	return pnl / costBasis * 100
}
