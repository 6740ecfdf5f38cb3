/*

This file contains the portfolio aggregate consumed read-only by the analysis
core, and the per-cycle report the service persists and serves.

*/

package types

import "time"

// PortfolioSnapshot is an ordered collection of positions plus scalar
// roll-ups. The roll-ups are always computed from the position set by
// ComputeTotals, never independently authored.
type PortfolioSnapshot struct {
	AccountID  string     `json:"account_id"`
	Positions  []Position `json:"positions"`
	TotalValue float64    `json:"total_value"`
	TotalFees  float64    `json:"total_fees"`
	TotalPnL   float64    `json:"total_pnl"`
	AverageAPR float64    `json:"average_apr"`
	FetchedAt  time.Time  `json:"fetched_at"`
}

// ComputeTotals recalculates the roll-up fields from the position set.
func (s *PortfolioSnapshot) ComputeTotals() {
	s.TotalValue = 0
	s.TotalFees = 0
	s.TotalPnL = 0
	s.AverageAPR = 0

	if len(s.Positions) == 0 {
		return
	}

	var aprSum float64
	for _, p := range s.Positions {
		s.TotalValue += p.CurrentValue
		s.TotalFees += p.UnclaimedFees
		s.TotalPnL += p.PnL
		aprSum += p.FeeAPR
	}
	s.AverageAPR = aprSum / float64(len(s.Positions))
}

// CycleReport is the full output of one analytics cycle: the classified
// snapshot plus the recommendations generated from it. It is what the web
// layer serves and the state layer persists.
type CycleReport struct {
	ReportID         int64                     `json:"report_id,omitempty"` // Assigned by the database
	CycleNumber      int                       `json:"cycle_number"`
	Timestamp        time.Time                 `json:"timestamp"`
	Snapshot         PortfolioSnapshot         `json:"snapshot"`
	Recommendations  []RebalanceRecommendation `json:"recommendations"`
	SkippedPositions int                       `json:"skipped_positions"` // Positions dropped for malformed input
}

// PricePoint is a single observation in a price series, used for volatility
// estimation.
type PricePoint struct {
	Timestamp time.Time `json:"timestamp"`
	Price     float64   `json:"price"`
}
