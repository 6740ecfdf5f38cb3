// ./internal/state/snapshot_store.go
package state

import (
	"encoding/json"
	"fmt"

	"github.com/metfin/binsight/internal/types"
	"github.com/rs/zerolog/log"
)

// SaveSnapshot persists a portfolio snapshot and returns its database id.
func SaveSnapshot(cycleNumber int, snapshot types.PortfolioSnapshot) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	positionsJSON, err := json.Marshal(snapshot.Positions)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal positions: %w", err)
	}

	query := `
		INSERT INTO portfolio_snapshots (
			cycle_number, account_id, snapshot_timestamp,
			total_value_usd, total_fees_usd, total_pnl_usd, average_apr,
			position_count, positions
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING snapshot_id;
	`

	var snapshotID int64
	err = DB.QueryRow(
		query,
		cycleNumber, snapshot.AccountID, snapshot.FetchedAt,
		snapshot.TotalValue, snapshot.TotalFees, snapshot.TotalPnL, snapshot.AverageAPR,
		len(snapshot.Positions), positionsJSON,
	).Scan(&snapshotID)

	if err != nil {
		return 0, fmt.Errorf("failed to save portfolio snapshot: %w", err)
	}

	log.Info().
		Int64("snapshot_id", snapshotID).
		Int("cycle_number", cycleNumber).
		Float64("total_value", snapshot.TotalValue).
		Msg("Portfolio snapshot saved to database")

	return snapshotID, nil
}

// PortfolioSummary represents high-level portfolio statistics derived from
// the most recent snapshot and the run history.
type PortfolioSummary struct {
	TotalValue    float64 `json:"total_value"`
	TotalFees     float64 `json:"total_fees"`
	TotalPnL      float64 `json:"total_pnl"`
	AverageAPR    float64 `json:"average_apr"`
	PositionCount int     `json:"position_count"`
	TotalCycles   int     `json:"total_cycles"`
	LastUpdated   string  `json:"last_updated"`
}

// GetPortfolioSummary returns summary statistics from the latest snapshot.
func GetPortfolioSummary() (*PortfolioSummary, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
		SELECT
			total_value_usd, total_fees_usd, total_pnl_usd, average_apr,
			position_count, snapshot_timestamp::TEXT,
			(SELECT current_cycle FROM cycle_counter WHERE id = 1)
		FROM portfolio_snapshots
		ORDER BY snapshot_timestamp DESC
		LIMIT 1;
	`

	summary := &PortfolioSummary{}
	row := DB.QueryRow(query)
	err := row.Scan(
		&summary.TotalValue, &summary.TotalFees, &summary.TotalPnL, &summary.AverageAPR,
		&summary.PositionCount, &summary.LastUpdated, &summary.TotalCycles,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get portfolio summary: %w", err)
	}

	return summary, nil
}
