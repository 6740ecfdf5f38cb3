// ./internal/state/recommendation_store.go
package state

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/metfin/binsight/internal/types"
	"github.com/rs/zerolog/log"
)

// RecommendationRun is a persisted recommendation generation.
type RecommendationRun struct {
	RunID            int64                           `json:"run_id"`
	CycleNumber      int                             `json:"cycle_number"`
	Timestamp        time.Time                       `json:"timestamp"`
	SnapshotID       int64                           `json:"snapshot_id"`
	Recommendations  []types.RebalanceRecommendation `json:"recommendations"`
	SkippedPositions int                             `json:"skipped_positions"`
}

// SaveRecommendationRun persists the output of one engine run.
func SaveRecommendationRun(cycleNumber int, snapshotID int64, recs []types.RebalanceRecommendation, skipped int) (int64, error) {
	if DB == nil {
		return 0, fmt.Errorf("database not initialized")
	}

	recsJSON, err := json.Marshal(recs)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal recommendations: %w", err)
	}

	var high, medium, low int
	for _, r := range recs {
		switch r.Priority {
		case types.PriorityHigh:
			high++
		case types.PriorityMedium:
			medium++
		case types.PriorityLow:
			low++
		}
	}

	query := `
		INSERT INTO recommendation_runs (
			cycle_number, run_timestamp, snapshot_id,
			recommendations, recommendation_count,
			high_priority_count, medium_priority_count, low_priority_count,
			skipped_positions
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING run_id;
	`

	var runID int64
	err = DB.QueryRow(
		query,
		cycleNumber, time.Now().UTC(), snapshotID,
		recsJSON, len(recs),
		high, medium, low,
		skipped,
	).Scan(&runID)

	if err != nil {
		return 0, fmt.Errorf("failed to save recommendation run: %w", err)
	}

	log.Info().
		Int64("run_id", runID).
		Int("cycle_number", cycleNumber).
		Int("recommendations", len(recs)).
		Int("skipped", skipped).
		Msg("Recommendation run saved to database")

	return runID, nil
}

// GetRecentRuns retrieves recent recommendation runs with pagination.
func GetRecentRuns(limit int) ([]RecommendationRun, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	if limit <= 0 || limit > 100 {
		limit = 10 // Default limit
	}

	query := `
		SELECT run_id, cycle_number, run_timestamp, snapshot_id, recommendations, skipped_positions
		FROM recommendation_runs
		ORDER BY run_timestamp DESC
		LIMIT $1
	`

	rows, err := DB.Query(query, limit)
	if err != nil {
		log.Error().Err(err).Msg("Failed to query recent recommendation runs")
		return nil, fmt.Errorf("failed to query recent recommendation runs: %w", err)
	}
	defer rows.Close()

	var runs []RecommendationRun
	for rows.Next() {
		var run RecommendationRun
		var recsJSON []byte

		err := rows.Scan(&run.RunID, &run.CycleNumber, &run.Timestamp, &run.SnapshotID, &recsJSON, &run.SkippedPositions)
		if err != nil {
			log.Error().Err(err).Msg("Failed to scan recommendation run row")
			continue // Skip this row and continue with others
		}

		if len(recsJSON) > 0 {
			if err := json.Unmarshal(recsJSON, &run.Recommendations); err != nil {
				log.Error().Err(err).Int64("run_id", run.RunID).Msg("Failed to unmarshal recommendations for run")
				continue
			}
		}

		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		log.Error().Err(err).Msg("Error occurred during row iteration")
		return nil, fmt.Errorf("error during row iteration: %w", err)
	}

	log.Debug().Int("count", len(runs)).Int("limit", limit).Msg("Retrieved recent recommendation runs")
	return runs, nil
}

// GetRunByID retrieves a specific recommendation run.
func GetRunByID(runID int64) (*RecommendationRun, error) {
	if DB == nil {
		return nil, fmt.Errorf("database not initialized")
	}

	query := `
		SELECT run_id, cycle_number, run_timestamp, snapshot_id, recommendations, skipped_positions
		FROM recommendation_runs
		WHERE run_id = $1;
	`

	run := &RecommendationRun{}
	var recsJSON []byte
	row := DB.QueryRow(query, runID)
	err := row.Scan(&run.RunID, &run.CycleNumber, &run.Timestamp, &run.SnapshotID, &recsJSON, &run.SkippedPositions)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, fmt.Errorf("no recommendation run found with id %d", runID)
		}
		return nil, fmt.Errorf("failed to scan recommendation run %d: %w", runID, err)
	}

	if len(recsJSON) > 0 {
		if err := json.Unmarshal(recsJSON, &run.Recommendations); err != nil {
			return nil, fmt.Errorf("failed to unmarshal recommendations for run %d: %w", runID, err)
		}
	}

	return run, nil
}
