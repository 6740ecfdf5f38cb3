/*

This file contains the health classifier: a pure function that grades how well
centered a position's bin range is around the market's active bin.

*/

package analyzer

import (
	"errors"

	"github.com/metfin/binsight/internal/logger"
	"github.com/metfin/binsight/internal/types"
)

var classifierLogger = logger.GetForComponent("health_classifier")

// ErrInvalidRange indicates that the upper bin id is below the lower bin id.
// The error is fatal for the single classification call only.
var ErrInvalidRange = errors.New("upper bin id is below lower bin id")

// Health ratio thresholds, in percent of range width. Boundaries are strict:
// a ratio of exactly 30 grades Good, not Excellent.
const (
	excellentRatioThreshold = 30.0
	goodRatioThreshold      = 20.0
	fairRatioThreshold      = 10.0
)

// ClassifyHealth grades a position from its bin-range geometry and the
// market's current active bin.
//
// The ratio is the distance from the active bin to the nearer range edge,
// as a percentage of the range width. An active bin outside the range makes
// the ratio negative, which correctly grades Poor regardless of how far
// outside it sits.
func ClassifyHealth(lowerBinID, upperBinID, activeBinID int) (types.HealthGrade, error) {
	if upperBinID < lowerBinID {
		return "", ErrInvalidRange
	}

	// Zero-width range has no margin by construction. Guard explicitly
	// rather than dividing.
	if upperBinID == lowerBinID {
		return types.HealthPoor, nil
	}

	binRange := upperBinID - lowerBinID
	distanceFromLower := activeBinID - lowerBinID
	distanceFromUpper := upperBinID - activeBinID

	minDistance := distanceFromLower
	if distanceFromUpper < minDistance {
		minDistance = distanceFromUpper
	}

	healthRatio := float64(minDistance) / float64(binRange) * 100

	switch {
	case healthRatio > excellentRatioThreshold:
		return types.HealthExcellent, nil
	case healthRatio > goodRatioThreshold:
		return types.HealthGood, nil
	case healthRatio > fairRatioThreshold:
		return types.HealthFair, nil
	default:
		return types.HealthPoor, nil
	}
}

// ClassifyPositions returns a copy of the position set with health grades
// assigned. A position with an invalid range keeps an empty grade and is
// reported in the returned count; classification of the remaining positions
// is unaffected.
func ClassifyPositions(positions []types.Position) ([]types.Position, int) {
	classified := make([]types.Position, 0, len(positions))
	failures := 0
	for _, pos := range positions {
		grade, err := ClassifyHealth(pos.LowerBinID, pos.UpperBinID, pos.ActiveBinID)
		if err != nil {
			failures++
			classifierLogger.Error().
				Err(err).
				Str("positionID", pos.ID).
				Int("lowerBinID", pos.LowerBinID).
				Int("upperBinID", pos.UpperBinID).
				Msg("Skipping health classification for position")
			classified = append(classified, pos)
			continue
		}
		classified = append(classified, pos.WithHealth(grade))
	}
	return classified, failures
}
