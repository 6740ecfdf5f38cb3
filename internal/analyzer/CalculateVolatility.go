package analyzer

import (
	"errors"
	"math"
	"sort"

	"github.com/metfin/binsight/internal/types"
)

// ErrInsufficientData indicates that not enough data points were provided
// to calculate volatility (need at least 2 points for 1 return).
var ErrInsufficientData = errors.New("insufficient data points to calculate volatility")

// CalculateVolatility calculates the annualized historical volatility from a
// series of price data. It assumes the data is sorted chronologically and
// sorts it first if not. It uses logarithmic returns and population standard
// deviation. The annualizationFactor should match the frequency of the data
// (e.g., 8760 for hourly, 365 for daily).
func CalculateVolatility(prices []types.PricePoint, annualizationFactor float64) (float64, error) {
	n := len(prices)
	if n < 2 {
		return 0, ErrInsufficientData
	}

	sort.Slice(prices, func(i, j int) bool {
		return prices[i].Timestamp.Before(prices[j].Timestamp)
	})

	logReturns := make([]float64, 0, n-1)
	for i := 1; i < n; i++ {
		current := prices[i].Price
		previous := prices[i-1].Price

		// Non-positive prices would break math.Log; skip the pair.
		if previous <= 0 || current <= 0 {
			continue
		}
		logReturns = append(logReturns, math.Log(current/previous))
	}

	numReturns := len(logReturns)
	if numReturns == 0 {
		return 0, ErrInsufficientData
	}

	var sum float64
	for _, r := range logReturns {
		sum += r
	}
	mean := sum / float64(numReturns)

	var sumSqDiff float64
	for _, r := range logReturns {
		sumSqDiff += math.Pow(r-mean, 2)
	}
	variance := sumSqDiff / float64(numReturns)
	stdDev := math.Sqrt(variance)

	return stdDev * math.Sqrt(annualizationFactor), nil
}

// EstimateRangeVolatility derives a coarse volatility proxy from a position's
// price-range width relative to the current (active-bin) price, capped at
// 0.5. It is a stand-in when no price history is available: a wider range
// relative to spot implies the provider priced in more movement.
func EstimateRangeVolatility(distribution []types.BinLiquidity, lowerBinID, upperBinID int) float64 {
	if len(distribution) == 0 || upperBinID <= lowerBinID {
		return 0
	}

	activeID := ResolveActiveBin(distribution)
	var activePrice, lowerPrice, upperPrice float64
	for _, bin := range distribution {
		switch bin.BinID {
		case activeID:
			activePrice = bin.Price
		case lowerBinID:
			lowerPrice = bin.Price
		case upperBinID:
			upperPrice = bin.Price
		}
	}
	if activePrice <= 0 || upperPrice <= lowerPrice {
		return 0
	}

	estimate := (upperPrice - lowerPrice) / activePrice
	if estimate > 0.5 {
		estimate = 0.5
	}
	if estimate < 0 {
		estimate = 0
	}
	return estimate
}
