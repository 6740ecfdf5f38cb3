/*

This file contains the logic for resolving a position's true active bin from
its bin distribution. The market-level active bin id reported by the venue can
lag or be absent, so the distribution is the authoritative source when it is
available.

*/

package analyzer

import (
	"fmt"

	"github.com/metfin/binsight/internal/types"
)

// ResolveActiveBin locates the true active bin for a position.
//
// The active bin is the first bin (ascending bin id order) holding both
// token X and token Y liquidity strictly positive: in a liquidity book only
// the straddled bin carries both sides of the pair. When no bin qualifies,
// the middle element of the distribution by index is used; when the
// distribution is empty the result falls back to bin 0.
func ResolveActiveBin(distribution []types.BinLiquidity) int {
	if len(distribution) == 0 {
		return 0
	}

	for _, bin := range distribution {
		if bin.TokenXAmount > 0 && bin.TokenYAmount > 0 {
			return bin.BinID
		}
	}

	return distribution[len(distribution)/2].BinID
}

// ValidateDistribution checks the ordering invariants the venue contract
// promises: bin ids strictly ascending (which also rules out duplicates) and
// no negative liquidity amounts. Returns the first violation found.
func ValidateDistribution(distribution []types.BinLiquidity) error {
	for i, bin := range distribution {
		if bin.TokenXAmount < 0 || bin.TokenYAmount < 0 {
			return &DistributionError{BinID: bin.BinID, Reason: "negative liquidity amount"}
		}
		if i > 0 && bin.BinID <= distribution[i-1].BinID {
			return &DistributionError{BinID: bin.BinID, Reason: "bin ids not strictly ascending"}
		}
	}
	return nil
}

// DistributionError reports a malformed bin distribution.
type DistributionError struct {
	BinID  int
	Reason string
}

func (e *DistributionError) Error() string {
	return fmt.Sprintf("malformed bin distribution at bin %d: %s", e.BinID, e.Reason)
}
