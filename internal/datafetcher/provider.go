package datafetcher

import (
	"context"

	"github.com/metfin/binsight/internal/types"
)

// PortfolioDataProvider is the single capability the analytics core needs
// from the outside world: a portfolio snapshot for an account. It isolates
// the core from upstream API instability entirely.
type PortfolioDataProvider interface {
	Fetch(ctx context.Context, accountID string) (types.PortfolioSnapshot, error)
}
