/*

This file contains the HTTP client for the liquidity venue's REST API. It
fetches the raw position list for an account, validates each position against
the data contract, drops (and logs) anything malformed, and computes the
portfolio roll-ups.

Malformed positions are omitted and reported; the client never fabricates a
plausible position to mask bad upstream data.

*/

package datafetcher

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/metfin/binsight/internal/analyzer"
	"github.com/metfin/binsight/internal/logger"
	"github.com/metfin/binsight/internal/types"
	"github.com/rs/zerolog"
)

const requestTimeout = 20 * time.Second

// venuePosition is the wire shape of one position in the venue's response.
type venuePosition struct {
	ID              string  `json:"id"`
	Pair            string  `json:"pair"`
	TokenX          string  `json:"token_x"`
	TokenY          string  `json:"token_y"`
	LowerBinID      int     `json:"lower_bin_id"`
	UpperBinID      int     `json:"upper_bin_id"`
	ActiveBinID     int     `json:"active_bin_id"`
	CurrentValue    float64 `json:"current_value"`
	Liquidity       float64 `json:"liquidity_deployed"`
	UnclaimedFees   float64 `json:"unclaimed_fees"`
	PnL             float64 `json:"pnl"`
	FeeAPR          float64 `json:"fee_apr"`
	BinDistribution []struct {
		BinID        int     `json:"bin_id"`
		Price        float64 `json:"price"`
		TokenXAmount float64 `json:"token_x_amount"`
		TokenYAmount float64 `json:"token_y_amount"`
	} `json:"bin_distribution"`
}

type venueResponse struct {
	Account   string          `json:"account"`
	Positions []venuePosition `json:"positions"`
}

// VenueClient fetches portfolio snapshots from the venue REST API. It
// implements PortfolioDataProvider.
type VenueClient struct {
	baseURL    string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewVenueClient creates a client for the given API base URL.
func NewVenueClient(baseURL string) (*VenueClient, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("venue API base URL is required")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("invalid venue API base URL %q: %w", baseURL, err)
	}
	return &VenueClient{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: requestTimeout},
		logger:     logger.GetForComponent("venue_client"),
	}, nil
}

// Fetch retrieves all positions for the account and assembles a validated
// PortfolioSnapshot with roll-ups computed.
func (c *VenueClient) Fetch(ctx context.Context, accountID string) (types.PortfolioSnapshot, error) {
	if accountID == "" {
		return types.PortfolioSnapshot{}, fmt.Errorf("account ID is required")
	}

	endpoint := fmt.Sprintf("%s/accounts/%s/positions", c.baseURL, url.PathEscape(accountID))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return types.PortfolioSnapshot{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return types.PortfolioSnapshot{}, fmt.Errorf("failed to fetch positions: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return types.PortfolioSnapshot{}, fmt.Errorf("venue API returned status %d: %s", resp.StatusCode, string(body))
	}

	var payload venueResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return types.PortfolioSnapshot{}, fmt.Errorf("failed to decode venue response: %w", err)
	}

	snapshot := types.PortfolioSnapshot{
		AccountID: accountID,
		Positions: make([]types.Position, 0, len(payload.Positions)),
		FetchedAt: time.Now().UTC(),
	}

	dropped := 0
	for _, raw := range payload.Positions {
		pos, err := c.convertPosition(raw)
		if err != nil {
			dropped++
			c.logger.Error().
				Err(err).
				Str("positionID", raw.ID).
				Msg("Dropping malformed position from venue response")
			continue
		}
		snapshot.Positions = append(snapshot.Positions, pos)
	}

	snapshot.ComputeTotals()

	c.logger.Info().
		Str("account", accountID).
		Int("positions", len(snapshot.Positions)).
		Int("dropped", dropped).
		Float64("totalValue", snapshot.TotalValue).
		Msg("Portfolio snapshot fetched")

	return snapshot, nil
}

// convertPosition validates one wire position against the data contract and
// converts it to the domain type.
func (c *VenueClient) convertPosition(raw venuePosition) (types.Position, error) {
	if raw.ID == "" {
		return types.Position{}, fmt.Errorf("position has no id")
	}
	if raw.UpperBinID < raw.LowerBinID {
		return types.Position{}, fmt.Errorf("invalid bin range [%d, %d]", raw.LowerBinID, raw.UpperBinID)
	}
	if raw.CurrentValue < 0 || raw.Liquidity < 0 || raw.UnclaimedFees < 0 {
		return types.Position{}, fmt.Errorf("negative economic field")
	}

	distribution := make([]types.BinLiquidity, 0, len(raw.BinDistribution))
	for _, bin := range raw.BinDistribution {
		distribution = append(distribution, types.BinLiquidity{
			BinID:        bin.BinID,
			Price:        bin.Price,
			TokenXAmount: bin.TokenXAmount,
			TokenYAmount: bin.TokenYAmount,
		})
	}
	if err := analyzer.ValidateDistribution(distribution); err != nil {
		return types.Position{}, err
	}

	return types.Position{
		ID:                raw.ID,
		PairLabel:         raw.Pair,
		TokenXSymbol:      raw.TokenX,
		TokenYSymbol:      raw.TokenY,
		LowerBinID:        raw.LowerBinID,
		UpperBinID:        raw.UpperBinID,
		ActiveBinID:       raw.ActiveBinID,
		CurrentValue:      raw.CurrentValue,
		LiquidityDeployed: raw.Liquidity,
		UnclaimedFees:     raw.UnclaimedFees,
		PnL:               raw.PnL,
		PnLPercentage:     types.ComputePnLPercentage(raw.PnL, raw.CurrentValue),
		FeeAPR:            raw.FeeAPR,
		BinDistribution:   distribution,
	}, nil
}
