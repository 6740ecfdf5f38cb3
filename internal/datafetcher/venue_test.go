package datafetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const venueFixture = `{
	"account": "acct-1",
	"positions": [
		{
			"id": "pos-1",
			"pair": "SOL-USDC",
			"token_x": "SOL",
			"token_y": "USDC",
			"lower_bin_id": 100,
			"upper_bin_id": 120,
			"active_bin_id": 110,
			"current_value": 1100,
			"liquidity_deployed": 1000,
			"unclaimed_fees": 25,
			"pnl": 100,
			"fee_apr": 30,
			"bin_distribution": [
				{"bin_id": 105, "price": 98, "token_x_amount": 0, "token_y_amount": 5},
				{"bin_id": 110, "price": 100, "token_x_amount": 3, "token_y_amount": 2}
			]
		},
		{
			"id": "pos-2",
			"pair": "ETH-USDC",
			"lower_bin_id": 200,
			"upper_bin_id": 240,
			"current_value": 900,
			"liquidity_deployed": 1000,
			"unclaimed_fees": 5,
			"pnl": -100,
			"fee_apr": 10
		}
	]
}`

func TestVenueClientFetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/accounts/acct-1/positions", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(venueFixture))
	}))
	defer server.Close()

	client, err := NewVenueClient(server.URL)
	require.NoError(t, err)

	snapshot, err := client.Fetch(context.Background(), "acct-1")
	require.NoError(t, err)

	require.Len(t, snapshot.Positions, 2)
	assert.Equal(t, "acct-1", snapshot.AccountID)
	assert.False(t, snapshot.FetchedAt.IsZero())

	first := snapshot.Positions[0]
	assert.Equal(t, "pos-1", first.ID)
	assert.Equal(t, "SOL-USDC", first.PairLabel)
	assert.Equal(t, 100, first.LowerBinID)
	assert.Equal(t, 120, first.UpperBinID)
	assert.Len(t, first.BinDistribution, 2)
	// pnl 100 on current value 1100: 100 / 1000 = 10%
	assert.InDelta(t, 10.0, first.PnLPercentage, 1e-9)

	// Roll-ups computed from the position set.
	assert.Equal(t, 2000.0, snapshot.TotalValue)
	assert.Equal(t, 30.0, snapshot.TotalFees)
	assert.Equal(t, 0.0, snapshot.TotalPnL)
	assert.Equal(t, 20.0, snapshot.AverageAPR)
}

func TestVenueClientDropsMalformedPositions(t *testing.T) {
	payload := `{
		"account": "acct-1",
		"positions": [
			{"id": "good", "lower_bin_id": 10, "upper_bin_id": 20, "current_value": 100},
			{"id": "", "lower_bin_id": 10, "upper_bin_id": 20},
			{"id": "inverted", "lower_bin_id": 20, "upper_bin_id": 10},
			{"id": "negative", "lower_bin_id": 10, "upper_bin_id": 20, "current_value": -5},
			{"id": "bad-bins", "lower_bin_id": 10, "upper_bin_id": 20,
			 "bin_distribution": [
				{"bin_id": 15, "token_x_amount": 1, "token_y_amount": 1},
				{"bin_id": 12, "token_x_amount": 1, "token_y_amount": 1}
			 ]}
		]
	}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	}))
	defer server.Close()

	client, err := NewVenueClient(server.URL)
	require.NoError(t, err)

	snapshot, err := client.Fetch(context.Background(), "acct-1")
	require.NoError(t, err)

	require.Len(t, snapshot.Positions, 1)
	assert.Equal(t, "good", snapshot.Positions[0].ID)
	assert.Equal(t, 100.0, snapshot.TotalValue)
}

func TestVenueClientErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "upstream unavailable", http.StatusBadGateway)
	}))
	defer server.Close()

	client, err := NewVenueClient(server.URL)
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), "acct-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}

func TestVenueClientMalformedBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json"))
	}))
	defer server.Close()

	client, err := NewVenueClient(server.URL)
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), "acct-1")
	assert.Error(t, err)
}

func TestVenueClientRequiresAccountID(t *testing.T) {
	client, err := NewVenueClient("http://localhost:1")
	require.NoError(t, err)

	_, err = client.Fetch(context.Background(), "")
	assert.Error(t, err)
}

func TestNewVenueClientValidation(t *testing.T) {
	_, err := NewVenueClient("")
	assert.Error(t, err)
}
