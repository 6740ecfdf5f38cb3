package config

import (
	"github.com/rs/zerolog/log"
)

// Endpoint configuration loaded from environment variables.
// These are populated at startup by the LoadConfig function.
var (
	// VenueAPI is the base URL of the liquidity venue's REST API.
	VenueAPI string
)

// loadEndpointConfig loads endpoint configuration from environment variables.
// This function is called by LoadConfig() in General.go.
func loadEndpointConfig() error {
	log.Info().Msg("Loading endpoint configuration from environment variables...")

	var err error

	VenueAPI, err = getEnv("VENUE_API_URL")
	if err != nil {
		return err
	}

	log.Debug().
		Str("VenueAPI", VenueAPI).
		Msg("Endpoint configuration loaded successfully.")

	return nil
}
