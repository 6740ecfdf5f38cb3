package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

// AppConfig holds all application configuration loaded from environment
// variables. These are populated at startup by the LoadConfig function.
var (
	// AccountID is the venue account whose portfolio this instance analyzes.
	AccountID string

	// RefreshInterval is how often the analytics cycle runs.
	RefreshInterval time.Duration

	// WebPort is the port for the HTTP API.
	WebPort string
)

// LoadConfig loads configuration from environment variables and sets the
// global config vars. All environment variables are required and must be set
// unless a default is documented.
func LoadConfig() error {
	log.Info().Msg("Loading application configuration from environment variables...")

	var err error

	AccountID, err = getEnv("BINSIGHT_ACCOUNT_ID")
	if err != nil {
		return err
	}

	intervalSeconds, err := getEnvAsInt("BINSIGHT_REFRESH_SECONDS")
	if err != nil {
		return err
	}
	if intervalSeconds <= 0 {
		return errors.New("BINSIGHT_REFRESH_SECONDS must be positive")
	}
	RefreshInterval = time.Duration(intervalSeconds) * time.Second

	WebPort = os.Getenv("WEB_PORT")
	if WebPort == "" {
		WebPort = "8080"
	}

	if err := loadEndpointConfig(); err != nil {
		return err
	}

	log.Debug().
		Str("AccountID", AccountID).
		Dur("RefreshInterval", RefreshInterval).
		Str("WebPort", WebPort).
		Msg("Configuration loaded successfully.")

	return nil
}

// getEnv retrieves a string environment variable. Returns error if not set.
func getEnv(key string) (string, error) {
	if value, exists := os.LookupEnv(key); exists {
		return value, nil
	}
	return "", errors.New("environment variable " + key + " is required but not set")
}

// getEnvAsInt retrieves an environment variable as an int. Returns error if
// not set or invalid.
func getEnvAsInt(key string) (int, error) {
	valueStr, err := getEnv(key)
	if err != nil {
		return 0, err
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return 0, errors.New("environment variable " + key + " must be a valid integer, got: " + valueStr)
	}
	return value, nil
}
