package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/metfin/binsight/internal/config"
	"github.com/metfin/binsight/internal/datafetcher"
	"github.com/metfin/binsight/internal/engine"
	"github.com/metfin/binsight/internal/logger"
	"github.com/metfin/binsight/internal/service"
	"github.com/metfin/binsight/internal/simulator"
	"github.com/metfin/binsight/internal/state"
	"github.com/metfin/binsight/internal/web"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// main is the entry point for the binsight analytics service.
func main() {
	// --- 1. Initialization Phase ---
	if err := godotenv.Load(); err != nil {
		log.Warn().Msg("Warning: .env file not found. Relying on OS environment variables.")
	}

	// Load configuration from environment variables
	if err := config.LoadConfig(); err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logger.Initialize(os.Getenv("LOG_LEVEL"))
	log.Info().Msg("Binsight Analytics Starting...")

	// Initialize Database Connection (optional; analytics works in-memory
	// without it)
	persist := os.Getenv("DB_HOST") != ""
	if persist {
		dbCfg := state.DBConfig{
			Host: os.Getenv("DB_HOST"), Port: mustAtoi(os.Getenv("DB_PORT"), 5432),
			User: os.Getenv("DB_USER"), Password: os.Getenv("DB_PASSWORD"),
			DBName: os.Getenv("DB_NAME"), SSLMode: os.Getenv("DB_SSLMODE"),
		}
		if err := state.InitDB(dbCfg); err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize database")
		}
		defer state.CloseDB()
		if err := state.EnsureSchema(); err != nil {
			log.Fatal().Err(err).Msg("Failed to ensure database schema")
		}
	} else {
		log.Warn().Msg("DB_HOST not set. Running without persistence; run history endpoints will be unavailable.")
	}

	// --- 2. Build Components with Dependency Injection ---
	provider, err := datafetcher.NewVenueClient(config.VenueAPI)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create venue client")
	}

	recEngine := engine.New(config.DefaultEngineParameters)
	sim := simulator.New(config.DefaultStrategyProfiles)

	svc, err := service.New(service.Config{
		Provider:  provider,
		Engine:    recEngine,
		AccountID: config.AccountID,
		Persist:   persist,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create analytics service")
	}

	// --- 3. Start Web Server ---
	webServer := web.NewWebServer(config.WebPort, svc, sim, persist)
	go func() {
		log.Info().Str("port", config.WebPort).Str("url", "http://localhost:"+config.WebPort).Msg("Starting binsight API server")
		if err := webServer.Start(); err != nil {
			log.Error().Err(err).Msg("Web server failed to start")
		}
	}()

	// --- 4. Start Analytics Main Loop ---
	log.Info().Str("interval", config.RefreshInterval.String()).Msg("Starting analytics main loop")

	// Create context for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	// Start the analytics loop (this will run until the context is cancelled)
	svc.RunLoop(ctx, config.RefreshInterval)

	log.Info().Msg("Binsight Analytics stopped.")
}

// Helper to convert string to int with a default value
func mustAtoi(s string, defaultValue int) int {
	i, err := strconv.Atoi(s)
	if err != nil {
		return defaultValue
	}
	return i
}
