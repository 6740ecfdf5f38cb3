package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/metfin/binsight/internal/analyzer"
	"github.com/metfin/binsight/internal/datafetcher"
	"github.com/metfin/binsight/internal/engine"
	"github.com/metfin/binsight/internal/logger"
	"github.com/metfin/binsight/internal/state"
	"github.com/metfin/binsight/internal/types"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Service drives the analytics cycle: fetch a snapshot, classify position
// health, generate recommendations, persist the result, and publish the
// latest report for the HTTP layer.
type Service struct {
	// Core dependencies
	logger   zerolog.Logger
	provider datafetcher.PortfolioDataProvider
	engine   *engine.Engine

	// Configuration
	accountID string
	persist   bool // Snapshots and runs are only written when the DB is wired.

	// Latest published report, read by the web layer.
	mu     sync.RWMutex
	latest *types.CycleReport
}

// Config holds the configuration for creating a new Service instance
type Config struct {
	Provider  datafetcher.PortfolioDataProvider
	Engine    *engine.Engine
	AccountID string
	Persist   bool
}

// New creates a new Service instance with dependency injection
func New(cfg Config) (*Service, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, fmt.Errorf("service configuration validation failed: %w", err)
	}

	svc := &Service{
		logger:    logger.GetForComponent("analytics_service"),
		provider:  cfg.Provider,
		engine:    cfg.Engine,
		accountID: cfg.AccountID,
		persist:   cfg.Persist,
	}

	svc.logger.Info().
		Str("accountID", svc.accountID).
		Bool("persist", svc.persist).
		Msg("Analytics service created")

	return svc, nil
}

func validateConfig(cfg Config) error {
	if cfg.Provider == nil {
		return fmt.Errorf("portfolio data provider cannot be nil")
	}
	if cfg.Engine == nil {
		return fmt.Errorf("recommendation engine cannot be nil")
	}
	if cfg.AccountID == "" {
		return fmt.Errorf("account ID cannot be empty")
	}
	return nil
}

// LatestReport returns the most recently published cycle report, or nil if
// no cycle has completed yet.
func (s *Service) LatestReport() *types.CycleReport {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// RunLoop starts the main analytics loop with the specified interval.
func (s *Service) RunLoop(ctx context.Context, interval time.Duration) {
	s.logger.Info().
		Dur("interval", interval).
		Msg("Starting analytics main loop")

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	// Run first cycle immediately
	s.RunCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("Analytics loop stopped due to context cancellation")
			return
		case <-ticker.C:
			s.RunCycle(ctx)
		}
	}
}

// RunCycle executes one complete analytics cycle. A failure aborts the cycle
// but never the loop.
func (s *Service) RunCycle(ctx context.Context) {
	cycleStartTime := time.Now()

	// Unique cycle ID for tracing logs across the entire cycle
	cycleID := uuid.New().String()
	cycleLogger := s.logger.With().Str("cycle_id", cycleID).Logger()

	cycleLogger.Info().Msg("--- Starting analytics cycle ---")

	cycleNumber := s.nextCycleNumber(cycleLogger)

	// --- Step 1: Fetch portfolio snapshot ---
	cycleLogger.Info().Msg("Step 1: Fetching portfolio snapshot...")
	snapshot, err := s.provider.Fetch(ctx, s.accountID)
	if err != nil {
		cycleLogger.Error().Err(err).Msg("Cycle aborted: failed to fetch portfolio snapshot")
		return
	}
	cycleLogger.Info().
		Int("positions", len(snapshot.Positions)).
		Float64("totalValue", snapshot.TotalValue).
		Msg("Step 1: Snapshot fetched")

	// --- Step 2: Classify position health ---
	cycleLogger.Info().Msg("Step 2: Classifying position health...")
	classified, classifyFailures := analyzer.ClassifyPositions(snapshot.Positions)
	snapshot.Positions = classified

	// --- Step 3: Generate recommendations ---
	cycleLogger.Info().Msg("Step 3: Generating recommendations...")
	recommendations, evalSkipped := s.engine.GenerateRecommendations(snapshot.Positions)

	report := types.CycleReport{
		CycleNumber:      cycleNumber,
		Timestamp:        cycleStartTime,
		Snapshot:         snapshot,
		Recommendations:  recommendations,
		SkippedPositions: classifyFailures + evalSkipped,
	}

	// --- Step 4: Persist ---
	if s.persist {
		snapshotID, err := state.SaveSnapshot(cycleNumber, snapshot)
		if err != nil {
			cycleLogger.Error().Err(err).Msg("Failed to persist snapshot; report still published")
		} else {
			runID, err := state.SaveRecommendationRun(cycleNumber, snapshotID, recommendations, report.SkippedPositions)
			if err != nil {
				cycleLogger.Error().Err(err).Msg("Failed to persist recommendation run")
			} else {
				report.ReportID = runID
			}
		}
	}

	// --- Step 5: Publish ---
	s.mu.Lock()
	s.latest = &report
	s.mu.Unlock()

	cycleLogger.Info().
		Int("cycleNumber", cycleNumber).
		Int("recommendations", len(recommendations)).
		Int("skipped", report.SkippedPositions).
		Dur("elapsed", time.Since(cycleStartTime)).
		Msg("--- Analytics cycle completed ---")
}

// nextCycleNumber advances the persistent counter, falling back to
// in-memory numbering when persistence is disabled.
func (s *Service) nextCycleNumber(cycleLogger zerolog.Logger) int {
	if !s.persist {
		s.mu.Lock()
		defer s.mu.Unlock()
		if s.latest == nil {
			return 1
		}
		return s.latest.CycleNumber + 1
	}

	n, err := state.IncrementCycleNumber()
	if err != nil {
		cycleLogger.Warn().Err(err).Msg("Failed to increment persistent cycle counter, using 0")
		return 0
	}
	return n
}
