package web

import (
	"encoding/json"
	"net/http"
	"runtime"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/metfin/binsight/internal/logger"
	"github.com/metfin/binsight/internal/service"
	"github.com/metfin/binsight/internal/simulator"
	"github.com/metfin/binsight/internal/state"
	"github.com/metfin/binsight/internal/types"
)

var webLogger = logger.GetForComponent("web_server")

// WebServer handles HTTP requests for portfolio analytics data
type WebServer struct {
	router    *mux.Router
	port      string
	service   *service.Service
	simulator *simulator.Simulator
	persist   bool
}

// NewWebServer creates a new web server instance
func NewWebServer(port string, svc *service.Service, sim *simulator.Simulator, persist bool) *WebServer {
	if port == "" {
		port = "8080"
	}

	server := &WebServer{
		router:    mux.NewRouter(),
		port:      port,
		service:   svc,
		simulator: sim,
		persist:   persist,
	}

	server.setupRoutes()
	return server
}

// setupRoutes configures all HTTP routes
func (ws *WebServer) setupRoutes() {
	// Health endpoint (direct route)
	ws.router.HandleFunc("/health", ws.handleHealth).Methods("GET")

	// API endpoints
	api := ws.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/health", ws.handleHealth).Methods("GET")
	api.HandleFunc("/portfolio", ws.handleGetPortfolio).Methods("GET")
	api.HandleFunc("/portfolio/summary", ws.handleGetPortfolioSummary).Methods("GET")
	api.HandleFunc("/recommendations", ws.handleGetRecommendations).Methods("GET")
	api.HandleFunc("/recommendations/runs", ws.handleGetRuns).Methods("GET")
	api.HandleFunc("/recommendations/runs/{id}", ws.handleGetRun).Methods("GET")
	api.HandleFunc("/strategies", ws.handleGetStrategies).Methods("GET")
	api.HandleFunc("/positions/{id}/simulate", ws.handleSimulate).Methods("POST")

	// Add CORS middleware
	ws.router.Use(ws.corsMiddleware)
	ws.router.Use(ws.loggingMiddleware)
}

// Start starts the web server
func (ws *WebServer) Start() error {
	webLogger.Info().Str("port", ws.port).Msg("Starting web server")

	server := &http.Server{
		Addr:         ":" + ws.port,
		Handler:      ws.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return server.ListenAndServe()
}

// handleHealth returns server health status
func (ws *WebServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	var memStats runtime.MemStats
	runtime.ReadMemStats(&memStats)

	hasErrors := false

	latest := ws.service.LatestReport()
	var cycleInfo map[string]interface{}
	if latest != nil {
		cycleInfo = map[string]interface{}{
			"current_cycle":     latest.CycleNumber,
			"last_cycle_time":   latest.Timestamp,
			"recommendations":   len(latest.Recommendations),
			"skipped_positions": latest.SkippedPositions,
		}
	} else {
		cycleInfo = map[string]interface{}{
			"current_cycle":   0,
			"last_cycle_time": nil,
		}
		hasErrors = true // No cycle data yet
	}

	dbHealthy := true
	if ws.persist {
		if err := state.TestDBConnection(); err != nil {
			dbHealthy = false
			hasErrors = true
		}
	}

	overallStatus := "OK"
	if hasErrors {
		overallStatus = "DEGRADED"
	}

	response := map[string]interface{}{
		"status":    overallStatus,
		"timestamp": time.Now().UTC().Format(time.RFC3339Nano),
		"system": map[string]interface{}{
			"version":          runtime.Version(),
			"goroutines_count": runtime.NumGoroutine(),
			"alloc_bytes":      memStats.Alloc,
			"sys_bytes":        memStats.Sys,
			"gc_cycles":        memStats.NumGC,
		},
		"component": map[string]interface{}{
			"name":    "binsight-portfolio-analytics",
			"version": "1.0.0",
		},
		"analytics_status": map[string]interface{}{
			"database_healthy": dbHealthy,
			"cycle_info":       cycleInfo,
		},
	}

	statusCode := http.StatusOK
	if hasErrors {
		statusCode = http.StatusServiceUnavailable
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// handleGetPortfolio returns the latest classified portfolio snapshot
func (ws *WebServer) handleGetPortfolio(w http.ResponseWriter, r *http.Request) {
	latest := ws.service.LatestReport()
	if latest == nil {
		ws.writeErrorResponse(w, http.StatusServiceUnavailable, "No portfolio data available yet")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, latest.Snapshot)
}

// handleGetPortfolioSummary returns persisted summary statistics
func (ws *WebServer) handleGetPortfolioSummary(w http.ResponseWriter, r *http.Request) {
	if !ws.persist {
		ws.writeErrorResponse(w, http.StatusNotImplemented, "Persistence is disabled")
		return
	}

	summary, err := state.GetPortfolioSummary()
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to get portfolio summary")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve portfolio summary")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, summary)
}

// handleGetRecommendations returns the latest recommendation set
func (ws *WebServer) handleGetRecommendations(w http.ResponseWriter, r *http.Request) {
	latest := ws.service.LatestReport()
	if latest == nil {
		ws.writeErrorResponse(w, http.StatusServiceUnavailable, "No recommendation data available yet")
		return
	}

	response := map[string]interface{}{
		"cycle_number":      latest.CycleNumber,
		"generated_at":      latest.Timestamp,
		"recommendations":   latest.Recommendations,
		"count":             len(latest.Recommendations),
		"skipped_positions": latest.SkippedPositions,
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetRuns returns paginated recommendation run history
func (ws *WebServer) handleGetRuns(w http.ResponseWriter, r *http.Request) {
	if !ws.persist {
		ws.writeErrorResponse(w, http.StatusNotImplemented, "Persistence is disabled")
		return
	}

	limit := 20
	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if parsedLimit, err := strconv.Atoi(limitStr); err == nil && parsedLimit > 0 && parsedLimit <= 100 {
			limit = parsedLimit
		}
	}

	runs, err := state.GetRecentRuns(limit)
	if err != nil {
		webLogger.Error().Err(err).Msg("Failed to get recent recommendation runs")
		ws.writeErrorResponse(w, http.StatusInternalServerError, "Failed to retrieve recommendation runs")
		return
	}

	response := map[string]interface{}{
		"runs":  runs,
		"count": len(runs),
		"limit": limit,
	}

	ws.writeJSONResponse(w, http.StatusOK, response)
}

// handleGetRun returns a specific recommendation run by ID
func (ws *WebServer) handleGetRun(w http.ResponseWriter, r *http.Request) {
	if !ws.persist {
		ws.writeErrorResponse(w, http.StatusNotImplemented, "Persistence is disabled")
		return
	}

	vars := mux.Vars(r)
	id, err := strconv.ParseInt(vars["id"], 10, 64)
	if err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid run ID")
		return
	}

	run, err := state.GetRunByID(id)
	if err != nil {
		webLogger.Error().Err(err).Int64("runId", id).Msg("Failed to get recommendation run")
		ws.writeErrorResponse(w, http.StatusNotFound, "Recommendation run not found")
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, run)
}

// handleGetStrategies returns the strategy profile table
func (ws *WebServer) handleGetStrategies(w http.ResponseWriter, r *http.Request) {
	response := map[string]interface{}{
		"strategies": ws.simulator.Profiles(),
	}
	ws.writeJSONResponse(w, http.StatusOK, response)
}

// simulateRequest is the body of a simulation call.
type simulateRequest struct {
	Strategy        string `json:"strategy"`
	TimeHorizonDays int    `json:"time_horizon_days"`
}

// handleSimulate runs a strategy simulation for one position from the latest
// snapshot
func (ws *WebServer) handleSimulate(w http.ResponseWriter, r *http.Request) {
	latest := ws.service.LatestReport()
	if latest == nil {
		ws.writeErrorResponse(w, http.StatusServiceUnavailable, "No portfolio data available yet")
		return
	}

	vars := mux.Vars(r)
	positionID := vars["id"]

	var position *types.Position
	for i := range latest.Snapshot.Positions {
		if latest.Snapshot.Positions[i].ID == positionID {
			position = &latest.Snapshot.Positions[i]
			break
		}
	}
	if position == nil {
		ws.writeErrorResponse(w, http.StatusNotFound, "Position not found")
		return
	}

	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		ws.writeErrorResponse(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.TimeHorizonDays <= 0 {
		req.TimeHorizonDays = 30
	}

	result, err := ws.simulator.Simulate(*position, req.Strategy, req.TimeHorizonDays)
	if err != nil {
		webLogger.Warn().Err(err).Str("positionID", positionID).Str("strategy", req.Strategy).Msg("Simulation rejected")
		ws.writeErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	ws.writeJSONResponse(w, http.StatusOK, result)
}

// writeJSONResponse writes a JSON response
func (ws *WebServer) writeJSONResponse(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		webLogger.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

// writeErrorResponse writes an error response
func (ws *WebServer) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	response := map[string]interface{}{
		"error":     true,
		"message":   message,
		"timestamp": time.Now().UTC(),
	}

	ws.writeJSONResponse(w, statusCode, response)
}

// corsMiddleware adds CORS headers
func (ws *WebServer) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// loggingMiddleware logs HTTP requests
func (ws *WebServer) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		wrapper := &responseWriterWrapper{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapper, r)

		webLogger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Int("status", wrapper.statusCode).
			Dur("duration", time.Since(start)).
			Msg("HTTP request")
	})
}

// responseWriterWrapper wraps http.ResponseWriter to capture status code
type responseWriterWrapper struct {
	http.ResponseWriter
	statusCode int
}

func (w *responseWriterWrapper) WriteHeader(statusCode int) {
	w.statusCode = statusCode
	w.ResponseWriter.WriteHeader(statusCode)
}
