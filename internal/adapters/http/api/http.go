// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/campuslabs/clubpulse/internal/adapters/repository"
	service "github.com/campuslabs/clubpulse/internal/app"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// Run executes one scoring pass over uploaded sources.
	Run(ctx context.Context, input service.RunInput) (repository.RunResult, error)

	// Read operations expose the latest run.
	Latest(ctx context.Context) (repository.RunResult, error)
	Stats(ctx context.Context) (service.Stats, error)
}

// RunInput mirrors the input shape consumed by the pipeline.
type RunInput = service.RunInput

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler    *HealthHandler
	statsHandler     *StatsHandler
	processHandler   *ProcessHandler
	resultsHandler   *ResultsHandler
	dashboardHandler *dashboardHandler
}

// ServerOption configures the API server.
type ServerOption func(*Server)

// WithMaxUploadBytes caps the in-memory size of multipart uploads.
func WithMaxUploadBytes(n int64) ServerOption {
	return func(s *Server) {
		if n > 0 {
			s.processHandler.maxUploadBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:    NewHealthHandler(),
		statsHandler:     NewStatsHandler(deps),
		processHandler:   NewProcessHandler(deps),
		resultsHandler:   NewResultsHandler(deps),
		dashboardHandler: newDashboardHandler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/dashboard", s.dashboardHandler.HandleDashboard)
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/process", MetricsMiddleware(s.processHandler.HandleProcess, "process"))
	mux.HandleFunc("/results", MetricsMiddleware(s.resultsHandler.HandleResults, "results"))
	mux.HandleFunc("/results/rankings.csv", MetricsMiddleware(s.resultsHandler.HandleRankingsCSV, "results_rankings_csv"))
	mux.HandleFunc("/results/winners.csv", MetricsMiddleware(s.resultsHandler.HandleWinnersCSV, "results_winners_csv"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// isNoResults reports whether err means no run has completed yet.
func isNoResults(err error) bool {
	return errors.Is(err, repository.ErrNoResults)
}
