// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/mlahde/locus/internal/domain/model"
	"github.com/mlahde/locus/internal/domain/types"
)

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	// RecordGuess validates and appends one guess. It reports false
	// when the guess was skipped because the target is already solved.
	RecordGuess(ctx context.Context, g model.Guess) (bool, error)

	// EstimateLocation computes the current best estimate for a target.
	EstimateLocation(ctx context.Context, targetID string) (model.Location, error)

	// GuessesFor exposes the stored sequence for a target.
	GuessesFor(ctx context.Context, targetID string) []types.GuessRecord
}

// Server wires HTTP routes for the engine API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	guessesHandler  *GuessesHandler
	estimateHandler *EstimateHandler
	targetsHandler  *TargetsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		guessesHandler:  NewGuessesHandler(deps),
		estimateHandler: NewEstimateHandler(deps),
		targetsHandler:  NewTargetsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/guesses", MetricsMiddleware(s.guessesHandler.HandlePostGuess, "guesses"))
	mux.HandleFunc("/estimate/", MetricsMiddleware(s.estimateHandler.HandleGetEstimate, "estimate"))
	mux.HandleFunc("/targets/", MetricsMiddleware(s.targetsHandler.HandleGetGuesses, "targets"))
}

type ackResponse struct {
	Status string `json:"status"`
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
