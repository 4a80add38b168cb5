// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mlahde/locus/internal/adapters/repository"
	"github.com/mlahde/locus/internal/domain/model"
)

// guessRequest mirrors the inbound event from the interception layer.
// Fields are pointers so an absent field is distinguishable from a
// zero value: incomplete observations must fail as malformed, not be
// silently zero-filled.
type guessRequest struct {
	TargetID *string  `json:"target_id"`
	Lat      *float64 `json:"lat"`
	Lon      *float64 `json:"lon"`
	Score    *float64 `json:"score"`
}

func (g guessRequest) complete() bool {
	return g.TargetID != nil && g.Lat != nil && g.Lon != nil && g.Score != nil
}

// GuessesHandler handles guess submissions.
type GuessesHandler struct {
	deps Dependencies
}

// NewGuessesHandler creates a new guesses handler.
func NewGuessesHandler(deps Dependencies) *GuessesHandler {
	return &GuessesHandler{deps: deps}
}

// HandlePostGuess handles POST /guesses requests.
func (h *GuessesHandler) HandlePostGuess(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_guess"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req guessRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "malformed_payload", WrapKind(op, ErrMalformedPayload, err))
		return
	}
	if !req.complete() {
		writeError(w, http.StatusBadRequest, "malformed_payload", NewKind(op, ErrMalformedPayload))
		return
	}

	guess := model.Guess{
		TargetID: *req.TargetID,
		Lat:      *req.Lat,
		Lon:      *req.Lon,
		Score:    *req.Score,
	}
	recorded, err := h.deps.RecordGuess(r.Context(), guess)
	if err != nil {
		if errors.Is(err, repository.ErrInvalidGuess) {
			writeError(w, http.StatusBadRequest, "invalid_guess", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	if !recorded {
		writeJSON(w, http.StatusOK, ackResponse{Status: "skipped"})
		return
	}
	writeJSON(w, http.StatusCreated, ackResponse{Status: "recorded"})
}
