// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/mlahde/locus/internal/domain/trilat"
	"github.com/mlahde/locus/internal/domain/types"
)

// EstimateHandler handles estimate requests.
type EstimateHandler struct {
	deps Dependencies
}

// NewEstimateHandler creates a new estimate handler.
func NewEstimateHandler(deps Dependencies) *EstimateHandler {
	return &EstimateHandler{deps: deps}
}

// HandleGetEstimate handles GET /estimate/{target_id} requests.
func (h *EstimateHandler) HandleGetEstimate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	targetID := strings.TrimPrefix(r.URL.Path, "/estimate/")
	if targetID == "" || strings.Contains(targetID, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}

	loc, err := h.deps.EstimateLocation(r.Context(), targetID)
	if err != nil {
		// Too few guesses is the expected early state for a target,
		// reported as not-found rather than a server fault.
		if errors.Is(err, trilat.ErrInsufficientGuesses) {
			writeError(w, http.StatusNotFound, "insufficient_data", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", err)
		return
	}
	writeJSON(w, http.StatusOK, types.Estimate{TargetID: targetID, Lat: loc.Lat, Lon: loc.Lon})
}
