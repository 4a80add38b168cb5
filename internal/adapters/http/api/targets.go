// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"net/http"
	"strings"
)

// TargetsHandler serves stored guesses per target, for diagnostics.
type TargetsHandler struct {
	deps Dependencies
}

// NewTargetsHandler creates a new targets handler.
func NewTargetsHandler(deps Dependencies) *TargetsHandler {
	return &TargetsHandler{deps: deps}
}

// HandleGetGuesses handles GET /targets/{target_id}/guesses requests.
func (h *TargetsHandler) HandleGetGuesses(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	rest := strings.TrimPrefix(r.URL.Path, "/targets/")
	targetID, tail, found := strings.Cut(rest, "/")
	if !found || targetID == "" || tail != "guesses" {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadRequest)
		return
	}
	writeJSON(w, http.StatusOK, h.deps.GuessesFor(r.Context(), targetID))
}
