// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"encoding/json"
	"net/http"
	"strings"
)

// askRequest mirrors the OpenAPI schema for POST /api/ask.
type askRequest struct {
	Query string `json:"query"`
}

// AskHandler handles natural-language query requests.
type AskHandler struct {
	deps Dependencies
}

// NewAskHandler creates a new ask handler.
func NewAskHandler(deps Dependencies) *AskHandler {
	return &AskHandler{deps: deps}
}

// HandlePostAsk handles POST /api/ask requests.
func (h *AskHandler) HandlePostAsk(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}

	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", ErrBadBody)
		return
	}

	answer, err := h.deps.Ask(r.Context(), strings.TrimSpace(req.Query))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, answer)
}
