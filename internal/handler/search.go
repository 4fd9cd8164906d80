package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/lodestar-hq/lodestar/internal/search"
)

// SearchHandler serves the search and quick-search entry points.
type SearchHandler struct {
	exec *search.Executor
	log  zerolog.Logger
}

// NewSearchHandler creates the search handler.
func NewSearchHandler(exec *search.Executor, log zerolog.Logger) *SearchHandler {
	return &SearchHandler{exec: exec, log: log.With().Str("handler", "search").Logger()}
}

// Search handles POST /v1/search. Bad query syntax is not an error: the
// executor degrades to substring matching, so the only failure modes here
// are missing identity and store unavailability.
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req search.Request
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON")
		return
	}

	page, err := h.exec.Search(r.Context(), id.TenantID, req)
	if err != nil {
		h.log.Error().Err(err).Msg("search failed")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, page)
}

type quickSearchRequest struct {
	Term  string `json:"term"`
	Limit int    `json:"limit,omitempty"`
}

// QuickSearch handles POST /v1/search/quick.
func (h *SearchHandler) QuickSearch(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	var req quickSearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "request body is not valid JSON")
		return
	}

	res, err := h.exec.QuickSearch(r.Context(), id.TenantID, req.Term, req.Limit)
	if err != nil {
		h.log.Error().Err(err).Msg("quick search failed")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, res)
}
