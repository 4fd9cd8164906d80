package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/lodestar-hq/lodestar/internal/suggest"
)

// SuggestHandler serves autocomplete candidate lookups.
type SuggestHandler struct {
	engine *suggest.Engine
	log    zerolog.Logger
}

// NewSuggestHandler creates the suggestion handler.
func NewSuggestHandler(engine *suggest.Engine, log zerolog.Logger) *SuggestHandler {
	return &SuggestHandler{engine: engine, log: log.With().Str("handler", "suggest").Logger()}
}

// Suggest handles GET /v1/suggest?partial=...&field=....
func (h *SuggestHandler) Suggest(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}

	partial := r.URL.Query().Get("partial")
	field := suggest.Field(r.URL.Query().Get("field"))
	if field != "" && !field.Valid() {
		writeError(w, http.StatusBadRequest, "INVALID_FIELD",
			"field must be one of: status, assignee, priority, project")
		return
	}

	set, err := h.engine.Suggest(r.Context(), id.TenantID, partial, field)
	if err != nil {
		h.log.Error().Err(err).Msg("suggest failed")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, set)
}
