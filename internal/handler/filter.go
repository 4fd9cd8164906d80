package handler

import (
	"net/http"

	"github.com/rs/zerolog"

	"github.com/lodestar-hq/lodestar/internal/filter"
)

// FilterHandler serves saved-filter CRUD.
type FilterHandler struct {
	svc *filter.Service
	log zerolog.Logger
}

// NewFilterHandler creates the saved-filter handler.
func NewFilterHandler(svc *filter.Service, log zerolog.Logger) *FilterHandler {
	return &FilterHandler{svc: svc, log: log.With().Str("handler", "filter").Logger()}
}

type saveFilterRequest struct {
	Name   string `json:"name"`
	Query  string `json:"query"`
	Shared bool   `json:"shared"`
}

type updateFilterRequest struct {
	Name   *string `json:"name"`
	Query  *string `json:"query"`
	Shared *bool   `json:"shared"`
}

// Save handles POST /v1/filters.
func (h *FilterHandler) Save(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	var req saveFilterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}

	f, err := h.svc.Save(r.Context(), id.ActorID, id.TenantID, req.Name, req.Query, req.Shared)
	if err != nil {
		filterErrorToHTTP(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusCreated, f)
}

// List handles GET /v1/filters. The include_shared query parameter pulls
// in workspace-shared filters owned by other members.
func (h *FilterHandler) List(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	includeShared := r.URL.Query().Get("include_shared") == "true"

	filters, err := h.svc.List(r.Context(), id.ActorID, id.TenantID, includeShared)
	if err != nil {
		h.log.Error().Err(err).Msg("list filters failed")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"filters": filters})
}

// Update handles PATCH /v1/filters/{id}.
func (h *FilterHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	filterID, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}
	var req updateFilterRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_BODY", "invalid JSON body")
		return
	}

	f, err := h.svc.Update(r.Context(), id.ActorID, id.TenantID, filterID, filter.Changes{
		Name:   req.Name,
		Query:  req.Query,
		Shared: req.Shared,
	})
	if err != nil {
		filterErrorToHTTP(w, h.log, err)
		return
	}
	writeJSON(w, http.StatusOK, f)
}

// Delete handles DELETE /v1/filters/{id}.
func (h *FilterHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := requireIdentity(w, r)
	if !ok {
		return
	}
	filterID, ok := parseUUID(w, r, "id")
	if !ok {
		return
	}

	if err := h.svc.Delete(r.Context(), id.ActorID, id.TenantID, filterID); err != nil {
		filterErrorToHTTP(w, h.log, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
