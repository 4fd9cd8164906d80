// Package handler exposes the search subsystem over HTTP: search, quick
// search, suggestions, saved filters, and the typeahead socket.
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/lodestar-hq/lodestar/internal/filter"
	"github.com/lodestar-hq/lodestar/internal/store"
)

// Identity is the authenticated caller plus resolved tenant. Both are hard
// preconditions for every operation, checked before any business logic.
type Identity struct {
	ActorID  uuid.UUID
	TenantID uuid.UUID
}

// writeJSON marshals v as JSON and writes it with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]string{
		"error": message,
		"code":  code,
	})
}

// decodeJSON decodes the request body into v.
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}

// requireIdentity extracts the caller identity from request headers.
// Missing or malformed headers end the request before any store access.
func requireIdentity(w http.ResponseWriter, r *http.Request) (Identity, bool) {
	actor := r.Header.Get("X-Actor-ID")
	if actor == "" {
		writeError(w, http.StatusUnauthorized, "MISSING_ACTOR", "X-Actor-ID header is required")
		return Identity{}, false
	}
	workspace := r.Header.Get("X-Workspace-ID")
	if workspace == "" {
		writeError(w, http.StatusUnauthorized, "MISSING_WORKSPACE", "X-Workspace-ID header is required")
		return Identity{}, false
	}

	actorID, err := uuid.Parse(actor)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ACTOR", "X-Actor-ID is not a valid UUID")
		return Identity{}, false
	}
	tenantID, err := uuid.Parse(workspace)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_WORKSPACE", "X-Workspace-ID is not a valid UUID")
		return Identity{}, false
	}
	return Identity{ActorID: actorID, TenantID: tenantID}, true
}

// parseUUID extracts and validates a UUID path parameter.
func parseUUID(w http.ResponseWriter, r *http.Request, paramName string) (uuid.UUID, bool) {
	raw := chi.URLParam(r, paramName)
	id, err := uuid.Parse(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "invalid UUID: "+raw)
		return uuid.Nil, false
	}
	return id, true
}

// filterErrorToHTTP maps saved-filter errors to HTTP responses. Not-found
// and permission-denied stay distinguishable without leaking anything
// further; everything else is a store failure.
func filterErrorToHTTP(w http.ResponseWriter, log zerolog.Logger, err error) {
	switch {
	case errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "filter not found")
	case errors.Is(err, filter.ErrPermissionDenied):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "only the owner may modify this filter")
	case errors.Is(err, filter.ErrEmptyName):
		writeError(w, http.StatusBadRequest, "INVALID_FILTER", err.Error())
	default:
		log.Error().Err(err).Msg("store failure")
		writeError(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
	}
}
