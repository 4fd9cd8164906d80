// Package filter implements saved-query persistence with ownership and
// sharing semantics. Query strings are stored verbatim and re-parsed when
// they run, so a filter saved before a grammar change is re-validated
// rather than silently broken.
package filter

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"github.com/lodestar-hq/lodestar/internal/store"
)

// ErrPermissionDenied indicates the caller is not the filter's owner. Only
// owners may mutate or delete a filter, regardless of sharing state.
var ErrPermissionDenied = errors.New("not the filter owner")

// ErrEmptyName rejects filters with a blank name.
var ErrEmptyName = errors.New("filter name must not be empty")

// scopeWorkspace is the sharing tag written when a filter is shared.
const scopeWorkspace = "workspace"

// Changes holds a partial update; nil fields are left untouched.
type Changes struct {
	Name   *string
	Query  *string
	Shared *bool
}

// Service is the saved-filter store facade.
type Service struct {
	store *store.Store
}

// NewService creates a saved-filter service over the record store.
func NewService(st *store.Store) *Service {
	return &Service{store: st}
}

// Save creates a filter owned by ownerID in the given tenant. The query is
// not validated: a string that no longer parses still runs via the search
// fallback.
func (s *Service) Save(ctx context.Context, ownerID, tenantID uuid.UUID, name, query string, shared bool) (*store.SavedFilter, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}

	f := &store.SavedFilter{
		WorkspaceID: tenantID,
		OwnerID:     ownerID,
		Name:        name,
		Query:       query,
		SharedWith:  []string{},
	}
	if shared {
		f.SharedWith = []string{scopeWorkspace}
	}
	if err := s.store.InsertFilter(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Update applies a partial change to a filter. Existence within the tenant
// is checked before ownership so a nonexistent id and a foreign tenant's id
// both report not-found, and only a real non-owned filter reports
// permission-denied.
func (s *Service) Update(ctx context.Context, ownerID, tenantID, filterID uuid.UUID, changes Changes) (*store.SavedFilter, error) {
	f, err := s.store.FilterByID(ctx, tenantID, filterID)
	if err != nil {
		return nil, err
	}
	if f.OwnerID != ownerID {
		return nil, ErrPermissionDenied
	}

	if changes.Name != nil {
		name := strings.TrimSpace(*changes.Name)
		if name == "" {
			return nil, ErrEmptyName
		}
		f.Name = name
	}
	if changes.Query != nil {
		f.Query = *changes.Query
	}
	if changes.Shared != nil {
		if *changes.Shared {
			f.SharedWith = []string{scopeWorkspace}
		} else {
			f.SharedWith = []string{}
		}
	}

	if err := s.store.UpdateFilter(ctx, f); err != nil {
		return nil, err
	}
	return f, nil
}

// Delete removes a filter, with the same existence-then-ownership checks
// as Update.
func (s *Service) Delete(ctx context.Context, ownerID, tenantID, filterID uuid.UUID) error {
	f, err := s.store.FilterByID(ctx, tenantID, filterID)
	if err != nil {
		return err
	}
	if f.OwnerID != ownerID {
		return ErrPermissionDenied
	}
	return s.store.DeleteFilter(ctx, tenantID, filterID)
}

// List returns the caller's own filters and, when includeShared is set,
// filters shared by other members of the same tenant.
func (s *Service) List(ctx context.Context, ownerID, tenantID uuid.UUID, includeShared bool) ([]*store.SavedFilter, error) {
	filters, err := s.store.ListFilters(ctx, tenantID, ownerID, includeShared)
	if err != nil {
		return nil, err
	}
	if filters == nil {
		filters = []*store.SavedFilter{}
	}
	return filters, nil
}
