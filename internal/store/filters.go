package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

var filterColumns = []string{
	"id", "workspace_id", "owner_id", "name", "query", "shared_with",
	"created_at", "updated_at",
}

// InsertFilter persists a new saved filter. The query string is stored
// verbatim; it is re-parsed when the filter runs, never pre-compiled.
func (s *Store) InsertFilter(ctx context.Context, f *SavedFilter) error {
	if f.ID == uuid.Nil {
		f.ID = uuid.New()
	}
	now := time.Now().UTC()
	if f.CreatedAt.IsZero() {
		f.CreatedAt = now
	}
	if f.UpdatedAt.IsZero() {
		f.UpdatedAt = f.CreatedAt
	}
	if f.SharedWith == nil {
		f.SharedWith = []string{}
	}
	shared, err := json.Marshal(f.SharedWith)
	if err != nil {
		return fmt.Errorf("encoding shared_with: %w", err)
	}
	query, args := builder().
		Insert(TableFilters).
		Columns(filterColumns...).
		Values(
			f.ID.String(), f.WorkspaceID.String(), f.OwnerID.String(),
			f.Name, f.Query, string(shared),
			f.CreatedAt, f.UpdatedAt,
		).
		Query()
	return s.exec(ctx, query, args)
}

// FilterByID fetches a saved filter within the tenant, or ErrNotFound.
// Cross-tenant ids are indistinguishable from nonexistent ones.
func (s *Store) FilterByID(ctx context.Context, tenantID, id uuid.UUID) (*SavedFilter, error) {
	t := entsql.Table(TableFilters)
	sel := s.filterSelector(tenantID).
		Where(entsql.EQ(t.C("id"), id.String()))
	filters, err := s.queryFilters(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(filters) == 0 {
		return nil, ErrNotFound
	}
	return filters[0], nil
}

// UpdateFilter writes the mutable fields of a saved filter.
func (s *Store) UpdateFilter(ctx context.Context, f *SavedFilter) error {
	if f.SharedWith == nil {
		f.SharedWith = []string{}
	}
	shared, err := json.Marshal(f.SharedWith)
	if err != nil {
		return fmt.Errorf("encoding shared_with: %w", err)
	}
	f.UpdatedAt = time.Now().UTC()
	query, args := builder().
		Update(TableFilters).
		Set("name", f.Name).
		Set("query", f.Query).
		Set("shared_with", string(shared)).
		Set("updated_at", f.UpdatedAt).
		Where(entsql.And(
			entsql.EQ("workspace_id", f.WorkspaceID.String()),
			entsql.EQ("id", f.ID.String()),
		)).
		Query()
	return s.exec(ctx, query, args)
}

// DeleteFilter removes a saved filter.
func (s *Store) DeleteFilter(ctx context.Context, tenantID, id uuid.UUID) error {
	query, args := builder().
		Delete(TableFilters).
		Where(entsql.And(
			entsql.EQ("workspace_id", tenantID.String()),
			entsql.EQ("id", id.String()),
		)).
		Query()
	return s.exec(ctx, query, args)
}

// ListFilters returns the owner's filters and, when includeShared is set,
// filters owned by others in the same tenant whose shared_with is
// non-empty. Never crosses the tenant boundary.
func (s *Store) ListFilters(ctx context.Context, tenantID, ownerID uuid.UUID, includeShared bool) ([]*SavedFilter, error) {
	t := entsql.Table(TableFilters)
	own := entsql.EQ(t.C("owner_id"), ownerID.String())

	visible := own
	if includeShared {
		sharedByOthers := entsql.And(
			entsql.NEQ(t.C("owner_id"), ownerID.String()),
			entsql.NEQ(t.C("shared_with"), "[]"),
			entsql.NEQ(t.C("shared_with"), ""),
		)
		visible = entsql.Or(own, sharedByOthers)
	}

	sel := s.filterSelector(tenantID).
		Where(visible).
		OrderBy(entsql.Asc(t.C("name")), entsql.Asc(t.C("id")))
	return s.queryFilters(ctx, sel)
}

func (s *Store) filterSelector(tenantID uuid.UUID) *entsql.Selector {
	t := entsql.Table(TableFilters)
	cols := make([]string, len(filterColumns))
	for i, c := range filterColumns {
		cols[i] = t.C(c)
	}
	return builder().
		Select(cols...).
		From(t).
		Where(entsql.EQ(t.C("workspace_id"), tenantID.String()))
}

func (s *Store) queryFilters(ctx context.Context, sel *entsql.Selector) ([]*SavedFilter, error) {
	rows, err := s.queryRows(ctx, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFilters(rows)
}

func scanFilters(rows *sql.Rows) ([]*SavedFilter, error) {
	var out []*SavedFilter
	for rows.Next() {
		var (
			f             SavedFilter
			id, ws, owner string
			shared        string
		)
		if err := rows.Scan(&id, &ws, &owner, &f.Name, &f.Query, &shared, &f.CreatedAt, &f.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning filter: %w", err)
		}
		var err error
		if f.ID, err = scanID(id); err != nil {
			return nil, err
		}
		if f.WorkspaceID, err = scanID(ws); err != nil {
			return nil, err
		}
		if f.OwnerID, err = scanID(owner); err != nil {
			return nil, err
		}
		if shared != "" {
			if err := json.Unmarshal([]byte(shared), &f.SharedWith); err != nil {
				return nil, fmt.Errorf("decoding shared_with: %w", err)
			}
		}
		out = append(out, &f)
	}
	return out, rows.Err()
}
