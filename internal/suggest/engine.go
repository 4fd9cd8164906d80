// Package suggest provides field-scoped autocomplete candidates for the
// search UI.
package suggest

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/lodestar-hq/lodestar/internal/store"
)

// Field scopes a suggestion request to one candidate category.
type Field string

const (
	FieldStatus   Field = "status"
	FieldAssignee Field = "assignee"
	FieldPriority Field = "priority"
	FieldProject  Field = "project"
)

// Valid reports whether f names a known category.
func (f Field) Valid() bool {
	switch f {
	case FieldStatus, FieldAssignee, FieldPriority, FieldProject:
		return true
	}
	return false
}

// Per-category caps: scoped requests get a fuller list, unscoped requests
// are capped lower so the aggregate stays bounded.
const (
	scopedCap   = 10
	unscopedCap = 5
)

// Set holds ranked candidates per category. With a field scope, exactly one
// list is populated; the others stay empty without touching the store.
type Set struct {
	Statuses   []*store.Status   `json:"statuses"`
	Users      []*store.User     `json:"users"`
	Priorities []*store.Priority `json:"priorities"`
	Projects   []*store.Project  `json:"projects"`
}

// Engine answers suggestion lookups. Read-only and side-effect free.
type Engine struct {
	store *store.Store
}

// NewEngine creates a suggestion engine over the record store.
func NewEngine(st *store.Store) *Engine {
	return &Engine{store: st}
}

// Suggest matches partial case-insensitively against candidate display
// names (and, for users, email). An empty field queries all categories.
func (e *Engine) Suggest(ctx context.Context, tenantID uuid.UUID, partial string, field Field) (*Set, error) {
	set := &Set{
		Statuses:   []*store.Status{},
		Users:      []*store.User{},
		Priorities: []*store.Priority{},
		Projects:   []*store.Project{},
	}

	if field != "" {
		if !field.Valid() {
			return nil, fmt.Errorf("unknown suggestion field '%s'", field)
		}
		var err error
		switch field {
		case FieldStatus:
			set.Statuses, err = e.store.MatchStatuses(ctx, tenantID, partial, scopedCap)
		case FieldAssignee:
			set.Users, err = e.store.MatchUsers(ctx, tenantID, partial, scopedCap)
		case FieldPriority:
			set.Priorities, err = e.store.MatchPriorities(ctx, tenantID, partial, scopedCap)
		case FieldProject:
			set.Projects, err = e.store.MatchProjects(ctx, tenantID, partial, scopedCap)
		}
		if err != nil {
			return nil, err
		}
		return normalize(set), nil
	}

	var err error
	if set.Statuses, err = e.store.MatchStatuses(ctx, tenantID, partial, unscopedCap); err != nil {
		return nil, err
	}
	if set.Users, err = e.store.MatchUsers(ctx, tenantID, partial, unscopedCap); err != nil {
		return nil, err
	}
	if set.Priorities, err = e.store.MatchPriorities(ctx, tenantID, partial, unscopedCap); err != nil {
		return nil, err
	}
	if set.Projects, err = e.store.MatchProjects(ctx, tenantID, partial, unscopedCap); err != nil {
		return nil, err
	}
	return normalize(set), nil
}

// normalize keeps empty categories as empty slices so responses always
// carry all four lists.
func normalize(set *Set) *Set {
	if set.Statuses == nil {
		set.Statuses = []*store.Status{}
	}
	if set.Users == nil {
		set.Users = []*store.User{}
	}
	if set.Priorities == nil {
		set.Priorities = []*store.Priority{}
	}
	if set.Projects == nil {
		set.Projects = []*store.Project{}
	}
	return set
}
