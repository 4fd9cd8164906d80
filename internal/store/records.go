package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Issue is one record in the searchable set. DeletedAt is the soft-delete
// marker; deleted issues are invisible to every query in this package.
type Issue struct {
	ID          uuid.UUID  `json:"id"`
	WorkspaceID uuid.UUID  `json:"workspace_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StatusID    uuid.UUID  `json:"status_id"`
	AssigneeID  *uuid.UUID `json:"assignee_id,omitempty"`
	PriorityID  *uuid.UUID `json:"priority_id,omitempty"`
	ProjectID   *uuid.UUID `json:"project_id,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	DeletedAt   *time.Time `json:"-"`
}

// Status is a workflow state an issue can be in.
type Status struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"-"`
	Name        string    `json:"name"`
}

// User is a workspace member; suggestion lookups match name and email.
type User struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"-"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
}

// Priority is an issue urgency level; Rank orders suggestions.
type Priority struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"-"`
	Name        string    `json:"name"`
	Rank        int       `json:"rank"`
}

// Project groups issues.
type Project struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"-"`
	Name        string    `json:"name"`
}

// SavedFilter is a persisted named query. Query is the verbatim LQL string,
// re-parsed whenever the filter runs. SharedWith is a set of scope tags;
// non-empty means visible to other members of the workspace.
type SavedFilter struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID uuid.UUID `json:"workspace_id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Query       string    `json:"query"`
	SharedWith  []string  `json:"shared_with"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Shared reports whether the filter is visible beyond its owner.
func (f *SavedFilter) Shared() bool {
	return len(f.SharedWith) > 0
}

// ── scan helpers ────────────────────────────────────────────────────────────

func nullableID(id *uuid.UUID) any {
	if id == nil {
		return nil
	}
	return id.String()
}

func nullableTime(t *time.Time) any {
	if t == nil {
		return nil
	}
	return *t
}

func scanID(s string) (uuid.UUID, error) {
	return uuid.Parse(s)
}

func scanNullableID(ns sql.NullString) (*uuid.UUID, error) {
	if !ns.Valid {
		return nil, nil
	}
	id, err := uuid.Parse(ns.String)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
