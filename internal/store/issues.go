package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// issueColumns is the scan order for issue rows.
var issueColumns = []string{
	"id", "workspace_id", "title", "description",
	"status_id", "assignee_id", "priority_id", "project_id",
	"created_at", "updated_at", "deleted_at",
}

// IssueSelector returns a selector over all issue columns with tenant and
// liveness scoping already applied. Every issue read goes through this, so
// the scoping is injected, never optional.
func (s *Store) IssueSelector(tenantID uuid.UUID) *entsql.Selector {
	t := entsql.Table(TableIssues)
	cols := make([]string, len(issueColumns))
	for i, c := range issueColumns {
		cols[i] = t.C(c)
	}
	return builder().
		Select(cols...).
		From(t).
		Where(entsql.And(
			entsql.EQ(t.C("workspace_id"), tenantID.String()),
			entsql.IsNull(t.C("deleted_at")),
		))
}

// IssueCountSelector returns a COUNT(*) selector with the same scoping as
// IssueSelector.
func (s *Store) IssueCountSelector(tenantID uuid.UUID) *entsql.Selector {
	t := entsql.Table(TableIssues)
	return builder().
		Select(entsql.Count("*")).
		From(t).
		Where(entsql.And(
			entsql.EQ(t.C("workspace_id"), tenantID.String()),
			entsql.IsNull(t.C("deleted_at")),
		))
}

// QueryIssues executes an issue selector and scans the result rows.
func (s *Store) QueryIssues(ctx context.Context, sel *entsql.Selector) ([]*Issue, error) {
	rows, err := s.queryRows(ctx, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanIssues(rows)
}

// QueryIssueCount executes a COUNT selector.
func (s *Store) QueryIssueCount(ctx context.Context, sel *entsql.Selector) (int, error) {
	return s.queryCount(ctx, sel)
}

// IssueByID fetches a single live issue within the tenant, or ErrNotFound.
func (s *Store) IssueByID(ctx context.Context, tenantID, id uuid.UUID) (*Issue, error) {
	t := entsql.Table(TableIssues)
	sel := s.IssueSelector(tenantID).Where(entsql.EQ(t.C("id"), id.String()))
	issues, err := s.QueryIssues(ctx, sel)
	if err != nil {
		return nil, err
	}
	if len(issues) == 0 {
		return nil, ErrNotFound
	}
	return issues[0], nil
}

// InsertIssue persists a new issue, filling id and timestamps when unset.
func (s *Store) InsertIssue(ctx context.Context, is *Issue) error {
	if is.ID == uuid.Nil {
		is.ID = uuid.New()
	}
	now := time.Now().UTC()
	if is.CreatedAt.IsZero() {
		is.CreatedAt = now
	}
	if is.UpdatedAt.IsZero() {
		is.UpdatedAt = is.CreatedAt
	}
	query, args := builder().
		Insert(TableIssues).
		Columns(issueColumns...).
		Values(
			is.ID.String(), is.WorkspaceID.String(), is.Title, is.Description,
			is.StatusID.String(), nullableID(is.AssigneeID), nullableID(is.PriorityID), nullableID(is.ProjectID),
			is.CreatedAt, is.UpdatedAt, nullableTime(is.DeletedAt),
		).
		Query()
	return s.exec(ctx, query, args)
}

// SoftDeleteIssue marks an issue deleted; it disappears from every search.
func (s *Store) SoftDeleteIssue(ctx context.Context, tenantID, id uuid.UUID) error {
	query, args := builder().
		Update(TableIssues).
		Set("deleted_at", time.Now().UTC()).
		Where(entsql.And(
			entsql.EQ("workspace_id", tenantID.String()),
			entsql.EQ("id", id.String()),
		)).
		Query()
	return s.exec(ctx, query, args)
}

// QuickSearchIssues matches term as a case-insensitive substring of title
// or description, most recent first. Bounded, not paginated.
func (s *Store) QuickSearchIssues(ctx context.Context, tenantID uuid.UUID, term string, limit int) ([]*Issue, error) {
	t := entsql.Table(TableIssues)
	sel := s.IssueSelector(tenantID).
		Where(entsql.Or(
			entsql.ContainsFold(t.C("title"), term),
			entsql.ContainsFold(t.C("description"), term),
		)).
		OrderBy(entsql.Desc(t.C("created_at")), entsql.Desc(t.C("id"))).
		Limit(limit)
	return s.QueryIssues(ctx, sel)
}

func scanIssues(rows *sql.Rows) ([]*Issue, error) {
	var issues []*Issue
	for rows.Next() {
		var (
			is                   Issue
			id, workspaceID      string
			statusID             string
			assignee, prio, proj sql.NullString
			deleted              sql.NullTime
		)
		if err := rows.Scan(
			&id, &workspaceID, &is.Title, &is.Description,
			&statusID, &assignee, &prio, &proj,
			&is.CreatedAt, &is.UpdatedAt, &deleted,
		); err != nil {
			return nil, fmt.Errorf("scanning issue: %w", err)
		}
		var err error
		if is.ID, err = scanID(id); err != nil {
			return nil, err
		}
		if is.WorkspaceID, err = scanID(workspaceID); err != nil {
			return nil, err
		}
		if is.StatusID, err = scanID(statusID); err != nil {
			return nil, err
		}
		if is.AssigneeID, err = scanNullableID(assignee); err != nil {
			return nil, err
		}
		if is.PriorityID, err = scanNullableID(prio); err != nil {
			return nil, err
		}
		if is.ProjectID, err = scanNullableID(proj); err != nil {
			return nil, err
		}
		if deleted.Valid {
			d := deleted.Time
			is.DeletedAt = &d
		}
		issues = append(issues, &is)
	}
	return issues, rows.Err()
}
