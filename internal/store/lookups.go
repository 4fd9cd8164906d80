package store

import (
	"context"
	"database/sql"
	"fmt"

	entsql "entgo.io/ent/dialect/sql"
	"github.com/google/uuid"
)

// Candidate lookups for the suggestion engine. All are case-insensitive
// substring matches on the display name, tenant-scoped and bounded.

// MatchStatuses returns statuses whose name contains partial.
func (s *Store) MatchStatuses(ctx context.Context, tenantID uuid.UUID, partial string, limit int) ([]*Status, error) {
	t := entsql.Table(TableStatuses)
	sel := builder().
		Select(t.C("id"), t.C("workspace_id"), t.C("name")).
		From(t).
		Where(entsql.EQ(t.C("workspace_id"), tenantID.String())).
		OrderBy(entsql.Asc(t.C("name"))).
		Limit(limit)
	if partial != "" {
		sel.Where(entsql.ContainsFold(t.C("name"), partial))
	}
	rows, err := s.queryRows(ctx, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Status
	for rows.Next() {
		var st Status
		var id, ws string
		if err := rows.Scan(&id, &ws, &st.Name); err != nil {
			return nil, fmt.Errorf("scanning status: %w", err)
		}
		if st.ID, err = scanID(id); err != nil {
			return nil, err
		}
		if st.WorkspaceID, err = scanID(ws); err != nil {
			return nil, err
		}
		out = append(out, &st)
	}
	return out, rows.Err()
}

// MatchUsers returns users whose name or email contains partial.
func (s *Store) MatchUsers(ctx context.Context, tenantID uuid.UUID, partial string, limit int) ([]*User, error) {
	t := entsql.Table(TableUsers)
	sel := builder().
		Select(t.C("id"), t.C("workspace_id"), t.C("name"), t.C("email")).
		From(t).
		Where(entsql.EQ(t.C("workspace_id"), tenantID.String())).
		OrderBy(entsql.Asc(t.C("name"))).
		Limit(limit)
	if partial != "" {
		sel.Where(entsql.Or(
			entsql.ContainsFold(t.C("name"), partial),
			entsql.ContainsFold(t.C("email"), partial),
		))
	}
	rows, err := s.queryRows(ctx, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*User
	for rows.Next() {
		var u User
		var id, ws string
		if err := rows.Scan(&id, &ws, &u.Name, &u.Email); err != nil {
			return nil, fmt.Errorf("scanning user: %w", err)
		}
		if u.ID, err = scanID(id); err != nil {
			return nil, err
		}
		if u.WorkspaceID, err = scanID(ws); err != nil {
			return nil, err
		}
		out = append(out, &u)
	}
	return out, rows.Err()
}

// MatchPriorities returns priorities whose name contains partial, most
// urgent first.
func (s *Store) MatchPriorities(ctx context.Context, tenantID uuid.UUID, partial string, limit int) ([]*Priority, error) {
	t := entsql.Table(TablePriorities)
	sel := builder().
		Select(t.C("id"), t.C("workspace_id"), t.C("name"), t.C("rank")).
		From(t).
		Where(entsql.EQ(t.C("workspace_id"), tenantID.String())).
		OrderBy(entsql.Asc(t.C("rank"))).
		Limit(limit)
	if partial != "" {
		sel.Where(entsql.ContainsFold(t.C("name"), partial))
	}
	rows, err := s.queryRows(ctx, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*Priority
	for rows.Next() {
		var p Priority
		var id, ws string
		if err := rows.Scan(&id, &ws, &p.Name, &p.Rank); err != nil {
			return nil, fmt.Errorf("scanning priority: %w", err)
		}
		if p.ID, err = scanID(id); err != nil {
			return nil, err
		}
		if p.WorkspaceID, err = scanID(ws); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// MatchProjects returns projects whose name contains partial.
func (s *Store) MatchProjects(ctx context.Context, tenantID uuid.UUID, partial string, limit int) ([]*Project, error) {
	t := entsql.Table(TableProjects)
	sel := builder().
		Select(t.C("id"), t.C("workspace_id"), t.C("name")).
		From(t).
		Where(entsql.EQ(t.C("workspace_id"), tenantID.String())).
		OrderBy(entsql.Asc(t.C("name"))).
		Limit(limit)
	if partial != "" {
		sel.Where(entsql.ContainsFold(t.C("name"), partial))
	}
	rows, err := s.queryRows(ctx, sel)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanProjects(rows)
}

func scanProjects(rows *sql.Rows) ([]*Project, error) {
	var out []*Project
	for rows.Next() {
		var p Project
		var id, ws string
		if err := rows.Scan(&id, &ws, &p.Name); err != nil {
			return nil, fmt.Errorf("scanning project: %w", err)
		}
		var err error
		if p.ID, err = scanID(id); err != nil {
			return nil, err
		}
		if p.WorkspaceID, err = scanID(ws); err != nil {
			return nil, err
		}
		out = append(out, &p)
	}
	return out, rows.Err()
}

// ── inserts ─────────────────────────────────────────────────────────────────

// InsertStatus persists a workflow status.
func (s *Store) InsertStatus(ctx context.Context, st *Status) error {
	if st.ID == uuid.Nil {
		st.ID = uuid.New()
	}
	query, args := builder().
		Insert(TableStatuses).
		Columns("id", "workspace_id", "name").
		Values(st.ID.String(), st.WorkspaceID.String(), st.Name).
		Query()
	return s.exec(ctx, query, args)
}

// InsertUser persists a workspace member.
func (s *Store) InsertUser(ctx context.Context, u *User) error {
	if u.ID == uuid.Nil {
		u.ID = uuid.New()
	}
	query, args := builder().
		Insert(TableUsers).
		Columns("id", "workspace_id", "name", "email").
		Values(u.ID.String(), u.WorkspaceID.String(), u.Name, u.Email).
		Query()
	return s.exec(ctx, query, args)
}

// InsertPriority persists a priority level.
func (s *Store) InsertPriority(ctx context.Context, p *Priority) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	query, args := builder().
		Insert(TablePriorities).
		Columns("id", "workspace_id", "name", "rank").
		Values(p.ID.String(), p.WorkspaceID.String(), p.Name, p.Rank).
		Query()
	return s.exec(ctx, query, args)
}

// InsertProject persists a project.
func (s *Store) InsertProject(ctx context.Context, p *Project) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	query, args := builder().
		Insert(TableProjects).
		Columns("id", "workspace_id", "name").
		Values(p.ID.String(), p.WorkspaceID.String(), p.Name).
		Query()
	return s.exec(ctx, query, args)
}
