package store

import "context"

// Table names shared with the query layer.
const (
	TableIssues     = "issues"
	TableStatuses   = "statuses"
	TableUsers      = "users"
	TablePriorities = "priorities"
	TableProjects   = "projects"
	TableFilters    = "saved_filters"
)

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS statuses (
		id           TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL,
		name         TEXT NOT NULL,
		UNIQUE (workspace_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id           TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL,
		name         TEXT NOT NULL,
		email        TEXT NOT NULL,
		UNIQUE (workspace_id, email)
	)`,
	`CREATE TABLE IF NOT EXISTS priorities (
		id           TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL,
		name         TEXT NOT NULL,
		rank         INTEGER NOT NULL DEFAULT 0,
		UNIQUE (workspace_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id           TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL,
		name         TEXT NOT NULL,
		UNIQUE (workspace_id, name)
	)`,
	`CREATE TABLE IF NOT EXISTS issues (
		id           TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL,
		title        TEXT NOT NULL,
		description  TEXT NOT NULL DEFAULT '',
		status_id    TEXT NOT NULL REFERENCES statuses (id),
		assignee_id  TEXT REFERENCES users (id),
		priority_id  TEXT REFERENCES priorities (id),
		project_id   TEXT REFERENCES projects (id),
		created_at   TIMESTAMP NOT NULL,
		updated_at   TIMESTAMP NOT NULL,
		deleted_at   TIMESTAMP
	)`,
	`CREATE INDEX IF NOT EXISTS issues_workspace_live
		ON issues (workspace_id, created_at DESC)
		WHERE deleted_at IS NULL`,
	`CREATE TABLE IF NOT EXISTS saved_filters (
		id           TEXT PRIMARY KEY,
		workspace_id TEXT NOT NULL,
		owner_id     TEXT NOT NULL,
		name         TEXT NOT NULL,
		query        TEXT NOT NULL,
		shared_with  TEXT NOT NULL DEFAULT '[]',
		created_at   TIMESTAMP NOT NULL,
		updated_at   TIMESTAMP NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS saved_filters_workspace
		ON saved_filters (workspace_id, owner_id)`,
}

// Migrate creates the schema. Statements are idempotent so startup can run
// them unconditionally.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range migrations {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	s.log.Debug().Int("statements", len(migrations)).Msg("schema migrated")
	return nil
}
