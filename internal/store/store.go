// Package store is the record store for the search subsystem: issues and
// their related records (statuses, users, priorities, projects) plus saved
// filters, backed by SQLite. Queries are rendered through the ent SQL
// builder; the store performs no retries and holds no state beyond the
// database handle.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"entgo.io/ent/dialect"
	entsql "entgo.io/ent/dialect/sql"
	"github.com/rs/zerolog"
	_ "modernc.org/sqlite"
)

// ErrNotFound indicates the referenced record does not exist within the
// caller's tenant.
var ErrNotFound = errors.New("record not found")

// Store wraps the shared database handle. It is safe for concurrent use;
// all reads are single-statement transactional reads.
type Store struct {
	db  *sql.DB
	log zerolog.Logger
}

// New creates a store over an open database handle.
func New(db *sql.DB, log zerolog.Logger) *Store {
	return &Store{db: db, log: log.With().Str("component", "store").Logger()}
}

// Open opens a SQLite database with the pragmas the store requires.
func Open(dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// modernc SQLite handles one writer; a single connection avoids
	// SQLITE_BUSY under concurrent requests.
	db.SetMaxOpenConns(1)
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}
	return db, nil
}

// builder returns a SQLite-dialect SQL builder.
func builder() *entsql.DialectBuilder {
	return entsql.Dialect(dialect.SQLite)
}

// queryRows runs a selector and returns its rows.
func (s *Store) queryRows(ctx context.Context, sel *entsql.Selector) (*sql.Rows, error) {
	query, args := sel.Query()
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	return rows, nil
}

// queryCount runs a COUNT selector and returns the single integer result.
func (s *Store) queryCount(ctx context.Context, sel *entsql.Selector) (int, error) {
	query, args := sel.Query()
	var n int
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count failed: %w", err)
	}
	return n, nil
}

func (s *Store) exec(ctx context.Context, query string, args []any) error {
	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("exec failed: %w", err)
	}
	return nil
}
