// Package session persists completed render event logs. A session is one
// buffered log captured from a provider driven to completion; replaying it
// later onto any sink reproduces the identical event sequence, which makes
// stored sessions useful for debugging output pipelines and for verifying
// replay determinism.
package session

import (
	"context"
	"database/sql"
	_ "embed"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Store provides durable storage for recorded render sessions.
// Uses SQLite with WAL mode for concurrent read access.
type Store struct {
	db *sql.DB
}

// Session describes one recorded render.
type Session struct {
	// Token uniquely identifies the session. Tokens are UUIDv7 in
	// production, fixed strings in tests.
	Token string

	// Name is the script or template name the session was recorded from.
	Name string

	// CreatedAt is the recording time.
	CreatedAt time.Time
}

// Open creates or opens a SQLite database at the given path and applies the
// schema. Idempotent; safe to call on an existing database.
//
// The database is configured with WAL mode for concurrent reads, a busy
// timeout for lock contention, and foreign key enforcement.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open session store: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect session store: %w", err)
	}

	// SQLite supports one writer at a time.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// ListSessions returns all recorded sessions, oldest first. UUIDv7 tokens
// sort by creation time, so ordering by token gives a stable chronological
// listing even when created_at collides.
func (s *Store) ListSessions(ctx context.Context) ([]Session, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT token, name, created_at
		FROM sessions
		ORDER BY created_at ASC, token ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	defer rows.Close()

	var sessions []Session
	for rows.Next() {
		var sess Session
		var created int64
		if err := rows.Scan(&sess.Token, &sess.Name, &created); err != nil {
			return nil, fmt.Errorf("list sessions: %w", err)
		}
		sess.CreatedAt = time.Unix(created, 0).UTC()
		sessions = append(sessions, sess)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list sessions: %w", err)
	}
	return sessions, nil
}
