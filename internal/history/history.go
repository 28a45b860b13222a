// Package history appends a write-only audit row per compilation to a
// local sqlite database. It is deliberately not an incremental-build
// cache: nothing here is ever read back to skip work, only to answer
// "what was compiled, when, with what outcome" after the fact.
package history

import (
	"database/sql"
	"fmt"
	"time"

	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS compile_history (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	session_id TEXT NOT NULL,
	source_file TEXT NOT NULL,
	backend TEXT NOT NULL,
	diagnostic_count INTEGER NOT NULL,
	succeeded INTEGER NOT NULL,
	started_at TEXT NOT NULL,
	duration_ms INTEGER NOT NULL
);
`

// Store wraps the sqlite connection backing the audit log.
type Store struct {
	db *sql.DB
}

// Open creates/opens the sqlite database at path and ensures its schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("history: open %s: %w", path, err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("history: migrate: %w", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Record is one completed compilation.
type Record struct {
	SessionID       string
	SourceFile      string
	Backend         string
	DiagnosticCount int
	Succeeded       bool
	StartedAt       time.Time
	Duration        time.Duration
}

// Append inserts r as a new row. Failures here never abort a
// compilation — history is an audit aid, not a build dependency — so
// callers typically log the error and continue.
func (s *Store) Append(r Record) error {
	_, err := s.db.Exec(
		`INSERT INTO compile_history
			(session_id, source_file, backend, diagnostic_count, succeeded, started_at, duration_ms)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		r.SessionID, r.SourceFile, r.Backend, r.DiagnosticCount, boolToInt(r.Succeeded),
		r.StartedAt.UTC().Format(time.RFC3339Nano), r.Duration.Milliseconds(),
	)
	return err
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// DefaultPath returns $XDG_STATE_HOME/azc/history.db, falling back to
// ~/.local/state/azc/history.db when XDG_STATE_HOME is unset.
func DefaultPath(xdgStateHome, home string) string {
	base := xdgStateHome
	if base == "" {
		base = home + "/.local/state"
	}
	return base + "/azc/history.db"
}
