package devtools

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"

	"github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Schema versions:
// 0 - dispatches table
// 1 - index on dispatches(kind) for trace filtering
const currentSchemaVersion = 1

var (
	// ErrNotFound is returned when a session or seq has no recorded dispatch.
	ErrNotFound = errors.New("not found")

	// ErrConflict is returned when a different action is already recorded at
	// the same (session, seq).
	ErrConflict = errors.New("dispatch already recorded at this position")
)

// Log is the SQLite dispatch log. It records every applied dispatch of a
// store as one row keyed by (session, seq) and reads them back for trace,
// replay and jump.
//
// A Log is a store.Recorder; pass it to store.WithRecorder. All methods are
// safe for concurrent use.
type Log struct {
	db *sql.DB
}

// Open creates or opens a dispatch log at path. ":memory:" gives a private
// in-memory log. Applies required pragmas and migrations automatically.
//
// The database is configured with:
//   - WAL mode so trace and replay can read while a store records
//   - NORMAL synchronous mode
//   - 5-second busy timeout for lock contention
//   - a single connection, which also keeps ":memory:" logs alive
//
// Safe to call on an existing file; migrations run only up to the current
// schema version.
func Open(path string) (*Log, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open dispatch log: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect dispatch log: %w", err)
	}

	// One connection: SQLite has a single writer, and every new connection
	// to ":memory:" would be a new, empty database.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if err := applySchema(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Log{db: db}, nil
}

// Close closes the database.
func (l *Log) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

func applySchema(db *sql.DB) error {
	if _, err := db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	if err := runMigrations(db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// runMigrations applies incremental migrations based on PRAGMA user_version.
func runMigrations(db *sql.DB) error {
	var version int
	if err := db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		return fmt.Errorf("get user_version: %w", err)
	}

	if version < 1 {
		if _, err := db.Exec(`
			CREATE INDEX IF NOT EXISTS idx_dispatches_kind
			ON dispatches(kind)
		`); err != nil {
			return fmt.Errorf("migrate to v1: %w", err)
		}
	}

	if _, err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentSchemaVersion)); err != nil {
		return fmt.Errorf("set user_version: %w", err)
	}
	return nil
}

// schemaVersion returns PRAGMA user_version. Used by tests.
func (l *Log) schemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := l.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("get user_version: %w", err)
	}
	return version, nil
}

// isUniqueViolation reports whether err is a SQLite UNIQUE constraint failure.
func isUniqueViolation(err error) bool {
	var sqliteErr sqlite3.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique
	}
	return false
}
