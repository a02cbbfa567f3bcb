package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"
)

const currentVersion = 1

type Store struct {
	db *sql.DB
}

// New opens (or creates) the SQLite database at dbPath and runs migrations.
func New(dbPath string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	db.SetMaxOpenConns(1)

	// Configure pragmas.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys=ON",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.Exec(p); err != nil {
			db.Close()
			return nil, fmt.Errorf("exec pragma %q: %w", p, err)
		}
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

// NewMemory creates an in-memory store for testing.
func NewMemory() (*Store, error) {
	return New(":memory:")
}

func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	var version int
	err := s.db.QueryRow("PRAGMA user_version").Scan(&version)
	if err != nil {
		return fmt.Errorf("read user_version: %w", err)
	}

	if version >= currentVersion {
		return nil
	}

	if version < 1 {
		if err := s.migrateV1(); err != nil {
			return err
		}
	}

	_, err = s.db.Exec(fmt.Sprintf("PRAGMA user_version = %d", currentVersion))
	return err
}

func (s *Store) migrateV1() error {
	const ddl = `
	CREATE TABLE IF NOT EXISTS habits (
		id              TEXT PRIMARY KEY,
		title           TEXT NOT NULL,
		description     TEXT NOT NULL DEFAULT '',
		category        TEXT NOT NULL DEFAULT 'Academic',
		goal_frequency  INTEGER NOT NULL DEFAULT 1,
		archived        INTEGER NOT NULL DEFAULT 0,
		created_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		updated_at      TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now'))
	);

	CREATE TABLE IF NOT EXISTS habit_completions (
		id            INTEGER PRIMARY KEY AUTOINCREMENT,
		habit_id      TEXT NOT NULL REFERENCES habits(id),
		completed_on  TEXT NOT NULL,
		created_at    TEXT NOT NULL DEFAULT (strftime('%Y-%m-%dT%H:%M:%SZ','now')),
		UNIQUE(habit_id, completed_on)
	);

	CREATE INDEX IF NOT EXISTS idx_completions_day ON habit_completions(completed_on);

	CREATE TABLE IF NOT EXISTS focus_sessions (
		id                INTEGER PRIMARY KEY AUTOINCREMENT,
		subject           TEXT NOT NULL DEFAULT 'Untitled Session',
		duration_minutes  INTEGER NOT NULL CHECK (duration_minutes >= 1),
		kind              TEXT NOT NULL DEFAULT 'work',
		completed_at      TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sessions_completed ON focus_sessions(completed_at);

	CREATE TABLE IF NOT EXISTS settings (
		key   TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);

	INSERT OR IGNORE INTO settings (key, value) VALUES
		('pomodoro_work_minutes',  '25'),
		('pomodoro_break_minutes', '5'),
		('sound_enabled',          'true');
	`
	if _, err := s.db.Exec(ddl); err != nil {
		return err
	}
	_, err := s.db.Exec(
		`INSERT OR IGNORE INTO settings (key, value) VALUES ('owner_id', ?)`, uuid.NewString(),
	)
	return err
}

// DefaultDBPath returns ~/.config/studytrack/studytrack.db
func DefaultDBPath() (string, error) {
	cfg, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(cfg, "studytrack", "studytrack.db"), nil
}
