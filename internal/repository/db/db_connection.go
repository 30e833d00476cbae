package db

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// InitDB opens/creates a SQLite DB file and ensures tables exist.
func InitDB(path string) (*sql.DB, error) {
	db, err := sql.Open(sqliteDriverName, path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite at %q: %w", path, err)
	}

	// single writer: the watcher loop
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA journal_mode = WAL;",
		"PRAGMA foreign_keys = ON;",
		"PRAGMA busy_timeout = 5000;",
	} {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("set %s: %w", pragma, err)
		}
	}

	if err := ensureSchema(db); err != nil {
		_ = db.Close()
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping sqlite: %w", err)
	}

	return db, nil
}

const sqliteDriverName = "sqlite"

const schemaDoorState = `
CREATE TABLE IF NOT EXISTS door_state (
    id INTEGER PRIMARY KEY CHECK (id = 1),
    observation_id TEXT NOT NULL,
    observed_at TIMESTAMP NOT NULL,
    state TEXT NOT NULL,
    hour INTEGER NOT NULL,
    minute INTEGER NOT NULL,
    in_window BOOLEAN NOT NULL,
    notified INTEGER NOT NULL,
    failed INTEGER NOT NULL,
    error TEXT
);
`

const schemaObservations = `
CREATE TABLE IF NOT EXISTS observations (
    id TEXT PRIMARY KEY,
    observed_at TIMESTAMP NOT NULL,
    state TEXT NOT NULL,
    hour INTEGER NOT NULL,
    minute INTEGER NOT NULL,
    in_window BOOLEAN NOT NULL,
    notified INTEGER NOT NULL,
    failed INTEGER NOT NULL,
    error TEXT
);
`

const schemaObservationsIndex = `
CREATE INDEX IF NOT EXISTS idx_observations_observed_at ON observations (observed_at);
`

const schemaNotifications = `
CREATE TABLE IF NOT EXISTS notifications (
    id TEXT PRIMARY KEY,
    observation_id TEXT NOT NULL REFERENCES observations (id) ON DELETE CASCADE,
    recipient TEXT NOT NULL,
    provider TEXT NOT NULL,
    delivered BOOLEAN NOT NULL,
    error TEXT,
    attempted_at TIMESTAMP NOT NULL
);
`

func ensureSchema(db *sql.DB) error {
	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("begin schema transaction: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	for i, stmt := range []string{
		schemaDoorState,
		schemaObservations,
		schemaObservationsIndex,
		schemaNotifications,
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("apply schema statement %d: %w", i+1, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema transaction: %w", err)
	}
	return nil
}
