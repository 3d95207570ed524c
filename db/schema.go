// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"database/sql"
	"fmt"

	_ "github.com/lib/pq"
	_ "modernc.org/sqlite"
)

// Open connects to the database of the given type ("sqlite" or "postgres")
// and verifies the connection.
func Open(dbType, url string) (*sql.DB, error) {
	driver := "sqlite"
	if dbType == "postgres" {
		driver = "postgres"
	}

	conn, err := sql.Open(driver, url)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s database: %w", driver, err)
	}

	// SQLite allows one writer; a single connection avoids SQLITE_BUSY
	if driver == "sqlite" {
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to ping %s database: %w", driver, err)
	}
	return conn, nil
}

// CreateSchema creates all tables needed for the application.
// Safe to call multiple times - uses IF NOT EXISTS.
func CreateSchema(db *sql.DB) error {
	_, err := db.Exec(schema)
	if err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}

	return nil
}

const schema = `
-- Voting sessions
CREATE TABLE IF NOT EXISTS voting_session (
    id TEXT PRIMARY KEY,
    title TEXT NOT NULL,
    owner TEXT NOT NULL,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE INDEX IF NOT EXISTS idx_voting_session_owner ON voting_session(owner);

-- Journal of accepted workflow operations, one row per emitted event
CREATE TABLE IF NOT EXISTS session_event (
    session_id TEXT NOT NULL REFERENCES voting_session(id) ON DELETE CASCADE,
    seq BIGINT NOT NULL,
    operation TEXT NOT NULL,
    caller TEXT NOT NULL,
    voter_key TEXT NOT NULL DEFAULT '',
    description TEXT NOT NULL DEFAULT '',
    proposal_id INTEGER NOT NULL DEFAULT 0,
    event_name TEXT NOT NULL,
    event_payload TEXT NOT NULL,
    occurred_at TIMESTAMP NOT NULL,
    PRIMARY KEY (session_id, seq)
);

CREATE INDEX IF NOT EXISTS idx_session_event_name ON session_event(session_id, event_name);
`
