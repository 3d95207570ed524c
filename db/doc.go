// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db handles the database connection, schema and session store.

# Connection

Open supports SQLite (modernc.org/sqlite, the default) and PostgreSQL
(lib/pq). Both accept the same $N placeholders:

	conn, err := db.Open(cfg.DatabaseType, cfg.DatabaseURL)

# Schema Creation

CreateSchema initializes all required tables:

	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}

Safe to call multiple times - uses IF NOT EXISTS for all tables and indexes.

# Tables

  - voting_session: Session metadata and owner address
  - session_event: The journal, one row per accepted operation, carrying
    the operation arguments and the emitted event as JSON

	voting_session 1──* session_event

session_event is keyed by (session_id, seq). Foreign keys use
ON DELETE CASCADE.

# Store

Store writes and reads both tables. Store.Journal adapts a session's
rows to workflow.Journal, and Store.Entries loads them back for replay.
*/
package db
