// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Vote API server.

Quickly Vote runs administrator-driven voting sessions. Each session walks
a fixed workflow (voters registration, proposals registration, voting,
tally) and elects the proposal with the most votes.

# Starting the Server

The server reads CLI flags, the environment and an optional .env file:

	ADMIN_KEY_SALT=... DATABASE_URL=votes.db go run .

Or with flags:

	go run . -p 3318 -t postgres -d "postgres://..." -admin-salt secret

# Configuration

Required settings:

  - DATABASE_URL (-d): SQLite path or PostgreSQL connection string
  - ADMIN_KEY_SALT (-admin-salt): Secret for admin key HMAC

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - DATABASE_TYPE (-t): sqlite or postgres (default: sqlite)
  - LOG_LEVEL (-log-level), LOG_FORMAT (-log-format)
  - METRICS_NAMESPACE: Prometheus namespace (default: quickly_vote)

# Architecture

  - workflow: The voting state machine, its events and journal
  - session: Live sessions, persisted and restored through db
  - handlers: HTTP request handlers per resource
  - router: Route definitions using Go 1.22+ routing
  - middleware: CORS, logging, metrics, JSON helpers
  - models: Request/response types
  - metrics: Prometheus collectors
  - auth: Admin keys and address validation
  - db: Schema and the session/journal store
  - cliparse: Configuration parsing

On startup every stored session is rebuilt by replaying its journal.
*/
package main
