// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	cfg, err := cliparse.ParseFlags(os.Args[1:])

# CLI Flags

	-p           Server port
	-d           Database URL or SQLite path
	-t           Database type (sqlite or postgres)
	-admin-salt  Admin key salt
	-env-file    Dotenv file (default .env, "" disables)
	-log-level   debug, info, warn or error
	-log-format  text or json

# Environment Variables

Flags fall back to environment variables, which may come from the dotenv
file. Variables already set in the process win over the file.

	PORT              → -p
	DATABASE_URL      → -d
	DATABASE_TYPE     → -t
	ADMIN_KEY_SALT    → -admin-salt
	LOG_LEVEL         → -log-level
	LOG_FORMAT        → -log-format
	METRICS_NAMESPACE (no flag)

# Validation

ParseFlags returns an error if DATABASE_URL or ADMIN_KEY_SALT is missing,
or if the database type, log level or log format is unknown.

# Logging

NewLogger builds the slog logger the server installs as default:

	slog.SetDefault(cliparse.NewLogger(cfg, os.Stderr))
*/
package cliparse
