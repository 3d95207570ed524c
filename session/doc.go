// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package session keeps one workflow engine per voting session. Every
// engine journals to the db store, logs with its session ID and reports
// events to the Prometheus metrics; Restore rebuilds all engines from their
// journals at startup.
package session
