// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/session"
)

// Test accounts. TestOwner administers sessions created by CreateTestSession.
const (
	TestOwner  = "0x00000000000000000000000000000000000000a1"
	TestVoter1 = "0x00000000000000000000000000000000000000b2"
	TestVoter2 = "0x00000000000000000000000000000000000000c3"
	TestVoter3 = "0x00000000000000000000000000000000000000d4"
)

// SetupTestDB creates a fresh SQLite database with the full schema in a
// per-test temp directory
func SetupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "test.db")
	conn, err := db.Open("sqlite", path)
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}
	t.Cleanup(func() { conn.Close() })

	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Failed to create schema: %v", err)
	}

	return conn
}

// GetTestConfig returns a standard test configuration
func GetTestConfig() cliparse.Config {
	return cliparse.Config{
		Port:             3318,
		DatabaseType:     "sqlite",
		DatabaseURL:      ":memory:",
		AdminKeySalt:     "test-admin-salt",
		LogLevel:         "error",
		LogFormat:        "text",
		MetricsNamespace: "test",
	}
}

// NewTestRegistry returns a session registry over conn with its own metrics
func NewTestRegistry(t *testing.T, conn *sql.DB) (*session.Registry, *metrics.Metrics) {
	t.Helper()

	m := metrics.NewMetrics("test", nil)
	logger := slog.New(slog.NewTextHandler(newTestWriter(t), &slog.HandlerOptions{Level: slog.LevelWarn}))
	return session.NewRegistry(db.NewStore(conn), m, logger), m
}

// CreateTestSession creates a session owned by TestOwner and returns its ID
// and admin key
func CreateTestSession(t *testing.T, reg *session.Registry, cfg cliparse.Config) (sessionID, adminKey string) {
	t.Helper()

	s, err := reg.Create(context.Background(), "Test Session", TestOwner)
	if err != nil {
		t.Fatalf("Failed to create test session: %v", err)
	}
	return s.ID, auth.GenerateAdminKey(s.ID, cfg.AdminKeySalt)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// AdminHeaders returns the headers proving the session administrator
func AdminHeaders(adminKey string) map[string]string {
	return map[string]string{"X-Admin-Key": adminKey}
}

// CallerHeaders returns the headers naming a caller address
func CallerHeaders(address string) map[string]string {
	return map[string]string{"X-Caller-Address": address}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}

// testWriter routes log output through t.Log so it only shows on failure.
// Once the test has finished, output is dropped instead, since t.Log
// panics when called after completion.
type testWriter struct {
	t    *testing.T
	mu   sync.Mutex
	done bool
}

func newTestWriter(t *testing.T) *testWriter {
	w := &testWriter{t: t}
	t.Cleanup(func() {
		w.mu.Lock()
		w.done = true
		w.mu.Unlock()
	})
	return w
}

func (w *testWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.done {
		w.t.Log(string(bytes.TrimRight(p, "\n")))
	}
	return len(p), nil
}
