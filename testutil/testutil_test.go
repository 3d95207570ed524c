// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"log/slog"
	"sync"
	"testing"
)

func TestTestWriterAfterCompletion(t *testing.T) {
	var w *testWriter
	release := make(chan struct{})
	var wg sync.WaitGroup

	t.Run("owner", func(t *testing.T) {
		w = newTestWriter(t)
		if _, err := w.Write([]byte("while running\n")); err != nil {
			t.Fatalf("Write: %v", err)
		}

		// A logger goroutine that outlives the subtest
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-release
			logger := slog.New(slog.NewTextHandler(w, nil))
			logger.Warn("journal append failed", "session", "late")
		}()
	})

	// The subtest and its cleanups have finished; writing must not panic
	close(release)
	wg.Wait()

	n, err := w.Write([]byte("after completion\n"))
	if err != nil {
		t.Fatalf("Write after completion: %v", err)
	}
	if n != len("after completion\n") {
		t.Errorf("Expected %d bytes reported, got %d", len("after completion\n"), n)
	}
}

func TestNewTestRegistryLogsUnderTest(t *testing.T) {
	conn := SetupTestDB(t)
	reg, m := NewTestRegistry(t, conn)
	if reg == nil || m == nil {
		t.Fatal("Expected a registry and metrics")
	}

	id, key := CreateTestSession(t, reg, GetTestConfig())
	if id == "" || key == "" {
		t.Errorf("Expected a session id and admin key, got %q %q", id, key)
	}
}
