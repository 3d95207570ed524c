// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/danielhkuo/quickly-vote/db"
	"github.com/danielhkuo/quickly-vote/testutil"
	"github.com/danielhkuo/quickly-vote/workflow"
)

func newStore(t *testing.T) *db.Store {
	t.Helper()
	return db.NewStore(testutil.SetupTestDB(t))
}

func insertSession(t *testing.T, s *db.Store, id string, createdAt time.Time) {
	t.Helper()
	err := s.InsertSession(context.Background(), db.SessionRecord{
		ID:        id,
		Title:     "Session " + id,
		Owner:     testutil.TestOwner,
		CreatedAt: createdAt,
	})
	if err != nil {
		t.Fatalf("InsertSession(%s): %v", id, err)
	}
}

func TestCreateSchemaIdempotent(t *testing.T) {
	conn := testutil.SetupTestDB(t)

	// SetupTestDB already created the schema once
	if err := db.CreateSchema(conn); err != nil {
		t.Fatalf("Second CreateSchema failed: %v", err)
	}
}

func TestOpenMissingDirectory(t *testing.T) {
	// A directory that does not exist cannot hold a SQLite file
	_, err := db.Open("sqlite", t.TempDir()+"/missing/dir/test.db")
	if err == nil {
		t.Error("Expected an error opening a database in a missing directory")
	}
}

func TestSessions(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	insertSession(t, s, "b", base.Add(time.Minute))
	insertSession(t, s, "a", base)

	t.Run("get", func(t *testing.T) {
		rec, err := s.GetSession(ctx, "a")
		if err != nil {
			t.Fatalf("GetSession: %v", err)
		}
		if rec.Title != "Session a" || rec.Owner != testutil.TestOwner {
			t.Errorf("Unexpected record %+v", rec)
		}
		if !rec.CreatedAt.Equal(base) {
			t.Errorf("Expected created_at %v, got %v", base, rec.CreatedAt)
		}
	})

	t.Run("get missing", func(t *testing.T) {
		_, err := s.GetSession(ctx, "missing")
		if !errors.Is(err, db.ErrSessionNotFound) {
			t.Errorf("Expected ErrSessionNotFound, got %v", err)
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		err := s.InsertSession(ctx, db.SessionRecord{ID: "a", Title: "x", Owner: testutil.TestOwner, CreatedAt: base})
		if err == nil {
			t.Error("Expected an error inserting a duplicate session")
		}
	})

	t.Run("list oldest first", func(t *testing.T) {
		recs, err := s.ListSessions(ctx)
		if err != nil {
			t.Fatalf("ListSessions: %v", err)
		}
		if len(recs) != 2 || recs[0].ID != "a" || recs[1].ID != "b" {
			t.Errorf("Unexpected order %+v", recs)
		}
	})
}

func TestJournalRoundTrip(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	insertSession(t, s, "s1", time.Now().UTC())
	insertSession(t, s, "s2", time.Now().UTC())

	// Drive a real engine through the store journal
	owner := testutil.TestOwner
	e := workflow.New(owner, workflow.WithJournal(s.Journal("s1")))
	steps := []func() error{
		func() error { return e.RegisterVoter(owner, testutil.TestVoter1) },
		func() error { return e.StartProposalsRegistration(owner) },
		func() error { _, err := e.SubmitProposal(testutil.TestVoter1, "Plant trees"); return err },
		func() error { return e.EndProposalsRegistration(owner) },
		func() error { return e.StartVotingSession(owner) },
		func() error { return e.CastVote(testutil.TestVoter1, 0) },
	}
	for i, step := range steps {
		if err := step(); err != nil {
			t.Fatalf("step %d: %v", i, err)
		}
	}

	entries, err := s.Entries(ctx, "s1")
	if err != nil {
		t.Fatalf("Entries: %v", err)
	}
	if len(entries) != 6 {
		t.Fatalf("Expected 6 entries, got %d", len(entries))
	}
	for i, entry := range entries {
		if entry.Seq != int64(i+1) {
			t.Errorf("Entry %d has seq %d", i, entry.Seq)
		}
	}

	sub := entries[2]
	if sub.Op != workflow.OpSubmitProposal || sub.Description != "Plant trees" || sub.Caller != testutil.TestVoter1 {
		t.Errorf("Unexpected proposal entry %+v", sub)
	}
	if ev, ok := sub.Event.(workflow.ProposalRegistered); !ok || ev.ProposalID != 0 {
		t.Errorf("Unexpected proposal event %#v", sub.Event)
	}
	if ev, ok := entries[5].Event.(workflow.Voted); !ok || ev.Voter != testutil.TestVoter1 {
		t.Errorf("Unexpected vote event %#v", entries[5].Event)
	}

	// Journals are per session
	other, err := s.Entries(ctx, "s2")
	if err != nil {
		t.Fatalf("Entries(s2): %v", err)
	}
	if len(other) != 0 {
		t.Errorf("Expected no entries for s2, got %d", len(other))
	}

	// Replaying the stored journal rebuilds the same state
	restored, err := workflow.Restore(owner, entries)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if restored.Phase() != e.Phase() || restored.Seq() != e.Seq() {
		t.Errorf("Restored %s/%d, want %s/%d", restored.Phase(), restored.Seq(), e.Phase(), e.Seq())
	}
}

func TestDuplicateSeqRejected(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	insertSession(t, s, "s1", time.Now().UTC())

	entry := workflow.Entry{
		Seq:        1,
		Op:         workflow.OpRegisterVoter,
		Caller:     testutil.TestOwner,
		Key:        testutil.TestVoter1,
		Event:      workflow.VoterRegistered{VoterAddress: testutil.TestVoter1},
		OccurredAt: time.Now().UTC(),
	}
	if err := s.AppendEntry(ctx, "s1", entry); err != nil {
		t.Fatalf("AppendEntry: %v", err)
	}
	err := s.AppendEntry(ctx, "s1", entry)
	if err == nil || !strings.Contains(err.Error(), "failed to insert journal entry") {
		t.Errorf("Expected a wrapped insert error for duplicate seq, got %v", err)
	}
}

func TestEvents(t *testing.T) {
	s := newStore(t)
	ctx := context.Background()
	insertSession(t, s, "s1", time.Now().UTC())

	j := s.Journal("s1")
	for i := 1; i <= 3; i++ {
		err := j.Append(workflow.Entry{
			Seq:        int64(i),
			Op:         workflow.OpSubmitProposal,
			Caller:     testutil.TestVoter1,
			ProposalID: i - 1,
			Event:      workflow.ProposalRegistered{ProposalID: i - 1},
			OccurredAt: time.Now().UTC(),
		})
		if err != nil {
			t.Fatalf("Append %d: %v", i, err)
		}
	}

	recs, err := s.Events(ctx, "s1", 1, 10)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(recs) != 2 || recs[0].Seq != 2 || recs[1].Seq != 3 {
		t.Fatalf("Unexpected events %+v", recs)
	}
	if recs[0].Name != workflow.EventProposalRegistered || string(recs[0].Payload) != `{"proposalId":1}` {
		t.Errorf("Unexpected event %s %s", recs[0].Name, recs[0].Payload)
	}

	empty, err := s.Events(ctx, "missing", 0, 10)
	if err != nil {
		t.Fatalf("Events(missing): %v", err)
	}
	if empty == nil || len(empty) != 0 {
		t.Errorf("Expected an empty, non-nil slice, got %#v", empty)
	}
}
