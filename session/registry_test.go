// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session_test

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/danielhkuo/quickly-vote/session"
	tu "github.com/danielhkuo/quickly-vote/testutil"
	"github.com/danielhkuo/quickly-vote/workflow"
)

func TestCreateAndGet(t *testing.T) {
	conn := tu.SetupTestDB(t)
	reg, m := tu.NewTestRegistry(t, conn)
	ctx := context.Background()

	s, err := reg.Create(ctx, "Budget", tu.TestOwner)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if s.ID == "" || s.Engine == nil || s.Engine.Admin() != tu.TestOwner {
		t.Fatalf("Unexpected session %+v", s)
	}

	got, err := reg.Get(s.ID)
	if err != nil || got != s {
		t.Errorf("Get returned %v, %v", got, err)
	}
	if _, err := reg.Get("missing"); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if got := testutil.ToFloat64(m.SessionsCreated); got != 1 {
		t.Errorf("Expected 1 session created, got %v", got)
	}
	if got := testutil.ToFloat64(m.SessionsByPhase.WithLabelValues("VotersRegistration")); got != 1 {
		t.Errorf("Expected 1 session in VotersRegistration, got %v", got)
	}
}

func TestEngineIsWired(t *testing.T) {
	conn := tu.SetupTestDB(t)
	reg, m := tu.NewTestRegistry(t, conn)
	ctx := context.Background()

	s, err := reg.Create(ctx, "Budget", tu.TestOwner)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := s.Engine.RegisterVoter(tu.TestOwner, tu.TestVoter1); err != nil {
		t.Fatalf("RegisterVoter: %v", err)
	}
	if err := s.Engine.StartProposalsRegistration(tu.TestOwner); err != nil {
		t.Fatalf("StartProposalsRegistration: %v", err)
	}

	// Journal
	events, err := reg.Events(ctx, s.ID, 0, 10)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 2 || events[1].Name != workflow.EventWorkflowStatusChange {
		t.Errorf("Unexpected journaled events %+v", events)
	}

	// Metrics listener
	if got := testutil.ToFloat64(m.VotersRegistered); got != 1 {
		t.Errorf("Expected 1 voter registered, got %v", got)
	}
	if got := testutil.ToFloat64(m.SessionsByPhase.WithLabelValues("VotersRegistration")); got != 0 {
		t.Errorf("Expected 0 sessions left in VotersRegistration, got %v", got)
	}
	if got := testutil.ToFloat64(m.SessionsByPhase.WithLabelValues("ProposalsRegistrationStarted")); got != 1 {
		t.Errorf("Expected 1 session in ProposalsRegistrationStarted, got %v", got)
	}

	if _, err := reg.Events(ctx, "missing", 0, 10); !errors.Is(err, session.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown session events, got %v", err)
	}
}

func TestRestore(t *testing.T) {
	conn := tu.SetupTestDB(t)
	reg, _ := tu.NewTestRegistry(t, conn)
	ctx := context.Background()

	a, err := reg.Create(ctx, "First", tu.TestOwner)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	b, err := reg.Create(ctx, "Second", tu.TestVoter3)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	e := a.Engine
	mustNil := func(step string, err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("%s: %v", step, err)
		}
	}
	mustNil("register 1", e.RegisterVoter(tu.TestOwner, tu.TestVoter1))
	mustNil("register 2", e.RegisterVoter(tu.TestOwner, tu.TestVoter2))
	mustNil("start proposals", e.StartProposalsRegistration(tu.TestOwner))
	_, err = e.SubmitProposal(tu.TestVoter1, "Plant trees")
	mustNil("proposal 0", err)
	_, err = e.SubmitProposal(tu.TestVoter2, "Paint benches")
	mustNil("proposal 1", err)
	mustNil("end proposals", e.EndProposalsRegistration(tu.TestOwner))
	mustNil("start voting", e.StartVotingSession(tu.TestOwner))
	mustNil("vote 1", e.CastVote(tu.TestVoter1, 1))

	// A rejected operation leaves nothing in the journal
	if err := e.CastVote(tu.TestVoter1, 0); !errors.Is(err, workflow.ErrAlreadyVoted) {
		t.Fatalf("Expected ErrAlreadyVoted, got %v", err)
	}

	fresh, m := tu.NewTestRegistry(t, conn)
	n, err := fresh.Restore(ctx)
	if err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if n != 2 {
		t.Fatalf("Expected 2 sessions restored, got %d", n)
	}

	list := fresh.List()
	if len(list) != 2 || list[0].ID != a.ID || list[1].ID != b.ID {
		t.Fatalf("Unexpected restored list order")
	}

	ra, _ := fresh.Get(a.ID)
	want, got := a.Engine.Snapshot(), ra.Engine.Snapshot()
	if got.Phase != want.Phase || got.VoterCount != want.VoterCount || got.VotedCount != want.VotedCount ||
		len(got.Proposals) != len(want.Proposals) || ra.Engine.Seq() != a.Engine.Seq() {
		t.Errorf("Restored snapshot %+v, want %+v", got, want)
	}
	for i := range want.Proposals {
		if got.Proposals[i] != want.Proposals[i] {
			t.Errorf("Proposal %d: got %+v, want %+v", i, got.Proposals[i], want.Proposals[i])
		}
	}
	if ra.Title != "First" || ra.Owner != tu.TestOwner {
		t.Errorf("Unexpected restored metadata %+v", ra)
	}

	// Replay is silent on metrics; only the phase gauges are rebuilt
	if got := testutil.ToFloat64(m.VotesCast); got != 0 {
		t.Errorf("Expected replay not to count votes, got %v", got)
	}
	if got := testutil.ToFloat64(m.SessionsByPhase.WithLabelValues("VotingSessionStarted")); got != 1 {
		t.Errorf("Expected 1 restored session voting, got %v", got)
	}

	// The restored engine keeps journaling where the old one stopped
	if err := ra.Engine.CastVote(tu.TestVoter2, 1); err != nil {
		t.Fatalf("CastVote after restore: %v", err)
	}
	events, err := fresh.Events(ctx, a.ID, 0, 100)
	if err != nil {
		t.Fatalf("Events: %v", err)
	}
	if len(events) != 9 || events[8].Seq != 9 || events[8].Name != workflow.EventVoted {
		t.Errorf("Expected 9 contiguous events ending in a vote, got %d", len(events))
	}
	if got := testutil.ToFloat64(m.VotesCast); got != 1 {
		t.Errorf("Expected the new vote counted, got %v", got)
	}
}
