// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/session"
	"github.com/danielhkuo/quickly-vote/testutil"
)

// testEnv wires every handler over one SQLite-backed registry
type testEnv struct {
	t   *testing.T
	db  *sql.DB
	reg *session.Registry
	m   *metrics.Metrics
	cfg cliparse.Config

	sessions  *SessionHandler
	voters    *VoterHandler
	workflow  *WorkflowHandler
	proposals *ProposalHandler
	ballots   *BallotHandler
	events    *EventHandler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db := testutil.SetupTestDB(t)
	cfg := testutil.GetTestConfig()
	reg, m := testutil.NewTestRegistry(t, db)

	return &testEnv{
		t:         t,
		db:        db,
		reg:       reg,
		m:         m,
		cfg:       cfg,
		sessions:  NewSessionHandler(reg, cfg, m),
		voters:    NewVoterHandler(reg, cfg, m),
		workflow:  NewWorkflowHandler(reg, cfg, m),
		proposals: NewProposalHandler(reg, cfg, m),
		ballots:   NewBallotHandler(reg, cfg, m),
		events:    NewEventHandler(reg, cfg, m),
	}
}

// do serves req with h after setting the given path values, passed as
// key, value pairs
func (e *testEnv) do(h http.HandlerFunc, req *http.Request, pathValues ...string) *httptest.ResponseRecorder {
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	w := httptest.NewRecorder()
	h(w, req)
	return w
}

func (e *testEnv) newSession() (sessionID, adminKey string) {
	e.t.Helper()
	return testutil.CreateTestSession(e.t, e.reg, e.cfg)
}

func (e *testEnv) registerVoter(sessionID string, headers map[string]string, address string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("POST", "/sessions/"+sessionID+"/voters",
		models.RegisterVoterRequest{Address: address}, headers)
	return e.do(e.voters.RegisterVoter, req, "id", sessionID)
}

func (e *testEnv) transition(sessionID string, headers map[string]string, transition string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("POST", "/sessions/"+sessionID+"/workflow/"+transition, nil, headers)
	return e.do(e.workflow.Transition, req, "id", sessionID, "transition", transition)
}

func (e *testEnv) submitProposal(sessionID, caller, description string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("POST", "/sessions/"+sessionID+"/proposals",
		models.SubmitProposalRequest{Description: description}, testutil.CallerHeaders(caller))
	return e.do(e.proposals.SubmitProposal, req, "id", sessionID)
}

func (e *testEnv) castVote(sessionID, caller string, proposalID int) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("POST", "/sessions/"+sessionID+"/votes",
		models.CastVoteRequest{ProposalID: &proposalID}, testutil.CallerHeaders(caller))
	return e.do(e.ballots.CastVote, req, "id", sessionID)
}

func (e *testEnv) getVoter(sessionID, caller, address string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("GET", "/sessions/"+sessionID+"/voters/"+address, nil, testutil.CallerHeaders(caller))
	return e.do(e.voters.GetVoter, req, "id", sessionID, "address", address)
}

func (e *testEnv) winner(sessionID string) *httptest.ResponseRecorder {
	req := testutil.MakeRequest("GET", "/sessions/"+sessionID+"/winner", nil, nil)
	return e.do(e.ballots.GetWinner, req, "id", sessionID)
}

// mustStatus fails the test immediately on an unexpected status
func mustStatus(t *testing.T, step string, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Fatalf("%s: expected status %d, got %d - %s", step, expected, w.Code, w.Body.String())
	}
}

// assertError checks the status and error message of a rejected request
func assertError(t *testing.T, w *httptest.ResponseRecorder, status int, message string) {
	t.Helper()
	testutil.AssertStatus(t, w, status)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != message {
		t.Errorf("Expected message %q, got %q", message, resp.Message)
	}
}
