// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/session"
	"github.com/danielhkuo/quickly-vote/workflow"
)

var transitions = map[string]workflow.Operation{
	models.TransitionStartProposals: workflow.OpStartProposalsRegistration,
	models.TransitionEndProposals:   workflow.OpEndProposalsRegistration,
	models.TransitionStartVoting:    workflow.OpStartVotingSession,
	models.TransitionEndVoting:      workflow.OpEndVotingSession,
	models.TransitionTally:          workflow.OpTallyVotes,
}

type WorkflowHandler struct {
	scope
}

func NewWorkflowHandler(reg *session.Registry, cfg cliparse.Config, m *metrics.Metrics) *WorkflowHandler {
	return &WorkflowHandler{scope{reg: reg, cfg: cfg, metrics: m}}
}

// Transition handles POST /sessions/{id}/workflow/{transition}
// Admin only; each transition is legal in exactly one phase
func (h *WorkflowHandler) Transition(w http.ResponseWriter, r *http.Request) {
	op, ok := transitions[r.PathValue("transition")]
	if !ok {
		middleware.ErrorResponseCode(w, http.StatusNotFound, "unknown_transition", "Unknown workflow transition")
		return
	}

	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	caller, ok := h.caller(w, r, sess)
	if !ok {
		return
	}

	if err := sess.Engine.Advance(op, caller); err != nil {
		h.fail(w, sess, op, err)
		return
	}

	// A successful transition always leaves the operation's legal phase
	previous, _ := workflow.LegalPhase(op)
	next, _ := previous.Next()

	middleware.JSONResponse(w, http.StatusOK, models.WorkflowStatusResponse{
		PreviousStatus: phaseInfo(previous),
		NewStatus:      phaseInfo(next),
	})
}
