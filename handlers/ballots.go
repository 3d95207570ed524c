// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/session"
	"github.com/danielhkuo/quickly-vote/workflow"
)

type BallotHandler struct {
	scope
}

func NewBallotHandler(reg *session.Registry, cfg cliparse.Config, m *metrics.Metrics) *BallotHandler {
	return &BallotHandler{scope{reg: reg, cfg: cfg, metrics: m}}
}

// CastVote handles POST /sessions/{id}/votes
// One vote per registered voter, while the voting session is open
func (h *BallotHandler) CastVote(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	caller, ok := h.caller(w, r, sess)
	if !ok {
		return
	}

	var req models.CastVoteRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if req.ProposalID == nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "proposal_id is required")
		return
	}

	if err := sess.Engine.CastVote(caller, *req.ProposalID); err != nil {
		h.fail(w, sess, workflow.OpCastVote, err)
		return
	}

	// Hash IP for privacy before it reaches the logs
	ipHash := auth.HashIP(middleware.GetClientIP(r), h.cfg.AdminKeySalt)
	slog.Info("vote cast", "session_id", sess.ID, "proposal_id", *req.ProposalID, "ip_hash", ipHash)

	middleware.JSONResponse(w, http.StatusCreated, models.CastVoteResponse{
		Voter:      caller,
		ProposalID: *req.ProposalID,
	})
}

// GetWinner handles GET /sessions/{id}/winner
// Available once votes are tallied
func (h *BallotHandler) GetWinner(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	id, err := sess.Engine.WinningProposalID()
	if err != nil {
		h.fail(w, sess, "getWinner", err)
		return
	}

	resp := models.WinnerResponse{WinningProposalID: id}
	if p, err := sess.Engine.Proposal(id); err == nil {
		proposal := proposalModel(id, p)
		resp.Proposal = &proposal
	}
	middleware.JSONResponse(w, http.StatusOK, resp)
}
