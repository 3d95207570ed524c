// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/session"
	"github.com/danielhkuo/quickly-vote/workflow"
)

type ProposalHandler struct {
	scope
}

func NewProposalHandler(reg *session.Registry, cfg cliparse.Config, m *metrics.Metrics) *ProposalHandler {
	return &ProposalHandler{scope{reg: reg, cfg: cfg, metrics: m}}
}

// SubmitProposal handles POST /sessions/{id}/proposals
// Registered voters only, while proposals registration is open
func (h *ProposalHandler) SubmitProposal(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	caller, ok := h.caller(w, r, sess)
	if !ok {
		return
	}

	var req models.SubmitProposalRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	id, err := sess.Engine.SubmitProposal(caller, req.Description)
	if err != nil {
		h.fail(w, sess, workflow.OpSubmitProposal, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.SubmitProposalResponse{ProposalID: id})
}

// ListProposals handles GET /sessions/{id}/proposals
func (h *ProposalHandler) ListProposals(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	proposals := sess.Engine.Proposals()
	out := make([]models.Proposal, len(proposals))
	for i, p := range proposals {
		out[i] = proposalModel(i, p)
	}
	middleware.JSONResponse(w, http.StatusOK, out)
}

// GetProposal handles GET /sessions/{id}/proposals/{proposal}
func (h *ProposalHandler) GetProposal(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}

	id, err := strconv.Atoi(r.PathValue("proposal"))
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "proposal id must be an integer")
		return
	}

	p, err := sess.Engine.Proposal(id)
	if err != nil {
		h.fail(w, sess, "getProposal", err)
		return
	}
	middleware.JSONResponse(w, http.StatusOK, proposalModel(id, p))
}
