// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/session"
	"github.com/danielhkuo/quickly-vote/workflow"
)

type VoterHandler struct {
	scope
}

func NewVoterHandler(reg *session.Registry, cfg cliparse.Config, m *metrics.Metrics) *VoterHandler {
	return &VoterHandler{scope{reg: reg, cfg: cfg, metrics: m}}
}

// RegisterVoter handles POST /sessions/{id}/voters
// Admin only, during VotersRegistration
func (h *VoterHandler) RegisterVoter(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	caller, ok := h.caller(w, r, sess)
	if !ok {
		return
	}

	var req models.RegisterVoterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// An empty address is passed through so the engine reports it after
	// the owner check
	address := req.Address
	if address != "" {
		var err error
		address, err = auth.NormalizeAddress(address)
		if err != nil {
			middleware.ErrorResponseCode(w, http.StatusBadRequest, "invalid_address", err.Error())
			return
		}
	}

	if err := sess.Engine.RegisterVoter(caller, address); err != nil {
		h.fail(w, sess, workflow.OpRegisterVoter, err)
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.RegisterVoterResponse{Address: address})
}

// GetVoter handles GET /sessions/{id}/voters/{address}
// The caller must be a registered voter
func (h *VoterHandler) GetVoter(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	caller, ok := h.caller(w, r, sess)
	if !ok {
		return
	}

	address, err := auth.NormalizeAddress(r.PathValue("address"))
	if err != nil {
		middleware.ErrorResponseCode(w, http.StatusBadRequest, "invalid_address", err.Error())
		return
	}

	v, err := sess.Engine.Voter(caller, address)
	if err != nil {
		h.fail(w, sess, "getVoter", err)
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.Voter{
		Address:         address,
		IsRegistered:    v.IsRegistered,
		HasVoted:        v.HasVoted,
		VotedProposalID: v.VotedProposalID,
	})
}
