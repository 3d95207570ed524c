// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/danielhkuo/quickly-vote/auth"
	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/session"
)

type SessionHandler struct {
	scope
}

func NewSessionHandler(reg *session.Registry, cfg cliparse.Config, m *metrics.Metrics) *SessionHandler {
	return &SessionHandler{scope{reg: reg, cfg: cfg, metrics: m}}
}

// CreateSession handles POST /sessions
func (h *SessionHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	var req models.CreateSessionRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	// Validate input
	title := strings.TrimSpace(req.Title)
	if title == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "title is required")
		return
	}
	if req.Owner == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "owner is required")
		return
	}
	owner, err := auth.NormalizeAddress(req.Owner)
	if err != nil {
		middleware.ErrorResponseCode(w, http.StatusBadRequest, "invalid_address", "owner must be 0x followed by 40 hex digits")
		return
	}

	sess, err := h.reg.Create(r.Context(), title, owner)
	if err != nil {
		slog.Error("failed to create session", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to create voting session")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.CreateSessionResponse{
		SessionID: sess.ID,
		AdminKey:  auth.GenerateAdminKey(sess.ID, h.cfg.AdminKeySalt),
		Owner:     owner,
	})
}

// ListSessions handles GET /sessions
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	sessions := h.reg.List()

	out := make([]models.SessionSummary, 0, len(sessions))
	for _, s := range sessions {
		out = append(out, summarize(s, false))
	}
	middleware.JSONResponse(w, http.StatusOK, out)
}

// GetSession handles GET /sessions/{id}
// Includes the proposal list
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := h.session(w, r)
	if !ok {
		return
	}
	middleware.JSONResponse(w, http.StatusOK, summarize(sess, true))
}

func summarize(s *session.Session, withProposals bool) models.SessionSummary {
	snap := s.Engine.Snapshot()

	summary := models.SessionSummary{
		ID:            s.ID,
		Title:         s.Title,
		Owner:         s.Owner,
		Phase:         phaseInfo(snap.Phase),
		VoterCount:    snap.VoterCount,
		VotedCount:    snap.VotedCount,
		ProposalCount: len(snap.Proposals),
		CreatedAt:     s.CreatedAt,
		CreatedAgo:    humanize.Time(s.CreatedAt),
	}
	if snap.Tallied {
		winner := snap.WinningProposalID
		summary.WinningProposalID = &winner
	}
	if withProposals {
		summary.Proposals = make([]models.Proposal, len(snap.Proposals))
		for i, p := range snap.Proposals {
			summary.Proposals[i] = proposalModel(i, p)
		}
	}
	return summary
}
