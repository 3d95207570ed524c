// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
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

// scope carries what every session-scoped handler needs
type scope struct {
	reg     *session.Registry
	cfg     cliparse.Config
	metrics *metrics.Metrics
}

// session resolves the {id} path value, writing 404 when it is unknown
func (s scope) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return nil, false
	}

	sess, err := s.reg.Get(id)
	if err != nil {
		middleware.ErrorResponseCode(w, http.StatusNotFound, "session_not_found", "Voting session not found")
		return nil, false
	}
	return sess, true
}

// caller identifies who is invoking an operation on sess. A valid
// X-Admin-Key makes the caller the session owner; otherwise the caller is
// X-Caller-Address, which may not name the owner. An anonymous caller is ""
// and is rejected by the engine.
func (s scope) caller(w http.ResponseWriter, r *http.Request, sess *session.Session) (string, bool) {
	if key := r.Header.Get("X-Admin-Key"); key != "" {
		if err := auth.ValidateAdminKey(sess.ID, key, s.cfg.AdminKeySalt); err != nil {
			s.countError("invalid_admin_key")
			middleware.ErrorResponseCode(w, http.StatusUnauthorized, "invalid_admin_key", "Invalid admin key")
			return "", false
		}
		return sess.Owner, true
	}

	addr := r.Header.Get("X-Caller-Address")
	if addr == "" {
		return "", true
	}
	caller, err := auth.NormalizeAddress(addr)
	if err != nil {
		middleware.ErrorResponseCode(w, http.StatusBadRequest, "invalid_address", "Invalid X-Caller-Address")
		return "", false
	}
	// The owner address is only ever proven by the admin key
	if caller == sess.Owner {
		s.countError("admin_key_required")
		middleware.ErrorResponseCode(w, http.StatusUnauthorized, "admin_key_required", "Owner address requires X-Admin-Key")
		return "", false
	}
	return caller, true
}

func (s scope) countError(code string) {
	if s.metrics != nil {
		s.metrics.OperationErrors.WithLabelValues(code).Inc()
	}
}

// engineError maps a workflow error to its HTTP status and error code
func engineError(err error) (int, string) {
	switch {
	case errors.Is(err, workflow.ErrUnauthorized):
		return http.StatusUnauthorized, "unauthorized"
	case errors.Is(err, workflow.ErrNotAVoter):
		return http.StatusForbidden, "not_a_voter"
	case errors.Is(err, workflow.ErrWrongPhase):
		return http.StatusConflict, "wrong_phase"
	case errors.Is(err, workflow.ErrAlreadyRegistered):
		return http.StatusConflict, "already_registered"
	case errors.Is(err, workflow.ErrAlreadyVoted):
		return http.StatusConflict, "already_voted"
	case errors.Is(err, workflow.ErrNotAvailable):
		return http.StatusConflict, "not_available"
	case errors.Is(err, workflow.ErrEmptyDescription):
		return http.StatusBadRequest, "empty_description"
	case errors.Is(err, workflow.ErrInvalidKey):
		return http.StatusBadRequest, "invalid_key"
	case errors.Is(err, workflow.ErrNotFound):
		return http.StatusNotFound, "not_found"
	case errors.Is(err, workflow.ErrJournal):
		return http.StatusInternalServerError, "journal"
	default:
		return http.StatusInternalServerError, "internal"
	}
}

// fail writes the error response for a rejected engine operation. The
// message of a client error is the engine's reason verbatim.
func (s scope) fail(w http.ResponseWriter, sess *session.Session, op workflow.Operation, err error) {
	status, code := engineError(err)
	s.countError(code)

	if status >= http.StatusInternalServerError {
		slog.Error("workflow operation failed", "session_id", sess.ID, "operation", op, "error", err)
		middleware.ErrorResponseCode(w, status, code, "Failed to record workflow event")
		return
	}
	middleware.ErrorResponseCode(w, status, code, err.Error())
}

func phaseInfo(p workflow.Phase) models.PhaseInfo {
	return models.PhaseInfo{Name: p.String(), Code: int(p)}
}

func proposalModel(id int, p workflow.Proposal) models.Proposal {
	return models.Proposal{ID: id, Description: p.Description, VoteCount: p.VoteCount}
}
