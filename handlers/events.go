// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/models"
	"github.com/danielhkuo/quickly-vote/session"
)

const (
	defaultEventLimit = 100
	maxEventLimit     = 1000
)

type EventHandler struct {
	scope
}

func NewEventHandler(reg *session.Registry, cfg cliparse.Config, m *metrics.Metrics) *EventHandler {
	return &EventHandler{scope{reg: reg, cfg: cfg, metrics: m}}
}

// ListEvents handles GET /sessions/{id}/events?after=N&limit=M
// Returns persisted events in sequence order
func (h *EventHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		middleware.ErrorResponse(w, http.StatusBadRequest, "session_id is required")
		return
	}

	q := r.URL.Query()
	var after int64
	if s := q.Get("after"); s != "" {
		v, err := strconv.ParseInt(s, 10, 64)
		if err != nil || v < 0 {
			middleware.ErrorResponse(w, http.StatusBadRequest, "after must be a non-negative integer")
			return
		}
		after = v
	}
	limit := defaultEventLimit
	if s := q.Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 1 || v > maxEventLimit {
			middleware.ErrorResponse(w, http.StatusBadRequest, "limit must be between 1 and 1000")
			return
		}
		limit = v
	}

	records, err := h.reg.Events(r.Context(), id, after, limit)
	if errors.Is(err, session.ErrNotFound) {
		middleware.ErrorResponseCode(w, http.StatusNotFound, "session_not_found", "Voting session not found")
		return
	}
	if err != nil {
		slog.Error("failed to query events", "session_id", id, "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	events := make([]models.Event, len(records))
	for i, rec := range records {
		events[i] = models.Event{
			Seq:        rec.Seq,
			Operation:  rec.Operation,
			Caller:     rec.Caller,
			Name:       rec.Name,
			Payload:    rec.Payload,
			OccurredAt: rec.OccurredAt,
		}
	}
	middleware.JSONResponse(w, http.StatusOK, models.EventsResponse{Events: events})
}
