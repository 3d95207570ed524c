// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-vote/cliparse"
	"github.com/danielhkuo/quickly-vote/handlers"
	"github.com/danielhkuo/quickly-vote/metrics"
	"github.com/danielhkuo/quickly-vote/middleware"
	"github.com/danielhkuo/quickly-vote/session"
)

func NewRouter(reg *session.Registry, cfg cliparse.Config, m *metrics.Metrics) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	sessionHandler := handlers.NewSessionHandler(reg, cfg, m)
	voterHandler := handlers.NewVoterHandler(reg, cfg, m)
	workflowHandler := handlers.NewWorkflowHandler(reg, cfg, m)
	proposalHandler := handlers.NewProposalHandler(reg, cfg, m)
	ballotHandler := handlers.NewBallotHandler(reg, cfg, m)
	eventHandler := handlers.NewEventHandler(reg, cfg, m)

	handle := func(pattern string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, middleware.WithLogging(middleware.WithMetrics(m, h)))
	}

	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	// Prometheus scrape endpoint
	mux.Handle("GET /metrics", m.Handler())

	// Sessions
	handle("POST /sessions", sessionHandler.CreateSession)
	handle("GET /sessions", sessionHandler.ListSessions)
	handle("GET /sessions/{id}", sessionHandler.GetSession)

	// Voter registry (admin registers, voters look up)
	handle("POST /sessions/{id}/voters", voterHandler.RegisterVoter)
	handle("GET /sessions/{id}/voters/{address}", voterHandler.GetVoter)

	// Workflow transitions (admin)
	handle("POST /sessions/{id}/workflow/{transition}", workflowHandler.Transition)

	// Proposals
	handle("POST /sessions/{id}/proposals", proposalHandler.SubmitProposal)
	handle("GET /sessions/{id}/proposals", proposalHandler.ListProposals)
	handle("GET /sessions/{id}/proposals/{proposal}", proposalHandler.GetProposal)

	// Voting and results
	handle("POST /sessions/{id}/votes", ballotHandler.CastVote)
	handle("GET /sessions/{id}/winner", ballotHandler.GetWinner)

	// Persisted event log
	handle("GET /sessions/{id}/events", eventHandler.ListEvents)

	// Root endpoint, exact match so unknown paths fall through to 404/405
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-vote API v1"))
	})

	return mux
}
