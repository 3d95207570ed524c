// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Vote API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(registry, cfg, metrics)

Session routes are wrapped with request logging and Prometheus request
metrics labelled by route pattern.

# Endpoints

Health and metrics:

	GET /health
	GET /metrics

Sessions:

	POST /sessions      - Create session (returns admin_key)
	GET  /sessions      - List sessions
	GET  /sessions/{id} - Session summary with proposals

Voter registry:

	POST /sessions/{id}/voters           - Register voter (admin)
	GET  /sessions/{id}/voters/{address} - Voter record (voters only)

Workflow (admin):

	POST /sessions/{id}/workflow/start-proposals
	POST /sessions/{id}/workflow/end-proposals
	POST /sessions/{id}/workflow/start-voting
	POST /sessions/{id}/workflow/end-voting
	POST /sessions/{id}/workflow/tally

Proposals and votes:

	POST /sessions/{id}/proposals            - Submit proposal (voters)
	GET  /sessions/{id}/proposals            - List proposals
	GET  /sessions/{id}/proposals/{proposal} - One proposal
	POST /sessions/{id}/votes                - Cast vote (voters)
	GET  /sessions/{id}/winner               - Tally result

Event log:

	GET /sessions/{id}/events?after=N&limit=M

The administrator authenticates with X-Admin-Key; everyone else names
themselves with X-Caller-Address.
*/
package router
