// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Vote API.

# Handler Types

Each handler is a struct over the session registry, config and metrics:

  - SessionHandler: Session creation, listing and summaries
  - VoterHandler: Voter registration and lookup
  - WorkflowHandler: Phase transitions and tally
  - ProposalHandler: Proposal submission and retrieval
  - BallotHandler: Vote casting and the winner
  - EventHandler: Persisted event log

Handlers are created via constructor functions:

	sessionHandler := handlers.NewSessionHandler(registry, cfg, metrics)

# Caller Identity

Every session-scoped operation resolves a caller before reaching the
workflow engine:

  - X-Admin-Key: HMAC of the session ID; the caller is the session owner
  - X-Caller-Address: any other account, 0x followed by 40 hex digits

Authorization and phase rules live in the engine. Handlers only map its
errors to HTTP:

	Unauthorized                               → 401
	NotAVoter                                  → 403
	WrongPhase, AlreadyRegistered, AlreadyVoted → 409
	NotAvailable                               → 409
	EmptyDescription, InvalidKey               → 400
	NotFound                                   → 404
	Journal                                    → 500

Wrong-phase errors carry the engine's reason as the message, for example
"Voting session havent started yet".
*/
package handlers
