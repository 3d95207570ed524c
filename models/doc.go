// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request and response types for the API.

# Request Types

Types for parsing incoming JSON:

  - CreateSessionRequest: title, owner
  - RegisterVoterRequest: address
  - SubmitProposalRequest: description
  - CastVoteRequest: proposal_id

# Response Types

Types for JSON responses:

  - CreateSessionResponse: session_id, admin_key, owner
  - RegisterVoterResponse: address
  - SubmitProposalResponse: proposal_id
  - CastVoteResponse: voter, proposal_id
  - WorkflowStatusResponse: previous_status, new_status
  - WinnerResponse: winning_proposal_id, proposal
  - EventsResponse: events
  - ErrorResponse: error, message, code

# Domain Types

JSON views of engine state:

  - SessionSummary: session metadata, phase and counters
  - Voter: registry record of an address
  - Proposal: description and vote count
  - Event: persisted workflow event
  - PhaseInfo: phase name and numeric status code

# Constants

Workflow transitions:

	TransitionStartProposals = "start-proposals"
	TransitionEndProposals   = "end-proposals"
	TransitionStartVoting    = "start-voting"
	TransitionEndVoting      = "end-voting"
	TransitionTally          = "tally"
*/
package models
