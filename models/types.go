package models

import (
	"encoding/json"
	"time"
)

// Workflow transitions accepted by POST /sessions/{id}/workflow/{transition}
const (
	TransitionStartProposals = "start-proposals"
	TransitionEndProposals   = "end-proposals"
	TransitionStartVoting    = "start-voting"
	TransitionEndVoting      = "end-voting"
	TransitionTally          = "tally"
)

// Request types

type CreateSessionRequest struct {
	Title string `json:"title"`
	Owner string `json:"owner"`
}

type RegisterVoterRequest struct {
	Address string `json:"address"`
}

type SubmitProposalRequest struct {
	Description string `json:"description"`
}

// ProposalID is a pointer so a missing field is told apart from proposal 0
type CastVoteRequest struct {
	ProposalID *int `json:"proposal_id"`
}

// Response types

type CreateSessionResponse struct {
	SessionID string `json:"session_id"`
	AdminKey  string `json:"admin_key"`
	Owner     string `json:"owner"`
}

type RegisterVoterResponse struct {
	Address string `json:"address"`
}

type SubmitProposalResponse struct {
	ProposalID int `json:"proposal_id"`
}

type CastVoteResponse struct {
	Voter      string `json:"voter"`
	ProposalID int    `json:"proposal_id"`
}

type WorkflowStatusResponse struct {
	PreviousStatus PhaseInfo `json:"previous_status"`
	NewStatus      PhaseInfo `json:"new_status"`
}

// Proposal is nil when the tally ran over an empty proposal list
type WinnerResponse struct {
	WinningProposalID int       `json:"winning_proposal_id"`
	Proposal          *Proposal `json:"proposal,omitempty"`
}

type EventsResponse struct {
	Events []Event `json:"events"`
}

// Domain types

// PhaseInfo carries the phase name and its numeric workflow status code
type PhaseInfo struct {
	Name string `json:"name"`
	Code int    `json:"code"`
}

type SessionSummary struct {
	ID                string     `json:"id"`
	Title             string     `json:"title"`
	Owner             string     `json:"owner"`
	Phase             PhaseInfo  `json:"phase"`
	VoterCount        int        `json:"voter_count"`
	VotedCount        int        `json:"voted_count"`
	ProposalCount     int        `json:"proposal_count"`
	WinningProposalID *int       `json:"winning_proposal_id,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	CreatedAgo        string     `json:"created_ago"`
	Proposals         []Proposal `json:"proposals,omitempty"`
}

type Voter struct {
	Address         string `json:"address"`
	IsRegistered    bool   `json:"is_registered"`
	HasVoted        bool   `json:"has_voted"`
	VotedProposalID int    `json:"voted_proposal_id"`
}

type Proposal struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	VoteCount   int    `json:"vote_count"`
}

type Event struct {
	Seq        int64           `json:"seq"`
	Operation  string          `json:"operation"`
	Caller     string          `json:"caller"`
	Name       string          `json:"name"`
	Payload    json.RawMessage `json:"payload"`
	OccurredAt time.Time       `json:"occurred_at"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}
