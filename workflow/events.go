// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

import (
	"encoding/json"
	"fmt"
)

// Event names as they appear in the persisted event log.
const (
	EventVoterRegistered      = "VoterRegistered"
	EventWorkflowStatusChange = "WorkflowStatusChange"
	EventProposalRegistered   = "ProposalRegistered"
	EventVoted                = "Voted"
)

// Event is a structured record emitted by a successful mutation.
type Event interface {
	EventName() string
}

type VoterRegistered struct {
	VoterAddress string `json:"voterAddress"`
}

type WorkflowStatusChange struct {
	PreviousStatus Phase `json:"previousStatus"`
	NewStatus      Phase `json:"newStatus"`
}

type ProposalRegistered struct {
	ProposalID int `json:"proposalId"`
}

type Voted struct {
	Voter      string `json:"voter"`
	ProposalID int    `json:"proposalId"`
}

func (VoterRegistered) EventName() string      { return EventVoterRegistered }
func (WorkflowStatusChange) EventName() string { return EventWorkflowStatusChange }
func (ProposalRegistered) EventName() string   { return EventProposalRegistered }
func (Voted) EventName() string                { return EventVoted }

// Listener observes events. It runs while the engine holds its write lock
// and must not call back into the engine.
type Listener func(Event)

// DecodeEvent rebuilds an event from its name and JSON payload.
func DecodeEvent(name string, payload []byte) (Event, error) {
	var (
		ev  Event
		err error
	)
	switch name {
	case EventVoterRegistered:
		var v VoterRegistered
		err = json.Unmarshal(payload, &v)
		ev = v
	case EventWorkflowStatusChange:
		var v WorkflowStatusChange
		err = json.Unmarshal(payload, &v)
		ev = v
	case EventProposalRegistered:
		var v ProposalRegistered
		err = json.Unmarshal(payload, &v)
		ev = v
	case EventVoted:
		var v Voted
		err = json.Unmarshal(payload, &v)
		ev = v
	default:
		return nil, fmt.Errorf("unknown event %q", name)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", name, err)
	}
	return ev, nil
}
