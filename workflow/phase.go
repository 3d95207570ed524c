// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

import (
	"encoding/json"
	"fmt"
)

// Phase is the workflow stage of a voting session. Values are ordered and
// only ever advance by one.
type Phase int

const (
	VotersRegistration Phase = iota
	ProposalsRegistrationStarted
	ProposalsRegistrationEnded
	VotingSessionStarted
	VotingSessionEnded
	VotesTallied
)

var phaseNames = [...]string{
	VotersRegistration:           "VotersRegistration",
	ProposalsRegistrationStarted: "ProposalsRegistrationStarted",
	ProposalsRegistrationEnded:   "ProposalsRegistrationEnded",
	VotingSessionStarted:         "VotingSessionStarted",
	VotingSessionEnded:           "VotingSessionEnded",
	VotesTallied:                 "VotesTallied",
}

func (p Phase) String() string {
	if !p.Valid() {
		return fmt.Sprintf("Phase(%d)", int(p))
	}
	return phaseNames[p]
}

// Valid reports whether p is one of the six workflow phases.
func (p Phase) Valid() bool {
	return p >= VotersRegistration && p <= VotesTallied
}

// Next returns the successor phase. ok is false for the terminal phase.
func (p Phase) Next() (next Phase, ok bool) {
	if !p.Valid() || p == VotesTallied {
		return p, false
	}
	return p + 1, true
}

// ParsePhase maps a phase name back to its value.
func ParsePhase(name string) (Phase, error) {
	for i, n := range phaseNames {
		if n == name {
			return Phase(i), nil
		}
	}
	return 0, fmt.Errorf("unknown phase %q", name)
}

// MarshalJSON encodes the phase by name.
func (p Phase) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.String())
}

// UnmarshalJSON accepts either the phase name or its numeric code.
func (p *Phase) UnmarshalJSON(data []byte) error {
	var code int
	if err := json.Unmarshal(data, &code); err == nil {
		if !Phase(code).Valid() {
			return fmt.Errorf("invalid phase code %d", code)
		}
		*p = Phase(code)
		return nil
	}

	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return fmt.Errorf("phase must be a name or code: %w", err)
	}
	parsed, err := ParsePhase(name)
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
