// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

// Operation names a gated engine operation.
type Operation string

const (
	OpRegisterVoter              Operation = "registerVoter"
	OpStartProposalsRegistration Operation = "startProposalsRegistration"
	OpSubmitProposal             Operation = "submitProposal"
	OpEndProposalsRegistration   Operation = "endProposalsRegistration"
	OpStartVotingSession         Operation = "startVotingSession"
	OpCastVote                   Operation = "castVote"
	OpEndVotingSession           Operation = "endVotingSession"
	OpTallyVotes                 Operation = "tallyVotes"
)

type role int

const (
	roleAdmin role = iota
	roleVoter
)

// gate is the legal phase of an operation and the reasons reported
// when it is invoked before or after that phase.
type gate struct {
	role     role
	phase    Phase
	early    string
	late     string
	advances bool
}

var gates = map[Operation]gate{
	OpRegisterVoter: {
		role:  roleAdmin,
		phase: VotersRegistration,
		late:  "Voters registration is not open yet",
	},
	OpStartProposalsRegistration: {
		role:     roleAdmin,
		phase:    VotersRegistration,
		late:     "Registering proposals cant be started now",
		advances: true,
	},
	OpSubmitProposal: {
		role:  roleVoter,
		phase: ProposalsRegistrationStarted,
		early: "Proposals are not allowed yet",
		late:  "Proposals registration is closed",
	},
	OpEndProposalsRegistration: {
		role:     roleAdmin,
		phase:    ProposalsRegistrationStarted,
		early:    "Registering proposals havent started yet",
		late:     "Registering proposals already ended",
		advances: true,
	},
	OpStartVotingSession: {
		role:     roleAdmin,
		phase:    ProposalsRegistrationEnded,
		early:    "Registering proposals phase is not finished",
		late:     "Voting session already started",
		advances: true,
	},
	OpCastVote: {
		role:  roleVoter,
		phase: VotingSessionStarted,
		early: "Voting session havent started yet",
		late:  "Voting session has ended",
	},
	OpEndVotingSession: {
		role:     roleAdmin,
		phase:    VotingSessionStarted,
		early:    "Voting session havent started yet",
		late:     "Voting session already ended",
		advances: true,
	},
	OpTallyVotes: {
		role:     roleAdmin,
		phase:    VotingSessionEnded,
		early:    "Current status is not voting session ended",
		late:     "Votes already tallied",
		advances: true,
	},
}

// Operations lists every gated operation in workflow order.
func Operations() []Operation {
	return []Operation{
		OpRegisterVoter,
		OpStartProposalsRegistration,
		OpSubmitProposal,
		OpEndProposalsRegistration,
		OpStartVotingSession,
		OpCastVote,
		OpEndVotingSession,
		OpTallyVotes,
	}
}

// LegalPhase returns the phase in which op may run.
func LegalPhase(op Operation) (Phase, bool) {
	g, ok := gates[op]
	return g.phase, ok
}

// AdminOnly reports whether op requires the administrator.
func AdminOnly(op Operation) bool {
	g, ok := gates[op]
	return ok && g.role == roleAdmin
}

func (g gate) check(op Operation, current Phase) error {
	if current == g.phase {
		return nil
	}
	e := &WrongPhaseError{Op: op, Current: current, Required: g.phase}
	if current < g.phase {
		e.Early = true
		e.Reason = g.early
	} else {
		e.Reason = g.late
	}
	return e
}
