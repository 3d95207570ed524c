// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package workflow implements the voting workflow engine.

# Phases

A session moves through six phases, one step at a time:

	VotersRegistration → ProposalsRegistrationStarted → ProposalsRegistrationEnded
	→ VotingSessionStarted → VotingSessionEnded → VotesTallied

Only the administrator advances the phase. Each transition emits a
WorkflowStatusChange event.

# Gating

Every mutating operation checks the caller's role first and the phase
second:

	err := engine.CastVote(voter, 0)
	if errors.Is(err, workflow.ErrWrongPhase) {
		var wp *workflow.WrongPhaseError
		errors.As(err, &wp) // wp.Reason, wp.Early
	}

The phase error reason differs for calls made before and after the legal
phase.

# Tally

TallyVotes scans proposals in id order and keeps the first strictly
greater vote count, so ties go to the lowest id.

# Journal and Replay

A Journal sees each accepted mutation before it is applied. If Append
fails the operation fails and the state is unchanged. Restore replays
journal entries into a fresh engine:

	engine, err := workflow.Restore(admin, entries, workflow.WithJournal(j))
*/
package workflow
