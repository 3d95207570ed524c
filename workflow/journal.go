// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

import (
	"fmt"
	"time"
)

// Entry is one accepted mutation: the operation with its arguments and
// the event it produced. Replaying entries in Seq order rebuilds the engine.
type Entry struct {
	Seq         int64
	Op          Operation
	Caller      string
	Key         string
	Description string
	ProposalID  int
	Event       Event
	OccurredAt  time.Time
}

// Journal receives an entry after validation and before the mutation is
// applied. A failing Append aborts the operation with no state change.
type Journal interface {
	Append(e Entry) error
}

// JournalFunc adapts a function to the Journal interface.
type JournalFunc func(e Entry) error

func (f JournalFunc) Append(e Entry) error { return f(e) }

// Restore rebuilds an engine by replaying journal entries in order. Options
// are applied after the replay so listeners and journals see only new
// mutations.
func Restore(admin string, entries []Entry, opts ...Option) (*Engine, error) {
	e := New(admin)
	for _, entry := range entries {
		if err := e.replay(entry); err != nil {
			return nil, fmt.Errorf("replay entry %d (%s): %w", entry.Seq, entry.Op, err)
		}
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger.Debug("workflow restored",
		"admin", admin,
		"entries", len(entries),
		"phase", e.phase.String(),
	)
	return e, nil
}

func (e *Engine) replay(entry Entry) error {
	var err error
	switch entry.Op {
	case OpRegisterVoter:
		err = e.RegisterVoter(entry.Caller, entry.Key)
	case OpSubmitProposal:
		var id int
		id, err = e.SubmitProposal(entry.Caller, entry.Description)
		if err == nil && id != entry.ProposalID {
			err = fmt.Errorf("proposal id %d, journal recorded %d", id, entry.ProposalID)
		}
	case OpCastVote:
		err = e.CastVote(entry.Caller, entry.ProposalID)
	case OpStartProposalsRegistration:
		err = e.StartProposalsRegistration(entry.Caller)
	case OpEndProposalsRegistration:
		err = e.EndProposalsRegistration(entry.Caller)
	case OpStartVotingSession:
		err = e.StartVotingSession(entry.Caller)
	case OpEndVotingSession:
		err = e.EndVotingSession(entry.Caller)
	case OpTallyVotes:
		err = e.TallyVotes(entry.Caller)
	default:
		err = fmt.Errorf("unknown operation %q", entry.Op)
	}
	return err
}
