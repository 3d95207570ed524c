// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"
)

// Voter is the registry record of a participant.
type Voter struct {
	IsRegistered    bool `json:"isRegistered"`
	HasVoted        bool `json:"hasVoted"`
	VotedProposalID int  `json:"votedProposalId"`
}

// Proposal is a submitted option; its id is its index.
type Proposal struct {
	Description string `json:"description"`
	VoteCount   int    `json:"voteCount"`
}

// Snapshot is a consistent copy of the engine state.
type Snapshot struct {
	Admin             string
	Phase             Phase
	VoterCount        int
	VotedCount        int
	Proposals         []Proposal
	WinningProposalID int
	Tallied           bool
}

// Option configures an Engine.
type Option func(*Engine)

// WithJournal sets the journal written before every mutation.
func WithJournal(j Journal) Option {
	return func(e *Engine) { e.journal = j }
}

// WithListener adds an event listener.
func WithListener(l Listener) Option {
	return func(e *Engine) { e.listeners = append(e.listeners, l) }
}

// WithLogger sets the engine logger. A nil logger means slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l == nil {
			l = slog.Default()
		}
		e.logger = l
	}
}

// WithClock overrides the time source used for journal entries.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// Engine is the voting workflow state machine. All methods are safe for
// concurrent use; mutations are serialized.
type Engine struct {
	mu sync.RWMutex

	admin     string
	phase     Phase
	voters    map[string]*Voter
	proposals []Proposal
	winner    int
	tallied   bool
	seq       int64

	journal   Journal
	listeners []Listener
	logger    *slog.Logger
	now       func() time.Time
}

// New creates an engine in VotersRegistration owned by admin.
func New(admin string, opts ...Option) *Engine {
	e := &Engine{
		admin:  admin,
		phase:  VotersRegistration,
		voters: make(map[string]*Voter),
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Admin returns the administrator key.
func (e *Engine) Admin() string {
	return e.admin
}

// Phase returns the current phase.
func (e *Engine) Phase() Phase {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.phase
}

// Seq returns the sequence number of the last accepted mutation.
func (e *Engine) Seq() int64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.seq
}

// authorize runs the role check, then the phase check, for op.
func (e *Engine) authorize(op Operation, caller string) error {
	g := gates[op]
	switch g.role {
	case roleAdmin:
		if caller != e.admin {
			return ErrUnauthorized
		}
	case roleVoter:
		if _, ok := e.voters[caller]; !ok {
			return ErrNotAVoter
		}
	}
	return g.check(op, e.phase)
}

// commit journals the entry, applies the mutation and notifies listeners.
// Callers hold the write lock and have validated every precondition.
func (e *Engine) commit(entry Entry, apply func()) error {
	entry.Seq = e.seq + 1
	entry.OccurredAt = e.now()
	if e.journal != nil {
		if err := e.journal.Append(entry); err != nil {
			e.logger.Error("journal append failed",
				"op", string(entry.Op),
				"seq", entry.Seq,
				"error", err,
			)
			return fmt.Errorf("%w: %w", ErrJournal, err)
		}
	}
	apply()
	e.seq = entry.Seq
	for _, l := range e.listeners {
		l(entry.Event)
	}
	return nil
}

// RegisterVoter adds key to the voter registry.
func (e *Engine) RegisterVoter(caller, key string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(OpRegisterVoter, caller); err != nil {
		return err
	}
	if key == "" {
		return ErrInvalidKey
	}
	if _, ok := e.voters[key]; ok {
		return fmt.Errorf("%w: %s", ErrAlreadyRegistered, key)
	}

	entry := Entry{
		Op:     OpRegisterVoter,
		Caller: caller,
		Key:    key,
		Event:  VoterRegistered{VoterAddress: key},
	}
	err := e.commit(entry, func() {
		e.voters[key] = &Voter{IsRegistered: true}
	})
	if err != nil {
		return err
	}
	e.logger.Debug("voter registered", "voter", key)
	return nil
}

// Voter returns the record for key. The caller must be a registered voter.
func (e *Engine) Voter(caller, key string) (Voter, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if _, ok := e.voters[caller]; !ok {
		return Voter{}, ErrNotAVoter
	}
	v, ok := e.voters[key]
	if !ok {
		return Voter{}, notFound("voter %s", key)
	}
	return *v, nil
}

func (e *Engine) StartProposalsRegistration(caller string) error {
	return e.advance(OpStartProposalsRegistration, caller)
}

func (e *Engine) EndProposalsRegistration(caller string) error {
	return e.advance(OpEndProposalsRegistration, caller)
}

func (e *Engine) StartVotingSession(caller string) error {
	return e.advance(OpStartVotingSession, caller)
}

func (e *Engine) EndVotingSession(caller string) error {
	return e.advance(OpEndVotingSession, caller)
}

// Advance runs the transition named by op. It is the dispatch used by
// callers that select the transition at runtime.
func (e *Engine) Advance(op Operation, caller string) error {
	if op == OpTallyVotes {
		return e.TallyVotes(caller)
	}
	g, ok := gates[op]
	if !ok || !g.advances {
		return fmt.Errorf("%s is not a phase transition", op)
	}
	return e.advance(op, caller)
}

func (e *Engine) advance(op Operation, caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(op, caller); err != nil {
		return err
	}
	return e.transition(op, caller, nil)
}

// transition moves to the successor phase. extra runs as part of the same
// mutation. Callers hold the write lock.
func (e *Engine) transition(op Operation, caller string, extra func()) error {
	previous := e.phase
	next, ok := previous.Next()
	if !ok {
		return gates[op].check(op, previous)
	}

	entry := Entry{
		Op:     op,
		Caller: caller,
		Event:  WorkflowStatusChange{PreviousStatus: previous, NewStatus: next},
	}
	err := e.commit(entry, func() {
		if extra != nil {
			extra()
		}
		e.phase = next
	})
	if err != nil {
		return err
	}
	e.logger.Info("workflow status changed",
		"previous", previous.String(),
		"new", next.String(),
	)
	return nil
}

// SubmitProposal appends a proposal and returns its id.
func (e *Engine) SubmitProposal(caller, description string) (int, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(OpSubmitProposal, caller); err != nil {
		return 0, err
	}
	if strings.TrimSpace(description) == "" {
		return 0, ErrEmptyDescription
	}

	id := len(e.proposals)
	entry := Entry{
		Op:          OpSubmitProposal,
		Caller:      caller,
		Description: description,
		ProposalID:  id,
		Event:       ProposalRegistered{ProposalID: id},
	}
	err := e.commit(entry, func() {
		e.proposals = append(e.proposals, Proposal{Description: description})
	})
	if err != nil {
		return 0, err
	}
	e.logger.Debug("proposal registered", "proposal_id", id, "voter", caller)
	return id, nil
}

// Proposal returns the proposal with the given id.
func (e *Engine) Proposal(id int) (Proposal, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if id < 0 || id >= len(e.proposals) {
		return Proposal{}, notFound("proposal %d", id)
	}
	return e.proposals[id], nil
}

// Proposals returns a copy of all proposals in id order.
func (e *Engine) Proposals() []Proposal {
	e.mu.RLock()
	defer e.mu.RUnlock()

	out := make([]Proposal, len(e.proposals))
	copy(out, e.proposals)
	return out
}

// CastVote records the caller's single vote for proposalID.
func (e *Engine) CastVote(caller string, proposalID int) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(OpCastVote, caller); err != nil {
		return err
	}
	voter := e.voters[caller]
	if voter.HasVoted {
		return ErrAlreadyVoted
	}
	if proposalID < 0 || proposalID >= len(e.proposals) {
		return notFound("proposal %d", proposalID)
	}

	entry := Entry{
		Op:         OpCastVote,
		Caller:     caller,
		ProposalID: proposalID,
		Event:      Voted{Voter: caller, ProposalID: proposalID},
	}
	err := e.commit(entry, func() {
		e.proposals[proposalID].VoteCount++
		voter.HasVoted = true
		voter.VotedProposalID = proposalID
	})
	if err != nil {
		return err
	}
	e.logger.Debug("vote cast", "voter", caller, "proposal_id", proposalID)
	return nil
}

// TallyVotes selects the winning proposal and closes the workflow. Ties go
// to the lowest proposal id.
func (e *Engine) TallyVotes(caller string) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if err := e.authorize(OpTallyVotes, caller); err != nil {
		return err
	}

	winner := Tally(e.proposals)
	return e.transition(OpTallyVotes, caller, func() {
		e.winner = winner
		e.tallied = true
	})
}

// Tally returns the index of the proposal with the strictly greatest vote
// count, scanning in id order. It returns 0 for an empty list.
func Tally(proposals []Proposal) int {
	winner := 0
	for i, p := range proposals {
		if p.VoteCount > proposals[winner].VoteCount {
			winner = i
		}
	}
	return winner
}

// WinningProposalID returns the tally result.
func (e *Engine) WinningProposalID() (int, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()

	if !e.tallied {
		return 0, ErrNotAvailable
	}
	return e.winner, nil
}

// Snapshot returns a consistent copy of the engine state.
func (e *Engine) Snapshot() Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()

	s := Snapshot{
		Admin:             e.admin,
		Phase:             e.phase,
		VoterCount:        len(e.voters),
		Proposals:         make([]Proposal, len(e.proposals)),
		WinningProposalID: e.winner,
		Tallied:           e.tallied,
	}
	copy(s.Proposals, e.proposals)
	for _, v := range e.voters {
		if v.HasVoted {
			s.VotedCount++
		}
	}
	return s
}
