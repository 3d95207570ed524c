// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package workflow

import (
	"errors"
	"fmt"
)

// Workflow errors
var (
	ErrUnauthorized      = errors.New("Ownable: caller is not the owner")
	ErrNotAVoter         = errors.New("You're not a voter")
	ErrWrongPhase        = errors.New("wrong workflow phase")
	ErrAlreadyRegistered = errors.New("voter already registered")
	ErrAlreadyVoted      = errors.New("You have already voted")
	ErrEmptyDescription  = errors.New("proposal description is empty")
	ErrNotFound          = errors.New("not found")
	ErrNotAvailable      = errors.New("votes have not been tallied")
	ErrInvalidKey        = errors.New("voter key is empty")
	ErrJournal           = errors.New("journal append failed")
)

// WrongPhaseError reports an operation invoked outside its legal phase.
// Early distinguishes "too early" from "already past".
type WrongPhaseError struct {
	Op       Operation
	Current  Phase
	Required Phase
	Early    bool
	Reason   string
}

func (e *WrongPhaseError) Error() string {
	return e.Reason
}

// Is makes errors.Is(err, ErrWrongPhase) hold for every WrongPhaseError.
func (e *WrongPhaseError) Is(target error) bool {
	return target == ErrWrongPhase
}

func notFound(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrNotFound, fmt.Sprintf(format, args...))
}
