package damage

import (
	"errors"
	"fmt"
)

var (
	ErrGameStarted    = errors.New("game already started")
	ErrGameEnded      = errors.New("game already ended")
	ErrSeatOccupied   = errors.New("seat already occupied")
	ErrSeatOutOfRange = errors.New("seat out of range")
)

// InvalidStateError marks an engine invariant violation. These are programmer
// errors: the current hand aborts instead of continuing with corrupt money or
// affect state.
type InvalidStateError string

func (e InvalidStateError) Error() string { return "invalid state: " + string(e) }

func errInvalidState(format string, args ...any) error {
	return InvalidStateError(fmt.Sprintf(format, args...))
}

// RejectionReason classifies why a submitted decision was refused.
type RejectionReason string

const (
	RejectIllegalKind        RejectionReason = "illegal_kind_for_phase"
	RejectInsufficientFunds  RejectionReason = "insufficient_funds"
	RejectMissingAttackPlan  RejectionReason = "missing_attack_plan"
	RejectInvalidRaiseAmount RejectionReason = "invalid_raise_amount"
	RejectOutOfTurn          RejectionReason = "not_players_turn"

	// RejectSourceFailure is stamped on the rejection event when the decision
	// source errors or times out; it is never produced by validation.
	RejectSourceFailure RejectionReason = "source_failure"
)

// RejectionError is returned by decision validation. Agent-facing and never
// fatal: the engine re-solicits once, then coerces the safest legal fallback.
type RejectionError struct {
	Seat   int
	Reason RejectionReason
	Detail string
}

func (e *RejectionError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("decision rejected for seat %d: %s", e.Seat, e.Reason)
	}
	return fmt.Sprintf("decision rejected for seat %d: %s (%s)", e.Seat, e.Reason, e.Detail)
}

func reject(seat int, reason RejectionReason, detail string) *RejectionError {
	return &RejectionError{Seat: seat, Reason: reason, Detail: detail}
}
