package replay

import (
	"errors"
	"fmt"
)

// ErrDigestMismatch reports that a tape's digest does not match its events,
// or that re-running its script produced a different stream.
var ErrDigestMismatch = errors.New("tape digest mismatch")

// ScriptError pinpoints the script element that made a run impossible.
// Seat and Step are -1 for problems above the seat or step level.
type ScriptError struct {
	Seat    int    `json:"seat"`
	Step    int    `json:"step"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

func (e *ScriptError) Error() string {
	if e == nil {
		return ""
	}
	if e.Seat < 0 {
		return fmt.Sprintf("script error (%s): %s", e.Reason, e.Message)
	}
	if e.Step < 0 {
		return fmt.Sprintf("script error (seat=%d %s): %s", e.Seat, e.Reason, e.Message)
	}
	return fmt.Sprintf("script error (seat=%d step=%d %s): %s", e.Seat, e.Step, e.Reason, e.Message)
}

func scriptErr(seat, step int, reason, format string, args ...any) *ScriptError {
	return &ScriptError{Seat: seat, Step: step, Reason: reason, Message: fmt.Sprintf(format, args...)}
}
