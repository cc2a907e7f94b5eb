package session

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySelection means there was nothing to submit.
	ErrEmptySelection = errors.New("no products selected")

	// ErrBusy means another mutation is still in flight.
	ErrBusy = errors.New("another link or unlink is in progress")

	// ErrWrongMode means the selection does not belong to the active view.
	ErrWrongMode = errors.New("selection does not match the current view")
)

// LoadError reports a failed snapshot fetch.
type LoadError struct {
	AccountID string
	Err       error
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("loading account %s: %v", e.AccountID, e.Err)
}

func (e *LoadError) Unwrap() error { return e.Err }

// MutationError reports a link or unlink that was not applied.
type MutationError struct {
	Op      string
	Outcome Outcome
	Message string
	Err     error
}

func (e *MutationError) Error() string {
	switch {
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s: service returned %s: %s", e.Op, e.Outcome, e.Message)
	default:
		return fmt.Sprintf("%s: service returned %s", e.Op, e.Outcome)
	}
}

func (e *MutationError) Unwrap() error { return e.Err }
