package model

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. Services return these unwrapped so handlers can
// translate them into HTTP statuses; none of them are retried by the core.
var (
	// ErrNotFound indicates a referenced record does not exist
	ErrNotFound = errors.New("record not found")

	// ErrConflict indicates a lost-update race on a request's status;
	// the caller must re-read and retry or report failure
	ErrConflict = errors.New("request was modified concurrently")

	// ErrInvalidUrgency indicates an urgency value outside the four recognized levels
	ErrInvalidUrgency = errors.New("invalid urgency level")

	// ErrInvalidBloodType indicates a blood type outside the eight ABO/Rh groups
	ErrInvalidBloodType = errors.New("invalid blood type")

	// ErrInvalidStatus indicates a request status outside the fixed vocabulary
	ErrInvalidStatus = errors.New("invalid request status")
)

// IllegalTransitionError reports an attempted request status change that the
// lifecycle state machine does not permit
type IllegalTransitionError struct {
	From RequestStatus
	To   RequestStatus
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("illegal status transition from %q to %q", e.From, e.To)
}

// IsIllegalTransition reports whether err is an IllegalTransitionError
func IsIllegalTransition(err error) bool {
	var ite *IllegalTransitionError
	return errors.As(err, &ite)
}
