package lifecycle

import (
	"github.com/yourorg/lifelink/internal/model"
)

// Legal status transitions. Fulfilled and cancelled are terminal: they have
// no outgoing edges and a request never leaves them.
var transitions = map[model.RequestStatus][]model.RequestStatus{
	model.StatusPending: {model.StatusMatched, model.StatusCancelled},
	model.StatusMatched: {model.StatusFulfilled, model.StatusCancelled},
}

// CanTransition reports whether the state machine permits moving a request
// from one status to another
func CanTransition(from, to model.RequestStatus) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// ValidateTransition returns an IllegalTransitionError naming both statuses
// when the requested change is not permitted
func ValidateTransition(from, to model.RequestStatus) error {
	if !CanTransition(from, to) {
		return &model.IllegalTransitionError{From: from, To: to}
	}
	return nil
}

// IsTerminal reports whether a status permits no further transitions
func IsTerminal(status model.RequestStatus) bool {
	return len(transitions[status]) == 0
}
