package lifecycle

import (
	"testing"

	"github.com/yourorg/lifelink/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name    string
		from    model.RequestStatus
		to      model.RequestStatus
		allowed bool
	}{
		{"pending to matched", model.StatusPending, model.StatusMatched, true},
		{"pending to cancelled", model.StatusPending, model.StatusCancelled, true},
		{"matched to fulfilled", model.StatusMatched, model.StatusFulfilled, true},
		{"matched to cancelled", model.StatusMatched, model.StatusCancelled, true},
		{"pending to fulfilled skips matched", model.StatusPending, model.StatusFulfilled, false},
		{"fulfilled is terminal", model.StatusFulfilled, model.StatusCancelled, false},
		{"cancelled is terminal", model.StatusCancelled, model.StatusFulfilled, false},
		{"cancelled cannot reopen", model.StatusCancelled, model.StatusPending, false},
		{"no self transition", model.StatusPending, model.StatusPending, false},
		{"matched cannot regress", model.StatusMatched, model.StatusPending, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.allowed, CanTransition(tt.from, tt.to))
		})
	}
}

func TestValidateTransitionNamesStatuses(t *testing.T) {
	err := ValidateTransition(model.StatusCancelled, model.StatusFulfilled)
	require.Error(t, err)

	var ite *model.IllegalTransitionError
	require.ErrorAs(t, err, &ite)
	assert.Equal(t, model.StatusCancelled, ite.From)
	assert.Equal(t, model.StatusFulfilled, ite.To)
	assert.Contains(t, err.Error(), "cancelled")
	assert.Contains(t, err.Error(), "fulfilled")
}

func TestValidateTransitionLegal(t *testing.T) {
	assert.NoError(t, ValidateTransition(model.StatusPending, model.StatusMatched))
	assert.NoError(t, ValidateTransition(model.StatusMatched, model.StatusFulfilled))
}

func TestIsTerminal(t *testing.T) {
	assert.False(t, IsTerminal(model.StatusPending))
	assert.False(t, IsTerminal(model.StatusMatched))
	assert.True(t, IsTerminal(model.StatusFulfilled))
	assert.True(t, IsTerminal(model.StatusCancelled))
}

// Every path from pending must pass through matched before fulfilled.
func TestNoPathToFulfilledWithoutMatched(t *testing.T) {
	assert.False(t, CanTransition(model.StatusPending, model.StatusFulfilled))

	// The only way into fulfilled is from matched.
	for _, from := range []model.RequestStatus{
		model.StatusPending, model.StatusFulfilled, model.StatusCancelled,
	} {
		assert.False(t, CanTransition(from, model.StatusFulfilled), "from %s", from)
	}
	assert.True(t, CanTransition(model.StatusMatched, model.StatusFulfilled))
}
