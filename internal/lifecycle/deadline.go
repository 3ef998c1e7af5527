package lifecycle

import (
	"time"

	"github.com/yourorg/lifelink/internal/model"
)

// Fulfillment deadline offsets per urgency level
var urgencyOffsets = map[model.UrgencyLevel]time.Duration{
	model.UrgencyCritical: 1 * time.Hour,
	model.UrgencyHigh:     6 * time.Hour,
	model.UrgencyMedium:   24 * time.Hour,
	model.UrgencyLow:      48 * time.Hour,
}

// ComputeRequiredBy derives the fulfillment deadline for a blood request from
// its creation time and urgency level. Callers validate the urgency at the
// boundary; an unknown level here is a contract violation and returns
// ErrInvalidUrgency. The result is stored immutably on the request.
func ComputeRequiredBy(createdAt time.Time, urgency model.UrgencyLevel) (time.Time, error) {
	offset, ok := urgencyOffsets[urgency]
	if !ok {
		return time.Time{}, model.ErrInvalidUrgency
	}
	return createdAt.Add(offset), nil
}
