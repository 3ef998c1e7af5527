package dispatch

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// NotificationStore is the persistence sink for dispatched notifications
type NotificationStore interface {
	Add(ctx context.Context, userID, notificationType, title, message string, relatedRequestID *string) (string, error)
}

// Event is the structured record published for every notification
type Event struct {
	Type             string    `json:"type"`
	UserID           string    `json:"user_id"`
	Title            string    `json:"title"`
	Message          string    `json:"message"`
	RelatedRequestID *string   `json:"related_request_id,omitempty"`
	OccurredAt       time.Time `json:"occurred_at"`
}

// Dispatcher delivers notifications produced by the request lifecycle: it
// stores them for in-app delivery and mirrors them onto a Kafka topic for
// downstream consumers (push, email). Delivery is fire-and-forget from the
// lifecycle's point of view: a dispatch failure is logged and never fails
// the transition that triggered it.
type Dispatcher struct {
	notificationRepo NotificationStore
	producer         *Producer
	topic            string
	logger           *zap.Logger
}

// NewDispatcher creates a notification dispatcher. producer may be nil when
// Kafka is disabled; events are then only stored.
func NewDispatcher(
	notificationRepo NotificationStore,
	producer *Producer,
	topic string,
	logger *zap.Logger,
) *Dispatcher {
	return &Dispatcher{
		notificationRepo: notificationRepo,
		producer:         producer,
		topic:            topic,
		logger:           logger,
	}
}

// Notify stores a notification for the recipient and publishes the matching
// event. The Kafka publish is retried with exponential backoff; the stored
// notification is the source of truth, so a publish that still fails after
// retries is only logged.
func (d *Dispatcher) Notify(ctx context.Context, userID, notificationType, title, message string, relatedRequestID *string) {
	if _, err := d.notificationRepo.Add(ctx, userID, notificationType, title, message, relatedRequestID); err != nil {
		d.logger.Error("Failed to store notification",
			zap.String("user_id", userID),
			zap.String("type", notificationType),
			zap.Error(err))
	}

	if d.producer == nil {
		return
	}

	event := Event{
		Type:             notificationType,
		UserID:           userID,
		Title:            title,
		Message:          message,
		RelatedRequestID: relatedRequestID,
		OccurredAt:       time.Now(),
	}

	key := userID
	if relatedRequestID != nil {
		key = *relatedRequestID
	}

	operation := func() error {
		return d.producer.Publish(ctx, d.topic, key, event)
	}

	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 3), ctx)
	if err := backoff.Retry(operation, policy); err != nil {
		d.logger.Error("Failed to publish notification event after retries",
			zap.String("user_id", userID),
			zap.String("type", notificationType),
			zap.Error(err))
	}
}
