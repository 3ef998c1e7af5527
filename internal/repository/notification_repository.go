package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/yourorg/lifelink/internal/model"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

// NotificationRepository handles database operations for notifications
type NotificationRepository struct {
	db     *sqlx.DB
	logger *zap.Logger
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sqlx.DB, logger *zap.Logger) *NotificationRepository {
	return &NotificationRepository{
		db:     db,
		logger: logger,
	}
}

// Add inserts a new notification for a user and returns its id
func (r *NotificationRepository) Add(
	ctx context.Context,
	userID, notificationType, title, message string,
	relatedRequestID *string,
) (string, error) {
	query := `
		INSERT INTO notifications (id, user_id, type, title, message, related_request_id, read, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, false, $7)
	`

	id := uuid.New().String()
	_, err := r.db.ExecContext(ctx, query, id, userID, notificationType, title, message, relatedRequestID, time.Now())
	if err != nil {
		r.logger.Error("Failed to add notification", zap.Error(err))
		return "", err
	}

	return id, nil
}

// GetByID retrieves a notification by ID
func (r *NotificationRepository) GetByID(ctx context.Context, id string) (*model.Notification, error) {
	query := `
		SELECT id, user_id, type, title, message, related_request_id, read, created_at
		FROM notifications
		WHERE id = $1
	`

	var notification model.Notification
	if err := r.db.GetContext(ctx, &notification, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		r.logger.Error("Failed to get notification", zap.Error(err), zap.String("id", id))
		return nil, err
	}

	return &notification, nil
}

// GetAllForUser retrieves a user's notifications, newest first, with pagination
func (r *NotificationRepository) GetAllForUser(ctx context.Context, userID string, limit, offset int) ([]model.Notification, int, error) {
	countQuery := `SELECT COUNT(*) FROM notifications WHERE user_id = $1`

	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, userID); err != nil {
		r.logger.Error("Failed to count notifications", zap.Error(err))
		return nil, 0, err
	}

	query := `
		SELECT id, user_id, type, title, message, related_request_id, read, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3
	`

	notifications := []model.Notification{}
	if err := r.db.SelectContext(ctx, &notifications, query, userID, limit, offset); err != nil {
		r.logger.Error("Failed to get notifications", zap.Error(err))
		return nil, 0, err
	}

	return notifications, total, nil
}

// GetUnreadCount retrieves the count of unread notifications for a user
func (r *NotificationRepository) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM notifications WHERE user_id = $1 AND read = false`

	var count int
	if err := r.db.GetContext(ctx, &count, query, userID); err != nil {
		r.logger.Error("Failed to get unread notification count", zap.Error(err))
		return 0, err
	}

	return count, nil
}

// MarkAsRead marks a single notification as read, scoped to its recipient
func (r *NotificationRepository) MarkAsRead(ctx context.Context, id, userID string) (bool, error) {
	query := `UPDATE notifications SET read = true WHERE id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, id, userID)
	if err != nil {
		r.logger.Error("Failed to mark notification as read", zap.Error(err), zap.String("id", id))
		return false, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}

	return rows > 0, nil
}

// MarkAllAsRead marks all of a user's notifications as read and returns
// how many were updated
func (r *NotificationRepository) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	query := `UPDATE notifications SET read = true WHERE user_id = $1 AND read = false`

	result, err := r.db.ExecContext(ctx, query, userID)
	if err != nil {
		r.logger.Error("Failed to mark all notifications as read", zap.Error(err))
		return 0, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, err
	}

	return int(rows), nil
}
