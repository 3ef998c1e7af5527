package service

import (
	"context"

	"github.com/yourorg/lifelink/internal/model"

	"go.uber.org/zap"
)

// NotificationService handles the recipient side of notifications: listing
// and read receipts. Creation goes through the dispatcher only.
type NotificationService struct {
	notificationStore NotificationStore
	logger            *zap.Logger
}

// NewNotificationService creates a new notification service
func NewNotificationService(notificationStore NotificationStore, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		notificationStore: notificationStore,
		logger:            logger,
	}
}

// GetNotifications retrieves a user's notifications with pagination and the
// unread total
func (s *NotificationService) GetNotifications(ctx context.Context, userID string, limit, offset int) (*model.NotificationListResponse, error) {
	if limit <= 0 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}

	notifications, total, err := s.notificationStore.GetAllForUser(ctx, userID, limit, offset)
	if err != nil {
		return nil, err
	}

	unread, err := s.notificationStore.GetUnreadCount(ctx, userID)
	if err != nil {
		return nil, err
	}

	return &model.NotificationListResponse{
		Notifications: notifications,
		Total:         total,
		Unread:        unread,
	}, nil
}

// GetUnreadCount retrieves the count of unread notifications for a user
func (s *NotificationService) GetUnreadCount(ctx context.Context, userID string) (int, error) {
	return s.notificationStore.GetUnreadCount(ctx, userID)
}

// MarkAsRead marks one of the user's notifications as read
func (s *NotificationService) MarkAsRead(ctx context.Context, id, userID string) error {
	ok, err := s.notificationStore.MarkAsRead(ctx, id, userID)
	if err != nil {
		return err
	}
	if !ok {
		return model.ErrNotFound
	}
	return nil
}

// MarkAllAsRead marks all of the user's notifications as read and returns
// how many were updated
func (s *NotificationService) MarkAllAsRead(ctx context.Context, userID string) (int, error) {
	return s.notificationStore.MarkAllAsRead(ctx, userID)
}
