package handler

import (
	"net/http"

	"github.com/yourorg/lifelink/internal/service"
	"github.com/yourorg/lifelink/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NotificationHandler handles notification HTTP endpoints
type NotificationHandler struct {
	notificationService *service.NotificationService
	logger              *zap.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(notificationService *service.NotificationService, logger *zap.Logger) *NotificationHandler {
	return &NotificationHandler{
		notificationService: notificationService,
		logger:              logger,
	}
}

// GetNotifications handles retrieving the caller's notifications
// GET /api/v1/notifications
func (h *NotificationHandler) GetNotifications(c *gin.Context) {
	userID, _ := c.Get("userID")

	params := utils.ParsePaginationParams(c, 50, 200)
	offset := utils.CalculateOffset(params.Page, params.Limit)

	response, err := h.notificationService.GetNotifications(c.Request.Context(), userID.(string), params.Limit, offset)
	if err != nil {
		h.logger.Error("Failed to get notifications", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetUnreadCount handles retrieving the caller's unread notification count
// GET /api/v1/notifications/count
func (h *NotificationHandler) GetUnreadCount(c *gin.Context) {
	userID, _ := c.Get("userID")

	count, err := h.notificationService.GetUnreadCount(c.Request.Context(), userID.(string))
	if err != nil {
		h.logger.Error("Failed to get unread notification count", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkAsRead handles marking one notification as read
// PUT /api/v1/notifications/:id/read
func (h *NotificationHandler) MarkAsRead(c *gin.Context) {
	userID, _ := c.Get("userID")

	if err := h.notificationService.MarkAsRead(c.Request.Context(), c.Param("id"), userID.(string)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// MarkAllAsRead handles marking all of the caller's notifications as read
// PUT /api/v1/notifications/read-all
func (h *NotificationHandler) MarkAllAsRead(c *gin.Context) {
	userID, _ := c.Get("userID")

	count, err := h.notificationService.MarkAllAsRead(c.Request.Context(), userID.(string))
	if err != nil {
		h.logger.Error("Failed to mark all notifications as read", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"marked_count": count})
}
