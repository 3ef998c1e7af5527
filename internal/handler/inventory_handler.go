package handler

import (
	"net/http"

	"github.com/yourorg/lifelink/internal/model"
	"github.com/yourorg/lifelink/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// InventoryHandler handles blood bank inventory HTTP endpoints
type InventoryHandler struct {
	inventoryService *service.InventoryService
	logger           *zap.Logger
}

// NewInventoryHandler creates a new blood inventory handler
func NewInventoryHandler(inventoryService *service.InventoryService, logger *zap.Logger) *InventoryHandler {
	return &InventoryHandler{
		inventoryService: inventoryService,
		logger:           logger,
	}
}

// ListByBank handles retrieving a blood bank's stock levels
// GET /api/v1/inventory/:bankID
func (h *InventoryHandler) ListByBank(c *gin.Context) {
	items, err := h.inventoryService.ListByBank(c.Request.Context(), c.Param("bankID"))
	if err != nil {
		h.logger.Error("Failed to list blood inventory", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"inventory": items})
}

// Upsert handles a blood bank setting stock for a blood type
// PUT /api/v1/inventory/:bankID
func (h *InventoryHandler) Upsert(c *gin.Context) {
	var input model.BloodInventoryUpsert
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := h.inventoryService.Upsert(c.Request.Context(), c.Param("bankID"), &input)
	if err != nil {
		h.logger.Error("Failed to upsert blood inventory", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, item)
}
