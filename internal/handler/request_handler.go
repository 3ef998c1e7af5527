package handler

import (
	"net/http"

	"github.com/yourorg/lifelink/internal/model"
	"github.com/yourorg/lifelink/internal/service"
	"github.com/yourorg/lifelink/internal/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RequestHandler handles blood request HTTP endpoints
type RequestHandler struct {
	requestService *service.RequestService
	logger         *zap.Logger
}

// NewRequestHandler creates a new blood request handler
func NewRequestHandler(requestService *service.RequestService, logger *zap.Logger) *RequestHandler {
	return &RequestHandler{
		requestService: requestService,
		logger:         logger,
	}
}

// CreateRequest handles creating an emergency blood request
// POST /api/v1/requests
func (h *RequestHandler) CreateRequest(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input model.BloodRequestCreate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, candidates, err := h.requestService.CreateRequest(c.Request.Context(), userID.(string), &input)
	if err != nil {
		h.logger.Error("Failed to create blood request", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"request":    req,
		"candidates": len(candidates),
	})
}

// ListRequests handles listing the acting hospital's blood requests
// GET /api/v1/requests
func (h *RequestHandler) ListRequests(c *gin.Context) {
	userID, _ := c.Get("userID")
	role, _ := c.Get("userRole")

	params := utils.ParsePaginationParams(c, 20, 100)
	offset := utils.CalculateOffset(params.Page, params.Limit)

	var response *model.BloodRequestListResponse
	var err error

	if role == "admin" {
		response, err = h.requestService.ListAllRequests(c.Request.Context(), params.Limit, offset)
	} else {
		response, err = h.requestService.ListRequests(c.Request.Context(), userID.(string), params.Limit, offset)
	}

	if err != nil {
		h.logger.Error("Failed to list blood requests", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// GetRequest handles retrieving a single blood request
// GET /api/v1/requests/:id
func (h *RequestHandler) GetRequest(c *gin.Context) {
	req, err := h.requestService.GetRequest(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, req)
}

// GetCandidates handles re-running donor matching for a request
// GET /api/v1/requests/:id/candidates
func (h *RequestHandler) GetCandidates(c *gin.Context) {
	candidates, err := h.requestService.FindCandidates(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to find candidates", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"candidates": candidates})
}

// Respond handles a donor accepting a pending request
// POST /api/v1/requests/:id/respond
func (h *RequestHandler) Respond(c *gin.Context) {
	userID, _ := c.Get("userID")

	req, err := h.requestService.DonorRespond(c.Request.Context(), c.Param("id"), userID.(string))
	if err != nil {
		h.logger.Error("Failed to record donor response", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, req)
}

// FulfillInput identifies the donor whose contribution is being confirmed
type FulfillInput struct {
	DonorID string `json:"donor_id" binding:"required"`
}

// Fulfill handles confirming a donor's contribution
// POST /api/v1/requests/:id/fulfill
func (h *RequestHandler) Fulfill(c *gin.Context) {
	var input FulfillInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	req, err := h.requestService.Fulfill(c.Request.Context(), c.Param("id"), input.DonorID)
	if err != nil {
		h.logger.Error("Failed to fulfill blood request", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, req)
}

// Cancel handles a hospital withdrawing its request
// POST /api/v1/requests/:id/cancel
func (h *RequestHandler) Cancel(c *gin.Context) {
	userID, _ := c.Get("userID")

	req, err := h.requestService.Cancel(c.Request.Context(), c.Param("id"), userID.(string))
	if err != nil {
		h.logger.Error("Failed to cancel blood request", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, req)
}
