package handler

import (
	"net/http"
	"strings"

	"github.com/yourorg/lifelink/internal/model"
	"github.com/yourorg/lifelink/internal/service"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DonorHandler handles donor HTTP endpoints
type DonorHandler struct {
	donorService *service.DonorService
	logger       *zap.Logger
}

// NewDonorHandler creates a new donor handler
func NewDonorHandler(donorService *service.DonorService, logger *zap.Logger) *DonorHandler {
	return &DonorHandler{
		donorService: donorService,
		logger:       logger,
	}
}

// SearchDonors handles donor search with indexed-field filters
// GET /api/v1/donors?blood_type=O+,O-&city=Mumbai&state=Maharashtra&available_only=true
func (h *DonorHandler) SearchDonors(c *gin.Context) {
	filter := model.DonorFilter{
		City:          c.Query("city"),
		State:         c.Query("state"),
		AvailableOnly: c.Query("available_only") == "true",
	}

	if raw := c.Query("blood_type"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			bloodType, err := model.ParseBloodType(strings.TrimSpace(part))
			if err != nil {
				respondError(c, err)
				return
			}
			filter.BloodTypes = append(filter.BloodTypes, bloodType)
		}
	}

	donors, err := h.donorService.SearchDonors(c.Request.Context(), filter)
	if err != nil {
		h.logger.Error("Failed to search donors", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"donors": donors, "total": len(donors)})
}

// GetCurrentDonor handles retrieving the acting donor's profile
// GET /api/v1/donors/me
func (h *DonorHandler) GetCurrentDonor(c *gin.Context) {
	userID, _ := c.Get("userID")

	donor, err := h.donorService.GetByUserID(c.Request.Context(), userID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, donor)
}

// SetAvailability handles a donor toggling their availability
// PUT /api/v1/donors/me/availability
func (h *DonorHandler) SetAvailability(c *gin.Context) {
	userID, _ := c.Get("userID")

	var input model.DonorAvailabilityUpdate
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	donor, err := h.donorService.SetAvailability(c.Request.Context(), userID.(string), *input.Available)
	if err != nil {
		h.logger.Error("Failed to set donor availability", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, donor)
}

// GetRewards handles retrieving the acting donor's reward points
// GET /api/v1/donors/me/rewards
func (h *DonorHandler) GetRewards(c *gin.Context) {
	userID, _ := c.Get("userID")

	reward, err := h.donorService.GetRewards(c.Request.Context(), userID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, reward)
}
