package handler

import (
	"errors"
	"net/http"

	"github.com/yourorg/lifelink/internal/model"

	"github.com/gin-gonic/gin"
)

// respondError translates domain errors into HTTP responses with messages a
// user can act on instead of raw error codes
func respondError(c *gin.Context, err error) {
	switch {
	case model.IsIllegalTransition(err):
		c.JSON(http.StatusConflict, gin.H{"error": transitionMessage(err)})
	case errors.Is(err, model.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "The request was just updated by someone else. Please refresh and try again."})
	case errors.Is(err, model.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "The requested record was not found"})
	case errors.Is(err, model.ErrInvalidBloodType):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Blood type must be one of A+, A-, B+, B-, AB+, AB-, O+, O-"})
	case errors.Is(err, model.ErrInvalidUrgency):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Urgency must be one of critical, high, medium, low"})
	case errors.Is(err, model.ErrInvalidStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request status"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
	}
}

func transitionMessage(err error) string {
	var ite *model.IllegalTransitionError
	if !errors.As(err, &ite) {
		return err.Error()
	}

	switch ite.From {
	case model.StatusFulfilled:
		return "This request has already been fulfilled"
	case model.StatusCancelled:
		return "This request has already been cancelled"
	default:
		return err.Error()
	}
}
