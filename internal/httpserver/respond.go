package httpserver

import (
	"errors"
	"net/http"

	"canteen-backend/internal/domain"
	staffsvc "canteen-backend/internal/service/staff"
	"github.com/gin-gonic/gin"
)

// writeError maps domain errors onto HTTP statuses. Anything unrecognized
// is a storage or programming fault and stays a 500 without leaking detail.
func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
	case errors.Is(err, domain.ErrInvalid), errors.Is(err, domain.ErrItemIndex):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrInvalidState),
		errors.Is(err, domain.ErrAlreadyTerminal),
		errors.Is(err, domain.ErrIncompleteDelivery),
		errors.Is(err, domain.ErrAlreadyExists):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, staffsvc.ErrInvalidCredentials), errors.Is(err, staffsvc.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
