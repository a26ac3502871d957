package httpserver

import (
	"net/http"

	"canteen-backend/internal/domain"
	"github.com/gin-gonic/gin"
)

func canteenStatusHandler(canteen CanteenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"open": canteen.IsOpen()})
	}
}

func toggleCanteenHandler(canteen CanteenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in struct {
			Open *bool `json:"open" binding:"required"`
		}
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "open flag is required"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"open": canteen.SetOpen(*in.Open)})
	}
}

func getServiceHoursHandler(canteen CanteenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		h, err := canteen.Hours(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, h)
	}
}

func updateServiceHoursHandler(canteen CanteenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in domain.ServiceHours
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		h, err := canteen.UpdateHours(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, h)
	}
}
