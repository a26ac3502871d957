package httpserver

import (
	"net/http"

	"canteen-backend/internal/domain"
	campaignsvc "canteen-backend/internal/service/campaign"
	"github.com/gin-gonic/gin"
)

func publicCampaignsHandler(campaigns CampaignService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := campaigns.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		active := make([]domain.Campaign, 0, len(list))
		for _, campaign := range list {
			if campaign.IsActive {
				active = append(active, campaign)
			}
		}
		c.JSON(http.StatusOK, gin.H{"campaigns": active})
	}
}

func listCampaignsHandler(campaigns CampaignService) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := campaigns.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"campaigns": list})
	}
}

func createCampaignHandler(campaigns CampaignService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in campaignsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		created, err := campaigns.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"campaign": created})
	}
}

func updateCampaignHandler(campaigns CampaignService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in campaignsvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		updated, err := campaigns.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"campaign": updated})
	}
}

func deleteCampaignHandler(campaigns CampaignService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := campaigns.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
