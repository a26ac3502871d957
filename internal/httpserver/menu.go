package httpserver

import (
	"net/http"

	menusvc "canteen-backend/internal/service/menu"
	"github.com/gin-gonic/gin"
)

func publicMenuHandler(menu MenuService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := menu.PublicMenu(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

func listMenuHandler(menu MenuService) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := menu.List(c.Request.Context())
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

func createMenuItemHandler(menu MenuService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in menusvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		item, err := menu.Create(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"item": item})
	}
}

func updateMenuItemHandler(menu MenuService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in menusvc.Input
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		item, err := menu.Update(c.Request.Context(), c.Param("id"), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"item": item})
	}
}

func deleteMenuItemHandler(menu MenuService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := menu.Delete(c.Request.Context(), c.Param("id")); err != nil {
			writeError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}
