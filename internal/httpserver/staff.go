package httpserver

import (
	"net/http"

	staffsvc "canteen-backend/internal/service/staff"
	"github.com/gin-gonic/gin"
)

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func staffSignupHandler(staff StaffService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in staffsvc.SignupInput
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		account, err := staff.Signup(c.Request.Context(), in)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"staff": account})
	}
}

func staffLoginHandler(staff StaffService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var in loginRequest
		if err := c.ShouldBindJSON(&in); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "email and password are required"})
			return
		}
		account, access, refresh, err := staff.Login(c.Request.Context(), in.Email, in.Password)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"staff":        account,
			"accessToken":  access,
			"refreshToken": refresh,
			"expiresIn":    staff.AccessTTLSeconds(),
		})
	}
}

func staffLogoutHandler(staff StaffService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := staff.Logout(c.Request.Context(), bearerToken(c)); err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "logged out"})
	}
}

func staffMeHandler() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"staff": staffFromContext(c)})
	}
}
