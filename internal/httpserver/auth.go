package httpserver

import (
	"net/http"
	"strings"

	"canteen-backend/internal/domain"
	"github.com/gin-gonic/gin"
)

const staffContextKey = "staffAccount"

// requireStaff resolves the bearer token to a staff account and stores it
// on the request context.
func requireStaff(svc StaffService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing bearer token"})
			return
		}
		account, err := svc.LookupByToken(c.Request.Context(), token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		c.Set(staffContextKey, account)
		c.Next()
	}
}

// requireAdmin must run after requireStaff.
func requireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		account := staffFromContext(c)
		if account == nil || account.Role != domain.RoleAdmin {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "admin role required"})
			return
		}
		c.Next()
	}
}

func staffFromContext(c *gin.Context) *domain.Staff {
	v, ok := c.Get(staffContextKey)
	if !ok {
		return nil
	}
	account, _ := v.(*domain.Staff)
	return account
}

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
}
