package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"salescrm/internal/pkg/response"
)

// RequireRole ensures that the authenticated user has one of the
// specified roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role, exists := c.Get("role")
		if !exists {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		for _, r := range roles {
			if role.(string) == r {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		c.Abort()
	}
}

// AdminOnly middleware requires admin role
func AdminOnly() gin.HandlerFunc {
	return RequireRole("admin")
}

// ManagerOrAdmin covers pipeline/stage administration.
func ManagerOrAdmin() gin.HandlerFunc {
	return RequireRole("admin", "manager")
}
