package middleware

import (
	"net/http"

	"smap/internal/pkg/response"

	"github.com/gin-gonic/gin"
)

// RequireRole allows the request through only when the token carries one of
// the listed roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if role == "" {
			response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "Role not found in token")
			c.Abort()
			return
		}

		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}

		response.Error(c, http.StatusForbidden, "FORBIDDEN", "Access denied: insufficient permissions")
		c.Abort()
	}
}

// AdminOnly restricts an endpoint to administrators.
func AdminOnly() gin.HandlerFunc {
	return RequireRole("admin")
}

// StaffOnly restricts workflow mutations to admins and officers.
func StaffOnly() gin.HandlerFunc {
	return RequireRole("admin", "officer")
}
