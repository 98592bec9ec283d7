package middleware

import (
	"net/http"

	"auth_service/internal/model"

	"github.com/gin-gonic/gin"
)

// RestrictTo creates a middleware allowing only the given roles past it.
// Must run after Protect. The forbidden branch aborts: the downstream
// handler is never invoked for a rejected role.
func RestrictTo(allowedRoles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		roleVal, exists := c.Get(AuthRoleKey)
		if !exists {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Role not found in context, ensure Protect runs first"})
			return
		}

		userRole, ok := roleVal.(string)
		if !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Invalid role type in context"})
			return
		}

		isAllowed := false
		for _, allowedRole := range allowedRoles {
			if userRole == allowedRole {
				isAllowed = true
				break
			}
		}

		if !isAllowed {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have permission to perform this action"})
			return
		}

		c.Next()
	}
}

// AdminOnly restricts a route to administrators
func AdminOnly() gin.HandlerFunc {
	return RestrictTo(model.RoleAdmin)
}
