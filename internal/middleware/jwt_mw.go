package middleware

import (
	"net/http"
	"strings"

	"auth_service/internal/model"
	"auth_service/internal/repository"
	"auth_service/internal/utils"

	"github.com/gin-gonic/gin"
)

const (
	AuthUserKey = "authUser"
	AuthRoleKey = "authRole"
)

// Protect creates a middleware that verifies the bearer token and resolves
// the current user. The user is looked up again on every request: a token
// outlives neither the account it names nor a password change made after
// it was issued.
func Protect(jwtUtil *utils.JWTUtil, userRepo repository.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "You are not logged in, please log in to get access"})
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid authorization header format"})
			return
		}

		tokenString := parts[1]
		claims, err := jwtUtil.ValidateToken(tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		user, err := userRepo.FindByID(c.Request.Context(), claims.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Failed to resolve user"})
			return
		}
		if user == nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "The user belonging to this token no longer exists"})
			return
		}

		if claims.IssuedAt != nil && user.ChangedPasswordAfter(claims.IssuedAt.Time) {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Password was recently changed, please log in again"})
			return
		}

		// Set resolved user in context for downstream handlers
		c.Set(AuthUserKey, user)
		c.Set(AuthRoleKey, user.Role)

		c.Next()
	}
}

// CurrentUser returns the user resolved by Protect, or nil if absent
func CurrentUser(c *gin.Context) *model.User {
	userVal, exists := c.Get(AuthUserKey)
	if !exists {
		return nil
	}
	user, ok := userVal.(*model.User)
	if !ok {
		return nil
	}
	return user
}
