package handler

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"auth_service/internal/middleware"
	"auth_service/internal/service"

	"github.com/gin-gonic/gin"
)

// UserHandler handles user management requests
type UserHandler struct {
	service service.UserService
}

// NewUserHandler creates a new UserHandler
func NewUserHandler(s service.UserService) *UserHandler {
	return &UserHandler{service: s}
}

// GetMe returns the profile of the authenticated user
func (h *UserHandler) GetMe(c *gin.Context) {
	user := middleware.CurrentUser(c)
	if user == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status": "success",
		"data":   gin.H{"user": user},
	})
}

// GetAllUsers lists every user account (admin only)
func (h *UserHandler) GetAllUsers(c *gin.Context) {
	users, err := h.service.GetAllUsers(c.Request.Context())
	if err != nil {
		log.Printf("Error listing users: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"results": len(users),
		"data":    gin.H{"users": users},
	})
}

// DeleteUser removes a user account (admin only)
func (h *UserHandler) DeleteUser(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if err := h.service.DeleteUser(c.Request.Context(), id); err != nil {
		if errors.Is(err, service.ErrNoSuchUser) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error deleting user %d: %v", id, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}

	c.Status(http.StatusNoContent)
}

// RegisterUserRoutes registers user management routes
func (h *UserHandler) RegisterUserRoutes(rg *gin.RouterGroup, protectMW, adminMW gin.HandlerFunc) {
	userGroup := rg.Group("/users")
	userGroup.Use(protectMW)
	{
		userGroup.GET("/me", h.GetMe)
		userGroup.GET("", adminMW, h.GetAllUsers)
		userGroup.DELETE("/:id", adminMW, h.DeleteUser)
	}
}
