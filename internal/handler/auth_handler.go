package handler

import (
	"errors"
	"log"
	"net/http"

	"auth_service/internal/config"
	"auth_service/internal/middleware"
	"auth_service/internal/model"
	"auth_service/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication requests
type AuthHandler struct {
	service service.AuthService
	authCfg *config.AuthConfig
}

// NewAuthHandler creates a new AuthHandler
func NewAuthHandler(s service.AuthService, authCfg *config.AuthConfig) *AuthHandler {
	return &AuthHandler{service: s, authCfg: authCfg}
}

// sendToken writes the logged-in response: the token in the JSON body and
// in an HTTP-only "jwt" cookie. The cookie is marked secure in production.
// The user's password hash is never serialized (json:"-" on the model).
func (h *AuthHandler) sendToken(c *gin.Context, status int, user *model.User, token string) {
	maxAge := int(h.authCfg.CookieExpDays * 24 * 60 * 60)
	c.SetCookie("jwt", token, maxAge, "/", "", h.authCfg.SecureCookie, true)

	c.JSON(status, gin.H{
		"status": "success",
		"token":  token,
		"data":   gin.H{"user": user},
	})
}

func (h *AuthHandler) Signup(c *gin.Context) {
	var req struct {
		Name            string `json:"name" binding:"required"`
		Email           string `json:"email" binding:"required,email"`
		Password        string `json:"password" binding:"required,min=8"`
		PasswordConfirm string `json:"passwordConfirm" binding:"required"`
		Role            string `json:"role"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, token, err := h.service.Signup(c.Request.Context(), service.SignupInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		PasswordConfirm: req.PasswordConfirm,
		Role:            req.Role,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) || errors.Is(err, service.ErrPasswordMismatch) || errors.Is(err, service.ErrInvalidRole) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error during signup: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to sign up"})
		return
	}

	h.sendToken(c, http.StatusCreated, user, token)
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please provide email and password"})
		return
	}

	user, token, err := h.service.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": service.ErrInvalidCredentials.Error()})
			return
		}
		log.Printf("Error during login: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to log in"})
		return
	}

	h.sendToken(c, http.StatusOK, user, token)
}

func (h *AuthHandler) ForgotPassword(c *gin.Context) {
	var req struct {
		Email string `json:"email" binding:"required,email"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	resetURLBase := scheme + "://" + c.Request.Host + "/api/v1/users/resetPassword"

	err := h.service.ForgotPassword(c.Request.Context(), req.Email, resetURLBase)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUserNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrEmailSendFailed):
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		default:
			log.Printf("Error during forgot password: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process request"})
		}
		return
	}

	// The token travels by email only, never in the response.
	c.JSON(http.StatusOK, gin.H{
		"status":  "success",
		"message": "Token sent to email",
	})
}

func (h *AuthHandler) ResetPassword(c *gin.Context) {
	var req struct {
		Password        string `json:"password" binding:"required,min=8"`
		PasswordConfirm string `json:"passwordConfirm" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, token, err := h.service.ResetPassword(c.Request.Context(), c.Param("token"), req.Password, req.PasswordConfirm)
	if err != nil {
		if errors.Is(err, service.ErrResetTokenInvalid) || errors.Is(err, service.ErrPasswordMismatch) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		log.Printf("Error during password reset: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
		return
	}

	h.sendToken(c, http.StatusOK, user, token)
}

func (h *AuthHandler) UpdatePassword(c *gin.Context) {
	current := middleware.CurrentUser(c)
	if current == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not logged in"})
		return
	}

	var req struct {
		PasswordCurrent string `json:"passwordCurrent" binding:"required"`
		Password        string `json:"password" binding:"required,min=8"`
		PasswordConfirm string `json:"passwordConfirm" binding:"required"`
	}

	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request: " + err.Error()})
		return
	}

	user, token, err := h.service.UpdatePassword(c.Request.Context(), current.ID, req.PasswordCurrent, req.Password, req.PasswordConfirm)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword):
			c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		case errors.Is(err, service.ErrPasswordMismatch):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			log.Printf("Error during password update: %v", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update password"})
		}
		return
	}

	h.sendToken(c, http.StatusOK, user, token)
}

// RegisterAuthRoutes registers auth routes
func (h *AuthHandler) RegisterAuthRoutes(rg *gin.RouterGroup, protectMW gin.HandlerFunc) {
	userGroup := rg.Group("/users")
	{
		userGroup.POST("/signup", h.Signup)
		userGroup.POST("/login", h.Login)
		userGroup.POST("/forgotPassword", h.ForgotPassword)
		userGroup.PATCH("/resetPassword/:token", h.ResetPassword)
		userGroup.PATCH("/updatePassword", protectMW, h.UpdatePassword)
	}
}
