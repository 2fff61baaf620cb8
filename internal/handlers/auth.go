package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/nexlayer/backend/internal/config"
	"github.com/nexlayer/backend/internal/services"
	"github.com/nexlayer/backend/pkg/response"
	"gorm.io/gorm"
)

type AuthHandler struct {
	authService *services.AuthService
	enabled     bool
}

// NewAuthHandler serves password login only for the local provider; with
// Firebase the client obtains its ID token from Google directly.
func NewAuthHandler(db *gorm.DB, cfg *config.Config) *AuthHandler {
	return &AuthHandler{
		authService: services.NewAuthService(db, &cfg.JWT),
		enabled:     cfg.Auth.Provider == config.ProviderLocal || cfg.Auth.Provider == "",
	}
}

// Login exchanges email and password for a local access token
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	if !h.enabled {
		response.NotFound(c, "Password login is disabled for this identity provider")
		return
	}

	var req services.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Missing email or password")
		return
	}

	result, err := h.authService.Login(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{
		"token":    result.Token,
		"expireAt": result.ExpireAt,
		"user":     result.User,
	})
}
