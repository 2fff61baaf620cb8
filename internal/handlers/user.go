package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/nexlayer/backend/internal/middleware"
	"github.com/nexlayer/backend/internal/services"
	"github.com/nexlayer/backend/pkg/response"
	"gorm.io/gorm"
)

type UserHandler struct {
	userService *services.UserService
}

func NewUserHandler(db *gorm.DB) *UserHandler {
	return &UserHandler{
		userService: services.NewUserService(db),
	}
}

// ListTeam returns the team roster
// GET /api/users
func (h *UserHandler) ListTeam(c *gin.Context) {
	team, err := h.userService.ListTeam(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, team)
}

// Me returns the caller's resolved identity
// GET /api/auth/me
func (h *UserHandler) Me(c *gin.Context) {
	profile, err := h.userService.Me(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Data(c, profile)
}
