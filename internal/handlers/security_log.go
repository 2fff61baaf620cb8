package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/nexlayer/backend/internal/middleware"
	"github.com/nexlayer/backend/internal/services"
	"github.com/nexlayer/backend/pkg/response"
	"gorm.io/gorm"
)

type SecurityLogHandler struct {
	securityLogService *services.SecurityLogService
}

func NewSecurityLogHandler(db *gorm.DB) *SecurityLogHandler {
	return &SecurityLogHandler{
		securityLogService: services.NewSecurityLogService(db),
	}
}

// List returns paginated security events
// GET /api/security-logs
func (h *SecurityLogHandler) List(c *gin.Context) {
	var req services.SecurityLogListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	resp, err := h.securityLogService.List(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Data(c, resp)
}
