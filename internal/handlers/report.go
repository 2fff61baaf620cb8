package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/nexlayer/backend/internal/middleware"
	"github.com/nexlayer/backend/internal/services"
	"github.com/nexlayer/backend/pkg/response"
	"gorm.io/gorm"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(db *gorm.DB) *ReportHandler {
	return &ReportHandler{
		reportService: services.NewReportService(db),
	}
}

// Submit appends a daily progress report
// POST /api/submit-report, POST /api/reports
func (h *ReportHandler) Submit(c *gin.Context) {
	var req services.SubmitReportInput
	if !bindJSON(c, &req) {
		return
	}

	report, err := h.reportService.Submit(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"reportId": report.ID, "id": report.ID})
}

// ListRecent returns the newest reports across all projects
// GET /api/reports
func (h *ReportHandler) ListRecent(c *gin.Context) {
	reports, err := h.reportService.ListRecent(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, reports)
}

// ListForProject returns one project's reports
// GET /api/reports/:projectId
func (h *ReportHandler) ListForProject(c *gin.Context) {
	reports, err := h.reportService.ListForProject(c.Request.Context(), middleware.GetPrincipal(c), c.Param("projectId"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, reports)
}
