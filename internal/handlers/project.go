package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/nexlayer/backend/internal/middleware"
	"github.com/nexlayer/backend/internal/services"
	"github.com/nexlayer/backend/pkg/response"
	"gorm.io/gorm"
)

type ProjectHandler struct {
	projectService *services.ProjectService
}

func NewProjectHandler(db *gorm.DB) *ProjectHandler {
	return &ProjectHandler{
		projectService: services.NewProjectService(db),
	}
}

// List returns the projects visible to the caller
// GET /api/projects
func (h *ProjectHandler) List(c *gin.Context) {
	projects, err := h.projectService.ListForPrincipal(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, projects)
}

// GetByID returns a project by ID
// GET /api/projects/:id
func (h *ProjectHandler) GetByID(c *gin.Context) {
	project, err := h.projectService.Get(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Data(c, project)
}

// Create creates a new project
// POST /api/projects
func (h *ProjectHandler) Create(c *gin.Context) {
	var req services.CreateProjectInput
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Create(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"id": project.ID})
}

// Update applies a partial update
// PATCH /api/projects/:id
func (h *ProjectHandler) Update(c *gin.Context) {
	var req services.UpdateProjectInput
	if !bindJSON(c, &req) {
		return
	}

	project, err := h.projectService.Update(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"project": project})
}

// Delete deletes a project
// DELETE /api/projects/:id
func (h *ProjectHandler) Delete(c *gin.Context) {
	if err := h.projectService.Delete(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "project deleted"})
}

type assignBody struct {
	ProjectID    string   `json:"projectId"`
	MemberEmails []string `json:"memberEmails"`
	Priority     string   `json:"priority"`
	Deadline     string   `json:"deadline"`
}

// AssignMembers replaces the project roster
// POST /api/assign-members
func (h *ProjectHandler) AssignMembers(c *gin.Context) {
	var body assignBody
	if !bindJSON(c, &body) {
		return
	}
	h.assign(c, body.ProjectID, &body)
}

// Assign is the path-addressed form of AssignMembers
// POST /api/projects/:id/assign
func (h *ProjectHandler) Assign(c *gin.Context) {
	var body assignBody
	if !bindJSON(c, &body) {
		return
	}
	h.assign(c, c.Param("id"), &body)
}

func (h *ProjectHandler) assign(c *gin.Context, projectID string, body *assignBody) {
	assigned, err := h.projectService.AssignMembers(c.Request.Context(), middleware.GetPrincipal(c), projectID, body.MemberEmails,
		services.AssignOptions{Priority: body.Priority, Deadline: body.Deadline})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"assigned": assigned})
}
