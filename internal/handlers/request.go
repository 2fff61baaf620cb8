package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/nexlayer/backend/internal/authz"
	"github.com/nexlayer/backend/internal/middleware"
	"github.com/nexlayer/backend/internal/services"
	"github.com/nexlayer/backend/pkg/response"
	"gorm.io/gorm"
)

type RequestHandler struct {
	requestService *services.RequestService
}

func NewRequestHandler(db *gorm.DB) *RequestHandler {
	return &RequestHandler{
		requestService: services.NewRequestService(db),
	}
}

// Create stores a public service request
// POST /api/create-request
func (h *RequestHandler) Create(c *gin.Context) {
	var req services.CreateRequestInput
	if !bindJSON(c, &req) {
		return
	}

	created, err := h.requestService.Create(c.Request.Context(), middleware.GetPrincipal(c), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"id": created.ID})
}

// ListPending returns pending requests, newest first
// GET /api/requests
func (h *RequestHandler) ListPending(c *gin.Context) {
	requests, err := h.requestService.ListPending(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, requests)
}

type acceptRequestBody struct {
	RequestID string `json:"requestId"`
}

// Accept turns a pending request into a project
// POST /api/accept-request
func (h *RequestHandler) Accept(c *gin.Context) {
	var body acceptRequestBody
	if !bindJSON(c, &body) {
		return
	}
	h.accept(c, body.RequestID, authz.ActionAcceptRequest)
}

// Approve is the path-addressed form of Accept
// PATCH /api/requests/:id/approve
func (h *RequestHandler) Approve(c *gin.Context) {
	h.accept(c, c.Param("id"), authz.ActionApproveRequest)
}

func (h *RequestHandler) accept(c *gin.Context, requestID string, action authz.Action) {
	projectID, err := h.requestService.Accept(c.Request.Context(), middleware.GetPrincipal(c), requestID, action)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"projectId": projectID})
}
