package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/nexlayer/backend/internal/middleware"
	"github.com/nexlayer/backend/internal/services"
	"github.com/nexlayer/backend/pkg/response"
	"gorm.io/gorm"
)

type MessageHandler struct {
	messageService *services.MessageService
}

func NewMessageHandler(db *gorm.DB) *MessageHandler {
	return &MessageHandler{
		messageService: services.NewMessageService(db),
	}
}

type sendMessageBody struct {
	Content string `json:"content"`
}

// Send posts a message to a project thread
// POST /api/projects/:id/messages
func (h *MessageHandler) Send(c *gin.Context) {
	var body sendMessageBody
	if !bindJSON(c, &body) {
		return
	}

	msg, err := h.messageService.Send(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"), body.Content)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"id": msg.ID})
}

// List returns a project thread, oldest first
// GET /api/projects/:id/messages
func (h *MessageHandler) List(c *gin.Context) {
	msgs, err := h.messageService.List(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, msgs)
}
