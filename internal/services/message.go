package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/nexlayer/backend/internal/authz"
	"github.com/nexlayer/backend/internal/models"
	"github.com/nexlayer/backend/pkg/response"
	"gorm.io/gorm"
)

const maxMessageLength = 4000

type MessageService struct {
	db *gorm.DB
}

func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{db: db}
}

func (s *MessageService) Send(ctx context.Context, p *authz.Principal, projectID, content string) (*models.Message, error) {
	if err := authorize(p, authz.ActionViewOwnProjects, nil); err != nil {
		return nil, err
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, response.NewBadRequest("Message content is required")
	}
	if len(content) > maxMessageLength {
		return nil, response.NewBadRequest("Message is too long")
	}

	project, err := findProject(ctx, s.db, projectID)
	if err != nil {
		return nil, err
	}
	if err := authorize(p, authz.ActionSendMessage, projectResource(project)); err != nil {
		return nil, err
	}

	msg := models.Message{
		ProjectID:  project.ID,
		SenderID:   p.ID,
		SenderName: p.DisplayName(),
		SenderRole: string(p.Role),
		Content:    content,
	}
	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return nil, fmt.Errorf("create message: %w", err)
	}
	return &msg, nil
}

// List returns the project thread in chronological order.
func (s *MessageService) List(ctx context.Context, p *authz.Principal, projectID string) ([]models.Message, error) {
	if err := authorize(p, authz.ActionViewOwnProjects, nil); err != nil {
		return nil, err
	}
	project, err := findProject(ctx, s.db, projectID)
	if err != nil {
		return nil, err
	}
	if err := authorize(p, authz.ActionViewMessages, projectResource(project)); err != nil {
		return nil, err
	}

	var msgs []models.Message
	if err := s.db.WithContext(ctx).
		Where("project_id = ?", project.ID).
		Order("timestamp ASC").
		Find(&msgs).Error; err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return msgs, nil
}
