package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nexlayer/backend/internal/authz"
	"github.com/nexlayer/backend/internal/models"
	"github.com/nexlayer/backend/pkg/logger"
	"github.com/nexlayer/backend/pkg/response"
	"gorm.io/gorm"
)

type RequestService struct {
	db *gorm.DB
}

func NewRequestService(db *gorm.DB) *RequestService {
	return &RequestService{db: db}
}

type CreateRequestInput struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Topic    string `json:"topic"`
	Deadline string `json:"deadline"`
	Details  string `json:"details"`
	Email    string `json:"email"`
}

// Create stores a public service request. p may be nil; when present its id is kept as clientId.
func (s *RequestService) Create(ctx context.Context, p *authz.Principal, in *CreateRequestInput) (*models.ClientRequest, error) {
	if err := authorize(p, authz.ActionCreateRequest, nil); err != nil {
		return nil, err
	}

	name := strings.TrimSpace(in.Name)
	topic := strings.TrimSpace(in.Topic)
	details := strings.TrimSpace(in.Details)
	if name == "" || topic == "" || details == "" {
		return nil, response.NewBadRequest("Missing required fields: name, topic and details")
	}

	req := models.ClientRequest{
		Name:     name,
		Phone:    strings.TrimSpace(in.Phone),
		Topic:    topic,
		Deadline: strings.TrimSpace(in.Deadline),
		Details:  details,
		Email:    strings.TrimSpace(in.Email),
	}
	if p != nil {
		req.ClientID = p.ID
	}

	if err := s.db.WithContext(ctx).Create(&req).Error; err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return &req, nil
}

// ListPending returns requests awaiting triage, newest first.
func (s *RequestService) ListPending(ctx context.Context, p *authz.Principal) ([]models.ClientRequest, error) {
	if err := authorize(p, authz.ActionViewRequests, nil); err != nil {
		return nil, err
	}

	var reqs []models.ClientRequest
	if err := s.db.WithContext(ctx).
		Where("status = ?", models.RequestStatusPending).
		Order("created_at DESC").
		Find(&reqs).Error; err != nil {
		return nil, fmt.Errorf("list requests: %w", err)
	}
	return reqs, nil
}

// Accept converts a pending request into a project. action is either
// ActionAcceptRequest or ActionApproveRequest depending on the entry point.
// Accepting an already accepted request returns its existing project id.
func (s *RequestService) Accept(ctx context.Context, p *authz.Principal, requestID string, action authz.Action) (string, error) {
	if err := authorize(p, action, nil); err != nil {
		return "", err
	}
	if requestID == "" {
		return "", response.NewBadRequest("Missing requestId")
	}

	var projectID string
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var req models.ClientRequest
		if err := tx.First(&req, "id = ?", requestID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return response.NewNotFound("Request not found")
			}
			return fmt.Errorf("load request: %w", err)
		}

		res := tx.Model(&models.ClientRequest{}).
			Where("id = ? AND status = ?", requestID, models.RequestStatusPending).
			Update("status", models.RequestStatusAccepted)
		if res.Error != nil {
			return fmt.Errorf("accept request: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			if err := tx.First(&req, "id = ?", requestID).Error; err != nil {
				return fmt.Errorf("reload request: %w", err)
			}
			if req.ProjectID == "" {
				return response.NewConflict("Request already accepted")
			}
			projectID = req.ProjectID
			return nil
		}

		project := models.Project{
			ClientName:        req.Name,
			ClientID:          req.ClientID,
			Topic:             req.Topic,
			ProjectTitle:      req.Topic,
			Deadline:          req.Deadline,
			Details:           req.Details,
			Status:            models.ProjectStatusActive,
			Progress:          0,
			CreatedBy:         p.ID,
			OriginalRequestID: req.ID,
		}
		if err := tx.Create(&project).Error; err != nil {
			return fmt.Errorf("create project: %w", err)
		}
		if err := tx.Model(&models.ClientRequest{}).
			Where("id = ?", requestID).
			Update("project_id", project.ID).Error; err != nil {
			return fmt.Errorf("link project: %w", err)
		}

		projectID = project.ID
		logger.Component("requests").Info().Str("request_id", requestID).Str("project_id", project.ID).Str("uid", p.ID).Msg("request accepted")
		return nil
	})
	if err != nil {
		return "", err
	}
	return projectID, nil
}
