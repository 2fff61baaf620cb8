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

type UserService struct {
	db *gorm.DB
}

func NewUserService(db *gorm.DB) *UserService {
	return &UserService{db: db}
}

// TeamMember is the roster view of a user.
type TeamMember struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Title  string `json:"title,omitempty"`
	Phone  string `json:"phone,omitempty"`
	Status string `json:"status"`
}

func (s *UserService) ListTeam(ctx context.Context, p *authz.Principal) ([]TeamMember, error) {
	if err := authorize(p, authz.ActionViewTeam, nil); err != nil {
		return nil, err
	}

	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}

	team := make([]TeamMember, 0, len(users))
	for _, u := range users {
		name := u.DisplayName
		if name == "" {
			name = u.Email
		}
		team = append(team, TeamMember{
			ID:     u.ID,
			Name:   name,
			Email:  u.Email,
			Role:   u.Role,
			Title:  u.Title,
			Phone:  u.Phone,
			Status: u.Status,
		})
	}
	return team, nil
}

// Profile is the caller's resolved identity plus their stored assignments.
type Profile struct {
	*authz.Principal
	AssignedProjects []string `json:"assignedProjects"`
}

func (s *UserService) Me(ctx context.Context, p *authz.Principal) (*Profile, error) {
	if err := authorize(p, authz.ActionViewOwnProjects, nil); err != nil {
		return nil, err
	}
	profile := &Profile{Principal: p, AssignedProjects: []string{}}
	user, err := findUser(ctx, s.db, p.ID)
	if err != nil {
		return nil, err
	}
	if user != nil {
		profile.AssignedProjects = append(profile.AssignedProjects, user.AssignedProjects...)
		// Tokens carry the role but not the display title.
		if p.Title == "" && user.Title != "" {
			withTitle := *p
			withTitle.Title = user.Title
			profile.Principal = &withTitle
		}
	}
	return profile, nil
}

// SetRole changes a user's stored role. It is an administrative operation
// run out-of-band and is not reachable over HTTP.
func (s *UserService) SetRole(ctx context.Context, email, role, title string) (*models.User, error) {
	parsed, parsedTitle, ok := authz.ParseRole(role)
	if !ok {
		return nil, response.NewBadRequest("role is required")
	}
	if title == "" {
		title = parsedTitle
	}

	var user models.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", strings.TrimSpace(email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewNotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}

	if err := s.db.WithContext(ctx).Model(&user).Updates(map[string]interface{}{
		"role":  string(parsed),
		"title": title,
	}).Error; err != nil {
		return nil, fmt.Errorf("update role: %w", err)
	}
	user.Role, user.Title = string(parsed), title

	logger.Component("users").Info().Str("email", user.Email).Str("role", user.Role).Str("title", title).Msg("role changed")
	return &user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&users).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewNotFound("User not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}
