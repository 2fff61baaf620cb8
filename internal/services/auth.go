package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nexlayer/backend/internal/config"
	"github.com/nexlayer/backend/internal/models"
	"github.com/nexlayer/backend/internal/utils"
	"github.com/nexlayer/backend/pkg/response"
	"gorm.io/gorm"
)

type AuthService struct {
	db        *gorm.DB
	jwtConfig *config.JWTConfig
}

func NewAuthService(db *gorm.DB, jwtCfg *config.JWTConfig) *AuthService {
	return &AuthService{db: db, jwtConfig: jwtCfg}
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type LoginResult struct {
	Token    string       `json:"token"`
	ExpireAt time.Time    `json:"expireAt"`
	User     *models.User `json:"user"`
}

// Login checks a local password and issues an access token.
func (s *AuthService) Login(ctx context.Context, req *LoginRequest) (*LoginResult, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "email = ?", strings.TrimSpace(req.Email)).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewUnauthorized("Invalid email or password")
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	if user.PasswordHash == "" || !utils.CheckPassword(req.Password, user.PasswordHash) {
		return nil, response.NewUnauthorized("Invalid email or password")
	}

	return s.IssueToken(&user)
}

// IssueToken mints an access token for user without checking credentials.
func (s *AuthService) IssueToken(user *models.User) (*LoginResult, error) {
	hours := s.jwtConfig.ExpireHour
	if hours <= 0 {
		hours = 24
	}
	token, err := utils.GenerateToken(user.ID, user.Email, user.DisplayName, user.Role, hours)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &LoginResult{
		Token:    token,
		ExpireAt: time.Now().Add(time.Duration(hours) * time.Hour),
		User:     user,
	}, nil
}
