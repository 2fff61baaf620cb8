package identity

import (
	"context"
	"fmt"

	"github.com/nexlayer/backend/internal/utils"
)

// LocalVerifier accepts HS256 tokens minted by this service at login.
type LocalVerifier struct{}

func NewLocalVerifier(secret string) *LocalVerifier {
	utils.SetJWTSecret(secret)
	return &LocalVerifier{}
}

func (v *LocalVerifier) Verify(_ context.Context, raw string) (*Token, error) {
	claims, err := utils.ParseToken(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}
	return &Token{
		Subject: claims.UserID,
		Email:   claims.Email,
		Name:    claims.Name,
		Role:    claims.Role,
		Claims: map[string]interface{}{
			"uid":   claims.UserID,
			"email": claims.Email,
			"name":  claims.Name,
			"role":  claims.Role,
		},
	}, nil
}
