package identity

import (
	"fmt"

	"github.com/nexlayer/backend/internal/config"
	"gorm.io/gorm"
)

// NewVerifier builds the verifier for the configured identity provider.
func NewVerifier(cfg *config.Config) (Verifier, error) {
	switch cfg.Auth.Provider {
	case config.ProviderFirebase:
		if cfg.Auth.FirebaseProjectID == "" {
			return nil, fmt.Errorf("auth.firebase_project_id is required for the firebase provider")
		}
		return NewFirebaseVerifier(cfg.Auth.FirebaseProjectID, NewKeySet(cfg.Auth.JWKSURL, nil)), nil
	case config.ProviderLocal, "":
		return NewLocalVerifier(cfg.JWT.Secret), nil
	default:
		return nil, fmt.Errorf("unsupported auth provider: %s", cfg.Auth.Provider)
	}
}

// NewDefaultResolver wires the standard chain: signed claim, user record,
// admin emails, then the configured default role.
func NewDefaultResolver(db *gorm.DB, cfg *config.AuthConfig) *Resolver {
	return NewResolver(
		ClaimStrategy{},
		NewUserRecordStrategy(GormUserLookup(db)),
		NewAdminEmailStrategy(cfg.AdminEmails),
		NewDefaultRoleStrategy(cfg.DefaultRole),
	)
}
