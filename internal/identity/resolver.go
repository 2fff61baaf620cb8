package identity

import (
	"context"
	"errors"
	"strings"

	"github.com/nexlayer/backend/internal/authz"
	"github.com/nexlayer/backend/internal/models"
	"github.com/nexlayer/backend/pkg/logger"
	"gorm.io/gorm"
)

// Answer is what a strategy knows about the caller.
type Answer struct {
	Role  authz.Role
	Title string
	Name  string
}

// Strategy proposes a role for a verified token. ok=false means "no answer".
type Strategy interface {
	Name() string
	Resolve(ctx context.Context, tok *Token) (Answer, bool)
}

// Resolver turns a verified token into a Principal. Strategies are consulted
// in order and the first one that answers wins.
type Resolver struct {
	strategies []Strategy
}

func NewResolver(strategies ...Strategy) *Resolver {
	return &Resolver{strategies: strategies}
}

func (r *Resolver) Resolve(ctx context.Context, tok *Token) *authz.Principal {
	if tok == nil || tok.Subject == "" {
		return nil
	}

	p := &authz.Principal{
		ID:    tok.Subject,
		Email: tok.Email,
		Name:  tok.Name,
	}
	for _, s := range r.strategies {
		ans, ok := s.Resolve(ctx, tok)
		if !ok {
			continue
		}
		p.Role = ans.Role
		p.Title = ans.Title
		if p.Name == "" {
			p.Name = ans.Name
		}
		return p
	}

	p.Role = authz.RoleMember
	return p
}

// ClaimStrategy trusts a role carried in the signed token.
type ClaimStrategy struct{}

func (ClaimStrategy) Name() string { return "claim" }

func (ClaimStrategy) Resolve(_ context.Context, tok *Token) (Answer, bool) {
	role, title, ok := authz.ParseRole(tok.Role)
	if !ok {
		return Answer{}, false
	}
	return Answer{Role: role, Title: title}, true
}

// UserLookupFunc loads a user record by subject id. It returns (nil, nil) when absent.
type UserLookupFunc func(ctx context.Context, id string) (*models.User, error)

// UserRecordStrategy reads the role stored on the caller's user record.
// A failed read is logged and treated as no answer.
type UserRecordStrategy struct {
	lookup UserLookupFunc
}

func NewUserRecordStrategy(lookup UserLookupFunc) *UserRecordStrategy {
	return &UserRecordStrategy{lookup: lookup}
}

// GormUserLookup looks users up in the users table.
func GormUserLookup(db *gorm.DB) UserLookupFunc {
	return func(ctx context.Context, id string) (*models.User, error) {
		var user models.User
		err := db.WithContext(ctx).First(&user, "id = ?", id).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		if err != nil {
			return nil, err
		}
		return &user, nil
	}
}

func (s *UserRecordStrategy) Name() string { return "user-record" }

func (s *UserRecordStrategy) Resolve(ctx context.Context, tok *Token) (Answer, bool) {
	user, err := s.lookup(ctx, tok.Subject)
	if err != nil {
		logger.Component("identity").Warn().Err(err).Str("uid", tok.Subject).Msg("user record lookup failed, falling back")
		return Answer{}, false
	}
	if user == nil {
		return Answer{}, false
	}
	role, title, ok := authz.ParseRole(user.Role)
	if !ok {
		return Answer{}, false
	}
	if user.Title != "" {
		title = user.Title
	}
	return Answer{Role: role, Title: title, Name: user.DisplayName}, true
}

// AdminEmailStrategy grants CEO to configured administrator addresses.
type AdminEmailStrategy struct {
	emails map[string]struct{}
}

func NewAdminEmailStrategy(emails []string) *AdminEmailStrategy {
	set := make(map[string]struct{}, len(emails))
	for _, e := range emails {
		if e = strings.ToLower(strings.TrimSpace(e)); e != "" {
			set[e] = struct{}{}
		}
	}
	return &AdminEmailStrategy{emails: set}
}

func (s *AdminEmailStrategy) Name() string { return "admin-email" }

func (s *AdminEmailStrategy) Resolve(_ context.Context, tok *Token) (Answer, bool) {
	if tok.Email == "" {
		return Answer{}, false
	}
	if _, ok := s.emails[strings.ToLower(tok.Email)]; !ok {
		return Answer{}, false
	}
	return Answer{Role: authz.RoleCEO}, true
}

// DefaultRoleStrategy always answers with the configured fallback role.
type DefaultRoleStrategy struct {
	answer Answer
}

func NewDefaultRoleStrategy(role string) *DefaultRoleStrategy {
	r, title, ok := authz.ParseRole(role)
	if !ok {
		r, title = authz.RoleMember, ""
	}
	return &DefaultRoleStrategy{answer: Answer{Role: r, Title: title}}
}

func (s *DefaultRoleStrategy) Name() string { return "default" }

func (s *DefaultRoleStrategy) Resolve(context.Context, *Token) (Answer, bool) {
	return s.answer, true
}
