package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/nexlayer/backend/internal/authz"
	"github.com/nexlayer/backend/internal/models"
	"github.com/nexlayer/backend/pkg/response"
	"gorm.io/gorm"
)

// MaxProjectBatch caps how many of a user's assigned project ids are queried at once.
const MaxProjectBatch = 10

// authorize runs the gate and maps a denial onto the error taxonomy.
func authorize(p *authz.Principal, action authz.Action, res *authz.Resource) error {
	d := authz.Decide(p, action, res)
	if d.Allowed {
		return nil
	}
	if d.Reason == authz.ReasonUnauthenticated {
		return response.NewUnauthorized("Unauthenticated")
	}
	return response.NewForbidden("Permission denied")
}

func projectResource(p *models.Project) *authz.Resource {
	return authz.ProjectResource(p.Members(), p.ClientID)
}

func findProject(ctx context.Context, db *gorm.DB, id string) (*models.Project, error) {
	if id == "" {
		return nil, response.NewBadRequest("Missing projectId")
	}
	var project models.Project
	err := db.WithContext(ctx).First(&project, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewNotFound("Project not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load project: %w", err)
	}
	return &project, nil
}

func findUser(ctx context.Context, db *gorm.DB, id string) (*models.User, error) {
	var user models.User
	err := db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("load user: %w", err)
	}
	return &user, nil
}

// visibleProjectIDs returns the ids of projects a non-CEO principal participates in:
// owned projects for clients, the first MaxProjectBatch assignments for everyone else.
func visibleProjectIDs(ctx context.Context, db *gorm.DB, p *authz.Principal) ([]string, error) {
	if p.Role == authz.RoleClient {
		var ids []string
		if err := db.WithContext(ctx).Model(&models.Project{}).
			Where("client_id = ?", p.ID).
			Pluck("id", &ids).Error; err != nil {
			return nil, fmt.Errorf("list client projects: %w", err)
		}
		return ids, nil
	}

	user, err := findUser(ctx, db, p.ID)
	if err != nil || user == nil {
		return nil, err
	}
	ids := []string(user.AssignedProjects)
	if len(ids) > MaxProjectBatch {
		ids = ids[:MaxProjectBatch]
	}
	return ids, nil
}

// normalizeEmails trims entries, drops blanks and duplicates, keeping first-seen order.
func normalizeEmails(emails []string) []string {
	seen := make(map[string]struct{}, len(emails))
	out := make([]string, 0, len(emails))
	for _, e := range emails {
		e = strings.TrimSpace(e)
		if e == "" {
			continue
		}
		if _, ok := seen[e]; ok {
			continue
		}
		seen[e] = struct{}{}
		out = append(out, e)
	}
	return out
}
