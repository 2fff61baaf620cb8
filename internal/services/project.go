package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/nexlayer/backend/internal/authz"
	"github.com/nexlayer/backend/internal/models"
	"github.com/nexlayer/backend/pkg/logger"
	"github.com/nexlayer/backend/pkg/response"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ProjectService struct {
	db *gorm.DB
}

func NewProjectService(db *gorm.DB) *ProjectService {
	return &ProjectService{db: db}
}

type CreateProjectInput struct {
	ProjectTitle    string   `json:"projectTitle"`
	ClientName      string   `json:"clientName"`
	ClientID        string   `json:"clientId"`
	Topic           string   `json:"topic"`
	Description     string   `json:"description"`
	Details         string   `json:"details"`
	Deadline        string   `json:"deadline"`
	Priority        string   `json:"priority"`
	Progress        int      `json:"progress"`
	Status          string   `json:"status"`
	AssignedMembers []string `json:"assignedMembers"`
}

// UpdateProjectInput carries a partial update; nil fields are left untouched.
type UpdateProjectInput struct {
	ProjectTitle *string `json:"projectTitle"`
	ClientName   *string `json:"clientName"`
	Topic        *string `json:"topic"`
	Details      *string `json:"details"`
	Deadline     *string `json:"deadline"`
	Priority     *string `json:"priority"`
	Status       *string `json:"status"`
	Progress     *int    `json:"progress"`
}

func (in *UpdateProjectInput) onlyProgress() bool {
	return in.Progress != nil &&
		in.ProjectTitle == nil && in.ClientName == nil && in.Topic == nil &&
		in.Details == nil && in.Deadline == nil && in.Priority == nil && in.Status == nil
}

// AssignOptions are optional project fields updated together with the roster.
type AssignOptions struct {
	Priority string
	Deadline string
}

// ListForPrincipal returns the projects visible to p, newest first. The CEO
// sees everything, clients their own projects and members their assignments.
func (s *ProjectService) ListForPrincipal(ctx context.Context, p *authz.Principal) ([]models.Project, error) {
	if err := authorize(p, authz.ActionViewOwnProjects, nil); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Order("created_at DESC")
	if !p.IsCEO() {
		ids, err := visibleProjectIDs(ctx, s.db, p)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []models.Project{}, nil
		}
		query = query.Where("id IN ?", ids)
	}

	var projects []models.Project
	if err := query.Find(&projects).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	return projects, nil
}

func (s *ProjectService) Get(ctx context.Context, p *authz.Principal, id string) (*models.Project, error) {
	if err := authorize(p, authz.ActionViewOwnProjects, nil); err != nil {
		return nil, err
	}
	project, err := findProject(ctx, s.db, id)
	if err != nil {
		return nil, err
	}
	if err := authorize(p, authz.ActionViewProject, projectResource(project)); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *ProjectService) Create(ctx context.Context, p *authz.Principal, in *CreateProjectInput) (*models.Project, error) {
	if err := authorize(p, authz.ActionManageProjects, nil); err != nil {
		return nil, err
	}

	title := strings.TrimSpace(in.ProjectTitle)
	if title == "" {
		return nil, response.NewBadRequest("Missing projectTitle")
	}
	if in.Progress < 0 || in.Progress > 100 {
		return nil, response.NewBadRequest("progress must be between 0 and 100")
	}
	if in.Status != "" && !models.ValidProjectStatus(in.Status) {
		return nil, response.NewBadRequest("invalid project status")
	}

	details := in.Details
	if details == "" {
		details = in.Description
	}
	topic := in.Topic
	if topic == "" {
		topic = title
	}

	project := models.Project{
		ProjectTitle:    title,
		ClientName:      in.ClientName,
		ClientID:        in.ClientID,
		Topic:           topic,
		Details:         details,
		Deadline:        in.Deadline,
		Priority:        in.Priority,
		Progress:        in.Progress,
		Status:          in.Status,
		AssignedMembers: datatypes.JSONSlice[string](normalizeEmails(in.AssignedMembers)),
		CreatedBy:       p.ID,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&project).Error; err != nil {
			return fmt.Errorf("create project: %w", err)
		}
		return linkUsers(tx, project.ID, project.Members())
	})
	if err != nil {
		return nil, err
	}
	return &project, nil
}

// Update applies a partial update. The CEO may change any field; an assigned
// member may only move progress.
func (s *ProjectService) Update(ctx context.Context, p *authz.Principal, id string, in *UpdateProjectInput) (*models.Project, error) {
	if err := authorize(p, authz.ActionViewOwnProjects, nil); err != nil {
		return nil, err
	}
	project, err := findProject(ctx, s.db, id)
	if err != nil {
		return nil, err
	}

	action := authz.ActionManageProjects
	if !p.IsCEO() && in.onlyProgress() {
		action = authz.ActionEditProjectProgress
	}
	if err := authorize(p, action, projectResource(project)); err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if in.Progress != nil {
		if *in.Progress < 0 || *in.Progress > 100 {
			return nil, response.NewBadRequest("progress must be between 0 and 100")
		}
		updates["progress"] = *in.Progress
	}
	if in.Status != nil {
		if !models.ValidProjectStatus(*in.Status) {
			return nil, response.NewBadRequest("invalid project status")
		}
		updates["status"] = *in.Status
	}
	if in.ProjectTitle != nil {
		updates["project_title"] = *in.ProjectTitle
	}
	if in.ClientName != nil {
		updates["client_name"] = *in.ClientName
	}
	if in.Topic != nil {
		updates["topic"] = *in.Topic
	}
	if in.Details != nil {
		updates["details"] = *in.Details
	}
	if in.Deadline != nil {
		updates["deadline"] = *in.Deadline
	}
	if in.Priority != nil {
		updates["priority"] = *in.Priority
	}
	if len(updates) == 0 {
		return nil, response.NewBadRequest("No fields to update")
	}

	if err := s.db.WithContext(ctx).Model(project).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update project: %w", err)
	}
	return findProject(ctx, s.db, id)
}

func (s *ProjectService) Delete(ctx context.Context, p *authz.Principal, id string) error {
	if err := authorize(p, authz.ActionManageProjects, nil); err != nil {
		return err
	}
	project, err := findProject(ctx, s.db, id)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(project).Error; err != nil {
		return fmt.Errorf("delete project: %w", err)
	}
	logger.Component("projects").Info().Str("project_id", id).Str("uid", p.ID).Msg("project deleted")
	return nil
}

// AssignMembers replaces the project roster with emails and adds the project
// to every matching user's assignments. Users dropped from the roster keep
// the project id. A nil emails slice is a missing argument; an empty one clears the roster.
func (s *ProjectService) AssignMembers(ctx context.Context, p *authz.Principal, projectID string, emails []string, opts AssignOptions) ([]string, error) {
	if err := authorize(p, authz.ActionAssignMembers, nil); err != nil {
		return nil, err
	}
	if projectID == "" || emails == nil {
		return nil, response.NewBadRequest("Missing projectId or memberEmails")
	}

	roster := normalizeEmails(emails)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		project, err := findProject(ctx, tx, projectID)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"assigned_members": datatypes.JSONSlice[string](roster),
		}
		if opts.Priority != "" {
			updates["priority"] = opts.Priority
		}
		if opts.Deadline != "" {
			updates["deadline"] = opts.Deadline
		}
		if err := tx.Model(project).Updates(updates).Error; err != nil {
			return fmt.Errorf("update roster: %w", err)
		}
		return linkUsers(tx, projectID, roster)
	})
	if err != nil {
		return nil, err
	}

	logger.Component("projects").Info().Str("project_id", projectID).Strs("members", roster).Msg("members assigned")
	return roster, nil
}

// linkUsers unions projectID into the assignments of every user whose email
// is listed. Emails without a user are ignored.
func linkUsers(tx *gorm.DB, projectID string, emails []string) error {
	if len(emails) == 0 {
		return nil
	}

	var users []models.User
	if err := tx.Where("email IN ?", emails).Find(&users).Error; err != nil {
		return fmt.Errorf("load assignees: %w", err)
	}
	for i := range users {
		u := &users[i]
		if u.HasProject(projectID) {
			continue
		}
		assigned := append(datatypes.JSONSlice[string]{}, u.AssignedProjects...)
		assigned = append(assigned, projectID)
		if err := tx.Model(u).Update("assigned_projects", assigned).Error; err != nil {
			return fmt.Errorf("link user %s: %w", u.Email, err)
		}
	}
	return nil
}
