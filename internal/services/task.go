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

type TaskService struct {
	db *gorm.DB
}

func NewTaskService(db *gorm.DB) *TaskService {
	return &TaskService{db: db}
}

type CreateTaskInput struct {
	Title      string `json:"title"`
	ProjectID  string `json:"projectId"`
	AssignedTo string `json:"assignedTo"`
	Deadline   string `json:"deadline"`
	Priority   string `json:"priority"`
	NextTask   string `json:"nextTask"`
}

type UpdateTaskInput struct {
	Title      *string `json:"title"`
	AssignedTo *string `json:"assignedTo"`
	Deadline   *string `json:"deadline"`
	Priority   *string `json:"priority"`
	Status     *string `json:"status"`
	NextTask   *string `json:"nextTask"`
}

func (in *UpdateTaskInput) onlyStatus() bool {
	return in.Status != nil &&
		in.Title == nil && in.AssignedTo == nil && in.Deadline == nil &&
		in.Priority == nil && in.NextTask == nil
}

// List returns all tasks for the CEO and the tasks of visible projects for everyone else.
func (s *TaskService) List(ctx context.Context, p *authz.Principal) ([]models.Task, error) {
	if err := authorize(p, authz.ActionViewTasks, nil); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Order("created_at DESC")
	if !p.IsCEO() {
		ids, err := visibleProjectIDs(ctx, s.db, p)
		if err != nil {
			return nil, err
		}
		if len(ids) == 0 {
			return []models.Task{}, nil
		}
		query = query.Where("project_id IN ?", ids)
	}

	var tasks []models.Task
	if err := query.Find(&tasks).Error; err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return tasks, nil
}

func (s *TaskService) Create(ctx context.Context, p *authz.Principal, in *CreateTaskInput) (*models.Task, error) {
	if err := authorize(p, authz.ActionManageTasks, nil); err != nil {
		return nil, err
	}
	title := strings.TrimSpace(in.Title)
	if title == "" || in.ProjectID == "" {
		return nil, response.NewBadRequest("Missing title or projectId")
	}
	if in.Priority != "" && !models.ValidTaskPriority(in.Priority) {
		return nil, response.NewBadRequest("priority must be Low, Medium or High")
	}
	if _, err := findProject(ctx, s.db, in.ProjectID); err != nil {
		return nil, err
	}

	task := models.Task{
		Title:      title,
		ProjectID:  in.ProjectID,
		AssignedTo: strings.TrimSpace(in.AssignedTo),
		Deadline:   in.Deadline,
		Priority:   in.Priority,
		NextTask:   in.NextTask,
		CreatedBy:  p.ID,
	}
	if err := s.db.WithContext(ctx).Create(&task).Error; err != nil {
		return nil, fmt.Errorf("create task: %w", err)
	}
	return &task, nil
}

// Update applies a partial update. Members on the task's project may only change its status.
func (s *TaskService) Update(ctx context.Context, p *authz.Principal, id string, in *UpdateTaskInput) (*models.Task, error) {
	if err := authorize(p, authz.ActionViewTasks, nil); err != nil {
		return nil, err
	}

	var task models.Task
	if err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, response.NewNotFound("Task not found")
		}
		return nil, fmt.Errorf("load task: %w", err)
	}

	if p.IsCEO() || !in.onlyStatus() {
		if err := authorize(p, authz.ActionManageTasks, nil); err != nil {
			return nil, err
		}
	} else {
		project, err := findProject(ctx, s.db, task.ProjectID)
		if err != nil {
			return nil, err
		}
		if err := authorize(p, authz.ActionUpdateTaskStatus, projectResource(project)); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if in.Status != nil {
		if !models.ValidTaskStatus(*in.Status) {
			return nil, response.NewBadRequest("status must be Pending, In Progress or Completed")
		}
		updates["status"] = *in.Status
	}
	if in.Priority != nil {
		if !models.ValidTaskPriority(*in.Priority) {
			return nil, response.NewBadRequest("priority must be Low, Medium or High")
		}
		updates["priority"] = *in.Priority
	}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.AssignedTo != nil {
		updates["assigned_to"] = *in.AssignedTo
	}
	if in.Deadline != nil {
		updates["deadline"] = *in.Deadline
	}
	if in.NextTask != nil {
		updates["next_task"] = *in.NextTask
	}
	if len(updates) == 0 {
		return nil, response.NewBadRequest("No fields to update")
	}

	if err := s.db.WithContext(ctx).Model(&task).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("update task: %w", err)
	}
	if err := s.db.WithContext(ctx).First(&task, "id = ?", id).Error; err != nil {
		return nil, fmt.Errorf("reload task: %w", err)
	}
	return &task, nil
}
