package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TaskStatusPending    = "Pending"
	TaskStatusInProgress = "In Progress"
	TaskStatusCompleted  = "Completed"

	TaskPriorityLow    = "Low"
	TaskPriorityMedium = "Medium"
	TaskPriorityHigh   = "High"
)

func ValidTaskStatus(s string) bool {
	return s == TaskStatusPending || s == TaskStatusInProgress || s == TaskStatusCompleted
}

func ValidTaskPriority(s string) bool {
	return s == TaskPriorityLow || s == TaskPriorityMedium || s == TaskPriorityHigh
}

type Task struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	Title      string    `gorm:"size:300;not null" json:"title"`
	ProjectID  string    `gorm:"size:36;index" json:"projectId"`
	AssignedTo string    `gorm:"size:255" json:"assignedTo"`
	Deadline   string    `gorm:"size:50" json:"deadline"`
	Priority   string    `gorm:"size:20;default:Medium" json:"priority"`
	Status     string    `gorm:"size:20;default:Pending" json:"status"`
	NextTask   string    `gorm:"type:text" json:"nextTask,omitempty"`
	CreatedBy  string    `gorm:"size:128" json:"createdBy"`
	CreatedAt  time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Task) TableName() string { return "tasks" }

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Status == "" {
		t.Status = TaskStatusPending
	}
	if t.Priority == "" {
		t.Priority = TaskPriorityMedium
	}
	return nil
}
