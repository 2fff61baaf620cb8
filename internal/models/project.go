package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ProjectStatusActive     = "Active"
	ProjectStatusInProgress = "In Progress"
	ProjectStatusCompleted  = "Completed"
	ProjectStatusOnHold     = "On Hold"
)

// ValidProjectStatus reports whether s is one of the known project states.
func ValidProjectStatus(s string) bool {
	switch s {
	case ProjectStatusActive, ProjectStatusInProgress, ProjectStatusCompleted, ProjectStatusOnHold:
		return true
	}
	return false
}

type Project struct {
	ID                string                      `gorm:"primaryKey;size:36" json:"id"`
	ClientName        string                      `gorm:"size:200" json:"clientName"`
	ClientID          string                      `gorm:"size:128;index" json:"clientId,omitempty"`
	Topic             string                      `gorm:"size:300" json:"topic"`
	ProjectTitle      string                      `gorm:"size:300" json:"projectTitle"`
	Deadline          string                      `gorm:"size:50" json:"deadline"`
	Details           string                      `gorm:"type:text" json:"details"`
	Status            string                      `gorm:"size:30;default:Active" json:"status"`
	Priority          string                      `gorm:"size:20" json:"priority,omitempty"`
	AssignedMembers   datatypes.JSONSlice[string] `json:"assignedMembers"`
	Progress          int                         `gorm:"default:0" json:"progress"`
	CreatedBy         string                      `gorm:"size:128" json:"createdBy"`
	OriginalRequestID string                      `gorm:"size:36" json:"originalRequestId,omitempty"`
	CreatedAt         time.Time                   `gorm:"index" json:"createdAt"`
	UpdatedAt         time.Time                   `json:"updatedAt"`
}

func (Project) TableName() string { return "projects" }

func (p *Project) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.AssignedMembers == nil {
		p.AssignedMembers = datatypes.JSONSlice[string]{}
	}
	if p.Status == "" {
		p.Status = ProjectStatusActive
	}
	return nil
}

// Members returns the roster as a plain slice.
func (p *Project) Members() []string {
	return []string(p.AssignedMembers)
}
