package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// User is a team member or client account. ID is the identity provider subject id.
type User struct {
	ID               string                      `gorm:"primaryKey;size:128" json:"id"`
	Email            string                      `gorm:"uniqueIndex;size:255;not null" json:"email"`
	Role             string                      `gorm:"size:50" json:"role"`
	Title            string                      `gorm:"size:100" json:"title,omitempty"`
	DisplayName      string                      `gorm:"size:200" json:"displayName"`
	Phone            string                      `gorm:"size:50" json:"phone,omitempty"`
	Status           string                      `gorm:"size:30;default:active" json:"status"`
	PasswordHash     string                      `gorm:"size:255" json:"-"`
	AssignedProjects datatypes.JSONSlice[string] `json:"assignedProjects"`
	CreatedAt        time.Time                   `json:"createdAt"`
	UpdatedAt        time.Time                   `json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// BeforeCreate fills in an id for users not minted by an external provider.
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.AssignedProjects == nil {
		u.AssignedProjects = datatypes.JSONSlice[string]{}
	}
	return nil
}

// HasProject reports whether projectID is already in the user's assignments.
func (u *User) HasProject(projectID string) bool {
	for _, id := range u.AssignedProjects {
		if id == projectID {
			return true
		}
	}
	return false
}
