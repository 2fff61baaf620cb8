package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report is an immutable daily work log filed against a project.
type Report struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	ProjectID string    `gorm:"size:36;index;not null" json:"projectId"`
	UserID    string    `gorm:"size:128;index" json:"userId"`
	UserName  string    `gorm:"size:255" json:"userName"`
	WorkDone  string    `gorm:"type:text;not null" json:"workDone"`
	Issues    string    `gorm:"type:text" json:"issues"`
	NextTask  string    `gorm:"type:text" json:"nextTask"`
	Date      string    `gorm:"size:10;index" json:"date"`
	Timestamp time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

func (Report) TableName() string { return "reports" }

func (r *Report) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
