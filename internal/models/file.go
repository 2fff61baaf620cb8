package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// File is the metadata of an uploaded blob. The bytes live in the blob store under Key.
type File struct {
	ID            string    `gorm:"primaryKey;size:36" json:"id"`
	Name          string    `gorm:"size:255;not null" json:"name"`
	Key           string    `gorm:"size:300;not null" json:"-"`
	ProjectID     string    `gorm:"size:36;index" json:"projectId,omitempty"`
	Size          int64     `json:"size"`
	ContentType   string    `gorm:"size:100" json:"type"`
	UploadedBy    string    `gorm:"size:128;index" json:"uploadedBy"`
	UploaderEmail string    `gorm:"size:255" json:"uploaderEmail"`
	Timestamp     time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

func (File) TableName() string { return "files" }

func (f *File) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = uuid.NewString()
	}
	return nil
}
