package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a chat entry on a project thread.
type Message struct {
	ID         string    `gorm:"primaryKey;size:36" json:"id"`
	ProjectID  string    `gorm:"size:36;index;not null" json:"projectId"`
	SenderID   string    `gorm:"size:128" json:"senderId"`
	SenderName string    `gorm:"size:255" json:"senderName"`
	SenderRole string    `gorm:"size:50" json:"senderRole"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Timestamp  time.Time `gorm:"autoCreateTime;index" json:"timestamp"`
}

func (Message) TableName() string { return "messages" }

func (m *Message) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
