package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	RequestStatusPending  = "pending"
	RequestStatusAccepted = "accepted"

	// UnknownEmail is stored when the public intake form omits an address.
	UnknownEmail = "unknown@example.com"
)

// ClientRequest is a service request submitted through the public intake form.
type ClientRequest struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Name      string    `gorm:"size:200;not null" json:"name"`
	Phone     string    `gorm:"size:50" json:"phone"`
	Topic     string    `gorm:"size:300;not null" json:"topic"`
	Deadline  string    `gorm:"size:50" json:"deadline"`
	Details   string    `gorm:"type:text" json:"details"`
	Email     string    `gorm:"size:255" json:"email"`
	ClientID  string    `gorm:"size:128" json:"clientId,omitempty"`
	Status    string    `gorm:"size:20;index;default:pending" json:"status"`
	ProjectID string    `gorm:"size:36" json:"projectId,omitempty"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`
}

func (ClientRequest) TableName() string { return "client_requests" }

func (r *ClientRequest) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if r.Status == "" {
		r.Status = RequestStatusPending
	}
	if r.Email == "" {
		r.Email = UnknownEmail
	}
	return nil
}
