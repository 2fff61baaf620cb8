package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SecurityEventFirewallBlock = "FIREWALL_BLOCK"
	SecurityEventAuthFailure   = "AUTH_FAILURE"
	SecurityEventAudit         = "AUDIT"
)

// SecurityLog records firewall blocks, rejected credentials and audited writes.
type SecurityLog struct {
	ID        string            `gorm:"primaryKey;size:36" json:"id"`
	Type      string            `gorm:"size:30;index" json:"type"`
	IP        string            `gorm:"size:64" json:"ip"`
	Path      string            `gorm:"size:500" json:"path"`
	Method    string            `gorm:"size:10" json:"method"`
	UserAgent string            `gorm:"size:500" json:"userAgent"`
	UserID    string            `gorm:"size:128" json:"userId,omitempty"`
	Details   datatypes.JSONMap `json:"details"`
	CreatedAt time.Time         `gorm:"index" json:"timestamp"`
}

func (SecurityLog) TableName() string { return "security_logs" }

func (l *SecurityLog) BeforeCreate(tx *gorm.DB) error {
	if l.ID == "" {
		l.ID = uuid.NewString()
	}
	return nil
}
