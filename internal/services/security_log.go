package services

import (
	"context"
	"fmt"
	"time"

	"github.com/nexlayer/backend/internal/authz"
	"github.com/nexlayer/backend/internal/models"
	"github.com/nexlayer/backend/pkg/logger"
	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

const cleanupTimeout = 5 * time.Minute

type SecurityLogService struct {
	db *gorm.DB
}

func NewSecurityLogService(db *gorm.DB) *SecurityLogService {
	return &SecurityLogService{db: db}
}

type SecurityLogListRequest struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	Type     string `form:"type"`
}

type SecurityLogListResponse struct {
	Total    int64                `json:"total"`
	Page     int                  `json:"page"`
	PageSize int                  `json:"page_size"`
	Items    []models.SecurityLog `json:"items"`
}

// Record persists an event. It is the processor behind the event queue.
func (s *SecurityLogService) Record(ctx context.Context, event *SecurityEvent) error {
	if err := s.db.WithContext(ctx).Create(event.toModel()).Error; err != nil {
		return fmt.Errorf("record security event: %w", err)
	}
	return nil
}

func (s *SecurityLogService) List(ctx context.Context, p *authz.Principal, req *SecurityLogListRequest) (*SecurityLogListResponse, error) {
	if err := authorize(p, authz.ActionViewSecurityLogs, nil); err != nil {
		return nil, err
	}
	if req.Page <= 0 {
		req.Page = 1
	}
	if req.PageSize <= 0 || req.PageSize > 100 {
		req.PageSize = 50
	}

	var logs []models.SecurityLog
	var total int64

	query := s.db.WithContext(ctx).Model(&models.SecurityLog{})
	if req.Type != "" {
		query = query.Where("type = ?", req.Type)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count security logs: %w", err)
	}

	offset := (req.Page - 1) * req.PageSize
	if err := query.Offset(offset).Limit(req.PageSize).Order("created_at DESC").Find(&logs).Error; err != nil {
		return nil, fmt.Errorf("list security logs: %w", err)
	}

	return &SecurityLogListResponse{
		Total:    total,
		Page:     req.Page,
		PageSize: req.PageSize,
		Items:    logs,
	}, nil
}

// CleanupOldLogs deletes logs older than retentionDays and returns how many were removed.
func (s *SecurityLogService) CleanupOldLogs(ctx context.Context, retentionDays int) (int64, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	result := s.db.WithContext(ctx).Where("created_at < ?", cutoff).Delete(&models.SecurityLog{})
	if result.Error != nil {
		return 0, fmt.Errorf("cleanup security logs: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// StartRetentionJob schedules a daily cleanup and runs one immediately.
// The returned scheduler must be stopped on shutdown.
func (s *SecurityLogService) StartRetentionJob(retentionDays int) (*cron.Cron, error) {
	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@daily", func() { s.runCleanup(retentionDays) }); err != nil {
		return nil, err
	}
	scheduler.Start()
	go s.runCleanup(retentionDays)
	return scheduler, nil
}

func (s *SecurityLogService) runCleanup(retentionDays int) {
	if retentionDays <= 0 {
		logger.Infof("[SecurityLog] Log cleanup disabled (retention_days <= 0)")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), cleanupTimeout)
	defer cancel()

	deleted, err := s.CleanupOldLogs(ctx, retentionDays)
	if err != nil {
		logger.Errorf("[SecurityLog] Failed to cleanup old logs: %v", err)
		return
	}
	if deleted > 0 {
		logger.Infof("[SecurityLog] Cleaned up %d logs older than %d days", deleted, retentionDays)
	}
}
