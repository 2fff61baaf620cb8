package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nexlayer/backend/internal/authz"
	"github.com/nexlayer/backend/internal/models"
	"github.com/nexlayer/backend/pkg/response"
	"gorm.io/gorm"
)

const (
	DefaultReportIssues   = "None"
	DefaultReportNextTask = "Continued development"

	recentReportsLimit = 50
)

type ReportService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{db: db, now: time.Now}
}

type SubmitReportInput struct {
	ProjectID string `json:"projectId"`
	WorkDone  string `json:"workDone"`
	Issues    string `json:"issues"`
	NextTask  string `json:"nextTask"`
}

// Submit appends a daily report. The author must be the CEO or on the project roster.
func (s *ReportService) Submit(ctx context.Context, p *authz.Principal, in *SubmitReportInput) (*models.Report, error) {
	if err := authorize(p, authz.ActionViewOwnProjects, nil); err != nil {
		return nil, err
	}
	if in.ProjectID == "" || strings.TrimSpace(in.WorkDone) == "" {
		return nil, response.NewBadRequest("Missing projectId or workDone")
	}

	project, err := findProject(ctx, s.db, in.ProjectID)
	if err != nil {
		return nil, err
	}
	if err := authorize(p, authz.ActionSubmitReport, projectResource(project)); err != nil {
		return nil, err
	}

	issues := strings.TrimSpace(in.Issues)
	if issues == "" {
		issues = DefaultReportIssues
	}
	next := strings.TrimSpace(in.NextTask)
	if next == "" {
		next = DefaultReportNextTask
	}

	now := s.now().UTC()
	report := models.Report{
		ProjectID: project.ID,
		UserID:    p.ID,
		UserName:  p.DisplayName(),
		WorkDone:  in.WorkDone,
		Issues:    issues,
		NextTask:  next,
		Date:      now.Format("2006-01-02"),
		Timestamp: now,
	}
	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, fmt.Errorf("create report: %w", err)
	}
	return &report, nil
}

// ListRecent returns the newest reports across all projects.
func (s *ReportService) ListRecent(ctx context.Context, p *authz.Principal) ([]models.Report, error) {
	if err := authorize(p, authz.ActionViewAllReports, nil); err != nil {
		return nil, err
	}

	var reports []models.Report
	if err := s.db.WithContext(ctx).
		Order("timestamp DESC").
		Limit(recentReportsLimit).
		Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("list reports: %w", err)
	}
	return reports, nil
}

func (s *ReportService) ListForProject(ctx context.Context, p *authz.Principal, projectID string) ([]models.Report, error) {
	if err := authorize(p, authz.ActionViewOwnProjects, nil); err != nil {
		return nil, err
	}
	project, err := findProject(ctx, s.db, projectID)
	if err != nil {
		return nil, err
	}
	if err := authorize(p, authz.ActionViewProjectReports, projectResource(project)); err != nil {
		return nil, err
	}

	var reports []models.Report
	if err := s.db.WithContext(ctx).
		Where("project_id = ?", project.ID).
		Order("timestamp DESC").
		Find(&reports).Error; err != nil {
		return nil, fmt.Errorf("list project reports: %w", err)
	}
	return reports, nil
}
