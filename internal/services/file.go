package services

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/nexlayer/backend/internal/authz"
	"github.com/nexlayer/backend/internal/blob"
	"github.com/nexlayer/backend/internal/models"
	"github.com/nexlayer/backend/pkg/logger"
	"github.com/nexlayer/backend/pkg/response"
	"gorm.io/gorm"
)

type FileService struct {
	db       *gorm.DB
	store    blob.Store
	maxBytes int64
}

func NewFileService(db *gorm.DB, store blob.Store, maxUploadMB int) *FileService {
	return &FileService{db: db, store: store, maxBytes: int64(maxUploadMB) << 20}
}

type UploadInput struct {
	Name        string
	ContentType string
	Size        int64
	ProjectID   string
	Body        io.Reader
}

func (s *FileService) Upload(ctx context.Context, p *authz.Principal, in *UploadInput) (*models.File, error) {
	if err := authorize(p, authz.ActionUploadFile, nil); err != nil {
		return nil, err
	}

	name := filepath.Base(strings.TrimSpace(in.Name))
	if name == "" || name == "." || name == "/" {
		return nil, response.NewBadRequest("Missing file name")
	}
	if s.maxBytes > 0 && in.Size > s.maxBytes {
		return nil, response.NewBadRequest(fmt.Sprintf("File exceeds the %d MB limit", s.maxBytes>>20))
	}
	if in.ProjectID != "" {
		project, err := findProject(ctx, s.db, in.ProjectID)
		if err != nil {
			return nil, err
		}
		if err := authorize(p, authz.ActionViewProject, projectResource(project)); err != nil {
			return nil, err
		}
	}

	key := blob.NewKey(in.ProjectID, name)
	size, err := s.store.Put(ctx, key, in.Body)
	if err != nil {
		return nil, fmt.Errorf("store file: %w", err)
	}

	file := models.File{
		Name:          name,
		Key:           key,
		ProjectID:     in.ProjectID,
		Size:          size,
		ContentType:   in.ContentType,
		UploadedBy:    p.ID,
		UploaderEmail: p.Email,
	}
	if err := s.db.WithContext(ctx).Create(&file).Error; err != nil {
		if derr := s.store.Delete(ctx, key); derr != nil {
			logger.Warn().Err(derr).Str("key", key).Msg("failed to remove orphaned blob")
		}
		return nil, fmt.Errorf("create file record: %w", err)
	}
	return &file, nil
}

// List returns every file for the CEO and the caller's own uploads otherwise.
func (s *FileService) List(ctx context.Context, p *authz.Principal) ([]models.File, error) {
	if err := authorize(p, authz.ActionUploadFile, nil); err != nil {
		return nil, err
	}

	query := s.db.WithContext(ctx).Order("timestamp DESC")
	if !p.IsCEO() {
		query = query.Where("uploaded_by = ?", p.ID)
	}
	var files []models.File
	if err := query.Find(&files).Error; err != nil {
		return nil, fmt.Errorf("list files: %w", err)
	}
	return files, nil
}

// Open returns the file metadata and its content. Uploaders, the CEO and
// participants of the file's project may download it. The caller closes the reader.
func (s *FileService) Open(ctx context.Context, p *authz.Principal, id string) (*models.File, io.ReadCloser, error) {
	if err := authorize(p, authz.ActionUploadFile, nil); err != nil {
		return nil, nil, err
	}
	file, err := s.find(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if err := authorize(p, authz.ActionManageFile, authz.OwnedResource(file.UploadedBy)); err != nil {
		if file.ProjectID == "" {
			return nil, nil, err
		}
		project, perr := findProject(ctx, s.db, file.ProjectID)
		if perr != nil {
			return nil, nil, err
		}
		if err := authorize(p, authz.ActionViewProject, projectResource(project)); err != nil {
			return nil, nil, err
		}
	}

	rc, err := s.store.Get(ctx, file.Key)
	if errors.Is(err, blob.ErrNotFound) {
		return nil, nil, response.NewNotFound("File content not found")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("open file: %w", err)
	}
	return file, rc, nil
}

func (s *FileService) Delete(ctx context.Context, p *authz.Principal, id string) error {
	if err := authorize(p, authz.ActionUploadFile, nil); err != nil {
		return err
	}
	file, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if err := authorize(p, authz.ActionManageFile, authz.OwnedResource(file.UploadedBy)); err != nil {
		return err
	}

	if err := s.db.WithContext(ctx).Delete(file).Error; err != nil {
		return fmt.Errorf("delete file record: %w", err)
	}
	if err := s.store.Delete(ctx, file.Key); err != nil {
		logger.Warn().Err(err).Str("key", file.Key).Msg("failed to remove blob")
	}
	return nil
}

func (s *FileService) find(ctx context.Context, id string) (*models.File, error) {
	var file models.File
	err := s.db.WithContext(ctx).First(&file, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, response.NewNotFound("File not found")
	}
	if err != nil {
		return nil, fmt.Errorf("load file: %w", err)
	}
	return &file, nil
}
