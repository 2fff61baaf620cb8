package handlers

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexlayer/backend/internal/blob"
	"github.com/nexlayer/backend/internal/middleware"
	"github.com/nexlayer/backend/internal/services"
	"github.com/nexlayer/backend/pkg/response"
	"gorm.io/gorm"
)

type FileHandler struct {
	fileService *services.FileService
}

func NewFileHandler(db *gorm.DB, store blob.Store, maxUploadMB int) *FileHandler {
	return &FileHandler{
		fileService: services.NewFileService(db, store, maxUploadMB),
	}
}

// Upload stores a multipart file, optionally attached to a project
// POST /api/files
func (h *FileHandler) Upload(c *gin.Context) {
	header, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, "Missing file")
		return
	}
	src, err := header.Open()
	if err != nil {
		response.BadRequest(c, "Unreadable file: "+err.Error())
		return
	}
	defer src.Close()

	file, err := h.fileService.Upload(c.Request.Context(), middleware.GetPrincipal(c), &services.UploadInput{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		ProjectID:   c.PostForm("projectId"),
		Body:        src,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"id": file.ID, "file": file})
}

// List returns the files visible to the caller
// GET /api/files
func (h *FileHandler) List(c *gin.Context) {
	files, err := h.fileService.List(c.Request.Context(), middleware.GetPrincipal(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.List(c, files)
}

// Download streams a file's content
// GET /api/files/:id/download
func (h *FileHandler) Download(c *gin.Context) {
	file, rc, err := h.fileService.Open(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer rc.Close()

	contentType := file.ContentType
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, file.Size, contentType, rc, map[string]string{
		"Content-Disposition": fmt.Sprintf("attachment; filename=%q", file.Name),
	})
}

// Delete removes a file and its content
// DELETE /api/files/:id
func (h *FileHandler) Delete(c *gin.Context) {
	if err := h.fileService.Delete(c.Request.Context(), middleware.GetPrincipal(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, gin.H{"message": "file deleted"})
}
