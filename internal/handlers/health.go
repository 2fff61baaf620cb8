package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/nexlayer/backend/internal/services"
	"gorm.io/gorm"
)

// Version is reported by the status endpoints.
const Version = "1.0.3"

type HealthHandler struct {
	db    *gorm.DB
	queue services.EventQueue
}

func NewHealthHandler(db *gorm.DB, queue services.EventQueue) *HealthHandler {
	return &HealthHandler{db: db, queue: queue}
}

// Root reports that the API is up
// GET /
func (h *HealthHandler) Root(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "online", "service": "nexlayer", "version": Version})
}

// CheckHealth returns the health status of the subsystems
// GET /health
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	overall := "healthy"
	code := http.StatusOK

	dbStatus := "ok"
	if sqlDB, err := h.db.DB(); err != nil {
		dbStatus = "error: " + err.Error()
	} else if err := sqlDB.PingContext(c.Request.Context()); err != nil {
		dbStatus = "error: " + err.Error()
	}
	if dbStatus != "ok" {
		overall = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	queueMode := "sync"
	if h.queue != nil && h.queue.IsAsync() {
		queueMode = "async (Redis)"
	}

	c.JSON(code, gin.H{
		"status":  overall,
		"service": "nexlayer",
		"version": Version,
		"components": gin.H{
			"database":   dbStatus,
			"queue_mode": queueMode,
		},
	})
}
