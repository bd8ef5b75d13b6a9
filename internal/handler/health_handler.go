package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/zenwiki/zenwiki-backend/pkg/cache"
	"gorm.io/gorm"
)

// HealthHandler reports process and dependency health
type HealthHandler struct {
	db    *gorm.DB
	cache cache.Service
}

// NewHealthHandler creates a new HealthHandler
func NewHealthHandler(db *gorm.DB, cacheSvc cache.Service) *HealthHandler {
	return &HealthHandler{db: db, cache: cacheSvc}
}

// Check handles GET /api/health
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	dbStatus := "ok"
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		dbStatus = "unavailable"
	}

	cacheStatus := "disabled"
	if h.cache.IsAvailable() {
		cacheStatus = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			cacheStatus = "unavailable"
		}
	}

	status := http.StatusOK
	if dbStatus != "ok" {
		status = http.StatusServiceUnavailable
	}

	c.JSON(status, gin.H{
		"status":   dbStatus,
		"database": dbStatus,
		"cache":    cacheStatus,
	})
}
