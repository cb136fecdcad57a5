package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/nord-digital/userdir/pkg/logger"
	"github.com/nord-digital/userdir/pkg/redis"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db    *gorm.DB
	cache *redis.Client
}

type HealthCheckResponse struct {
	Status    string                 `json:"status"`
	Version   string                 `json:"version"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]HealthCheck `json:"checks"`
}

type HealthCheck struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

func NewHealthHandler(db *gorm.DB, cache *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, cache: cache}
}

// HealthCheck reports database and cache connectivity.
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	response := HealthCheckResponse{
		Status:    "healthy",
		Version:   "1.0.0",
		Timestamp: time.Now(),
		Checks:    make(map[string]HealthCheck),
	}

	response.Checks["database"] = h.checkDatabase(ctx)
	if response.Checks["database"].Status != "healthy" {
		response.Status = "unhealthy"
	}

	if h.cache.IsEnabled() {
		check := HealthCheck{Status: "healthy"}
		if err := h.cache.Ping(ctx); err != nil {
			// Cache is optional; a failed ping degrades, not fails
			check = HealthCheck{Status: "degraded", Message: err.Error()}
		}
		response.Checks["cache"] = check
	} else {
		response.Checks["cache"] = HealthCheck{Status: "disabled"}
	}

	status := http.StatusOK
	if response.Status != "healthy" {
		status = http.StatusServiceUnavailable
		logger.GetLogger().Error("Health check failed",
			zap.Any("checks", response.Checks),
		)
	}

	c.JSON(status, response)
}

func (h *HealthHandler) checkDatabase(ctx context.Context) HealthCheck {
	sqlDB, err := h.db.DB()
	if err != nil {
		return HealthCheck{Status: "unhealthy", Message: err.Error()}
	}
	if err := sqlDB.PingContext(ctx); err != nil {
		return HealthCheck{Status: "unhealthy", Message: err.Error()}
	}
	return HealthCheck{Status: "healthy"}
}
