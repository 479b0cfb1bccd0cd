package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db  *gorm.DB
	rdb *redis.Client
}

func NewHealthHandler(db *gorm.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{db: db, rdb: rdb}
}

// Check reports liveness plus dependency reachability. Degraded
// dependencies report 503 so the load balancer can rotate the instance out.
func (h *HealthHandler) Check(c *gin.Context) {
	ctx := c.Request.Context()
	status := http.StatusOK
	deps := gin.H{"database": "ok", "redis": "ok"}

	if sqlDB, err := h.db.DB(); err != nil {
		deps["database"] = "down"
		status = http.StatusServiceUnavailable
	} else if err := sqlDB.PingContext(ctx); err != nil {
		deps["database"] = "down"
		status = http.StatusServiceUnavailable
	}
	if err := h.rdb.Ping(ctx).Err(); err != nil {
		deps["redis"] = "down"
		status = http.StatusServiceUnavailable
	}

	estado := "ok"
	if status != http.StatusOK {
		estado = "degraded"
	}
	c.JSON(status, gin.H{
		"status":    estado,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
		"deps":      deps,
	})
}
