package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HealthCheck probes a single dependency. A nil error means healthy.
type HealthCheck func(ctx context.Context) error

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	startedAt time.Time
	checks    map[string]HealthCheck
	logger    *zap.Logger
}

// NewHealthHandler constructs HealthHandler. The checks map keys name the
// dependency in the readiness payload.
func NewHealthHandler(checks map[string]HealthCheck, log *zap.Logger) *HealthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HealthHandler{
		startedAt: time.Now().UTC(),
		checks:    checks,
		logger:    log,
	}
}

// Liveness reports the process is up. It never touches dependencies.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		StartedAt: h.startedAt,
	})
}

// Readiness probes every registered dependency and reports 503 if any
// of them fails.
func (h *HealthHandler) Readiness(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	results := make(map[string]string, len(h.checks))
	for name, check := range h.checks {
		if err := check(ctx); err != nil {
			h.logger.Warn("readiness check failed", zap.String("dependency", name), zap.Error(err))
			results[name] = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		results[name] = "ok"
	}

	payload := gin.H{"started_at": h.startedAt, "dependencies": results}
	if status == http.StatusOK {
		payload["status"] = "ok"
	} else {
		payload["status"] = "degraded"
	}
	c.JSON(status, payload)
}
