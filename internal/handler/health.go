package handler

import (
	"context"
	"net/http"
	"time"

	"weather-pipeline/internal/scheduler"

	"github.com/gin-gonic/gin"
)

// Pinger reports whether the database is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// StatusReporter describes the refresh scheduler.
type StatusReporter interface {
	Status() scheduler.Status
}

// HealthHandler handles GET /health
type HealthHandler struct {
	db        Pinger
	scheduler StatusReporter
	now       func() time.Time
}

// NewHealthHandler creates a new health handler. scheduler may be nil.
func NewHealthHandler(db Pinger, scheduler StatusReporter) *HealthHandler {
	return &HealthHandler{db: db, scheduler: scheduler, now: time.Now}
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status    string            `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Database  string            `json:"database"`
	Refresh   *scheduler.Status `json:"refresh,omitempty"`
}

// Health handles GET /health
//
// @Summary   Liveness and database reachability
// @Tags      health
// @Produce   json
// @Success   200  {object}  HealthResponse
// @Failure   503  {object}  HealthResponse
// @Router    /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	resp := HealthResponse{Status: "ok", Timestamp: h.now().UTC(), Database: "up"}
	if h.scheduler != nil {
		status := h.scheduler.Status()
		resp.Refresh = &status
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.db.Ping(ctx); err != nil {
		_ = c.Error(err)
		resp.Status = "degraded"
		resp.Database = "down"
		c.JSON(http.StatusServiceUnavailable, resp)
		return
	}
	c.JSON(http.StatusOK, resp)
}
