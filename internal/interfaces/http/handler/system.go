package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/neximp/backend/internal/interfaces/http/dto"
)

// HealthChecker reports whether a dependency is reachable
type HealthChecker interface {
	Ping() error
}

// SystemHandler handles liveness and system info requests
type SystemHandler struct {
	BaseHandler
	db        HealthChecker
	appName   string
	version   string
	startTime time.Time
}

// NewSystemHandler creates a new system handler. db may be nil, in
// which case the health check only reports process liveness.
func NewSystemHandler(db HealthChecker, appName, version string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		appName:   appName,
		version:   version,
		startTime: time.Now(),
	}
}

// HealthResponse represents the health check payload
type HealthResponse struct {
	Status   string `json:"status"`
	App      string `json:"app"`
	Version  string `json:"version"`
	Uptime   string `json:"uptime"`
	Database string `json:"database,omitempty"`
}

// RegisterSystemRoutes registers unversioned system routes on the engine
func (h *SystemHandler) RegisterSystemRoutes(engine *gin.Engine) {
	engine.GET("/healthz", h.Health)
}

// Health reports service liveness and database reachability
// GET /healthz
func (h *SystemHandler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:  "ok",
		App:     h.appName,
		Version: h.version,
		Uptime:  time.Since(h.startTime).Round(time.Second).String(),
	}

	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			resp.Status = "degraded"
			resp.Database = "unreachable"
			c.JSON(http.StatusServiceUnavailable, dto.Response{Success: false, Data: resp})
			return
		}
		resp.Database = "ok"
	}

	h.Success(c, resp)
}
