package handler

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/ledgerly/backend/internal/infrastructure/persistence"
)

// SystemHandler serves liveness and build information.
type SystemHandler struct {
	BaseHandler
	db        *persistence.Database
	appName   string
	env       string
	version   string
	startedAt time.Time
}

// NewSystemHandler creates a new system handler
func NewSystemHandler(db *persistence.Database, appName, env, version string) *SystemHandler {
	return &SystemHandler{
		db:        db,
		appName:   appName,
		env:       env,
		version:   version,
		startedAt: time.Now().UTC(),
	}
}

// RegisterRoutes registers the system info route
func (h *SystemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/system/info", h.Info)
}

// RegisterHealth registers the health route on the engine root so it
// stays outside the authenticated API group.
func (h *SystemHandler) RegisterHealth(engine *gin.Engine) {
	engine.GET("/health", h.Health)
}

// Health reports liveness; a failed database ping turns it into a 503.
func (h *SystemHandler) Health(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "unhealthy",
				"error":  err.Error(),
			})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Info returns build and runtime information.
func (h *SystemHandler) Info(c *gin.Context) {
	h.Success(c, gin.H{
		"name":      h.appName,
		"env":       h.env,
		"version":   h.version,
		"goVersion": runtime.Version(),
		"uptime":    time.Since(h.startedAt).Truncate(time.Second).String(),
	})
}
