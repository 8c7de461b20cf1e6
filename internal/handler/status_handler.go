package handler

import (
	"net/http"
	"time"

	"downloaderapi/internal/metrics"
	"downloaderapi/internal/model"
	"downloaderapi/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ReadinessChecker reports whether the download folder can take writes
type ReadinessChecker interface {
	CheckReadiness() (bool, error)
}

// StatusHandler serves the service descriptor, liveness, readiness and metrics
type StatusHandler struct {
	readiness ReadinessChecker
	metrics   *metrics.Registry
	cfg       *model.Config
}

// NewStatusHandler creates a new status handler
func NewStatusHandler(rc ReadinessChecker, reg *metrics.Registry, cfg *model.Config) *StatusHandler {
	return &StatusHandler{
		readiness: rc,
		metrics:   reg,
		cfg:       cfg,
	}
}

// Home handles GET /
func (h *StatusHandler) Home(c *gin.Context) {
	logger.Logger.Info("Home endpoint accessed")

	c.JSON(http.StatusOK, model.HomeResponse{
		App:     h.cfg.App.Name,
		Status:  "running",
		Version: h.cfg.App.Version,
		Endpoints: map[string]string{
			"/":         "API information",
			"/health":   "Health check",
			"/ready":    "Readiness check",
			"/metrics":  "Prometheus metrics",
			"/download": "POST - Download video",
			"/info":     "POST - Get video info without downloading",
		},
		Environment: model.EnvironmentInfo{
			Debug:             h.cfg.App.Debug,
			MaxDownloadSizeMB: h.cfg.Storage.MaxDownloadSizeMB,
		},
	})
}

// Health handles GET /health. It never fails.
func (h *StatusHandler) Health(c *gin.Context) {
	h.metrics.IncHealthCheck()

	now := time.Now()
	c.JSON(http.StatusOK, model.HealthResponse{
		Status:    model.StatusUp,
		Timestamp: float64(now.UnixNano()) / float64(time.Second),
		Version:   h.cfg.App.Version,
	})
}

// Ready handles GET /ready
func (h *StatusHandler) Ready(c *gin.Context) {
	ok, err := h.readiness.CheckReadiness()
	if err != nil {
		logger.Logger.Error("Readiness check failed", zap.Error(err))
		c.JSON(http.StatusServiceUnavailable, model.ReadinessResponse{
			Status:  model.StatusNotReady,
			Error:   err.Error(),
			Version: h.cfg.App.Version,
		})
		return
	}

	if !ok {
		logger.Logger.Warn("Readiness check failed - download folder not accessible")
		c.JSON(http.StatusServiceUnavailable, model.ReadinessResponse{
			Status:  model.StatusNotReady,
			Checks:  &model.ReadinessChecks{DownloadFolder: "not_accessible"},
			Version: h.cfg.App.Version,
		})
		return
	}

	c.JSON(http.StatusOK, model.ReadinessResponse{
		Status: model.StatusReady,
		Checks: &model.ReadinessChecks{
			DownloadFolder: "accessible",
			Dependencies:   "loaded",
		},
		Version: h.cfg.App.Version,
	})
}

// Metrics handles GET /metrics
func (h *StatusHandler) Metrics(c *gin.Context) {
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}
