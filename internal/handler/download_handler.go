package handler

import (
	"net/http"
	"time"

	"downloaderapi/internal/metrics"
	"downloaderapi/internal/model"
	"downloaderapi/internal/service"
	"downloaderapi/pkg/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// DownloadHandler handles download requests
type DownloadHandler struct {
	downloadService *service.DownloadService
	metrics         *metrics.Registry
	cfg             *model.Config
}

// NewDownloadHandler creates a new download handler
func NewDownloadHandler(ds *service.DownloadService, reg *metrics.Registry, cfg *model.Config) *DownloadHandler {
	return &DownloadHandler{
		downloadService: ds,
		metrics:         reg,
		cfg:             cfg,
	}
}

// Download handles POST /download
func (h *DownloadHandler) Download(c *gin.Context) {
	start := time.Now()

	req, err := parseRequest(c, h.cfg.Security.AllowedDomains)
	if err != nil {
		fail(c, h.metrics, err)
		return
	}

	logger.Logger.Info("Download request",
		zap.String("url", req.URL),
		zap.String("quality", service.QualityLabel(req.Quality)))

	video, err := h.downloadService.Download(c.Request.Context(), req)
	if err != nil {
		fail(c, h.metrics, err)
		return
	}

	h.metrics.RecordSuccess(time.Since(start))
	c.JSON(http.StatusOK, model.DownloadResponse{
		Status:  model.StatusSuccess,
		Message: "Video downloaded",
		Video:   *video,
	})
}
