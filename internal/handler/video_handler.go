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

// VideoHandler handles metadata requests
type VideoHandler struct {
	videoService *service.VideoService
	metrics      *metrics.Registry
	cfg          *model.Config
}

// NewVideoHandler creates a new video handler
func NewVideoHandler(vs *service.VideoService, reg *metrics.Registry, cfg *model.Config) *VideoHandler {
	return &VideoHandler{
		videoService: vs,
		metrics:      reg,
		cfg:          cfg,
	}
}

// GetVideoInfo handles POST /info
func (h *VideoHandler) GetVideoInfo(c *gin.Context) {
	start := time.Now()

	req, err := parseRequest(c, h.cfg.Security.AllowedDomains)
	if err != nil {
		fail(c, h.metrics, err)
		return
	}

	logger.Logger.Info("Getting info for video", zap.String("url", req.URL))

	videoInfo, err := h.videoService.GetVideoInfo(c.Request.Context(), req.URL)
	if err != nil {
		fail(c, h.metrics, err)
		return
	}

	h.metrics.RecordSuccess(time.Since(start))
	c.JSON(http.StatusOK, model.InfoResponse{
		Status: model.StatusSuccess,
		Video:  *videoInfo,
	})
}
