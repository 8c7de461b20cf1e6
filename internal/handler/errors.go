package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"downloaderapi/internal/metrics"
	"downloaderapi/internal/model"
	"downloaderapi/internal/service"
	"downloaderapi/pkg/logger"
	"downloaderapi/pkg/validator"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Validation messages
const (
	msgNoJSON           = "No JSON data provided"
	msgNoURL            = "No URL provided"
	msgDomainNotAllowed = "URL domain is not allowed"
)

// AvailableEndpoints is advertised in 404 responses
var AvailableEndpoints = []string{"/", "/health", "/ready", "/metrics", "/info", "/download"}

// parseRequest reads {url, quality?} from the body. Any body that is not a
// non-empty JSON object is treated as missing.
func parseRequest(c *gin.Context, allowedDomains []string) (*model.DownloadRequest, error) {
	var body map[string]any
	if err := json.NewDecoder(c.Request.Body).Decode(&body); err != nil || len(body) == 0 {
		return nil, &service.ValidationError{Message: msgNoJSON}
	}

	videoURL, _ := body["url"].(string)
	if videoURL == "" {
		return nil, &service.ValidationError{Message: msgNoURL}
	}
	if !validator.ValidateURL(videoURL, allowedDomains) {
		return nil, &service.ValidationError{Message: msgDomainNotAllowed}
	}

	quality, _ := body["quality"].(string)
	return &model.DownloadRequest{URL: videoURL, Quality: quality}, nil
}

// fail counts the error outcome and writes the domain error envelope.
func fail(c *gin.Context, reg *metrics.Registry, err error) {
	reg.RecordError()

	status := statusFor(err)
	fields := []zap.Field{
		zap.String("path", c.Request.URL.Path),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		logger.Logger.Error("Request failed", fields...)
	} else {
		logger.Logger.Warn("Request rejected", fields...)
	}

	c.JSON(status, model.ErrorResponse{
		Error:  err.Error(),
		Status: model.StatusFailed,
	})
}

// statusFor maps typed errors to HTTP status codes. Anything unknown,
// including engine failures, is a 500.
func statusFor(err error) int {
	var validationErr *service.ValidationError
	var sizeErr *service.SizeLimitError

	if errors.As(err, &validationErr) || errors.As(err, &sizeErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// NoRoute handles unmatched paths and methods
func NoRoute(c *gin.Context) {
	logger.Logger.Debug("Endpoint not found",
		zap.String("method", c.Request.Method),
		zap.String("path", c.Request.URL.Path))

	c.JSON(http.StatusNotFound, model.RouteErrorResponse{
		Error:              "Endpoint not found",
		Status:             http.StatusNotFound,
		AvailableEndpoints: AvailableEndpoints,
	})
}

// outcomeRoutes are the routes whose every terminal path is counted in
// download_requests_total.
var outcomeRoutes = map[string]bool{"/info": true, "/download": true}

// NewRecoveryHandler turns a recovered panic into the generic 500 envelope.
// Panics on /info and /download count as errors.
func NewRecoveryHandler(reg *metrics.Registry) gin.RecoveryFunc {
	return func(c *gin.Context, recovered any) {
		if outcomeRoutes[c.FullPath()] {
			reg.RecordError()
		}

		logger.Logger.Error("Internal server error",
			zap.String("path", c.Request.URL.Path),
			zap.Any("panic", recovered))

		c.AbortWithStatusJSON(http.StatusInternalServerError, model.RouteErrorResponse{
			Error:  "Internal server error",
			Status: http.StatusInternalServerError,
		})
	}
}
