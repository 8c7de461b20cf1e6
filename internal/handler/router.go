package handler

import (
	"downloaderapi/internal/metrics"
	"downloaderapi/pkg/logger"
	"downloaderapi/pkg/middleware"

	"github.com/gin-gonic/gin"
)

// Handlers groups everything the router dispatches to
type Handlers struct {
	Video    *VideoHandler
	Download *DownloadHandler
	Status   *StatusHandler
}

// NewRouter builds the gin engine with middleware and routes.
// Unknown paths and wrong methods both get the 404 envelope.
func NewRouter(h Handlers, reg *metrics.Registry) *gin.Engine {
	router := gin.New()
	// "/health/" is a different path, not a redirect target.
	router.RedirectTrailingSlash = false

	// Recovery sits innermost so the outer middleware still see the 500
	// and release their state.
	router.Use(middleware.RequestID())
	router.Use(middleware.ActiveRequests(reg))
	router.Use(middleware.HTTPMetrics(reg))
	router.Use(logger.GinLogger())
	router.Use(gin.CustomRecovery(NewRecoveryHandler(reg)))

	router.GET("/", h.Status.Home)
	router.GET("/health", h.Status.Health)
	router.GET("/ready", h.Status.Ready)
	router.GET("/metrics", h.Status.Metrics)
	router.POST("/info", h.Video.GetVideoInfo)
	router.POST("/download", h.Download.Download)

	router.NoRoute(NoRoute)
	router.NoMethod(NoRoute)

	return router
}
