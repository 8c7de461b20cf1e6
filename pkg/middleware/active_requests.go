package middleware

import (
	"downloaderapi/internal/metrics"

	"github.com/gin-gonic/gin"
)

// ActiveRequests keeps the active_requests gauge in step with in-flight
// requests. The release is deferred so panicking handlers are counted down too.
func ActiveRequests(reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		release := reg.TrackActive()
		defer release()

		c.Next()
	}
}
