package logger

import (
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"downloaderapi/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestInitWithFileSink(t *testing.T) {
	previous := Logger
	t.Cleanup(func() { Logger = previous })

	path := filepath.Join(t.TempDir(), "log", "app.log")
	require.NoError(t, Init(&model.LoggingConfig{Level: "warn", FilePath: path}, false))

	Logger.Warn("file sink ready")
	_ = Sync()

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "file sink ready")
}

func TestInitDebugOverridesLevel(t *testing.T) {
	previous := Logger
	t.Cleanup(func() { Logger = previous })

	require.NoError(t, Init(&model.LoggingConfig{Level: "error"}, true))
	assert.True(t, Logger.Core().Enabled(zap.DebugLevel))
}

func TestInitUnknownLevelFallsBackToInfo(t *testing.T) {
	previous := Logger
	t.Cleanup(func() { Logger = previous })

	require.NoError(t, Init(&model.LoggingConfig{Level: "chatty"}, false))
	assert.True(t, Logger.Core().Enabled(zap.InfoLevel))
	assert.False(t, Logger.Core().Enabled(zap.DebugLevel))
}

func TestGinLoggerRecordsRequest(t *testing.T) {
	previous := Logger
	t.Cleanup(func() { Logger = previous })

	core, logs := observer.New(zap.DebugLevel)
	Logger = zap.New(core)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set(RequestIDKey, "req-1")
		c.Next()
	})
	r.Use(GinLogger())
	r.GET("/info", func(c *gin.Context) { c.Status(http.StatusTeapot) })
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/info", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, zap.InfoLevel, entries[0].Level)
	assert.Equal(t, int64(http.StatusTeapot), entries[0].ContextMap()["status"])
	assert.Equal(t, "req-1", entries[0].ContextMap()["request_id"])
	assert.Equal(t, zap.DebugLevel, entries[1].Level)
}
