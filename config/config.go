package config

import (
	"os"
	"strconv"
	"strings"

	"downloaderapi/internal/model"

	"github.com/joho/godotenv"
)

// Load loads configuration from environment variables
func Load() *model.Config {
	// A missing .env file is normal outside local development.
	_ = godotenv.Load()

	return &model.Config{
		App: model.AppConfig{
			Name:    getEnvStr("APP_NAME", "YouTube Downloader API"),
			Version: getEnvStr("APP_VERSION", "1.0.0"),
			Debug:   getEnvBool("DEBUG", false),
		},
		Server: model.ServerConfig{
			Port:    getEnvInt("SERVER_PORT", 8080),
			Host:    getEnvStr("SERVER_HOST", "0.0.0.0"),
			Timeout: getEnvInt("SERVER_TIMEOUT", 300),
		},
		Storage: model.StorageConfig{
			DownloadDir:       getEnvStr("DOWNLOAD_FOLDER", "downloads"),
			MaxDownloadSizeMB: getEnvInt("MAX_DOWNLOAD_SIZE", 100),
			MergeFormat:       getEnvStr("MERGE_OUTPUT_FORMAT", "mp4"),
			CleanupInterval:   getEnvInt("STORAGE_CLEANUP_INTERVAL", 3600),
			FileTTLSeconds:    getEnvInt("FILE_TTL_SECONDS", 0),
		},
		Extractor: model.ExtractorConfig{
			Backend:       strings.ToLower(getEnvStr("EXTRACTOR_BACKEND", model.ExtractorYtDlp)),
			BinaryPath:    getEnvStr("YTDLP_PATH", ""),
			WorkerHost:    getEnvStr("WORKER_HOST", "localhost"),
			WorkerPort:    getEnvInt("WORKER_PORT", 5000),
			WorkerTimeout: getEnvInt("WORKER_TIMEOUT", 600),
		},
		Logging: model.LoggingConfig{
			Level:    getEnvStr("LOG_LEVEL", "info"),
			FilePath: getEnvStr("LOG_FILE", ""),
		},
		Security: model.SecurityConfig{
			AllowedDomains: parseList(getEnvStr("ALLOWED_DOMAINS", "")),
		},
		Cache: model.CacheConfig{
			RedisAddr:     getEnvStr("REDIS_ADDR", ""),
			RedisPassword: getEnvStr("REDIS_PASSWORD", ""),
			RedisDB:       getEnvInt("REDIS_DB", 0),
			TTLSeconds:    getEnvInt("INFO_CACHE_TTL", 600),
		},
	}
}

// parseList splits a comma-separated env value, dropping blanks
func parseList(raw string) []string {
	var items []string
	for _, item := range strings.Split(raw, ",") {
		item = strings.TrimSpace(item)
		if item != "" {
			items = append(items, item)
		}
	}
	return items
}

func getEnvStr(key, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	valStr := getEnvStr(key, "")
	if val, err := strconv.Atoi(valStr); err == nil {
		return val
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	valStr := strings.ToLower(getEnvStr(key, ""))
	if valStr == "true" || valStr == "1" || valStr == "yes" {
		return true
	}
	if valStr == "false" || valStr == "0" || valStr == "no" {
		return false
	}
	return defaultVal
}
