package model

// Config holds application configuration
type Config struct {
	App       AppConfig
	Server    ServerConfig
	Storage   StorageConfig
	Extractor ExtractorConfig
	Logging   LoggingConfig
	Security  SecurityConfig
	Cache     CacheConfig
}

// AppConfig holds service identity and mode
type AppConfig struct {
	Name    string
	Version string
	Debug   bool
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port    int
	Host    string
	Timeout int // seconds
}

// StorageConfig holds storage configuration
type StorageConfig struct {
	DownloadDir       string
	MaxDownloadSizeMB int
	MergeFormat       string
	CleanupInterval   int // seconds
	FileTTLSeconds    int // 0 keeps downloaded files forever
}

// ExtractorConfig selects and configures the extraction engine
type ExtractorConfig struct {
	Backend       string // "ytdlp" or "worker"
	BinaryPath    string // yt-dlp executable, empty for PATH lookup
	WorkerHost    string
	WorkerPort    int
	WorkerTimeout int // seconds
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level    string
	FilePath string // optional extra sink next to stdout
}

// SecurityConfig holds request validation configuration
type SecurityConfig struct {
	AllowedDomains []string // empty allows any host
}

// CacheConfig holds the optional metadata cache configuration
type CacheConfig struct {
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	TTLSeconds    int
}

// Extractor backends
const (
	ExtractorYtDlp  = "ytdlp"
	ExtractorWorker = "worker"
)
