package model

import "time"

// DownloadRequest is the parsed body of POST /info and POST /download
type DownloadRequest struct {
	URL     string `json:"url"`
	Quality string `json:"quality"`
}

// VideoInfo is the metadata block returned by /info.
// Nil pointers serialize as null, mirroring fields the engine did not report.
type VideoInfo struct {
	Title            *string  `json:"title"`
	Duration         *float64 `json:"duration"`
	Uploader         *string  `json:"uploader"`
	ViewCount        *int64   `json:"view_count"`
	UploadDate       *string  `json:"upload_date"`
	Description      *string  `json:"description"`
	Thumbnail        *string  `json:"thumbnail"`
	FormatsAvailable int      `json:"formats_available"`
}

// DownloadedVideo is the metadata block returned by /download
type DownloadedVideo struct {
	VideoInfo
	FilesizeMB float64 `json:"filesize_mb"`
	Quality    string  `json:"quality"`
	Format     *string `json:"format"`
	Filename   string  `json:"filename"`
}

// InfoResponse represents a successful /info response
type InfoResponse struct {
	Status string    `json:"status"`
	Video  VideoInfo `json:"video"`
}

// DownloadResponse represents a successful /download response
type DownloadResponse struct {
	Status  string          `json:"status"`
	Message string          `json:"message"`
	Video   DownloadedVideo `json:"video"`
}

// ErrorResponse represents a domain failure
type ErrorResponse struct {
	Error  string `json:"error"`
	Status string `json:"status"`
}

// RouteErrorResponse represents a routing or framework failure
type RouteErrorResponse struct {
	Error              string   `json:"error"`
	Status             int      `json:"status"`
	AvailableEndpoints []string `json:"available_endpoints,omitempty"`
}

// HomeResponse describes the service at GET /
type HomeResponse struct {
	App         string            `json:"app"`
	Status      string            `json:"status"`
	Version     string            `json:"version"`
	Endpoints   map[string]string `json:"endpoints"`
	Environment EnvironmentInfo   `json:"environment"`
}

// EnvironmentInfo echoes the operator-facing settings
type EnvironmentInfo struct {
	Debug             bool `json:"debug"`
	MaxDownloadSizeMB int  `json:"max_download_size_mb"`
}

// HealthResponse is the liveness payload
type HealthResponse struct {
	Status    string  `json:"status"`
	Timestamp float64 `json:"timestamp"`
	Version   string  `json:"version"`
}

// ReadinessResponse is the readiness payload
type ReadinessResponse struct {
	Status  string           `json:"status"`
	Checks  *ReadinessChecks `json:"checks,omitempty"`
	Error   string           `json:"error,omitempty"`
	Version string           `json:"version"`
}

// ReadinessChecks lists the individual readiness checks
type ReadinessChecks struct {
	DownloadFolder string `json:"download_folder"`
	Dependencies   string `json:"dependencies,omitempty"`
}

// DownloadedFile tracks downloaded files for cleanup
type DownloadedFile struct {
	ID        string
	Filename  string
	FilePath  string
	CreatedAt time.Time
	ExpiresAt time.Time
	URL       string
}

// Response status values
const (
	StatusSuccess  = "success"
	StatusFailed   = "failed"
	StatusUp       = "UP"
	StatusReady    = "READY"
	StatusNotReady = "NOT_READY"
)
