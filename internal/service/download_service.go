package service

import (
	"context"
	"path/filepath"

	"downloaderapi/internal/extractor"
	"downloaderapi/internal/model"
	"downloaderapi/pkg/logger"
	"downloaderapi/pkg/validator"

	"go.uber.org/zap"
)

// FileStore is the part of the storage manager the download path needs
type FileStore interface {
	OutputTemplate() string
	TrackFile(url, path string) string
}

// DownloadService handles video downloads
type DownloadService struct {
	extractor   extractor.Extractor
	store       FileStore
	maxSizeMB   int
	mergeFormat string
}

// NewDownloadService creates a new download service
func NewDownloadService(ex extractor.Extractor, store FileStore, maxSizeMB int, mergeFormat string) *DownloadService {
	return &DownloadService{
		extractor:   ex,
		store:       store,
		maxSizeMB:   maxSizeMB,
		mergeFormat: mergeFormat,
	}
}

// Download fetches req.URL at the requested quality and applies the size policy.
// Rejected files are left on disk.
func (s *DownloadService) Download(ctx context.Context, req *model.DownloadRequest) (*model.DownloadedVideo, error) {
	quality := QualityLabel(req.Quality)
	opts := extractor.Options{
		FormatSelector:  ResolveQuality(quality),
		OutputTemplate:  s.store.OutputTemplate(),
		Fetch:           true,
		ContinueOnError: true,
		MergeFormat:     s.mergeFormat,
	}

	logger.Logger.Info("Starting download",
		zap.String("url", req.URL),
		zap.String("quality", quality),
		zap.String("format", opts.FormatSelector))

	info, err := s.extractor.Extract(ctx, req.URL, opts)
	if err != nil {
		logger.Logger.Error("Download failed", zap.Error(err), zap.String("url", req.URL))
		return nil, err
	}

	decision := EvaluateSize(info.Filesize, info.FilesizeApprox, s.maxSizeMB)
	if !decision.Accepted {
		logger.Logger.Warn("File size exceeds limit",
			zap.String("url", req.URL),
			zap.Float64("size_mb", decision.SizeMB),
			zap.Int("limit_mb", decision.LimitMB))
		return nil, &SizeLimitError{Decision: decision}
	}

	filename := s.resolveFilename(info)
	if info.Filepath != "" {
		if id := s.store.TrackFile(req.URL, info.Filepath); id != "" {
			logger.Logger.Debug("Download tracked", zap.String("id", id))
		}
	}

	logger.Logger.Info("File downloaded",
		zap.String("filename", filename),
		zap.Float64("size_mb", decision.SizeMB))

	return &model.DownloadedVideo{
		VideoInfo:  *buildVideoInfo(info),
		FilesizeMB: roundMB(decision.SizeMB),
		Quality:    quality,
		Format:     info.Ext,
		Filename:   filename,
	}, nil
}

// resolveFilename prefers the engine-reported path and otherwise builds
// "<title>.<ext>" with path separators replaced.
func (s *DownloadService) resolveFilename(info *extractor.Info) string {
	if info.Filepath != "" {
		return filepath.Base(info.Filepath)
	}

	title := "video"
	if info.Title != nil && *info.Title != "" {
		title = *info.Title
	}
	ext := s.mergeFormat
	if info.Ext != nil && *info.Ext != "" {
		ext = *info.Ext
	}
	if ext == "" {
		ext = "mp4"
	}
	return validator.SanitizeFilename(title) + "." + ext
}
