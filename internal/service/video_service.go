package service

import (
	"context"

	"downloaderapi/internal/extractor"
	"downloaderapi/internal/model"
	"downloaderapi/pkg/logger"

	"go.uber.org/zap"
)

const descriptionLimit = 200

// InfoCache stores engine metadata between /info calls
type InfoCache interface {
	Get(ctx context.Context, url string) (*extractor.Info, bool, error)
	Set(ctx context.Context, url string, info *extractor.Info) error
}

// VideoService handles video metadata extraction
type VideoService struct {
	extractor extractor.Extractor
	cache     InfoCache
}

// NewVideoService creates a new video service. cache may be nil.
func NewVideoService(ex extractor.Extractor, cache InfoCache) *VideoService {
	return &VideoService{extractor: ex, cache: cache}
}

// GetVideoInfo resolves metadata for videoURL without fetching media
func (s *VideoService) GetVideoInfo(ctx context.Context, videoURL string) (*model.VideoInfo, error) {
	if s.cache != nil {
		cached, hit, err := s.cache.Get(ctx, videoURL)
		if err != nil {
			logger.Logger.Warn("Info cache lookup failed", zap.Error(err))
		} else if hit {
			logger.Logger.Debug("Info cache hit", zap.String("url", videoURL))
			return buildVideoInfo(cached), nil
		}
	}

	info, err := s.extractor.Extract(ctx, videoURL, extractor.Options{})
	if err != nil {
		logger.Logger.Error("Failed to fetch video info", zap.Error(err), zap.String("url", videoURL))
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, videoURL, info); err != nil {
			logger.Logger.Warn("Info cache store failed", zap.Error(err))
		}
	}

	videoInfo := buildVideoInfo(info)
	logger.Logger.Info("Video info retrieved",
		zap.String("url", videoURL),
		zap.Int("formats", videoInfo.FormatsAvailable))
	return videoInfo, nil
}

// buildVideoInfo converts an engine record into the response block
func buildVideoInfo(info *extractor.Info) *model.VideoInfo {
	return &model.VideoInfo{
		Title:            info.Title,
		Duration:         info.Duration,
		Uploader:         info.Uploader,
		ViewCount:        info.ViewCount,
		UploadDate:       info.UploadDate,
		Description:      truncateDescription(info.Description),
		Thumbnail:        info.Thumbnail,
		FormatsAvailable: len(info.Formats),
	}
}

// truncateDescription keeps the first 200 characters and appends an ellipsis.
// Missing or empty descriptions become null.
func truncateDescription(desc *string) *string {
	if desc == nil || *desc == "" {
		return nil
	}
	runes := []rune(*desc)
	if len(runes) > descriptionLimit {
		runes = runes[:descriptionLimit]
	}
	out := string(runes) + "..."
	return &out
}
