package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"downloaderapi/internal/extractor"
	"downloaderapi/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubExtractor struct {
	info  *extractor.Info
	err   error
	calls int
	url   string
	opts  extractor.Options
}

func (s *stubExtractor) Extract(_ context.Context, url string, opts extractor.Options) (*extractor.Info, error) {
	s.calls++
	s.url = url
	s.opts = opts
	return s.info, s.err
}

type stubStore struct {
	tracked map[string]string
}

func (s *stubStore) OutputTemplate() string { return "/dl/%(title)s.%(ext)s" }

func (s *stubStore) TrackFile(url, path string) string {
	if s.tracked == nil {
		s.tracked = map[string]string{}
	}
	s.tracked[url] = path
	return "id-1"
}

type memoryCache struct {
	items  map[string]*extractor.Info
	getErr error
	sets   int
}

func (m *memoryCache) Get(_ context.Context, url string) (*extractor.Info, bool, error) {
	if m.getErr != nil {
		return nil, false, m.getErr
	}
	info, ok := m.items[url]
	return info, ok, nil
}

func (m *memoryCache) Set(_ context.Context, url string, info *extractor.Info) error {
	if m.items == nil {
		m.items = map[string]*extractor.Info{}
	}
	m.items[url] = info
	m.sets++
	return nil
}

func strPtr(s string) *string { return &s }
func intPtr(n int64) *int64   { return &n }

func TestResolveQuality(t *testing.T) {
	assert.Equal(t, "bestvideo[height<=1080]+bestaudio/best", ResolveQuality("1080p"))
	assert.Equal(t, "bestvideo[height<=720]+bestaudio/best", ResolveQuality("720p"))
	assert.Equal(t, "bestvideo[height<=480]+bestaudio/best", ResolveQuality("480p"))
	assert.Equal(t, "best", ResolveQuality("best"))

	for _, label := range []string{"", "4k", "720P", "worst", " 720p"} {
		assert.Equal(t, ResolveQuality("720p"), ResolveQuality(label), label)
	}
}

func TestQualityLabel(t *testing.T) {
	assert.Equal(t, "720p", QualityLabel(""))
	assert.Equal(t, "best", QualityLabel("best"))
	assert.Equal(t, "4k", QualityLabel("4k"))
}

func TestEvaluateSize(t *testing.T) {
	tests := []struct {
		name     string
		filesize *int64
		approx   *int64
		limit    int
		accepted bool
		sizeMB   float64
	}{
		{"unknown size passes", nil, nil, 100, true, 0},
		{"zero exact falls back to approx", intPtr(0), intPtr(5 * bytesPerMB), 100, true, 5},
		{"exact preferred over approx", intPtr(bytesPerMB), intPtr(500 * bytesPerMB), 100, true, 1},
		{"at limit passes", intPtr(100 * bytesPerMB), nil, 100, true, 100},
		{"just over limit rejects", intPtr(100*bytesPerMB + 1), nil, 100, false, 100 + 1.0/bytesPerMB},
		{"approx over limit rejects", nil, intPtr(200 * bytesPerMB), 100, false, 200},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := EvaluateSize(tt.filesize, tt.approx, tt.limit)
			assert.Equal(t, tt.accepted, d.Accepted)
			assert.InDelta(t, tt.sizeMB, d.SizeMB, 1e-9)
			assert.Equal(t, tt.limit, d.LimitMB)
			if tt.accepted {
				assert.Empty(t, d.Message)
			} else {
				assert.Contains(t, d.Message, "exceeds limit")
			}
		})
	}
}

func TestEvaluateSizeMessageRounding(t *testing.T) {
	d := EvaluateSize(intPtr(157286400+5243), nil, 100) // 150.005 MB
	assert.False(t, d.Accepted)
	assert.Equal(t, "File size (150.01MB) exceeds limit (100MB)", d.Message)
}

func TestGetVideoInfoShapesMetadata(t *testing.T) {
	long := strings.Repeat("é", 250)
	ex := &stubExtractor{info: &extractor.Info{
		Title:       strPtr("T"),
		Description: &long,
		Formats:     []extractor.Format{{}, {}},
	}}
	svc := NewVideoService(ex, nil)

	info, err := svc.GetVideoInfo(context.Background(), "https://example.com/v")
	require.NoError(t, err)

	assert.Equal(t, "T", *info.Title)
	assert.Equal(t, 2, info.FormatsAvailable)
	assert.Nil(t, info.Duration)
	require.NotNil(t, info.Description)
	assert.Equal(t, strings.Repeat("é", 200)+"...", *info.Description)
	assert.False(t, ex.opts.Fetch)
	assert.Empty(t, ex.opts.FormatSelector)
}

func TestGetVideoInfoShortAndEmptyDescription(t *testing.T) {
	assert.Equal(t, "hi...", *truncateDescription(strPtr("hi")))
	assert.Nil(t, truncateDescription(strPtr("")))
	assert.Nil(t, truncateDescription(nil))
}

func TestGetVideoInfoPropagatesEngineError(t *testing.T) {
	engineErr := &extractor.Error{Message: "ERROR: Unsupported URL"}
	svc := NewVideoService(&stubExtractor{err: engineErr}, nil)

	_, err := svc.GetVideoInfo(context.Background(), "https://example.com/v")
	var exErr *extractor.Error
	require.True(t, errors.As(err, &exErr))
	assert.Equal(t, "ERROR: Unsupported URL", exErr.Message)
}

func TestGetVideoInfoUsesCache(t *testing.T) {
	ex := &stubExtractor{info: &extractor.Info{Title: strPtr("cached"), Formats: []extractor.Format{{}}}}
	cache := &memoryCache{}
	svc := NewVideoService(ex, cache)

	first, err := svc.GetVideoInfo(context.Background(), "https://example.com/v")
	require.NoError(t, err)
	second, err := svc.GetVideoInfo(context.Background(), "https://example.com/v")
	require.NoError(t, err)

	assert.Equal(t, 1, ex.calls)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, first, second)
}

func TestGetVideoInfoIgnoresCacheFailure(t *testing.T) {
	ex := &stubExtractor{info: &extractor.Info{Title: strPtr("T")}}
	svc := NewVideoService(ex, &memoryCache{getErr: errors.New("redis down")})

	info, err := svc.GetVideoInfo(context.Background(), "https://example.com/v")
	require.NoError(t, err)
	assert.Equal(t, "T", *info.Title)
	assert.Equal(t, 1, ex.calls)
}

func TestDownloadAccepted(t *testing.T) {
	ex := &stubExtractor{info: &extractor.Info{
		Title:    strPtr("T"),
		Ext:      strPtr("mp4"),
		Filesize: intPtr(5_000_000),
	}}
	store := &stubStore{}
	svc := NewDownloadService(ex, store, 100, "mp4")

	video, err := svc.Download(context.Background(), &model.DownloadRequest{URL: "https://example.com/v"})
	require.NoError(t, err)

	assert.InDelta(t, 4.77, video.FilesizeMB, 0.001)
	assert.Equal(t, "720p", video.Quality)
	assert.Equal(t, "T.mp4", video.Filename)
	assert.Equal(t, "mp4", *video.Format)
	assert.Empty(t, store.tracked)

	assert.Equal(t, "bestvideo[height<=720]+bestaudio/best", ex.opts.FormatSelector)
	assert.Equal(t, "/dl/%(title)s.%(ext)s", ex.opts.OutputTemplate)
	assert.True(t, ex.opts.Fetch)
	assert.True(t, ex.opts.ContinueOnError)
	assert.Equal(t, "mp4", ex.opts.MergeFormat)
}

func TestDownloadPrefersEnginePath(t *testing.T) {
	ex := &stubExtractor{info: &extractor.Info{
		Title:    strPtr("T"),
		Ext:      strPtr("webm"),
		Filepath: "/dl/Real Name.mp4",
	}}
	store := &stubStore{}
	svc := NewDownloadService(ex, store, 100, "mp4")

	video, err := svc.Download(context.Background(), &model.DownloadRequest{URL: "https://example.com/v", Quality: "best"})
	require.NoError(t, err)

	assert.Equal(t, "Real Name.mp4", video.Filename)
	assert.Equal(t, "best", video.Quality)
	assert.Equal(t, "best", ex.opts.FormatSelector)
	assert.Equal(t, "/dl/Real Name.mp4", store.tracked["https://example.com/v"])
}

func TestDownloadSynthesizesFilename(t *testing.T) {
	ex := &stubExtractor{info: &extractor.Info{Title: strPtr("AC/DC"), Ext: strPtr("mkv")}}
	svc := NewDownloadService(ex, &stubStore{}, 100, "mp4")

	video, err := svc.Download(context.Background(), &model.DownloadRequest{URL: "u"})
	require.NoError(t, err)
	assert.Equal(t, "AC_DC.mkv", video.Filename)
	assert.Zero(t, video.FilesizeMB)
}

func TestDownloadRejectsOversize(t *testing.T) {
	ex := &stubExtractor{info: &extractor.Info{Title: strPtr("T"), Filesize: intPtr(200 * bytesPerMB)}}
	store := &stubStore{}
	svc := NewDownloadService(ex, store, 100, "mp4")

	_, err := svc.Download(context.Background(), &model.DownloadRequest{URL: "u"})
	var sizeErr *SizeLimitError
	require.True(t, errors.As(err, &sizeErr))
	assert.Contains(t, sizeErr.Error(), "exceeds limit")
	assert.InDelta(t, 200, sizeErr.Decision.SizeMB, 1e-9)
	assert.Empty(t, store.tracked)
}

func TestDownloadPropagatesEngineError(t *testing.T) {
	svc := NewDownloadService(&stubExtractor{err: &extractor.Error{Message: "boom"}}, &stubStore{}, 100, "mp4")

	_, err := svc.Download(context.Background(), &model.DownloadRequest{URL: "u"})
	assert.EqualError(t, err, "boom")
}
