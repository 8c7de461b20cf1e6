package extractor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeInfoMetadata(t *testing.T) {
	info, err := DecodeInfo([]byte(`{
		"title": "Clip",
		"duration": 12.5,
		"uploader": "someone",
		"view_count": 42,
		"upload_date": "20240101",
		"description": null,
		"ext": "mp4",
		"filesize": 5000000,
		"formats": [
			{"format_id": "18", "ext": "mp4", "height": 360.0, "filesize": 1000},
			{"format_id": "140", "ext": "m4a", "vcodec": "none"}
		]
	}`))
	require.NoError(t, err)

	require.NotNil(t, info.Title)
	assert.Equal(t, "Clip", *info.Title)
	assert.Equal(t, 12.5, *info.Duration)
	assert.Equal(t, int64(42), *info.ViewCount)
	assert.Nil(t, info.Description)
	assert.Nil(t, info.Thumbnail)
	assert.Equal(t, int64(5000000), *info.Filesize)
	require.Len(t, info.Formats, 2)
	assert.Equal(t, 360, *info.Formats[0].Height)
	assert.Nil(t, info.Formats[1].Height)
}

func TestDecodeInfoDerivesApproxSizeFromRequestedFormats(t *testing.T) {
	info, err := DecodeInfo([]byte(`{
		"title": "Merged",
		"requested_formats": [
			{"format_id": "137", "filesize": 3000},
			{"format_id": "140", "filesize_approx": 500}
		]
	}`))
	require.NoError(t, err)

	assert.Nil(t, info.Filesize)
	require.NotNil(t, info.FilesizeApprox)
	assert.Equal(t, int64(3500), *info.FilesizeApprox)
}

func TestDecodeInfoKeepsTopLevelSize(t *testing.T) {
	info, err := DecodeInfo([]byte(`{
		"filesize_approx": 100,
		"requested_formats": [{"filesize": 3000}]
	}`))
	require.NoError(t, err)
	assert.Equal(t, int64(100), *info.FilesizeApprox)
}

func TestDecodeInfoFilepathPreference(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{
			name: "requested downloads first",
			body: `{"requested_downloads":[{"filepath":"/d/a.mp4"}],"_filename":"/d/b.mp4"}`,
			want: "/d/a.mp4",
		},
		{
			name: "engine filename",
			body: `{"_filename":"/d/b.mp4","filename":"/d/c.mp4"}`,
			want: "/d/b.mp4",
		},
		{
			name: "legacy filename",
			body: `{"filename":"/d/c.mp4"}`,
			want: "/d/c.mp4",
		},
		{
			name: "none",
			body: `{}`,
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info, err := DecodeInfo([]byte(tt.body))
			require.NoError(t, err)
			assert.Equal(t, tt.want, info.Filepath)
		})
	}
}

func TestDecodeInfoRejectsGarbage(t *testing.T) {
	_, err := DecodeInfo([]byte(`not json`))
	assert.Error(t, err)
}

func TestEngineMessage(t *testing.T) {
	stderr := "WARNING: something\nERROR: [generic] Unsupported URL: https://x\n\n"
	assert.Equal(t, "ERROR: [generic] Unsupported URL: https://x", engineMessage(stderr))
	assert.Equal(t, "plain failure", engineMessage("noise\nplain failure\n"))
	assert.Equal(t, "", engineMessage("  "))
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "boom", (&Error{Message: "boom"}).Error())
	assert.Equal(t, "extraction failed", (&Error{}).Error())
}
