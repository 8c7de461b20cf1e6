// Package extractor defines the contract with the media extraction engine and
// ships two backends: a local yt-dlp process and a remote HTTP worker.
package extractor

import (
	"context"
	"strings"
)

// Options configures a single engine call.
type Options struct {
	// FormatSelector is an engine format expression, e.g. "bestvideo+bestaudio/best".
	FormatSelector string `json:"format,omitempty"`
	// OutputTemplate is the path template for fetched files.
	OutputTemplate string `json:"outtmpl,omitempty"`
	// Fetch requests the engine to download after resolving metadata.
	Fetch bool `json:"download"`
	// ContinueOnError keeps going when individual items fail.
	ContinueOnError bool `json:"ignoreerrors"`
	// MergeFormat forces the merged container format.
	MergeFormat string `json:"merge_output_format,omitempty"`
}

// Format is one rendition reported by the engine.
type Format struct {
	FormatID       string   `json:"format_id,omitempty"`
	Ext            string   `json:"ext,omitempty"`
	Height         *int     `json:"height,omitempty"`
	VideoCodec     string   `json:"vcodec,omitempty"`
	AudioCodec     string   `json:"acodec,omitempty"`
	Filesize       *int64   `json:"filesize,omitempty"`
	FilesizeApprox *int64   `json:"filesize_approx,omitempty"`
	TBR            *float64 `json:"tbr,omitempty"`
}

// Info is the metadata record returned by the engine.
type Info struct {
	Title          *string  `json:"title"`
	Duration       *float64 `json:"duration"`
	Uploader       *string  `json:"uploader"`
	ViewCount      *int64   `json:"view_count"`
	UploadDate     *string  `json:"upload_date"`
	Description    *string  `json:"description"`
	Thumbnail      *string  `json:"thumbnail"`
	Formats        []Format `json:"formats"`
	Filesize       *int64   `json:"filesize"`
	FilesizeApprox *int64   `json:"filesize_approx"`
	Ext            *string  `json:"ext"`
	// Filepath is where the engine wrote the fetched file, when known.
	Filepath string `json:"filepath,omitempty"`
}

// Extractor resolves a media URL and optionally fetches it.
type Extractor interface {
	Extract(ctx context.Context, url string, opts Options) (*Info, error)
}

// Error is a failure reported by the engine. Message is safe to show callers.
type Error struct {
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "extraction failed"
}

func (e *Error) Unwrap() error {
	return e.Err
}

// engineMessage picks the most useful line from engine stderr output.
func engineMessage(stderr string) string {
	lines := strings.Split(strings.TrimSpace(stderr), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, "ERROR:") {
			return line
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		if line := strings.TrimSpace(lines[i]); line != "" {
			return line
		}
	}
	return ""
}
