package extractor

import (
	"context"
	"errors"
	"strings"

	"downloaderapi/pkg/logger"

	"github.com/lrstanley/go-ytdlp"
	"go.uber.org/zap"
)

// YtDlp runs the yt-dlp executable once per call.
type YtDlp struct {
	binaryPath string
}

// NewYtDlp creates a yt-dlp backend. An empty path resolves yt-dlp from PATH.
func NewYtDlp(binaryPath string) *YtDlp {
	return &YtDlp{binaryPath: binaryPath}
}

// Extract resolves url and, when opts.Fetch is set, downloads it.
func (y *YtDlp) Extract(ctx context.Context, url string, opts Options) (*Info, error) {
	cmd := y.command(opts)

	logger.Logger.Debug("Running yt-dlp",
		zap.String("url", url),
		zap.String("format", opts.FormatSelector),
		zap.Bool("fetch", opts.Fetch),
	)

	result, err := cmd.Run(ctx, url)
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, &Error{Message: "extraction cancelled", Err: ctxErr}
	}

	var stdout, stderr string
	if result != nil {
		stdout = strings.TrimSpace(result.Stdout)
		stderr = result.Stderr
	}

	if err != nil && (!opts.ContinueOnError || stdout == "") {
		msg := engineMessage(stderr)
		if msg == "" {
			msg = err.Error()
		}
		logger.Logger.Warn("yt-dlp failed", zap.String("url", url), zap.String("message", msg))
		return nil, &Error{Message: msg, Err: err}
	}

	if stdout == "" || stdout == "null" {
		msg := engineMessage(stderr)
		if msg == "" {
			msg = "no media information returned"
		}
		return nil, &Error{Message: msg, Err: errors.New("empty engine output")}
	}

	// Dumps end with the JSON document; progress lines may precede it.
	if idx := strings.LastIndex(stdout, "\n{"); idx >= 0 {
		stdout = stdout[idx+1:]
	}

	info, decodeErr := DecodeInfo([]byte(stdout))
	if decodeErr != nil {
		return nil, &Error{Message: "could not parse media information", Err: decodeErr}
	}
	return info, nil
}

func (y *YtDlp) command(opts Options) *ytdlp.Command {
	cmd := ytdlp.New().
		Quiet().
		NoWarnings().
		NoProgress().
		DumpSingleJSON()

	if y.binaryPath != "" {
		cmd.SetExecutable(y.binaryPath)
	}
	if opts.FormatSelector != "" {
		cmd.Format(opts.FormatSelector)
	}
	if opts.OutputTemplate != "" {
		cmd.Output(opts.OutputTemplate)
	}
	if opts.ContinueOnError {
		cmd.IgnoreErrors()
	}
	if opts.MergeFormat != "" {
		cmd.MergeOutputFormat(opts.MergeFormat)
	}
	if opts.Fetch {
		// JSON dumps imply simulation unless told otherwise.
		cmd.NoSimulate()
	} else {
		cmd.SkipDownload()
	}
	return cmd
}
