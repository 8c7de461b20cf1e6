package extractor

import (
	"encoding/json"
	"fmt"
)

// rawInfo mirrors the engine's JSON dump. Numbers arrive as floats and are
// normalized in DecodeInfo.
type rawInfo struct {
	Title          *string     `json:"title"`
	Duration       *float64    `json:"duration"`
	Uploader       *string     `json:"uploader"`
	ViewCount      *float64    `json:"view_count"`
	UploadDate     *string     `json:"upload_date"`
	Description    *string     `json:"description"`
	Thumbnail      *string     `json:"thumbnail"`
	Filesize       *float64    `json:"filesize"`
	FilesizeApprox *float64    `json:"filesize_approx"`
	Ext            *string     `json:"ext"`
	Filename       string      `json:"_filename"`
	LegacyFilename string      `json:"filename"`
	Filepath       string      `json:"filepath"`
	Formats        []rawFormat `json:"formats"`
	Requested      []rawFormat `json:"requested_formats"`
	Downloads      []struct {
		Filepath string `json:"filepath"`
		Filename string `json:"_filename"`
	} `json:"requested_downloads"`
}

type rawFormat struct {
	FormatID       string   `json:"format_id"`
	Ext            string   `json:"ext"`
	Height         *float64 `json:"height"`
	VideoCodec     string   `json:"vcodec"`
	AudioCodec     string   `json:"acodec"`
	Filesize       *float64 `json:"filesize"`
	FilesizeApprox *float64 `json:"filesize_approx"`
	TBR            *float64 `json:"tbr"`
}

// DecodeInfo parses an engine JSON dump into an Info.
func DecodeInfo(data []byte) (*Info, error) {
	var raw rawInfo
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("decode engine output: %w", err)
	}

	info := &Info{
		Title:          raw.Title,
		Duration:       raw.Duration,
		Uploader:       raw.Uploader,
		ViewCount:      toInt64(raw.ViewCount),
		UploadDate:     raw.UploadDate,
		Description:    raw.Description,
		Thumbnail:      raw.Thumbnail,
		Filesize:       toInt64(raw.Filesize),
		FilesizeApprox: toInt64(raw.FilesizeApprox),
		Ext:            raw.Ext,
		Formats:        make([]Format, 0, len(raw.Formats)),
	}
	for _, f := range raw.Formats {
		info.Formats = append(info.Formats, f.toFormat())
	}

	// Merged downloads report sizes per stream only.
	if info.Filesize == nil && info.FilesizeApprox == nil && len(raw.Requested) > 0 {
		var total int64
		var known bool
		for _, f := range raw.Requested {
			if size := firstSize(f.Filesize, f.FilesizeApprox); size != nil {
				total += *size
				known = true
			}
		}
		if known {
			info.FilesizeApprox = &total
		}
	}

	switch {
	case len(raw.Downloads) > 0 && raw.Downloads[0].Filepath != "":
		info.Filepath = raw.Downloads[0].Filepath
	case len(raw.Downloads) > 0 && raw.Downloads[0].Filename != "":
		info.Filepath = raw.Downloads[0].Filename
	case raw.Filepath != "":
		info.Filepath = raw.Filepath
	case raw.Filename != "":
		info.Filepath = raw.Filename
	default:
		info.Filepath = raw.LegacyFilename
	}

	return info, nil
}

func (f rawFormat) toFormat() Format {
	out := Format{
		FormatID:       f.FormatID,
		Ext:            f.Ext,
		VideoCodec:     f.VideoCodec,
		AudioCodec:     f.AudioCodec,
		Filesize:       toInt64(f.Filesize),
		FilesizeApprox: toInt64(f.FilesizeApprox),
		TBR:            f.TBR,
	}
	if f.Height != nil {
		h := int(*f.Height)
		out.Height = &h
	}
	return out
}

func firstSize(values ...*float64) *int64 {
	for _, v := range values {
		if v != nil {
			return toInt64(v)
		}
	}
	return nil
}

func toInt64(v *float64) *int64 {
	if v == nil {
		return nil
	}
	n := int64(*v)
	return &n
}
