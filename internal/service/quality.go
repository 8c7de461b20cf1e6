package service

import "strings"

// DefaultQuality is used when a request names no quality or an unknown one.
const DefaultQuality = "720p"

var qualitySelectors = map[string]string{
	"1080p": "bestvideo[height<=1080]+bestaudio/best",
	"720p":  "bestvideo[height<=720]+bestaudio/best",
	"480p":  "bestvideo[height<=480]+bestaudio/best",
	"best":  "best",
}

// ResolveQuality maps a quality label to an engine format selector.
// Unknown labels get the 720p selector.
func ResolveQuality(label string) string {
	if selector, ok := qualitySelectors[label]; ok {
		return selector
	}
	return qualitySelectors[DefaultQuality]
}

// QualityLabel returns the label echoed back to callers: the requested label
// when given, otherwise the default.
func QualityLabel(label string) string {
	if strings.TrimSpace(label) == "" {
		return DefaultQuality
	}
	return label
}
