package validator

import (
	"net/url"
	"strings"
)

// ValidateURL reports whether videoURL's host is on the allow-list.
// An empty allow-list accepts every URL and leaves judgement to the engine.
func ValidateURL(videoURL string, allowedDomains []string) bool {
	if len(allowedDomains) == 0 {
		return true
	}

	u, err := url.Parse(videoURL)
	if err != nil {
		return false
	}

	host := strings.ToLower(u.Hostname())
	host = strings.TrimPrefix(host, "www.")
	if host == "" {
		return false
	}

	for _, domain := range allowedDomains {
		cleanDomain := strings.ToLower(strings.TrimSpace(domain))
		if len(cleanDomain) == 0 {
			continue
		}

		// Exact host or any subdomain of it
		if host == cleanDomain || strings.HasSuffix(host, "."+cleanDomain) {
			return true
		}
	}

	return false
}

// SanitizeFilename replaces path separators so a title can be used as a
// single path element.
func SanitizeFilename(filename string) string {
	return strings.NewReplacer("/", "_", "\\", "_", "\x00", "_").Replace(filename)
}
