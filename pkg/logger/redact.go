package logger

import (
	"crypto/sha256"
	"fmt"
	"net/url"
)

// MaskURL keeps scheme and host of rawURL and replaces credentials and
// path with a short hash, so proxy URLs can be logged.
func MaskURL(rawURL string) string {
	if rawURL == "" {
		return ""
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || parsed.Host == "" {
		return "url#" + hash(rawURL)[:8]
	}

	masked := parsed.Host
	if parsed.Scheme != "" {
		masked = parsed.Scheme + "://" + masked
	}
	if parsed.User == nil && (parsed.Path == "" || parsed.Path == "/") && parsed.RawQuery == "" {
		return masked
	}
	return fmt.Sprintf("%s#%s", masked, hash(rawURL)[:8])
}

func hash(s string) string {
	sum := sha256.Sum256([]byte(s))
	return fmt.Sprintf("%x", sum)
}
