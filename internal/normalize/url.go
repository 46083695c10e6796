package normalize

import (
	"net/url"
	"regexp"
	"strings"
)

// imageExtensions and assetExtensions mark URLs that are files, not pages.
// Matched against the path suffix with the query string removed.
var imageExtensions = []string{
	".jpg", ".jpeg", ".png", ".gif", ".webp", ".svg", ".ico", ".bmp",
	".tiff", ".avif",
}

var assetExtensions = append([]string{
	".css", ".js", ".map", ".json", ".xml", ".txt", ".pdf",
	".doc", ".docx", ".xls", ".xlsx", ".ppt",
	".woff", ".woff2", ".ttf", ".eot",
	".mp4", ".mp3", ".avi", ".mov", ".wmv",
	".zip", ".tar", ".gz",
}, imageExtensions...)

// cmsNoisePatterns match CMS-generated listing and system URLs that carry
// no standalone content: tag/author/date archives, pagination, feeds,
// WordPress and HubSpot internals.
var cmsNoisePatterns = []*regexp.Regexp{
	regexp.MustCompile(`/tag/`),
	regexp.MustCompile(`/category/`),
	regexp.MustCompile(`/author/`),
	regexp.MustCompile(`/page/\d+`),
	regexp.MustCompile(`/\d{4}/\d{2}/`),
	regexp.MustCompile(`/feed/`),
	regexp.MustCompile(`/wp-`),
	regexp.MustCompile(`/hs-`),
	regexp.MustCompile(`/(hs-fs|hub_generated|_hcms|hs)/`),
}

var trackingParams = map[string]bool{
	"gclid":  true,
	"fbclid": true,
	"ref":    true,
}

func isTrackingParam(key string) bool {
	return trackingParams[key] || strings.HasPrefix(key, "utm_")
}

// NormalizeURL lower-cases the scheme and host, strips the fragment and
// tracking query parameters, and trims a single trailing slash. Idempotent:
// normalizing an already-normalized URL is a no-op. Strings that do not
// parse as absolute URLs are returned trimmed but otherwise untouched.
func NormalizeURL(raw string) string {
	raw = strings.TrimSpace(raw)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}

	u.Scheme = strings.ToLower(u.Scheme)
	u.Host = strings.ToLower(u.Host)
	u.Fragment = ""

	if u.RawQuery != "" {
		q := u.Query()
		for key := range q {
			if isTrackingParam(key) {
				q.Del(key)
			}
		}
		u.RawQuery = q.Encode()
	}

	u.Path = strings.TrimSuffix(u.Path, "/")
	return u.String()
}

// PathSegments returns the non-empty path components of a URL.
func PathSegments(raw string) []string {
	path := pathOf(raw)
	var segments []string
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	return segments
}

// IsAsset reports whether the URL points at a file rather than a page.
func IsAsset(raw string) bool {
	return hasAnySuffix(raw, assetExtensions)
}

// IsImage reports whether the URL points at an image file.
func IsImage(raw string) bool {
	return hasAnySuffix(raw, imageExtensions)
}

func hasAnySuffix(raw string, extensions []string) bool {
	path := strings.ToLower(pathOf(raw))
	for _, ext := range extensions {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// IsCMSNoise reports whether the URL is CMS-generated listing or system
// noise rather than real content.
func IsCMSNoise(raw string) bool {
	lowered := strings.ToLower(raw)
	for _, pattern := range cmsNoisePatterns {
		if pattern.MatchString(lowered) {
			return true
		}
	}
	return false
}

// pathOf extracts the URL path. Strings that do not parse as absolute URLs
// are treated as bare paths with any query or fragment cut off.
func pathOf(raw string) string {
	raw = strings.TrimSpace(raw)
	if u, err := url.Parse(raw); err == nil && u.Host != "" {
		return u.Path
	}
	if i := strings.IndexAny(raw, "?#"); i >= 0 {
		raw = raw[:i]
	}
	return raw
}
