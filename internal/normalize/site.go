package normalize

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/seolab/llmsgen/internal/types"
)

var homepagePattern = regexp.MustCompile(`^https?://[^/]+/?$`)

// genericTitleSuffixes are navigation labels sites append to the homepage
// title; they add nothing to a site-level title.
var genericTitleSuffixes = map[string]bool{
	"home":     true,
	"homepage": true,
	"welcome":  true,
}

// SiteMetadata derives site-level fields from the homepage row, falling
// back to the first page when the crawl never reached the root.
func SiteMetadata(pages []types.Page) types.SiteMetadata {
	if len(pages) == 0 {
		return types.SiteMetadata{Title: "Website"}
	}

	home := pages[0]
	for _, p := range pages {
		if homepagePattern.MatchString(p.URL) {
			home = p
			break
		}
	}

	meta := types.SiteMetadata{
		Title:   CleanSiteTitle(home.Title),
		Summary: home.Description,
	}
	if u, err := url.Parse(home.URL); err == nil && u.Host != "" {
		meta.Domain = u.Host
		meta.BaseURL = u.Scheme + "://" + u.Host
	}
	if meta.Title == "" {
		meta.Title = "Website"
	}
	return meta
}

// CleanSiteTitle drops a trailing "| Home" style navigation label.
func CleanSiteTitle(title string) string {
	title = strings.TrimSpace(title)
	for _, sep := range []string{"|", " - "} {
		if i := strings.LastIndex(title, sep); i > 0 {
			tail := strings.ToLower(strings.TrimSpace(title[i+len(sep):]))
			if genericTitleSuffixes[tail] {
				return strings.TrimSpace(title[:i])
			}
		}
	}
	return title
}
