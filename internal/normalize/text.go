package normalize

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var (
	fileExtension = regexp.MustCompile(`\.[^/]+$`)
	// archiveTitles match blog archive and tag listing pages that slip
	// through URL filters on some WordPress exports.
	archiveTitles = []*regexp.Regexp{
		regexp.MustCompile(`(?i)blog\s*\|\s*(tags?|categories|archives?|author)`),
		regexp.MustCompile(`\|\s*Latest news for`),
	}
)

// TitleFromURL derives a readable title from the URL path when the crawl
// has none: the last segment, or the last two when the final one is short,
// hyphens and underscores to spaces, title-cased. The root path is the
// homepage.
func TitleFromURL(raw string) string {
	path := pathOf(raw)
	path = fileExtension.ReplaceAllString(path, "")

	segments := []string{}
	for _, s := range strings.Split(path, "/") {
		if s != "" {
			segments = append(segments, s)
		}
	}
	if len(segments) == 0 {
		return "Homepage"
	}

	parts := segments[len(segments)-1:]
	if len(segments) >= 2 && len(segments[len(segments)-1]) < 20 {
		parts = segments[len(segments)-2:]
	}

	title := strings.Join(parts, " ")
	title = strings.ReplaceAll(title, "-", " ")
	title = strings.ReplaceAll(title, "_", " ")
	return cases.Title(language.English).String(title)
}

// CleanDescription strips truncation marks left by meta-description
// crawlers and closes an unterminated sentence when the text is long
// enough to read as one.
func CleanDescription(desc string) string {
	s := strings.TrimSpace(desc)
	for _, mark := range []string{"[…]", "[...]", "…"} {
		s = strings.ReplaceAll(s, mark, "")
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !strings.ContainsAny(s[len(s)-1:], ".!?") && len(strings.Fields(s)) > 5 {
		s += "."
	}
	return s
}

// isArchiveTitle reports whether a title marks a listing page.
func isArchiveTitle(title string) bool {
	for _, pattern := range archiveTitles {
		if pattern.MatchString(title) {
			return true
		}
	}
	return false
}
