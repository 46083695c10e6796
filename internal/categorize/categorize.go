// Package categorize assigns each page to exactly one named category using
// weighted keyword scoring over the URL, title, description and first
// heading. The pattern table is data, not code: callers extend
// categorization by editing the table, never this package.
package categorize

import (
	"strings"

	"github.com/seolab/llmsgen/internal/normalize"
	"github.com/seolab/llmsgen/internal/types"
)

// Field weights. URL structure is the strongest signal: site builders put
// pages under /services/ or /blog/ deliberately, while titles and body
// copy drift.
const (
	urlSegmentWeight  = 3
	titleWeight       = 2
	descriptionWeight = 1
	headingWeight     = 1
)

// minSegmentLength drops connective fragments ("a", "of", "io") from URL
// segment matching.
const minSegmentLength = 3

// Categorizer scores pages against an ordered pattern table.
type Categorizer struct {
	patterns []CategoryPattern
}

// New builds a categorizer; a nil or empty table falls back to the
// defaults.
func New(patterns []CategoryPattern) *Categorizer {
	if len(patterns) == 0 {
		patterns = DefaultPatterns()
	}
	return &Categorizer{patterns: patterns}
}

// Patterns returns the active table in declaration order.
func (c *Categorizer) Patterns() []CategoryPattern {
	return c.patterns
}

// Assign returns the winning category for a page. Ties resolve to the
// earliest-declared category; a zero score everywhere falls to Other.
// Deterministic and total: identical input always yields the same name.
func (c *Categorizer) Assign(page types.Page) string {
	winner := OtherCategory
	best := 0
	for _, entry := range c.patterns {
		if score := c.scorePage(page, entry.Keywords); score > best {
			winner = entry.Category
			best = score
		}
	}
	return winner
}

// Scores returns every category's accumulated score for a page, for
// diagnostics and tests. Categories scoring zero are omitted.
func (c *Categorizer) Scores(page types.Page) map[string]int {
	scores := make(map[string]int)
	for _, entry := range c.patterns {
		if score := c.scorePage(page, entry.Keywords); score > 0 {
			scores[entry.Category] = score
		}
	}
	return scores
}

// Apply labels every page and returns the labeled copy. Input order is
// preserved.
func (c *Categorizer) Apply(pages []types.Page) []types.Page {
	labeled := make([]types.Page, len(pages))
	for i, page := range pages {
		page.Category = c.Assign(page)
		labeled[i] = page
	}
	return labeled
}

// scorePage sums one category's keyword matches across the four fields.
// A keyword counts at most once per field but may hit several fields.
func (c *Categorizer) scorePage(page types.Page, keywords []string) int {
	segments := urlSegments(page.URL)
	title := strings.ToLower(page.Title)
	description := strings.ToLower(page.Description)
	heading := strings.ToLower(page.H1)

	score := 0
	for _, keyword := range keywords {
		kw := strings.ToLower(keyword)
		if kw == "" {
			continue
		}
		if segmentsContain(segments, kw) {
			score += urlSegmentWeight
		}
		if title != "" && strings.Contains(title, kw) {
			score += titleWeight
		}
		if description != "" && strings.Contains(description, kw) {
			score += descriptionWeight
		}
		if heading != "" && strings.Contains(heading, kw) {
			score += headingWeight
		}
	}
	return score
}

// urlSegments splits the URL path on /, - and _ and drops short
// fragments. Compound path parts are also kept whole so hyphenated
// keywords like "areas-we-treat" can match.
func urlSegments(rawURL string) []string {
	var segments []string
	for _, pathPart := range normalize.PathSegments(strings.ToLower(rawURL)) {
		parts := strings.FieldsFunc(pathPart, func(r rune) bool {
			return r == '-' || r == '_'
		})
		if len(parts) > 1 {
			segments = append(segments, pathPart)
		}
		for _, part := range parts {
			if len(part) >= minSegmentLength {
				segments = append(segments, part)
			}
		}
	}
	return segments
}

func segmentsContain(segments []string, keyword string) bool {
	for _, segment := range segments {
		if strings.Contains(segment, keyword) {
			return true
		}
	}
	return false
}
