package dedup

import (
	"strings"

	"github.com/seolab/llmsgen/internal/normalize"
	"github.com/seolab/llmsgen/internal/types"
)

// Rule assigns a conflict priority to URLs whose path contains the prefix.
type Rule struct {
	PathPrefix string `json:"path_prefix" yaml:"path_prefix"`
	Priority   int    `json:"priority" yaml:"priority"`
}

// Policy resolves same-title conflicts. A page's explicit Priority wins
// outright; otherwise the first matching rule applies, and unmatched URLs
// get zero. The exact production ordering is a heuristic, so the table is
// caller-replaceable data rather than constants.
type Policy struct {
	Rules []Rule
}

// DefaultPolicy prefers general service content over per-location variants
// of the same page.
func DefaultPolicy() Policy {
	return Policy{Rules: []Rule{
		{PathPrefix: "/services/", Priority: 3},
		{PathPrefix: "/treatments/", Priority: 3},
		{PathPrefix: "/procedures/", Priority: 3},
		{PathPrefix: "/conditions/", Priority: 2},
		{PathPrefix: "/providers/", Priority: 2},
		{PathPrefix: "/physicians/", Priority: 2},
		{PathPrefix: "/locations/", Priority: 1},
	}}
}

// PriorityFor returns the conflict priority for a page.
func (p Policy) PriorityFor(page types.Page) int {
	if page.Priority != 0 {
		return page.Priority
	}
	segments := normalize.PathSegments(page.URL)
	path := strings.ToLower("/" + strings.Join(segments, "/") + "/")
	for _, rule := range p.Rules {
		if strings.Contains(path, strings.ToLower(rule.PathPrefix)) {
			return rule.Priority
		}
	}
	return 0
}
