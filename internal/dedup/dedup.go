// Package dedup collapses pages that represent the same logical content.
// Identical normalized URLs are always exact duplicates; identical titles
// across distinct URLs usually mean templated near-duplicates, where a
// priority policy picks the survivor.
package dedup

import (
	"strings"

	"github.com/seolab/llmsgen/internal/normalize"
	"github.com/seolab/llmsgen/internal/types"
)

// Result carries the survivors in their original relative order plus the
// number of pages removed by each pass.
type Result struct {
	Pages           []types.Page
	URLDuplicates   int
	TitleDuplicates int
}

// Dedupe removes URL duplicates first (first occurrence wins, since one URL
// repeating is always an export artifact), then collapses same-title groups
// to the highest-priority page. Priority ties break to the URL with fewer
// path segments, then to input order. Total function: never fails, and a
// fully duplicated input degenerates to a single page.
func Dedupe(pages []types.Page, policy Policy) Result {
	unique := make([]types.Page, 0, len(pages))
	seenURL := make(map[string]bool, len(pages))
	urlDups := 0
	for _, p := range pages {
		if seenURL[p.URL] {
			urlDups++
			continue
		}
		seenURL[p.URL] = true
		unique = append(unique, p)
	}

	groups := make(map[string][]int)
	order := make([]string, 0, len(unique))
	for i, p := range unique {
		key := titleKey(p.Title)
		if _, ok := groups[key]; !ok {
			order = append(order, key)
		}
		groups[key] = append(groups[key], i)
	}

	keep := make(map[int]bool, len(unique))
	titleDups := 0
	for _, key := range order {
		members := groups[key]
		winner := members[0]
		for _, idx := range members[1:] {
			if beats(unique[idx], unique[winner], policy) {
				winner = idx
			}
		}
		keep[winner] = true
		titleDups += len(members) - 1
	}

	survivors := make([]types.Page, 0, len(keep))
	for i, p := range unique {
		if keep[i] {
			survivors = append(survivors, p)
		}
	}

	return Result{Pages: survivors, URLDuplicates: urlDups, TitleDuplicates: titleDups}
}

// beats reports whether challenger should replace the current winner of a
// title group. Strict comparison: on a full tie the earlier page stays.
func beats(challenger, winner types.Page, policy Policy) bool {
	cp, wp := policy.PriorityFor(challenger), policy.PriorityFor(winner)
	if cp != wp {
		return cp > wp
	}
	cs, ws := len(normalize.PathSegments(challenger.URL)), len(normalize.PathSegments(winner.URL))
	return cs < ws
}

func titleKey(title string) string {
	return strings.ToLower(strings.TrimSpace(title))
}
