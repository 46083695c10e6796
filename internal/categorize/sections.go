package categorize

import (
	"sort"
	"strings"

	"github.com/seolab/llmsgen/internal/types"
)

// BuildSections groups labeled pages into the ordered section list the
// document assembler consumes: sections by descending page count with
// Other pinned last, pages within a section sorted by title. The output
// is fully determined by the input set, independent of input order.
func BuildSections(pages []types.Page) []types.Section {
	byName := make(map[string][]types.Page)
	for _, page := range pages {
		name := page.Category
		if name == "" {
			name = OtherCategory
		}
		byName[name] = append(byName[name], page)
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		a, b := names[i], names[j]
		if (a == OtherCategory) != (b == OtherCategory) {
			return b == OtherCategory
		}
		if len(byName[a]) != len(byName[b]) {
			return len(byName[a]) > len(byName[b])
		}
		return a < b
	})

	sections := make([]types.Section, 0, len(names))
	for _, name := range names {
		members := byName[name]
		sort.Slice(members, func(i, j int) bool {
			a, b := strings.ToLower(members[i].Title), strings.ToLower(members[j].Title)
			if a != b {
				return a < b
			}
			return members[i].URL < members[j].URL
		})
		sections = append(sections, types.Section{Name: name, Pages: members})
	}
	return sections
}
