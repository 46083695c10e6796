package render

import (
	"fmt"
	"regexp"
	"strings"
)

// minContentLen is the shortest plausible llms.txt; anything below it is
// worth a second look but not necessarily wrong.
const minContentLen = 100

var (
	linkPattern      = regexp.MustCompile(`^- \[([^\]]+)\]\(([^)]+)\)`)
	moreLinesPattern = regexp.MustCompile(`^\[\d+ more lines\]$`)
)

// Issue is one problem found in rendered output. Line is 1-based and zero
// when the issue applies to the document as a whole. Advisory issues are
// reported but never abort a save.
type Issue struct {
	Line     int
	Message  string
	Advisory bool
}

func (i Issue) String() string {
	if i.Line > 0 {
		return fmt.Sprintf("line %d: %s", i.Line, i.Message)
	}
	return i.Message
}

// Fatal filters issues down to the ones that must block a save.
func Fatal(issues []Issue) []Issue {
	var fatal []Issue
	for _, issue := range issues {
		if !issue.Advisory {
			fatal = append(fatal, issue)
		}
	}
	return fatal
}

// Validate checks rendered markdown for structural problems: a missing or
// duplicated H1, missing sections, malformed link lines, and truncation
// markers that belong only in previews. Suspiciously short output is
// flagged as advisory. It returns all issues found rather than stopping
// at the first.
func Validate(content string) []Issue {
	var issues []Issue

	h1Count := 0
	hasSection := false
	linkCount := 0

	for i, line := range strings.Split(content, "\n") {
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(line, "# "):
			h1Count++
		case strings.HasPrefix(line, "## "):
			hasSection = true
		}

		if strings.HasPrefix(trimmed, "- [") {
			linkCount++
			if !linkPattern.MatchString(trimmed) {
				issues = append(issues, Issue{Line: i + 1, Message: fmt.Sprintf("malformed link: %s", clip(trimmed))})
			}
		}

		if trimmed == "..." || moreLinesPattern.MatchString(trimmed) {
			issues = append(issues, Issue{Line: i + 1, Message: "truncation marker in output"})
		}
	}

	if h1Count == 0 {
		issues = append(issues, Issue{Message: "missing H1 header (site title)"})
	} else if h1Count > 1 {
		issues = append(issues, Issue{Message: fmt.Sprintf("multiple H1 headers found (%d)", h1Count)})
	}
	if !hasSection {
		issues = append(issues, Issue{Message: "no sections found (H2 headers)"})
	}
	if linkCount == 0 {
		issues = append(issues, Issue{Message: "no links found in output"})
	}
	if len(content) < minContentLen {
		issues = append(issues, Issue{Message: "output seems too short", Advisory: true})
	}

	return issues
}

func clip(s string) string {
	if len(s) <= 50 {
		return s
	}
	return s[:50] + "..."
}
