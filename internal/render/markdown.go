// Package render assembles the llms.txt markdown document and its JSON
// sidecar from a categorized, ordered Document.
package render

import (
	"fmt"
	"strings"
	"time"

	"github.com/seolab/llmsgen/internal/types"
)

// DefaultPreviewLines is how much of the document Preview shows.
const DefaultPreviewLines = 50

// Markdown renders the llms.txt content. Section order and page order are
// taken from the document as-is; ordering is decided upstream.
func Markdown(doc types.Document, includeStats bool, generatedAt time.Time) string {
	var sb strings.Builder

	title := doc.Meta.Title
	if title == "" {
		title = "Website"
	}
	fmt.Fprintf(&sb, "# %s\n\n", title)

	if doc.Meta.Summary != "" {
		fmt.Fprintf(&sb, "> %s\n\n", doc.Meta.Summary)
	}

	if includeStats {
		fmt.Fprintf(&sb, "<!-- Generated on %s -->\n", generatedAt.Format("2006-01-02"))
		fmt.Fprintf(&sb, "<!-- Total pages: %d -->\n\n", doc.PageCount())
	}

	for _, section := range doc.Sections {
		if len(section.Pages) == 0 {
			continue
		}

		fmt.Fprintf(&sb, "## %s\n\n", section.Name)

		for _, page := range section.Pages {
			pageTitle := page.Title
			if pageTitle == "" {
				pageTitle = "Untitled"
			}
			if page.Description != "" {
				fmt.Fprintf(&sb, "- [%s](%s): %s\n", pageTitle, page.URL, page.Description)
			} else {
				fmt.Fprintf(&sb, "- [%s](%s)\n", pageTitle, page.URL)
			}
		}

		sb.WriteString("\n")
	}

	return sb.String()
}

// Preview renders the document without the stats comment, truncated to
// maxLines for terminal display. Truncation markers appear only here,
// never in saved output.
func Preview(doc types.Document, maxLines int) string {
	if maxLines <= 0 {
		maxLines = DefaultPreviewLines
	}

	content := Markdown(doc, false, time.Time{})
	lines := strings.Split(content, "\n")
	if len(lines) <= maxLines {
		return content
	}

	preview := append([]string{}, lines[:maxLines]...)
	preview = append(preview, "...", fmt.Sprintf("[%d more lines]", len(lines)-maxLines))
	return strings.Join(preview, "\n")
}
