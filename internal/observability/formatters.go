// Package observability provides formatted console output for the CLI.
package observability

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/seolab/llmsgen/internal/enhance"
	"github.com/seolab/llmsgen/internal/types"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted box output
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintHeader prints the banner shown by the bare root command.
func (p *Printer) PrintHeader(version string) {
	p.printBox("LLMSGEN "+version, "Generates a curated llms.txt from a site crawl export.")
}

// PrintQualityReport outputs a human-readable summary of the input quality
// analysis, including anomalies and their remediation hints.
func (p *Printer) PrintQualityReport(report *types.QualityReport) {
	if report == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Rows:         %d\n", report.TotalRows))
	sb.WriteString(fmt.Sprintf("Indexable:    %d\n", report.IndexableRows))
	sb.WriteString(fmt.Sprintf("Asset noise:  %d\n", report.AssetRows))
	if report.BlankTitleRows > 0 {
		sb.WriteString(fmt.Sprintf("No title:     %d\n", report.BlankTitleRows))
	}
	sb.WriteString(fmt.Sprintf("Score:        %.0f/100 (%s)\n", report.Score, report.Band))

	if len(report.Anomalies) > 0 {
		sb.WriteString("\nAnomalies:\n")
		count := min(len(report.Anomalies), maxItemsToShow)
		for i := 0; i < count; i++ {
			a := report.Anomalies[i]
			sb.WriteString(fmt.Sprintf("  • %s", a.Name))
			if a.Count > 0 {
				sb.WriteString(fmt.Sprintf(" (%d)", a.Count))
			}
			sb.WriteString("\n")
		}
		if len(report.Anomalies) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(report.Anomalies)-maxItemsToShow))
		}
	}

	p.printBox("INPUT QUALITY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintSections outputs the per-category page counts of the assembled
// document.
func (p *Printer) PrintSections(doc *types.Document) {
	if doc == nil || len(doc.Sections) == 0 {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%d pages in %d sections:\n\n", doc.PageCount(), len(doc.Sections)))

	for _, section := range doc.Sections {
		noun := "pages"
		if len(section.Pages) == 1 {
			noun = "page"
		}
		sb.WriteString(fmt.Sprintf("  %-14s %d %s\n", section.Name, len(section.Pages), noun))
	}

	p.printBox("CATEGORY BREAKDOWN", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintEnhancement outputs the enhancement stage outcome, including skipped
// batches and their final errors.
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) PrintEnhancement(result *enhance.Result) {
	if result == nil || result.Batches == 0 {
		return
	}

	if result.Skipped == 0 && result.PagesRejected == 0 {
		fmt.Fprintf(p.out, "┌%s┐\n", strings.Repeat("─", boxWidth-2))
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, fmt.Sprintf("✅ ALL %d BATCHES ENHANCED (%d pages)", result.Batches, result.PagesEnhanced))
		fmt.Fprintf(p.out, "└%s┘\n", strings.Repeat("─", boxWidth-2))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Batches:    %d sent, %d succeeded, %d skipped\n", result.Batches, result.Succeeded, result.Skipped))
	sb.WriteString(fmt.Sprintf("Pages:      %d enhanced, %d rejected\n", result.PagesEnhanced, result.PagesRejected))

	if len(result.Errors) > 0 {
		sb.WriteString("\n")
		count := min(len(result.Errors), 3)
		for i := 0; i < count; i++ {
			msg := result.Errors[i].Error()
			if len(msg) > 50 {
				msg = msg[:47] + "..."
			}
			sb.WriteString(fmt.Sprintf("⚠ %s\n", msg))
		}
		if len(result.Errors) > 3 {
			sb.WriteString(fmt.Sprintf("... and %d more\n", len(result.Errors)-3))
		}
	}

	p.printBox("ENHANCEMENT SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}

// PrintRunSummary outputs the end-of-run funnel: rows in, pages out, where
// the output landed.
func (p *Printer) PrintRunSummary(stats *types.Stats, outputPaths []string) {
	if stats == nil {
		return
	}

	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("Rows processed:   %d\n", stats.TotalRows))
	sb.WriteString(fmt.Sprintf("Indexable pages:  %d\n", stats.IndexablePages))
	sb.WriteString(fmt.Sprintf("Unique pages:     %d\n", stats.UniquePages))
	sb.WriteString(fmt.Sprintf("Quality score:    %.0f/100\n", stats.QualityScore))
	sb.WriteString(fmt.Sprintf("Processing time:  %s\n", stats.ProcessingTime.Round(time.Millisecond)))

	if len(outputPaths) > 0 {
		sb.WriteString("\nOutputs:\n")
		for _, path := range outputPaths {
			sb.WriteString(fmt.Sprintf("  %s\n", path))
		}
	}

	p.printBox("RUN SUMMARY", strings.TrimSuffix(sb.String(), "\n"))
}
