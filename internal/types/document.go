// Package types provides type definitions for structured data used throughout the llmsgen pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

import "time"

// Section is one named group of pages in the output document.
type Section struct {
	Name  string `json:"name"`
	Pages []Page `json:"pages"`
}

// Document is the assembled, ordered structure handed to renderers.
// Section order and page order within a section are fixed before the
// document is built; renderers never reorder.
type Document struct {
	Meta     SiteMetadata `json:"site_metadata"`
	Sections []Section    `json:"sections"`
}

// PageCount returns the total number of pages across all sections.
func (d Document) PageCount() int {
	n := 0
	for _, s := range d.Sections {
		n += len(s.Pages)
	}
	return n
}

// Stats summarizes a pipeline run for the CLI and the JSON sidecar.
type Stats struct {
	TotalRows      int           `json:"total_rows"`
	IndexablePages int           `json:"indexable_pages"`
	UniquePages    int           `json:"unique_pages"`
	QualityScore   float64       `json:"quality_score"`
	ProcessingTime time.Duration `json:"processing_time"`
}
