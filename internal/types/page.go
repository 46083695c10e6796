// Package types provides type definitions for structured data used throughout the llmsgen pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

// Page represents one crawled URL after normalization. Pages are created by
// the normalizer, thinned by the deduplicator, labeled by the categorizer,
// and optionally get a rewritten description from the enhancement stage.
type Page struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	H1          string `json:"h1,omitempty"`
	StatusCode  int    `json:"status_code"`
	Category    string `json:"category,omitempty"`
	// Priority biases deduplication conflicts. Zero means the dedup
	// policy derives one from the URL path.
	Priority int `json:"priority,omitempty"`
}

// SiteMetadata holds site-level fields derived once from the homepage row.
type SiteMetadata struct {
	Title   string `json:"site_title"`
	Summary string `json:"site_summary"`
	Domain  string `json:"domain"`
	BaseURL string `json:"base_url"`
}
