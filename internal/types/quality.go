// Package types provides type definitions for structured data used throughout the llmsgen pipeline.
//
//nolint:revive // types is a standard Go package name pattern
package types

// QualityBand classifies a quality score into an advisory tier.
type QualityBand string

// Quality bands. Good proceeds silently, Acceptable warns, Poor warns
// loudly and aborts the run when strict mode is on.
const (
	QualityGood       QualityBand = "good"
	QualityAcceptable QualityBand = "acceptable"
	QualityPoor       QualityBand = "poor"
)

// Anomaly is one detected input-quality problem with its remediation.
type Anomaly struct {
	Name        string `json:"name"`
	Count       int    `json:"count"`
	Remediation string `json:"remediation"`
}

// QualityReport scores the raw row set before filtering. Advisory only: it
// never mutates pages, it only gates the run in strict mode.
type QualityReport struct {
	TotalRows      int         `json:"total_rows"`
	IndexableRows  int         `json:"indexable_rows"`
	AssetRows      int         `json:"asset_rows"`
	BlankTitleRows int         `json:"blank_title_rows"`
	Score          float64     `json:"score"`
	Band           QualityBand `json:"band"`
	Anomalies      []Anomaly   `json:"anomalies,omitempty"`
}
