package render

import (
	"encoding/json"
	"time"

	"github.com/seolab/llmsgen/internal/types"
)

// sidecarVersion identifies the JSON sidecar format.
const sidecarVersion = "1.0"

type sidecarMetadata struct {
	types.SiteMetadata
	GeneratedAt string `json:"generated_at"`
	Version     string `json:"version"`
}

type sidecarStats struct {
	TotalRows      int     `json:"total_rows"`
	IndexablePages int     `json:"indexable_pages"`
	UniquePages    int     `json:"unique_pages"`
	QualityScore   float64 `json:"quality_score"`
	ProcessingTime string  `json:"processing_time"`
}

type sidecarDocument struct {
	Metadata sidecarMetadata         `json:"metadata"`
	Sections map[string][]types.Page `json:"sections"`
	Stats    *sidecarStats           `json:"stats,omitempty"`
}

// Sidecar renders the machine-readable JSON companion to the markdown
// output. It carries the same sections plus run metadata and stats.
func Sidecar(doc types.Document, stats *types.Stats, generatedAt time.Time) ([]byte, error) {
	out := sidecarDocument{
		Metadata: sidecarMetadata{
			SiteMetadata: doc.Meta,
			GeneratedAt:  generatedAt.Format(time.RFC3339),
			Version:      sidecarVersion,
		},
		Sections: make(map[string][]types.Page, len(doc.Sections)),
	}

	for _, section := range doc.Sections {
		out.Sections[section.Name] = section.Pages
	}

	if stats != nil {
		out.Stats = &sidecarStats{
			TotalRows:      stats.TotalRows,
			IndexablePages: stats.IndexablePages,
			UniquePages:    stats.UniquePages,
			QualityScore:   stats.QualityScore,
			ProcessingTime: stats.ProcessingTime.Round(time.Millisecond).String(),
		}
	}

	return json.MarshalIndent(out, "", "  ")
}
