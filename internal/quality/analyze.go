// Package quality scores the raw export for signal-to-noise before the
// pipeline invests in categorization. The score is advisory: it gates the
// run only when the caller opts into strict mode.
package quality

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/seolab/llmsgen/internal/ingestion"
	"github.com/seolab/llmsgen/internal/normalize"
	"github.com/seolab/llmsgen/internal/types"
)

// Score weights: how much of the input survives status filtering versus
// how much of it is asset noise.
const (
	indexableWeight = 0.7
	cleanWeight     = 0.3
)

// Band thresholds.
const (
	goodThreshold       = 80.0
	acceptableThreshold = 60.0
)

// Anomaly triggers.
const (
	hubspotRowLimit    = 10
	blankTitleRatioMax = 0.20
)

var hubspotPattern = regexp.MustCompile(`/(hs-fs|hub_generated|_hcms|hs)/`)

// Analyze computes the quality report over the full raw row set, before
// any filtering.
func Analyze(rows []ingestion.Record) types.QualityReport {
	report := types.QualityReport{TotalRows: len(rows)}
	if len(rows) == 0 {
		report.Band = types.QualityPoor
		report.Anomalies = append(report.Anomalies, types.Anomaly{
			Name:        "empty export",
			Remediation: "the export contains no data rows; " + ingestion.ExportRemediation,
		})
		return report
	}

	var imageRows, otherAssetRows, hubspotRows int
	for _, row := range rows {
		if isIndexable(row) {
			report.IndexableRows++
		}
		switch {
		case normalize.IsImage(row.Address):
			imageRows++
		case normalize.IsAsset(row.Address):
			otherAssetRows++
		}
		if hubspotPattern.MatchString(strings.ToLower(row.Address)) {
			hubspotRows++
		}
		if row.Title == "" {
			report.BlankTitleRows++
		}
	}
	report.AssetRows = imageRows + otherAssetRows

	total := float64(report.TotalRows)
	indexableRatio := float64(report.IndexableRows) / total
	contamination := float64(report.AssetRows) / total

	report.Score = 100 * (indexableWeight*indexableRatio + cleanWeight*(1-contamination))
	if report.Score < 0 {
		report.Score = 0
	}
	if report.Score > 100 {
		report.Score = 100
	}
	report.Band = bandFor(report.Score)

	if imageRows > 0 {
		report.Anomalies = append(report.Anomalies, types.Anomaly{
			Name:        "image files in export",
			Count:       imageRows,
			Remediation: ingestion.ExportRemediation,
		})
	}
	if otherAssetRows > 0 {
		report.Anomalies = append(report.Anomalies, types.Anomaly{
			Name:        "script/style/document files in export",
			Count:       otherAssetRows,
			Remediation: ingestion.ExportRemediation,
		})
	}
	if hubspotRows > hubspotRowLimit {
		report.Anomalies = append(report.Anomalies, types.Anomaly{
			Name:        "HubSpot system files",
			Count:       hubspotRows,
			Remediation: "exclude hs-fs, hub_generated and _hcms paths in the crawl configuration",
		})
	}
	if float64(report.BlankTitleRows) > blankTitleRatioMax*total {
		report.Anomalies = append(report.Anomalies, types.Anomaly{
			Name:        "pages without titles",
			Count:       report.BlankTitleRows,
			Remediation: "many rows have no title; check the crawler's title extraction and rendering settings",
		})
	}
	if report.IndexableRows == 0 {
		report.Anomalies = append(report.Anomalies, types.Anomaly{
			Name:        "no indexable rows",
			Remediation: "no 200-status indexable rows found; the crawl may have hit a redirect wall or a robots block",
		})
	}

	return report
}

// isIndexable mirrors the normalizer's survival rule so the advisory score
// predicts what filtering will keep.
func isIndexable(row ingestion.Record) bool {
	if row.StatusCode != 200 {
		return false
	}
	return row.Indexability == "" || strings.EqualFold(row.Indexability, "Indexable")
}

func bandFor(score float64) types.QualityBand {
	switch {
	case score >= goodThreshold:
		return types.QualityGood
	case score >= acceptableThreshold:
		return types.QualityAcceptable
	default:
		return types.QualityPoor
	}
}

// Advice renders the report's anomalies as an actionable message.
func Advice(report types.QualityReport) string {
	if len(report.Anomalies) == 0 {
		return "export looks clean"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "input quality %.0f/100 (%s)", report.Score, report.Band)
	for _, a := range report.Anomalies {
		b.WriteString("\n  - ")
		b.WriteString(a.Name)
		if a.Count > 0 {
			fmt.Fprintf(&b, " (%d)", a.Count)
		}
		b.WriteString(": ")
		b.WriteString(a.Remediation)
	}
	return b.String()
}
