// Package normalize turns raw export rows into canonical pages: URL
// normalization, asset and CMS-noise filtering, and title/description
// derivation for rows the crawler left blank.
package normalize

import (
	"net/http"
	"strings"

	"github.com/seolab/llmsgen/internal/ingestion"
	"github.com/seolab/llmsgen/internal/types"
)

const indexableValue = "Indexable"

// Normalize converts one export row into a Page. The second return is
// false for non-content rows: bad status, non-indexable, asset URLs, CMS
// noise, archive listings. Pure function of the record.
func Normalize(rec ingestion.Record) (types.Page, bool) {
	if rec.StatusCode != http.StatusOK {
		return types.Page{}, false
	}
	if rec.Indexability != "" && !strings.EqualFold(rec.Indexability, indexableValue) {
		return types.Page{}, false
	}
	if IsAsset(rec.Address) || IsCMSNoise(rec.Address) {
		return types.Page{}, false
	}
	if isArchiveTitle(rec.Title) {
		return types.Page{}, false
	}

	normalized := NormalizeURL(rec.Address)

	title := strings.TrimSpace(rec.Title)
	if title == "" {
		title = TitleFromURL(normalized)
	}

	description := CleanDescription(rec.Description)
	if description == "" {
		if h1 := strings.TrimSpace(rec.H1); h1 != "" {
			description = h1
		} else {
			description = "Information about " + strings.ToLower(title)
		}
	}

	return types.Page{
		URL:         normalized,
		Title:       title,
		Description: description,
		H1:          strings.TrimSpace(rec.H1),
		StatusCode:  rec.StatusCode,
	}, true
}

// Pages normalizes every row, dropping non-content ones. Input order is
// preserved, which the deduplicator relies on for tie-breaks.
func Pages(records []ingestion.Record) []types.Page {
	pages := make([]types.Page, 0, len(records))
	for _, rec := range records {
		if page, ok := Normalize(rec); ok {
			pages = append(pages, page)
		}
	}
	return pages
}
