package fetch

import (
	"context"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/seolab/llmsgen/internal/normalize"
	"github.com/seolab/llmsgen/internal/types"
)

// PageMeta holds the metadata extracted from a fetched page.
type PageMeta struct {
	Title       string
	Description string
	SiteName    string
	H1          string
}

// ExtractMeta parses HTML and pulls out the head metadata: the title, the
// meta description (og:description as fallback), og:site_name, and the
// first H1. Missing elements leave their field empty.
func ExtractMeta(html string) (*PageMeta, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	meta := &PageMeta{
		Title: collapseSpace(doc.Find("title").First().Text()),
		H1:    collapseSpace(doc.Find("h1").First().Text()),
	}

	if content, ok := doc.Find(`meta[name="description"]`).Attr("content"); ok {
		meta.Description = collapseSpace(content)
	}
	if meta.Description == "" {
		if content, ok := doc.Find(`meta[property="og:description"]`).Attr("content"); ok {
			meta.Description = collapseSpace(content)
		}
	}
	if content, ok := doc.Find(`meta[property="og:site_name"]`).Attr("content"); ok {
		meta.SiteName = collapseSpace(content)
	}

	return meta, nil
}

// Homepage fetches baseURL and extracts its metadata.
func Homepage(ctx context.Context, baseURL string, opts *Options) (*PageMeta, error) {
	result, err := URL(ctx, baseURL, opts)
	if err != nil {
		return nil, err
	}
	return ExtractMeta(result.HTML)
}

// Enrich fills blank fields of meta from fetched homepage metadata. Values
// already derived from the crawl export are never overwritten.
func Enrich(meta *types.SiteMetadata, fetched *PageMeta) {
	if fetched == nil {
		return
	}

	if meta.Title == "" || meta.Title == "Website" {
		switch {
		case fetched.SiteName != "":
			meta.Title = normalize.CleanSiteTitle(fetched.SiteName)
		case fetched.Title != "":
			meta.Title = normalize.CleanSiteTitle(fetched.Title)
		case fetched.H1 != "":
			meta.Title = fetched.H1
		}
	}

	if meta.Summary == "" && fetched.Description != "" {
		meta.Summary = fetched.Description
	}
}

func collapseSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
