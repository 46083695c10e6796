package fetch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seolab/llmsgen/internal/types"
)

const homepageHTML = `
<html>
<head>
	<title>
		Austin Spine Clinic | Home
	</title>
	<meta name="description" content="Comprehensive spine care in Austin, TX.">
	<meta property="og:site_name" content="Austin Spine Clinic">
</head>
<body>
	<h1>Welcome to Austin Spine Clinic</h1>
	<p>Board-certified spine specialists.</p>
</body>
</html>`

func TestExtractMeta_FullHead(t *testing.T) {
	meta, err := ExtractMeta(homepageHTML)
	require.NoError(t, err)
	assert.Equal(t, "Austin Spine Clinic | Home", meta.Title)
	assert.Equal(t, "Comprehensive spine care in Austin, TX.", meta.Description)
	assert.Equal(t, "Austin Spine Clinic", meta.SiteName)
	assert.Equal(t, "Welcome to Austin Spine Clinic", meta.H1)
}

func TestExtractMeta_OGDescriptionFallback(t *testing.T) {
	html := `<html><head>
		<title>Clinic</title>
		<meta property="og:description" content="Spine care from the og tag.">
	</head><body></body></html>`

	meta, err := ExtractMeta(html)
	require.NoError(t, err)
	assert.Equal(t, "Spine care from the og tag.", meta.Description)
}

func TestExtractMeta_EmptyDocument(t *testing.T) {
	meta, err := ExtractMeta("<html><body></body></html>")
	require.NoError(t, err)
	assert.Empty(t, meta.Title)
	assert.Empty(t, meta.Description)
	assert.Empty(t, meta.SiteName)
	assert.Empty(t, meta.H1)
}

func TestHomepage_FetchesAndParses(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(homepageHTML))
	}))
	defer server.Close()

	meta, err := Homepage(context.Background(), server.URL, nil)
	require.NoError(t, err)
	assert.Equal(t, "Austin Spine Clinic | Home", meta.Title)
	assert.Equal(t, "Comprehensive spine care in Austin, TX.", meta.Description)
}

func TestHomepage_PropagatesFetchError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	_, err := Homepage(context.Background(), server.URL, nil)
	require.Error(t, err)

	var fetchErr *Error
	assert.ErrorAs(t, err, &fetchErr)
}

func TestEnrich_FillsBlanksOnly(t *testing.T) {
	meta := types.SiteMetadata{
		Title:   "CSV Derived Clinic",
		Summary: "",
		Domain:  "austinspine.com",
	}
	fetched := &PageMeta{
		Title:       "Fetched Title",
		Description: "Fetched homepage description.",
		SiteName:    "Fetched Site Name",
	}

	Enrich(&meta, fetched)
	assert.Equal(t, "CSV Derived Clinic", meta.Title, "existing title must not be overwritten")
	assert.Equal(t, "Fetched homepage description.", meta.Summary)
}

func TestEnrich_ReplacesPlaceholderTitle(t *testing.T) {
	meta := types.SiteMetadata{Title: "Website"}
	fetched := &PageMeta{SiteName: "Austin Spine Clinic"}

	Enrich(&meta, fetched)
	assert.Equal(t, "Austin Spine Clinic", meta.Title)
}

func TestEnrich_TitlePreferenceOrder(t *testing.T) {
	meta := types.SiteMetadata{}
	Enrich(&meta, &PageMeta{Title: "Page Title | Home", H1: "Heading"})
	assert.Equal(t, "Page Title", meta.Title, "title beats H1 and gets the navigation label trimmed")

	meta = types.SiteMetadata{}
	Enrich(&meta, &PageMeta{H1: "Heading Only"})
	assert.Equal(t, "Heading Only", meta.Title)
}

func TestEnrich_NilFetched(t *testing.T) {
	meta := types.SiteMetadata{Title: "Kept"}
	Enrich(&meta, nil)
	assert.Equal(t, "Kept", meta.Title)
}
