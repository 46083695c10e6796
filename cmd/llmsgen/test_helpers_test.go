package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// getBinaryPath returns the path to the llmsgen binary for testing
func getBinaryPath(t *testing.T) string {
	if testing.Short() {
		t.Skip("Skipping CLI tests in short mode")
	}

	binaryPath := filepath.Join("..", "..", "bin", "llmsgen")
	if _, err := os.Stat(binaryPath); os.IsNotExist(err) {
		t.Skipf("Binary not found at %s, build it first with 'go build -o bin/llmsgen ./cmd/llmsgen'", binaryPath)
	}

	return binaryPath
}

// crawlCSV is five rows: three distinct 200 HTML pages (one of them the
// homepage), one exact URL duplicate, and one 404.
const crawlCSV = `Address,Status Code,Indexability,Title 1,Meta Description 1,H1-1
https://www.austinspine.com/,200,Indexable,Austin Spine Clinic | Home,Comprehensive spine care in Austin.,Welcome
https://www.austinspine.com/services/prp-therapy,200,Indexable,PRP Therapy,Regenerative injection treatments.,PRP Therapy
https://www.austinspine.com/blog/posture-tips,200,Indexable,Posture Tips,Five desk posture fixes.,Posture Tips
https://www.austinspine.com/services/prp-therapy,200,Indexable,PRP Therapy,Regenerative injection treatments.,PRP Therapy
https://www.austinspine.com/retired-page,404,Non-Indexable,Retired Page,,
`

// poorCrawlCSV builds an export dominated by image rows so the quality
// score lands in the poor band.
func poorCrawlCSV() string {
	var sb strings.Builder
	sb.WriteString("Address,Status Code,Indexability,Title 1,Meta Description 1,H1-1\n")
	sb.WriteString("https://site.com/page-one,200,Indexable,Page One,First content page.,Page One\n")
	sb.WriteString("https://site.com/page-two,200,Indexable,Page Two,Second content page.,Page Two\n")
	for i := 0; i < 8; i++ {
		fmt.Fprintf(&sb, "https://site.com/images/photo-%d.jpg,200,Non-Indexable,,,\n", i)
	}
	return sb.String()
}

func writeCrawlCSV(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, "crawl.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}
