package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seolab/llmsgen/internal/enhance"
	"github.com/seolab/llmsgen/internal/quality"
	"github.com/seolab/llmsgen/internal/schemas"
	"github.com/seolab/llmsgen/internal/types"
)

// crawlCSV is five rows: three distinct 200 HTML pages (one of them the
// homepage), one exact URL duplicate, and one 404.
const crawlCSV = `Address,Status Code,Indexability,Title 1,Meta Description 1,H1-1
https://www.austinspine.com/,200,Indexable,Austin Spine Clinic | Home,Comprehensive spine care in Austin.,Welcome
https://www.austinspine.com/services/prp-therapy,200,Indexable,PRP Therapy,Regenerative injection treatments.,PRP Therapy
https://www.austinspine.com/blog/posture-tips,200,Indexable,Posture Tips,Five desk posture fixes.,Posture Tips
https://www.austinspine.com/services/prp-therapy,200,Indexable,PRP Therapy,Regenerative injection treatments.,PRP Therapy
https://www.austinspine.com/retired-page,404,Non-Indexable,Retired Page,,
`

func writeCrawlCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "crawl.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

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

// stubService rewrites every requested page with a canned description.
type stubService struct {
	mu        sync.Mutex
	calls     int
	fail      bool
	deadlines []bool
}

func (s *stubService) Name() string { return "stub" }

func (s *stubService) Enhance(ctx context.Context, req enhance.BatchRequest) ([]enhance.Rewrite, error) {
	s.mu.Lock()
	s.calls++
	_, hasDeadline := ctx.Deadline()
	s.deadlines = append(s.deadlines, hasDeadline)
	s.mu.Unlock()
	if s.fail {
		return nil, fmt.Errorf("stub failure")
	}
	rewrites := make([]enhance.Rewrite, 0, len(req.Pages))
	for _, page := range req.Pages {
		rewrites = append(rewrites, enhance.Rewrite{
			URL:         page.URL,
			Description: "Platelet-rich plasma therapy for joint recovery.",
		})
	}
	return rewrites, nil
}

func TestRunPipeline_EndToEnd(t *testing.T) {
	input := writeCrawlCSV(t, crawlCSV)
	dir := t.TempDir()
	outPath := filepath.Join(dir, "llms.txt")
	jsonPath := filepath.Join(dir, "llms.json")

	var events []ProgressEvent
	result, err := RunPipeline(context.Background(), RunOptions{
		InputPath:  input,
		OutputPath: outPath,
		JSONPath:   jsonPath,
		Quiet:      true,
		OnProgress: func(e ProgressEvent) { events = append(events, e) },
	})
	require.NoError(t, err)
	require.NotNil(t, result)

	// Five rows in, three unique content pages out.
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, 5, result.Stats.TotalRows)
	assert.Equal(t, 4, result.Stats.IndexablePages)
	assert.Equal(t, 3, result.Stats.UniquePages)
	assert.Equal(t, 3, result.Document.PageCount())
	assert.Equal(t, types.QualityGood, result.Quality.Band)
	assert.Greater(t, result.Stats.ProcessingTime, time.Duration(0))
	assert.False(t, result.Enhanced)

	names := make([]string, 0, len(result.Document.Sections))
	for _, section := range result.Document.Sections {
		names = append(names, section.Name)
	}
	assert.ElementsMatch(t, []string{"Areas Treated", "Blog", "Services"}, names)

	text, err := os.ReadFile(outPath)
	require.NoError(t, err)
	content := string(text)
	assert.Contains(t, content, "# Austin Spine Clinic")
	assert.Contains(t, content, "> Comprehensive spine care in Austin.")
	assert.Contains(t, content, "- [PRP Therapy](https://www.austinspine.com/services/prp-therapy): Regenerative injection treatments.")
	assert.NotContains(t, content, "retired-page")
	assert.Equal(t, 1, strings.Count(content, "prp-therapy"), "duplicate URL must collapse to one entry")

	require.FileExists(t, jsonPath)
	assert.NoError(t, schemas.ValidateDocumentFile(jsonPath))

	seen := make(map[string]bool)
	for _, event := range events {
		seen[event.Step] = true
		assert.Equal(t, result.RunID, event.RunID)
	}
	for _, step := range []string{StepIngest, StepQuality, StepNormalize, StepDedup, StepSiteMeta, StepCategorize, StepRender} {
		assert.True(t, seen[step], "missing progress event for %s", step)
	}
}

func TestRunPipeline_StrictQualityGate(t *testing.T) {
	input := writeCrawlCSV(t, poorCrawlCSV())

	_, err := RunPipeline(context.Background(), RunOptions{
		InputPath: input,
		Strict:    true,
		Quiet:     true,
	})
	require.Error(t, err)

	var warning *quality.Warning
	require.ErrorAs(t, err, &warning)
	assert.Equal(t, types.QualityPoor, warning.Report.Band)
}

func TestRunPipeline_PoorQualityProceedsWithoutStrict(t *testing.T) {
	input := writeCrawlCSV(t, poorCrawlCSV())
	outPath := filepath.Join(t.TempDir(), "llms.txt")

	result, err := RunPipeline(context.Background(), RunOptions{
		InputPath:  input,
		OutputPath: outPath,
		Quiet:      true,
	})
	require.NoError(t, err)
	assert.Equal(t, types.QualityPoor, result.Quality.Band)
	assert.FileExists(t, outPath)
}

func TestRunPipeline_EnhancesThroughInjectedService(t *testing.T) {
	input := writeCrawlCSV(t, crawlCSV)
	outPath := filepath.Join(t.TempDir(), "llms.txt")

	svc := &stubService{}
	result, err := RunPipeline(context.Background(), RunOptions{
		InputPath:  input,
		OutputPath: outPath,
		Enhance:    true,
		Service:    svc,
		Sections:   []string{"Services"},
		BatchDelay: time.Millisecond,
		Quiet:      true,
	})
	require.NoError(t, err)

	assert.True(t, result.Enhanced)
	assert.Equal(t, 1, svc.calls)
	assert.Equal(t, 1, result.Enhancement.Batches)
	assert.Equal(t, 1, result.Enhancement.Succeeded)
	assert.Equal(t, 1, result.Enhancement.PagesEnhanced)

	text, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(text), "Platelet-rich plasma therapy for joint recovery.")
	assert.NotContains(t, string(text), "Regenerative injection treatments.")
}

func TestRunPipeline_EnhancementCallsCarryRequestTimeout(t *testing.T) {
	input := writeCrawlCSV(t, crawlCSV)

	svc := &stubService{}
	_, err := RunPipeline(context.Background(), RunOptions{
		InputPath:      input,
		Enhance:        true,
		Service:        svc,
		Sections:       []string{"Services"},
		BatchDelay:     time.Millisecond,
		RequestTimeout: 5 * time.Second,
		Quiet:          true,
	})
	require.NoError(t, err)

	require.NotEmpty(t, svc.deadlines)
	for _, hasDeadline := range svc.deadlines {
		assert.True(t, hasDeadline, "enhancement call context has no deadline")
	}
}

func TestRunPipeline_DegradesWhenEnhancementUnavailable(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("OPENAI_API_KEY", "")

	input := writeCrawlCSV(t, crawlCSV)
	outPath := filepath.Join(t.TempDir(), "llms.txt")

	result, err := RunPipeline(context.Background(), RunOptions{
		InputPath:  input,
		OutputPath: outPath,
		Enhance:    true,
		Quiet:      true,
	})
	require.NoError(t, err, "missing credentials must degrade, not abort")

	assert.False(t, result.Enhanced)
	assert.Zero(t, result.Enhancement.Batches)

	text, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(text), "Regenerative injection treatments.", "source descriptions must survive")
}

func TestRunPipeline_SkippedBatchesKeepOriginals(t *testing.T) {
	input := writeCrawlCSV(t, crawlCSV)
	outPath := filepath.Join(t.TempDir(), "llms.txt")

	svc := &stubService{fail: true}
	result, err := RunPipeline(context.Background(), RunOptions{
		InputPath:   input,
		OutputPath:  outPath,
		Enhance:     true,
		Service:     svc,
		Sections:    []string{"Services"},
		BatchDelay:  time.Millisecond,
		MaxAttempts: 2,
		Quiet:       true,
	})
	require.NoError(t, err, "a skipped batch must not abort the run")

	assert.Equal(t, 1, result.Enhancement.Skipped)
	assert.Len(t, result.Enhancement.Errors, 1)

	text, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(text), "Regenerative injection treatments.")
}

func TestRunPipeline_NoOutputPathWritesNothing(t *testing.T) {
	input := writeCrawlCSV(t, crawlCSV)

	result, err := RunPipeline(context.Background(), RunOptions{
		InputPath: input,
		Quiet:     true,
	})
	require.NoError(t, err)

	assert.Empty(t, result.TextPath)
	assert.Empty(t, result.JSONPath)
	assert.Equal(t, 3, result.Document.PageCount())

	entries, err := os.ReadDir(filepath.Dir(input))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the fixture should exist")
}

func TestRunPipeline_MissingInput(t *testing.T) {
	_, err := RunPipeline(context.Background(), RunOptions{
		InputPath: "/nonexistent/crawl.csv",
		Quiet:     true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "crawl export ingestion failed")
}

func TestRunPipeline_CustomPatterns(t *testing.T) {
	input := writeCrawlCSV(t, crawlCSV)
	patternsPath := filepath.Join(t.TempDir(), "patterns.yaml")
	patterns := `categories:
  - category: Care Team
    keywords: [prp, therapy]
`
	require.NoError(t, os.WriteFile(patternsPath, []byte(patterns), 0644))

	result, err := RunPipeline(context.Background(), RunOptions{
		InputPath:    input,
		PatternsPath: patternsPath,
		Quiet:        true,
	})
	require.NoError(t, err)

	require.Len(t, result.Document.Sections, 2)
	assert.Equal(t, "Care Team", result.Document.Sections[0].Name)
	assert.Equal(t, "Other", result.Document.Sections[1].Name, "unmatched pages fall to Other, always last")
}

func TestRunPipeline_BadPatternsFile(t *testing.T) {
	input := writeCrawlCSV(t, crawlCSV)
	patternsPath := filepath.Join(t.TempDir(), "patterns.yaml")
	require.NoError(t, os.WriteFile(patternsPath, []byte("categories: [\n"), 0644))

	_, err := RunPipeline(context.Background(), RunOptions{
		InputPath:    input,
		PatternsPath: patternsPath,
		Quiet:        true,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading category patterns failed")
}
