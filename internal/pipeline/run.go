// Package pipeline provides the high-level orchestration for llms.txt generation.
package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/seolab/llmsgen/internal/categorize"
	"github.com/seolab/llmsgen/internal/dedup"
	"github.com/seolab/llmsgen/internal/enhance"
	"github.com/seolab/llmsgen/internal/fetch"
	"github.com/seolab/llmsgen/internal/ingestion"
	"github.com/seolab/llmsgen/internal/llm"
	"github.com/seolab/llmsgen/internal/normalize"
	"github.com/seolab/llmsgen/internal/observability"
	"github.com/seolab/llmsgen/internal/quality"
	"github.com/seolab/llmsgen/internal/render"
	"github.com/seolab/llmsgen/internal/types"
)

// Step identifiers attached to progress events.
const (
	StepIngest     = "ingest_csv"
	StepQuality    = "quality_report"
	StepNormalize  = "normalize_pages"
	StepDedup      = "dedup_pages"
	StepSiteMeta   = "site_metadata"
	StepCategorize = "categorize_pages"
	StepEnhance    = "enhance_descriptions"
	StepRender     = "render_output"
)

// Category identifiers group progress events by pipeline phase.
const (
	CategoryIngestion   = "ingestion"
	CategoryProcessing  = "processing"
	CategoryEnhancement = "enhancement"
	CategoryOutput      = "output"
)

// DefaultRequestTimeout bounds each external call when the caller does not
// override it.
const DefaultRequestTimeout = 30 * time.Second

// ProgressEvent represents a progress update during pipeline execution
type ProgressEvent struct {
	Step     string `json:"step"`
	Category string `json:"category"`
	Message  string `json:"message"`
	RunID    string `json:"run_id,omitempty"`
	Content  any    `json:"content,omitempty"`
}

// ProgressCallback is called when pipeline progress occurs
type ProgressCallback func(event ProgressEvent)

// RunOptions holds configuration for running the pipeline
type RunOptions struct {
	InputPath    string
	OutputPath   string // empty runs the full pipeline without writing anything
	JSONPath     string // empty skips the JSON sidecar
	PatternsPath string

	Strict    bool
	FetchMeta bool
	Enhance   bool
	Quiet     bool

	Provider       string
	Model          string
	APIKey         string
	BatchSize      int
	BatchDelay     time.Duration
	MaxAttempts    int
	Concurrency    int
	Sections       []string
	RequestTimeout time.Duration

	Service    enhance.Service // overrides provider client construction when set
	Logger     *zap.Logger
	OnProgress ProgressCallback
}

// Result carries everything a completed run produced.
type Result struct {
	RunID       string
	Document    types.Document
	Quality     types.QualityReport
	Stats       types.Stats
	Enhancement enhance.Result
	Enhanced    bool
	TextPath    string
	JSONPath    string
}

// emitProgress calls the progress callback if configured
func emitProgress(opts *RunOptions, runID, step, category, message string, content any) {
	if opts.OnProgress != nil {
		opts.OnProgress(ProgressEvent{
			Step:     step,
			Category: category,
			Message:  message,
			RunID:    runID,
			Content:  content,
		})
	}
}

// RunPipeline orchestrates the full llms.txt generation pipeline
func RunPipeline(ctx context.Context, opts RunOptions) (*Result, error) {
	start := time.Now()
	runID := uuid.NewString()

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}

	out := io.Writer(os.Stdout)
	if opts.Quiet {
		out = io.Discard
	}
	printer := observability.NewPrinter(out)

	// Step 1: Read and validate the crawl export
	fmt.Fprintf(out, "Step 1/8: Reading crawl export: %s...\n", opts.InputPath)
	ingested, err := ingestion.ReadFile(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("crawl export ingestion failed: %w", err)
	}
	if ingested.LargeFile() {
		fmt.Fprintf(out, "Warning: large export (%d MB), this may take a while\n", ingested.SizeBytes>>20)
	}
	if ingested.SkippedRows > 0 {
		fmt.Fprintf(out, "Warning: skipped %d rows with a blank Address cell\n", ingested.SkippedRows)
	}
	if len(ingested.Columns.OptionalMissing) > 0 {
		fmt.Fprintf(out, "Warning: export is missing optional columns: %s\n",
			strings.Join(ingested.Columns.OptionalMissing, ", "))
	}
	logger.Info("ingested crawl export",
		zap.String("path", opts.InputPath),
		zap.Int("rows", len(ingested.Rows)),
		zap.Int("skipped", ingested.SkippedRows),
		zap.String("encoding", ingested.Encoding),
	)
	emitProgress(&opts, runID, StepIngest, CategoryIngestion,
		fmt.Sprintf("Read %d rows from %s", len(ingested.Rows), opts.InputPath), nil)

	// Step 2: Quality analysis over the raw rows
	fmt.Fprintf(out, "Step 2/8: Analyzing input quality...\n")
	report := quality.Analyze(ingested.Rows)
	printer.PrintQualityReport(&report)
	emitProgress(&opts, runID, StepQuality, CategoryIngestion,
		fmt.Sprintf("Quality score %.0f/100 (%s)", report.Score, report.Band), report)

	switch report.Band {
	case types.QualityPoor:
		if opts.Strict {
			return nil, &quality.Warning{Report: report}
		}
		fmt.Fprintf(out, "Warning: %s\n", quality.Advice(report))
	case types.QualityAcceptable:
		fmt.Fprintf(out, "Warning: %s\n", quality.Advice(report))
	}

	// Step 3: Normalize rows into pages
	fmt.Fprintf(out, "Step 3/8: Normalizing %d rows...\n", len(ingested.Rows))
	pages := normalize.Pages(ingested.Rows)
	if len(pages) == 0 {
		return nil, fmt.Errorf("no indexable pages in %s: all %d rows were non-200, non-indexable, or assets; re-export with an HTML-only filter", opts.InputPath, len(ingested.Rows))
	}
	indexable := len(pages)
	emitProgress(&opts, runID, StepNormalize, CategoryProcessing,
		fmt.Sprintf("Normalized %d indexable pages", indexable), nil)

	// Step 4: Deduplicate
	fmt.Fprintf(out, "Step 4/8: Deduplicating pages...\n")
	deduped := dedup.Dedupe(pages, dedup.DefaultPolicy())
	pages = deduped.Pages
	if removed := deduped.URLDuplicates + deduped.TitleDuplicates; removed > 0 {
		fmt.Fprintf(out, "Removed %d duplicates (%d by URL, %d by title)\n",
			removed, deduped.URLDuplicates, deduped.TitleDuplicates)
	}
	logger.Info("deduplicated pages",
		zap.Int("unique", len(pages)),
		zap.Int("url_duplicates", deduped.URLDuplicates),
		zap.Int("title_duplicates", deduped.TitleDuplicates),
	)
	emitProgress(&opts, runID, StepDedup, CategoryProcessing,
		fmt.Sprintf("%d unique pages remain", len(pages)), nil)

	// Step 5: Derive site metadata, optionally enriched from the live homepage
	fmt.Fprintf(out, "Step 5/8: Deriving site metadata...\n")
	site := normalize.SiteMetadata(pages)
	if opts.FetchMeta && site.BaseURL != "" {
		fmt.Fprintf(out, "Step 5a/8: Fetching homepage metadata from %s...\n", site.BaseURL)
		fetchCtx, cancel := context.WithTimeout(ctx, opts.RequestTimeout)
		meta, fetchErr := fetch.Homepage(fetchCtx, site.BaseURL, &fetch.Options{
			Timeout:   opts.RequestTimeout,
			UserAgent: fetch.DefaultUserAgent,
		})
		cancel()
		if fetchErr != nil {
			fmt.Fprintf(out, "Warning: homepage fetch failed: %v\n", fetchErr)
			logger.Warn("homepage fetch failed", zap.String("url", site.BaseURL), zap.Error(fetchErr))
		} else {
			fetch.Enrich(&site, meta)
		}
	}
	emitProgress(&opts, runID, StepSiteMeta, CategoryProcessing,
		fmt.Sprintf("Site: %s (%s)", site.Title, site.Domain), site)

	// Step 6: Categorize
	fmt.Fprintf(out, "Step 6/8: Categorizing pages...\n")
	patterns := categorize.DefaultPatterns()
	if opts.PatternsPath != "" {
		loaded, loadErr := categorize.LoadPatterns(opts.PatternsPath)
		if loadErr != nil {
			return nil, fmt.Errorf("loading category patterns failed: %w", loadErr)
		}
		patterns = loaded
	}
	pages = categorize.New(patterns).Apply(pages)
	sections := categorize.BuildSections(pages)
	emitProgress(&opts, runID, StepCategorize, CategoryProcessing,
		fmt.Sprintf("Grouped %d pages into %d sections", len(pages), len(sections)), nil)

	// Step 7: Enhance descriptions (optional; unavailability degrades, never aborts)
	var enhResult enhance.Result
	enhanced := false
	if opts.Enhance {
		fmt.Fprintf(out, "Step 7/8: Enhancing descriptions...\n")
		service, cleanup, svcErr := buildService(ctx, &opts, logger)
		if svcErr != nil {
			fmt.Fprintf(out, "Warning: enhancement unavailable: %v\n", svcErr)
			fmt.Fprintf(out, "Continuing with source descriptions...\n")
			logger.Warn("enhancement unavailable", zap.Error(svcErr))
		} else {
			defer cleanup()
			batcher := enhance.New(service, enhance.Options{
				BatchSize:      opts.BatchSize,
				BatchDelay:     opts.BatchDelay,
				MaxAttempts:    opts.MaxAttempts,
				RequestTimeout: opts.RequestTimeout,
				Concurrency:    opts.Concurrency,
				Sections:       opts.Sections,
				Logger:         logger,
			})
			enhancedSections, res, runErr := batcher.Run(ctx, site, sections)
			if runErr != nil {
				return nil, fmt.Errorf("enhancement failed: %w", runErr)
			}
			sections = enhancedSections
			enhResult = res
			enhanced = true
			printer.PrintEnhancement(&res)
			emitProgress(&opts, runID, StepEnhance, CategoryEnhancement,
				fmt.Sprintf("Enhanced %d pages across %d batches (%d skipped)",
					res.PagesEnhanced, res.Batches, res.Skipped), res)
		}
	} else {
		fmt.Fprintf(out, "Step 7/8: Skipping enhancement (not requested)\n")
	}

	// Step 8: Assemble the document and render
	fmt.Fprintf(out, "Step 8/8: Rendering output...\n")
	doc := types.Document{Meta: site, Sections: sections}
	stats := types.Stats{
		TotalRows:      len(ingested.Rows) + ingested.SkippedRows,
		IndexablePages: indexable,
		UniquePages:    len(pages),
		QualityScore:   report.Score,
		ProcessingTime: time.Since(start),
	}
	printer.PrintSections(&doc)

	result := &Result{
		RunID:       runID,
		Document:    doc,
		Quality:     report,
		Stats:       stats,
		Enhancement: enhResult,
		Enhanced:    enhanced,
	}

	if opts.OutputPath == "" {
		emitProgress(&opts, runID, StepRender, CategoryOutput, "Assembled document (nothing written)", nil)
		return result, nil
	}

	saved, err := render.Save(opts.OutputPath, opts.JSONPath, doc, &stats, time.Now())
	if err != nil {
		return nil, fmt.Errorf("rendering output failed: %w", err)
	}
	for _, issue := range saved.Issues {
		fmt.Fprintf(out, "Warning: %s\n", issue)
	}
	result.TextPath = saved.TextPath
	result.JSONPath = saved.JSONPath

	outputs := []string{saved.TextPath}
	if saved.JSONPath != "" {
		outputs = append(outputs, saved.JSONPath)
	}
	logger.Info("wrote output", zap.Strings("paths", outputs))
	printer.PrintRunSummary(&stats, outputs)
	emitProgress(&opts, runID, StepRender, CategoryOutput,
		fmt.Sprintf("Wrote %s", strings.Join(outputs, ", ")), nil)

	fmt.Fprintf(out, "Done! Generated %s\n", saved.TextPath)
	return result, nil
}

// buildService resolves the enhancement backend: an injected service wins,
// otherwise a provider client is built from the options. A missing
// credential or failed client construction surfaces as ErrUnavailable so
// callers degrade instead of aborting.
func buildService(ctx context.Context, opts *RunOptions, logger *zap.Logger) (enhance.Service, func(), error) {
	if opts.Service != nil {
		return opts.Service, func() {}, nil
	}

	provider := llm.Provider(opts.Provider)
	apiKey := opts.APIKey
	if apiKey == "" {
		apiKey = os.Getenv(apiKeyEnvVar(provider))
	}
	if apiKey == "" {
		return nil, nil, fmt.Errorf("%w: set %s or pass --api-key", enhance.ErrUnavailable, apiKeyEnvVar(provider))
	}

	cfg := llm.DefaultConfigFor(provider)
	if opts.Model != "" {
		cfg = cfg.WithModel(llm.TierStandard, opts.Model)
	}

	client, err := llm.NewClient(ctx, cfg, apiKey)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: %v", enhance.ErrUnavailable, err)
	}

	cleanup := func() { _ = client.Close() }
	return enhance.NewLLMService(client, llm.TierStandard, logger), cleanup, nil
}

// apiKeyEnvVar names the environment variable carrying the credential for a
// provider.
func apiKeyEnvVar(provider llm.Provider) string {
	if provider == llm.ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "GEMINI_API_KEY"
}
