// Package enhance implements the batched description enhancement stage.
// Eligible sections are split into fixed-size batches, each batch is sent
// to an external text service under a shared pacer with a bounded retry
// budget, and accepted rewrites are merged back by page URL. A batch that
// exhausts its retries is skipped; its pages keep their original
// descriptions and the run continues.
package enhance

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seolab/llmsgen/internal/retry"
	"github.com/seolab/llmsgen/internal/types"
)

const (
	// DefaultBatchSize is the number of pages submitted per request.
	DefaultBatchSize = 10
	// DefaultBatchDelay is the minimum spacing between requests.
	DefaultBatchDelay = 500 * time.Millisecond
	// DefaultMaxAttempts is the per-batch attempt budget.
	DefaultMaxAttempts = 3
	// DefaultRequestTimeout bounds each outbound call. A call that hits it
	// fails that attempt only; the batch retries under its normal budget.
	DefaultRequestTimeout = 30 * time.Second
	// MaxDescriptionLen caps accepted rewrite lengths, in bytes.
	MaxDescriptionLen = 500
)

// DefaultSections returns the section names enhanced when no explicit list
// is configured. These are the high-value sections where description
// quality matters most for AI search.
func DefaultSections() []string {
	return []string{"Services", "Providers", "Locations", "Blog"}
}

// Options configures a Batcher. Zero values fall back to defaults.
type Options struct {
	BatchSize      int
	BatchDelay     time.Duration
	MaxAttempts    int
	RequestTimeout time.Duration
	Sections       []string
	Concurrency    int
	Logger         *zap.Logger
}

// BatchState tracks a batch through the submission lifecycle.
type BatchState string

// Batch lifecycle states. A failed attempt inside the budget returns the
// batch to pending; exhausting the budget moves it to skipped.
const (
	BatchPending   BatchState = "pending"
	BatchSent      BatchState = "sent"
	BatchSucceeded BatchState = "succeeded"
	BatchSkipped   BatchState = "skipped"
)

// Batch is one fixed-size group of pages from a single section.
type Batch struct {
	Section  string
	Index    int
	Pages    []types.Page
	State    BatchState
	Attempts int

	rewrites []Rewrite
	err      error
}

// Result summarizes what the enhancement stage did.
type Result struct {
	Batches       int
	Succeeded     int
	Skipped       int
	PagesEnhanced int
	PagesRejected int
	Errors        []error
}

// Batcher drives the enhancement stage against a Service.
type Batcher struct {
	service Service
	pacer   *Pacer
	opts    Options
	logger  *zap.Logger
}

// New creates a Batcher for the given service.
func New(service Service, opts Options) *Batcher {
	if opts.BatchSize <= 0 {
		opts.BatchSize = DefaultBatchSize
	}
	if opts.BatchDelay == 0 {
		opts.BatchDelay = DefaultBatchDelay
	}
	if opts.MaxAttempts <= 0 {
		opts.MaxAttempts = DefaultMaxAttempts
	}
	if opts.RequestTimeout <= 0 {
		opts.RequestTimeout = DefaultRequestTimeout
	}
	if opts.Concurrency <= 0 {
		opts.Concurrency = 1
	}
	if len(opts.Sections) == 0 {
		opts.Sections = DefaultSections()
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Batcher{
		service: service,
		pacer:   NewPacer(opts.BatchDelay, 1),
		opts:    opts,
		logger:  opts.Logger,
	}
}

// Run rewrites descriptions for eligible sections. The input is never
// mutated; the returned sections are independent copies. Skipped batches
// are recorded on the Result rather than failing the run, so Run only
// returns an error when no service is configured or the context is
// cancelled.
func (b *Batcher) Run(ctx context.Context, site types.SiteMetadata, sections []types.Section) ([]types.Section, Result, error) {
	out := copySections(sections)
	var result Result

	if b.service == nil {
		return out, result, ErrUnavailable
	}

	batches := planBatches(out, b.opts.Sections, b.opts.BatchSize)
	result.Batches = len(batches)
	if len(batches) == 0 {
		return out, result, nil
	}

	b.logger.Info("enhancing descriptions",
		zap.String("service", b.service.Name()),
		zap.Int("batches", len(batches)),
		zap.Int("batch_size", b.opts.BatchSize),
		zap.Strings("sections", b.opts.Sections),
	)

	if err := b.dispatch(ctx, site, batches); err != nil {
		return out, result, err
	}

	for _, batch := range batches {
		switch batch.State {
		case BatchSucceeded:
			result.Succeeded++
			applied, rejected := applyRewrites(batch, b.logger)
			result.PagesEnhanced += applied
			result.PagesRejected += rejected
		case BatchSkipped:
			result.Skipped++
			result.Errors = append(result.Errors, &BatchError{
				Section:  batch.Section,
				Batch:    batch.Index,
				Attempts: batch.Attempts,
				Cause:    batch.err,
			})
		}
	}

	return out, result, nil
}

// dispatch sends every batch, sequentially or with a bounded worker pool.
// The pacer is shared either way so the global request rate holds.
func (b *Batcher) dispatch(ctx context.Context, site types.SiteMetadata, batches []*Batch) error {
	if b.opts.Concurrency == 1 {
		for _, batch := range batches {
			if err := b.sendBatch(ctx, site, batch); err != nil {
				return err
			}
		}
		return nil
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(b.opts.Concurrency)

	for _, batch := range batches {
		batch := batch
		g.Go(func() error {
			return b.sendBatch(gCtx, site, batch)
		})
	}

	return g.Wait()
}

// sendBatch walks one batch through the submission state machine. Only
// context cancellation is returned as an error; exhausting the attempt
// budget marks the batch skipped and the run continues.
func (b *Batcher) sendBatch(ctx context.Context, site types.SiteMetadata, batch *Batch) error {
	req := BatchRequest{
		SiteTitle: site.Title,
		Section:   batch.Section,
		Pages:     summarize(batch.Pages),
	}

	cfg := retry.DefaultConfig()
	cfg.MaxAttempts = b.opts.MaxAttempts
	cfg.Logger = b.logger
	if b.opts.BatchDelay > 0 {
		cfg.InitialDelay = b.opts.BatchDelay
		cfg.MaxDelay = 10 * b.opts.BatchDelay
	}

	rewrites, err := retry.DoWithResult(ctx, cfg, func() ([]Rewrite, error) {
		if err := b.pacer.Wait(ctx); err != nil {
			return nil, err
		}

		batch.State = BatchSent
		batch.Attempts++

		// Each call gets its own deadline. A call that hits it fails this
		// attempt and retries; only the parent context ending aborts the
		// run, checked below.
		callCtx, cancel := context.WithTimeout(ctx, b.opts.RequestTimeout)
		got, err := b.service.Enhance(callCtx, req)
		cancel()
		if err != nil {
			batch.State = BatchPending
			return nil, err
		}
		return got, nil
	})
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		batch.State = BatchSkipped
		batch.err = err
		b.logger.Warn("batch skipped, keeping original descriptions",
			zap.String("section", batch.Section),
			zap.Int("batch", batch.Index),
			zap.Int("attempts", batch.Attempts),
			zap.Error(err),
		)
		return nil
	}

	batch.State = BatchSucceeded
	batch.rewrites = rewrites
	return nil
}

// planBatches splits eligible sections into dispatch-ordered batches. Each
// batch's page slice aliases the section copy it came from, so accepted
// rewrites land directly in the output.
func planBatches(sections []types.Section, eligible []string, size int) []*Batch {
	want := make(map[string]bool, len(eligible))
	for _, name := range eligible {
		want[name] = true
	}

	var batches []*Batch
	for i := range sections {
		if !want[sections[i].Name] {
			continue
		}
		pages := sections[i].Pages
		for start := 0; start < len(pages); start += size {
			end := start + size
			if end > len(pages) {
				end = len(pages)
			}
			batches = append(batches, &Batch{
				Section: sections[i].Name,
				Index:   len(batches),
				Pages:   pages[start:end],
				State:   BatchPending,
			})
		}
	}
	return batches
}

// applyRewrites merges a succeeded batch's accepted rewrites into its pages.
// Only descriptions change, keyed by URL, so the final document is identical
// whatever order batches complete in. Rewrites naming an unknown URL, blank
// rewrites, and oversized rewrites are rejected and those pages keep their
// original descriptions.
func applyRewrites(batch *Batch, logger *zap.Logger) (applied, rejected int) {
	byURL := make(map[string]int, len(batch.Pages))
	for i, page := range batch.Pages {
		byURL[page.URL] = i
	}

	for _, rw := range batch.rewrites {
		idx, ok := byURL[rw.URL]
		if !ok {
			rejected++
			logger.Debug("rewrite rejected: unknown page",
				zap.String("section", batch.Section),
				zap.String("url", rw.URL),
			)
			continue
		}

		desc := strings.TrimSpace(rw.Description)
		if desc == "" || len(desc) > MaxDescriptionLen {
			rejected++
			logger.Debug("rewrite rejected: bad description",
				zap.String("url", rw.URL),
				zap.Int("length", len(desc)),
			)
			continue
		}

		batch.Pages[idx].Description = desc
		applied++
	}

	return applied, rejected
}

// summarize trims pages down to the fields the service needs.
func summarize(pages []types.Page) []PageSummary {
	out := make([]PageSummary, len(pages))
	for i, page := range pages {
		out[i] = PageSummary{
			URL:         page.URL,
			Title:       page.Title,
			Description: page.Description,
		}
	}
	return out
}

// copySections deep-copies sections so enhancement never mutates its input.
func copySections(sections []types.Section) []types.Section {
	out := make([]types.Section, len(sections))
	for i, section := range sections {
		pages := make([]types.Page, len(section.Pages))
		copy(pages, section.Pages)
		out[i] = types.Section{Name: section.Name, Pages: pages}
	}
	return out
}
