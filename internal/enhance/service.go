package enhance

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/seolab/llmsgen/internal/llm"
	"github.com/seolab/llmsgen/internal/prompts"
	"github.com/seolab/llmsgen/internal/schemas"
)

// Existing descriptions are clipped to this many bytes in the prompt.
const promptDescLimit = 100

// PageSummary is the slice of a page sent to the enhancement service.
type PageSummary struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// BatchRequest is one batch submitted to the enhancement service.
type BatchRequest struct {
	SiteTitle string
	Section   string
	Pages     []PageSummary
}

// Rewrite is one returned description, keyed by page URL.
type Rewrite struct {
	URL         string `json:"url"`
	Description string `json:"description"`
}

// Service is the narrow boundary to the external text-generation service.
// Implementations must be safe for concurrent use.
type Service interface {
	// Name identifies the backing service for logs and summaries.
	Name() string
	// Enhance rewrites descriptions for one batch of pages. The returned
	// rewrites may cover any subset of the requested pages.
	Enhance(ctx context.Context, req BatchRequest) ([]Rewrite, error)
}

// LLMService implements Service on top of an llm.Client.
type LLMService struct {
	client llm.Client
	tier   llm.ModelTier
	logger *zap.Logger
}

// NewLLMService creates an enhancement service backed by the given client.
func NewLLMService(client llm.Client, tier llm.ModelTier, logger *zap.Logger) *LLMService {
	if tier == "" {
		tier = llm.TierStandard
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &LLMService{
		client: client,
		tier:   tier,
		logger: logger,
	}
}

// Name returns the model serving this service.
func (s *LLMService) Name() string {
	return s.client.GetModel(s.tier)
}

// Enhance submits one batch to the model and parses the rewrites.
func (s *LLMService) Enhance(ctx context.Context, req BatchRequest) ([]Rewrite, error) {
	var sb strings.Builder
	for _, page := range req.Pages {
		fmt.Fprintf(&sb, "URL: %s\nTitle: %s\n", page.URL, page.Title)
		if desc := page.Description; desc != "" {
			fmt.Fprintf(&sb, "Description: %s\n", truncate(desc, promptDescLimit))
		}
	}

	prompt, err := prompts.EnhancementPrompt(map[string]string{
		"SiteTitle": req.SiteTitle,
		"Category":  req.Section,
		"Pages":     sb.String(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build enhancement prompt: %w", err)
	}

	raw, err := s.client.GenerateJSON(ctx, prompt, s.tier)
	if err != nil {
		return nil, err
	}

	if err := schemas.ValidateRewrites(raw); err != nil {
		return nil, fmt.Errorf("enhancement response rejected: %w", err)
	}

	var rewrites []Rewrite
	if err := json.Unmarshal([]byte(raw), &rewrites); err != nil {
		return nil, fmt.Errorf("failed to parse enhancement response: %w", err)
	}

	s.logger.Debug("batch enhanced",
		zap.String("section", req.Section),
		zap.Int("pages", len(req.Pages)),
		zap.Int("rewrites", len(rewrites)),
	)

	return rewrites, nil
}

// truncate clips s to at most limit bytes without splitting a rune.
func truncate(s string, limit int) string {
	if len(s) <= limit {
		return s
	}
	for limit > 0 && !utf8.RuneStart(s[limit]) {
		limit--
	}
	return s[:limit]
}
