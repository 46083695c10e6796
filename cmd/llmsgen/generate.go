package main

import (
	"context"
	"fmt"

	"github.com/seolab/llmsgen/internal/config"
	"github.com/seolab/llmsgen/internal/pipeline"
	"github.com/spf13/cobra"
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate an llms.txt file from a crawl export",
	Long: `Runs the full generation pipeline: ingestion -> quality gate -> normalization -> dedup -> site metadata -> categorization -> enhancement -> rendering.

Configuration can be loaded from a JSON file using --config. Command-line arguments override config file values.`,
	RunE: runGenerate,
}

var (
	genConfigPath  string
	genInput       string
	genOutput      string
	genJSON        string
	genPatterns    string
	genEnhance     bool
	genProvider    string
	genModel       string
	genAPIKey      string
	genStrict      bool
	genFetchMeta   bool
	genConcurrency int
	genQuiet       bool
)

func init() {
	// Config file flag (processed first)
	generateCmd.Flags().StringVar(&genConfigPath, "config", "", "Path to config.json file (values can be overridden by other flags)")

	generateCmd.Flags().StringVarP(&genInput, "input", "i", "", "Path to the crawl export CSV")
	generateCmd.Flags().StringVarP(&genOutput, "output", "o", "", "Path for the generated llms.txt (default llms.txt)")
	generateCmd.Flags().StringVar(&genJSON, "json", "", "Also write a JSON sidecar to this path")
	generateCmd.Flags().StringVar(&genPatterns, "patterns", "", "YAML file with custom category patterns")
	generateCmd.Flags().BoolVar(&genEnhance, "enhance", false, "Rewrite page descriptions with an LLM")
	generateCmd.Flags().StringVar(&genProvider, "provider", "", "LLM provider: gemini or openai (default gemini)")
	generateCmd.Flags().StringVar(&genModel, "model", "", "Override the provider's default model")
	generateCmd.Flags().BoolVar(&genStrict, "strict", false, "Abort instead of warn when input quality is poor")
	generateCmd.Flags().BoolVar(&genFetchMeta, "fetch-meta", false, "Fetch the live homepage to enrich site metadata")
	generateCmd.Flags().IntVar(&genConcurrency, "concurrency", 0, "Enhancement batches in flight at once")
	generateCmd.Flags().BoolVarP(&genQuiet, "quiet", "q", false, "Silence progress output (errors still print)")

	// API key can be passed as a flag, or read from the provider's env var
	generateCmd.Flags().StringVar(&genAPIKey, "api-key", "", "LLM API key (optional, defaults to GEMINI_API_KEY or OPENAI_API_KEY)")

	// Note: --input is not marked required; we validate after merging config

	rootCmd.AddCommand(generateCmd)
}

func runGenerate(cmd *cobra.Command, _ []string) error {
	ctx := context.Background()

	// Step 1: Load config file if provided
	var cfg config.Config
	if genConfigPath != "" {
		loadedCfg, err := config.LoadConfig(genConfigPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = *loadedCfg
	}

	// Step 2: Apply CLI overrides (command-line args take priority)
	// Only override if the flag was explicitly set
	if cmd.Flags().Changed("input") {
		cfg.Input = genInput
	}
	if cmd.Flags().Changed("output") {
		cfg.Output = genOutput
	}
	if cmd.Flags().Changed("json") {
		cfg.JSON = genJSON
	}
	if cmd.Flags().Changed("patterns") {
		cfg.Patterns = genPatterns
	}
	if cmd.Flags().Changed("enhance") {
		cfg.Enhance = genEnhance
	}
	if cmd.Flags().Changed("provider") {
		cfg.Provider = genProvider
	}
	if cmd.Flags().Changed("model") {
		cfg.Model = genModel
	}
	if cmd.Flags().Changed("api-key") {
		cfg.APIKey = genAPIKey
	}
	if cmd.Flags().Changed("strict") {
		cfg.Strict = genStrict
	}
	if cmd.Flags().Changed("fetch-meta") {
		cfg.FetchMeta = genFetchMeta
	}
	if cmd.Flags().Changed("concurrency") {
		cfg.Concurrency = genConcurrency
	}
	if cmd.Flags().Changed("quiet") {
		cfg.Quiet = genQuiet
	}

	// Step 3: Apply defaults for unset values
	defaults := config.Config{
		Output:                "llms.txt",
		Provider:              "gemini",
		BatchSize:             10,
		BatchDelayMS:          500,
		MaxAttempts:           3,
		Concurrency:           1,
		RequestTimeoutSeconds: 30,
	}
	cfg = cfg.MergeWithDefaults(defaults)

	// Step 4: Validate the merged config and required fields
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Input == "" {
		return fmt.Errorf("--input must be provided (via flag or config)")
	}

	opts := pipeline.RunOptions{
		InputPath:      cfg.Input,
		OutputPath:     cfg.Output,
		JSONPath:       cfg.JSON,
		PatternsPath:   cfg.Patterns,
		Strict:         cfg.Strict,
		FetchMeta:      cfg.FetchMeta,
		Enhance:        cfg.Enhance,
		Quiet:          cfg.Quiet,
		Provider:       cfg.Provider,
		Model:          cfg.Model,
		APIKey:         cfg.APIKey,
		BatchSize:      cfg.BatchSize,
		BatchDelay:     cfg.BatchDelay(),
		MaxAttempts:    cfg.MaxAttempts,
		Concurrency:    cfg.Concurrency,
		Sections:       cfg.Sections,
		RequestTimeout: cfg.RequestTimeout(),
	}

	_, err := pipeline.RunPipeline(ctx, opts)
	return err
}
