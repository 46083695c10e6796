// Package config provides run configuration loading and validation for the CLI.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
)

// Config represents the run configuration that can be loaded from a JSON file.
// All fields are optional; missing values use defaults or must be provided via CLI flags.
type Config struct {
	// Paths
	Input    string `json:"input,omitempty"`    // Path to the crawl export CSV
	Output   string `json:"output,omitempty"`   // Path for the generated markdown document
	JSON     string `json:"json,omitempty"`     // Path for the JSON sidecar (empty skips it)
	Patterns string `json:"patterns,omitempty"` // Path to a category patterns YAML file

	// Behavior
	Enhance   bool `json:"enhance,omitempty"`    // Rewrite page descriptions through an LLM
	Strict    bool `json:"strict,omitempty"`     // Abort the run when input quality is poor
	FetchMeta bool `json:"fetch_meta,omitempty"` // Fetch the homepage to fill missing site metadata
	Quiet     bool `json:"quiet,omitempty"`      // Suppress progress output

	// Enhancement
	APIKey                string   `json:"api_key,omitempty"` // LLM API key (defaults to the provider's env var)
	Provider              string   `json:"provider,omitempty" validate:"omitempty,oneof=gemini openai"`
	Model                 string   `json:"model,omitempty"` // Override the provider's default model
	BatchSize             int      `json:"batch_size,omitempty" validate:"omitempty,min=1,max=50"`
	BatchDelayMS          int      `json:"batch_delay_ms,omitempty" validate:"omitempty,min=0,max=60000"`
	MaxAttempts           int      `json:"max_attempts,omitempty" validate:"omitempty,min=1,max=10"`
	Concurrency           int      `json:"concurrency,omitempty" validate:"omitempty,min=1,max=16"`
	Sections              []string `json:"sections,omitempty"` // Section names eligible for enhancement
	RequestTimeoutSeconds int      `json:"request_timeout_seconds,omitempty" validate:"omitempty,min=1,max=600"`
}

// BatchDelay returns the inter-batch delay as a duration.
func (c *Config) BatchDelay() time.Duration {
	return time.Duration(c.BatchDelayMS) * time.Millisecond
}

// RequestTimeout returns the per-request timeout as a duration.
func (c *Config) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	// Resolve path relative to current directory if not absolute
	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Validate checks that the configuration has valid values.
// Range checks run through the validator tags. Required fields are not
// checked here since those are enforced by the CLI after merging; the
// input path is left to the ingestion layer, which reports a missing or
// malformed export with its remediation.
func (c *Config) Validate() error {
	validate := validator.New()
	if err := validate.Struct(c); err != nil {
		if fieldErrors, ok := err.(validator.ValidationErrors); ok {
			problems := make([]string, 0, len(fieldErrors))
			for _, fe := range fieldErrors {
				problems = append(problems, describeFieldError(fe))
			}
			return &ValidationError{Problems: problems}
		}
		return err
	}

	if c.Patterns != "" {
		if _, err := os.Stat(c.Patterns); os.IsNotExist(err) {
			return &ValidationError{Problems: []string{fmt.Sprintf("patterns file not found: %s", c.Patterns)}}
		}
	}

	return nil
}

// describeFieldError turns a validator field error into a readable problem string.
func describeFieldError(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return fmt.Sprintf("'%s' must be at least %s", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("'%s' must be at most %s", fe.Field(), fe.Param())
	case "oneof":
		return fmt.Sprintf("'%s' must be one of: %s", fe.Field(), fe.Param())
	default:
		return fmt.Sprintf("'%s' failed '%s' validation", fe.Field(), fe.Tag())
	}
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from defaults.
// This is used to apply config file values as defaults for CLI flags.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	// String fields: use default if empty
	if result.Input == "" {
		result.Input = defaults.Input
	}
	if result.Output == "" {
		result.Output = defaults.Output
	}
	if result.JSON == "" {
		result.JSON = defaults.JSON
	}
	if result.Patterns == "" {
		result.Patterns = defaults.Patterns
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Provider == "" {
		result.Provider = defaults.Provider
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}

	// Int fields: use default if zero
	if result.BatchSize == 0 {
		result.BatchSize = defaults.BatchSize
	}
	if result.BatchDelayMS == 0 {
		result.BatchDelayMS = defaults.BatchDelayMS
	}
	if result.MaxAttempts == 0 {
		result.MaxAttempts = defaults.MaxAttempts
	}
	if result.Concurrency == 0 {
		result.Concurrency = defaults.Concurrency
	}
	if result.RequestTimeoutSeconds == 0 {
		result.RequestTimeoutSeconds = defaults.RequestTimeoutSeconds
	}

	// Slice fields: use default if empty
	if len(result.Sections) == 0 {
		result.Sections = defaults.Sections
	}

	// Bool fields: cannot distinguish unset from false, so we don't merge
	// (CLI flags should always win for bools)

	return result
}
