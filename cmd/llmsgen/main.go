// Package main provides the entry point for the llmsgen CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/seolab/llmsgen/internal/observability"
	"github.com/seolab/llmsgen/internal/quality"
	"github.com/spf13/cobra"
)

const version = "1.0.0"

var rootCmd = &cobra.Command{
	Use:     "llmsgen",
	Short:   "llms.txt generator",
	Long:    "llmsgen turns a site crawl export (Screaming Frog CSV) into a curated llms.txt file: quality-checked, deduplicated, categorized, and optionally rewritten by an LLM.",
	Version: version,
	Run: func(cmd *cobra.Command, _ []string) {
		observability.NewPrinter(cmd.OutOrStdout()).PrintHeader(version)
		_ = cmd.Help()
	},
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)

		// A strict-mode quality abort gets its own exit code so callers can
		// tell "fix your export" apart from a hard failure.
		var qw *quality.Warning
		if errors.As(err, &qw) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
