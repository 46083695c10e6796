package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/seolab/llmsgen/internal/ingestion"
	"github.com/seolab/llmsgen/internal/observability"
	"github.com/seolab/llmsgen/internal/quality"
	"github.com/seolab/llmsgen/internal/types"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a crawl export without generating anything",
	Long:  "Reads the export, prints the input quality report, and stops. With --strict a poor-quality export fails the command the same way generate would.",
	RunE:  runValidate,
}

var (
	valInput  string
	valStrict bool
	valQuiet  bool
)

func init() {
	validateCmd.Flags().StringVarP(&valInput, "input", "i", "", "Path to the crawl export CSV (required)")
	validateCmd.Flags().BoolVar(&valStrict, "strict", false, "Fail when input quality is poor")
	validateCmd.Flags().BoolVarP(&valQuiet, "quiet", "q", false, "Silence the report (the exit code still reflects the result)")

	validateCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, _ []string) error {
	out := io.Writer(os.Stdout)
	if valQuiet {
		out = io.Discard
	}

	result, err := ingestion.ReadFile(valInput)
	if err != nil {
		return fmt.Errorf("crawl export ingestion failed: %w", err)
	}
	if result.SkippedRows > 0 {
		fmt.Fprintf(out, "Warning: skipped %d rows with a blank Address cell\n", result.SkippedRows)
	}
	if len(result.Columns.OptionalMissing) > 0 {
		fmt.Fprintf(out, "Warning: export is missing optional columns: %s\n",
			strings.Join(result.Columns.OptionalMissing, ", "))
	}

	report := quality.Analyze(result.Rows)
	observability.NewPrinter(out).PrintQualityReport(&report)

	switch report.Band {
	case types.QualityPoor:
		if valStrict {
			return &quality.Warning{Report: report}
		}
		fmt.Fprintf(out, "Warning: %s\n", quality.Advice(report))
	case types.QualityAcceptable:
		fmt.Fprintf(out, "Warning: %s\n", quality.Advice(report))
	}

	return nil
}
