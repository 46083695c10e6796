package main

import (
	"context"
	"fmt"
	"os"

	"github.com/seolab/llmsgen/internal/pipeline"
	"github.com/seolab/llmsgen/internal/render"
	"github.com/spf13/cobra"
)

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Print the first lines of the document a crawl export would produce",
	Long:  "Runs the pattern-only pipeline in memory and prints a markdown preview. Nothing is written to disk and no LLM calls are made.",
	RunE:  runPreview,
}

var (
	prevInput string
	prevLines int
)

func init() {
	previewCmd.Flags().StringVarP(&prevInput, "input", "i", "", "Path to the crawl export CSV (required)")
	previewCmd.Flags().IntVarP(&prevLines, "lines", "n", render.DefaultPreviewLines, "Maximum markdown lines to print")

	previewCmd.MarkFlagRequired("input")

	rootCmd.AddCommand(previewCmd)
}

func runPreview(cmd *cobra.Command, _ []string) error {
	// Quiet keeps progress output off stdout so the preview itself is the
	// only thing printed.
	result, err := pipeline.RunPipeline(context.Background(), pipeline.RunOptions{
		InputPath: prevInput,
		Quiet:     true,
	})
	if err != nil {
		return err
	}

	fmt.Fprintln(os.Stdout, render.Preview(result.Document, prevLines))
	return nil
}
