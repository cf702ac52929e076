package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/factline/factline/internal/pipeline"
)

var promoteTimeout time.Duration

// promoteCmd represents the promote command
var promoteCmd = &cobra.Command{
	Use:   "promote <batch.json>",
	Short: "Promote a pre-extracted assertion batch",
	Long: `Promote runs the promotion pipeline over an extraction batch that
was produced elsewhere, skipping fetch and extraction entirely. The batch
file carries the document's source items, chunk table, candidate
assertions, and optional concept links as JSON.

This is the integration path for callers that run their own extractor.

Example:
  factline promote batch.json
  factline promote batch.json --store ./factline-data --json result.json`,
	Args: cobra.ExactArgs(1),
	RunE: runPromote,
}

func init() {
	rootCmd.AddCommand(promoteCmd)

	promoteCmd.Flags().StringVar(&outJSON, "json", "result.json", "output JSON path")
	promoteCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	promoteCmd.Flags().StringVar(&storeDir, "store", "./factline-data", "record store directory (empty disables persistence)")
	promoteCmd.Flags().DurationVar(&promoteTimeout, "timeout", time.Minute, "processing timeout")
	promoteCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown output")
}

func runPromote(cmd *cobra.Command, args []string) error {
	path := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), promoteTimeout)
	defer cancel()

	cfg := buildConfig()
	cfg.LLM.Provider = "" // no extraction, the batch is already extracted
	cfg.Cache.Enabled = false

	if verbose {
		fmt.Fprintf(os.Stderr, "Promoting batch: %s\n\n", path)
	}

	p, err := pipeline.New(cfg, storeDir)
	if err != nil {
		return err
	}

	result, err := p.RunBatch(ctx, path)
	if err != nil {
		return fmt.Errorf("promote failed: %w", err)
	}

	if err := p.RenderResult(result, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}
