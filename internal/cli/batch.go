package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"github.com/spf13/cobra"

	"github.com/factline/factline/internal/engine"
	"github.com/factline/factline/internal/pipeline"
	"github.com/factline/factline/internal/worker"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Scan multiple document URLs from a file in parallel",
	Long: `Batch processes multiple documents concurrently:
- Read URLs from the input file (one per line, # for comments)
- Process documents in parallel with a configurable worker count
- Write one JSON and Markdown result per document
- Promoted records from all documents share one store

Example:
  factline batch urls.txt
  factline batch urls.txt --concurrency 4 --output-dir ./results
  factline batch urls.txt --store ./factline-data --timeout 30m`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", runtime.NumCPU(), "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./factline-results", "output directory for per-document results")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")

	batchCmd.Flags().DurationVar(&timeout, "scan-timeout", 5*time.Minute, "timeout for individual documents")
	batchCmd.Flags().StringVar(&storeDir, "store", "./factline-data", "record store directory (empty disables persistence)")
	batchCmd.Flags().StringVar(&userAgent, "ua", "Factline/0.1 (+https://github.com/factline/factline)", "HTTP User-Agent")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable fetch cache (force fresh fetch)")
	batchCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown output")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	batchCmd.Flags().StringVar(&language, "language", "", "document language hint (en, de)")
	batchCmd.Flags().StringVar(&hintProduct, "product", "", "document scope: product name")
	batchCmd.Flags().StringVar(&hintEdition, "edition", "", "document scope: edition")
	batchCmd.Flags().StringVar(&hintRegion, "region", "", "document scope: region")
	batchCmd.Flags().StringVar(&hintVersion, "version-hint", "", "document scope: version")

	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "extractor provider (openai)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "", "extractor model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Factline Batch Processing\n")
	fmt.Fprintf(os.Stderr, "  Input file:   %s\n", file)
	fmt.Fprintf(os.Stderr, "  Workers:      %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "  Output dir:   %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "  Store:        %s\n", storeDir)
	fmt.Fprintf(os.Stderr, "  Timeout:      %v\n", batchTimeout)
	fmt.Fprintf(os.Stderr, "\n")

	cfg := buildConfig()
	cfg.HTTP.Timeout = timeout
	cfg.Concurrency.Workers = concurrency

	if cfg.LLM.Provider == "openai" && os.Getenv("OPENAI_API_KEY") == "" && os.Getenv("FACTLINE_OPENAI_API_KEY") == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	p, err := pipeline.New(cfg, storeDir)
	if err != nil {
		return err
	}

	processor := worker.NewBatchProcessor(p, concurrency)

	fmt.Fprintf(os.Stderr, "⚙️  Processing URLs with %d workers...\n\n", concurrency)
	results, err := processor.ProcessFile(ctx, file, buildHint())
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	renderer := engine.NewRenderer(cfg.Output.IncludeFooter)
	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.URL, result.Error)
			continue
		}
		successCount++

		docID := result.Result.Report.DocumentID
		jsonPath := filepath.Join(outputDir, docID+".json")
		mdPath := filepath.Join(outputDir, docID+".md")
		if err := renderer.RenderJSON(result.Result, jsonPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write JSON: %v\n", result.URL, err)
			continue
		}
		if err := renderer.RenderMarkdown(result.Result, mdPath); err != nil {
			fmt.Fprintf(os.Stderr, "✗ %s: failed to write Markdown: %v\n", result.URL, err)
			continue
		}

		rep := result.Result.Report
		fmt.Fprintf(os.Stderr, "✓ %s (%d promoted / %d assertions)\n", docID, rep.Promoted+rep.Unlinked, rep.Total)
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Batch Complete\n")
	fmt.Fprintf(os.Stderr, "  Total:     %d URLs\n", len(results))
	fmt.Fprintf(os.Stderr, "  Success:   %d\n", successCount)
	fmt.Fprintf(os.Stderr, "  Failures:  %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "  Output:    %s\n", outputDir)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
