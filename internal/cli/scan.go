package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/factline/factline/internal/model"
	"github.com/factline/factline/internal/pipeline"
)

var (
	outJSON     string
	outMD       string
	storeDir    string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	noFooter    bool
	httpProxy   string
	httpsProxy  string
	language    string
	hintProduct string
	hintEdition string
	hintRegion  string
	hintVersion string
	llmProvider string
	llmModel    string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan <url>",
	Short: "Scan a single document URL and promote its facts",
	Long: `Scan fetches a document, extracts candidate assertions, and runs
each one through the promotion pipeline:
- Filter boilerplate and fragments
- Anchor the assertion to an exact span in one source item
- Derive the canonical claim key and a typed, comparable value
- Apply the per-type promotion policy
- Fingerprint and persist the promoted records with a full audit log

Example:
  factline scan https://example.com/security-whitepaper --llm-provider openai
  factline scan https://example.com/sla --json result.json --md result.md
  factline scan https://example.com/docs --product Acme --edition enterprise`,
	Args: cobra.ExactArgs(1),
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVar(&outJSON, "json", "result.json", "output JSON path")
	scanCmd.Flags().StringVar(&outMD, "md", "", "output Markdown path (optional)")
	scanCmd.Flags().StringVar(&storeDir, "store", "./factline-data", "record store directory (empty disables persistence)")

	scanCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall scan timeout")
	scanCmd.Flags().StringVar(&userAgent, "ua", "Factline/0.1 (+https://github.com/factline/factline)", "HTTP User-Agent")
	scanCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	scanCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable fetch cache (force fresh fetch)")
	scanCmd.Flags().BoolVar(&noFooter, "no-footer", false, "disable footer in Markdown output")
	scanCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	scanCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	scanCmd.Flags().StringVar(&language, "language", "", "document language hint (en, de)")
	scanCmd.Flags().StringVar(&hintProduct, "product", "", "document scope: product name")
	scanCmd.Flags().StringVar(&hintEdition, "edition", "", "document scope: edition")
	scanCmd.Flags().StringVar(&hintRegion, "region", "", "document scope: region")
	scanCmd.Flags().StringVar(&hintVersion, "version-hint", "", "document scope: version")

	scanCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "extractor provider (openai)")
	scanCmd.Flags().StringVar(&llmModel, "llm-model", "", "extractor model name")
}

func runScan(cmd *cobra.Command, args []string) error {
	url := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg := buildConfig()
	if cfg.LLM.Provider == "openai" && os.Getenv("OPENAI_API_KEY") == "" && os.Getenv("FACTLINE_OPENAI_API_KEY") == "" {
		return fmt.Errorf("OPENAI_API_KEY environment variable not set")
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Scanning: %s\n", url)
		fmt.Fprintf(os.Stderr, "Timeout: %v\n", timeout)
		fmt.Fprintf(os.Stderr, "Cache: %v\n", !noCache)
		fmt.Fprintln(os.Stderr)
	}

	p, err := pipeline.New(cfg, storeDir)
	if err != nil {
		return err
	}

	result, err := p.Run(ctx, url, buildHint())
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Processed %d assertions\n", result.Report.Total)
		fmt.Fprintf(os.Stderr, "✓ Promoted %d records (%d unlinked)\n", result.Report.Promoted+result.Report.Unlinked, result.Report.Unlinked)
		fmt.Fprintln(os.Stderr)
	}

	if err := p.RenderResult(result, outJSON, outMD, verbose); err != nil {
		return fmt.Errorf("render failed: %w", err)
	}
	return nil
}

// buildConfig assembles configuration from defaults plus flags
func buildConfig() *model.Config {
	cfg := model.DefaultConfig()
	cfg.Language = language
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose
	cfg.Output.IncludeFooter = !noFooter
	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel
	return cfg
}

// buildHint assembles the document scope hint from flags
func buildHint() model.DocumentHint {
	return model.DocumentHint{
		Product: hintProduct,
		Edition: hintEdition,
		Region:  hintRegion,
		Version: hintVersion,
	}
}
