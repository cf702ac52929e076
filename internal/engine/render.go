package engine

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/factline/factline/internal/model"
)

// Renderer writes batch results to files and the terminal
type Renderer struct {
	includeFooter bool
}

// NewRenderer creates a renderer
func NewRenderer(includeFooter bool) *Renderer {
	return &Renderer{includeFooter: includeFooter}
}

// RenderJSON writes the full batch result as indented JSON
func (r *Renderer) RenderJSON(result *BatchResult, path string) error {
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes a human-readable digest of the batch
func (r *Renderer) RenderMarkdown(result *BatchResult, path string) error {
	var b strings.Builder

	rep := result.Report
	fmt.Fprintf(&b, "# Promotion Report: %s\n\n", rep.DocumentID)
	fmt.Fprintf(&b, "Processed: %s (%s)\n\n", rep.ProcessedAt.Format("2006-01-02 15:04:05 UTC"), rep.Duration.Round(1e6))

	b.WriteString("## Summary\n\n")
	fmt.Fprintf(&b, "| Outcome | Count |\n|---|---|\n")
	fmt.Fprintf(&b, "| Promoted | %d |\n", rep.Promoted)
	fmt.Fprintf(&b, "| Promoted (unlinked) | %d |\n", rep.Unlinked)
	fmt.Fprintf(&b, "| Abstained | %d |\n", rep.Abstained)
	fmt.Fprintf(&b, "| Rejected | %d |\n", rep.Rejected)
	fmt.Fprintf(&b, "| Total | %d |\n\n", rep.Total)

	if len(rep.ByReason) > 0 {
		b.WriteString("## By Reason\n\n")
		reasons := make([]model.ReasonCode, 0, len(rep.ByReason))
		for reason := range rep.ByReason {
			reasons = append(reasons, reason)
		}
		sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })
		for _, reason := range reasons {
			fmt.Fprintf(&b, "- `%s`: %d\n", reason, rep.ByReason[reason])
		}
		b.WriteString("\n")
	}

	if len(result.Information) > 0 {
		b.WriteString("## Promoted Facts\n\n")
		for _, info := range result.Information {
			key := "(no claim key)"
			if info.ClaimKey != nil {
				key = "`" + info.ClaimKey.Key + "`"
			}
			fmt.Fprintf(&b, "### %s\n\n", info.ID)
			fmt.Fprintf(&b, "> %s\n\n", info.ExactQuote)
			fmt.Fprintf(&b, "- Key: %s\n", key)
			if info.Value.Kind != model.ValueNone {
				fmt.Fprintf(&b, "- Value: %s %s (%s, %s)\n", info.Value.Operator, info.Value.Normalized, info.Value.Kind, info.Value.Comparable)
			}
			fmt.Fprintf(&b, "- Anchor: %s [%d:%d]", info.Anchor.DocItemID, info.Anchor.SpanStart, info.Anchor.SpanEnd)
			if info.Anchor.Approximate {
				b.WriteString(" (approximate)")
			}
			b.WriteString("\n")
			fmt.Fprintf(&b, "- Page: %d\n", info.Page)
			if info.SectionPath != "" {
				fmt.Fprintf(&b, "- Section: %s\n", info.SectionPath)
			}
			fmt.Fprintf(&b, "- Fingerprint: `%s`\n\n", info.Fingerprint)
		}
	}

	if r.includeFooter {
		b.WriteString("---\n\nGenerated by Factline. Every assertion in the batch has a matching audit log entry.\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderSummary prints a one-screen summary to stdout
func (r *Renderer) RenderSummary(result *BatchResult) {
	rep := result.Report
	fmt.Printf("\nDocument: %s\n", rep.DocumentID)
	fmt.Printf("Assertions: %d\n", rep.Total)
	fmt.Printf("  promoted:  %d (%d unlinked)\n", rep.Promoted+rep.Unlinked, rep.Unlinked)
	fmt.Printf("  abstained: %d\n", rep.Abstained)
	fmt.Printf("  rejected:  %d\n", rep.Rejected)
	fmt.Printf("Duration: %s\n", rep.Duration.Round(1e6))
}
