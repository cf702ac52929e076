package engine

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/factline/factline/internal/model"
)

func renderedResult(t *testing.T) *BatchResult {
	t.Helper()
	e := newTestEngine(t)
	batch := testBatch()
	batch.Assertions = []model.RawAssertion{
		{ID: "a1", Text: "The Contoso platform guarantees an availability of 99.95% per month.", Type: model.AssertionPrescriptive, SourceChunkID: "chunk_1", Confidence: 0.9},
		{ID: "a2", Text: "Network topology", Type: model.AssertionFactual, SourceChunkID: "chunk_1", Confidence: 0.9},
	}
	res, err := e.ProcessBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}
	return res
}

func TestRenderJSON(t *testing.T) {
	res := renderedResult(t)
	path := filepath.Join(t.TempDir(), "result.json")

	if err := NewRenderer(true).RenderJSON(res, path); err != nil {
		t.Fatalf("RenderJSON failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var decoded BatchResult
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if decoded.Report == nil || decoded.Report.DocumentID != "doc_sla" {
		t.Errorf("report not round-tripped: %+v", decoded.Report)
	}
	if len(decoded.Information) != 1 || len(decoded.Log) != 2 {
		t.Errorf("got %d records, %d log entries", len(decoded.Information), len(decoded.Log))
	}
}

func TestRenderMarkdown(t *testing.T) {
	res := renderedResult(t)
	path := filepath.Join(t.TempDir(), "result.md")

	if err := NewRenderer(true).RenderMarkdown(res, path); err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	md := string(data)

	for _, want := range []string{
		"# Promotion Report: doc_sla",
		"| Promoted | 1 |",
		"| Total | 2 |",
		"`fragment_no_predicate`",
		"> The Contoso platform guarantees an availability of 99.95% per month.",
		"`sla.availability.contoso`",
		"- Page: 3",
		"- Section: Service Levels",
		"Generated by Factline",
	} {
		if !strings.Contains(md, want) {
			t.Errorf("markdown missing %q", want)
		}
	}
}

func TestRenderMarkdown_NoFooter(t *testing.T) {
	res := renderedResult(t)
	path := filepath.Join(t.TempDir(), "result.md")

	if err := NewRenderer(false).RenderMarkdown(res, path); err != nil {
		t.Fatalf("RenderMarkdown failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "Generated by Factline") {
		t.Error("footer rendered despite being disabled")
	}
}
