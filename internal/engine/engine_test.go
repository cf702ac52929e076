package engine

import (
	"context"
	"strings"
	"testing"

	"github.com/factline/factline/internal/model"
)

func testBatch() *model.ExtractionBatch {
	return &model.ExtractionBatch{
		DocumentID: "doc_sla",
		Hint:       model.DocumentHint{Product: "Contoso", Edition: "enterprise", Region: "eu"},
		Items: []model.SourceItem{
			{ID: "item_1", Page: 3, SectionPath: "Service Levels", Text: "The Contoso platform guarantees an availability of 99.95% per month."},
			{ID: "item_2", Page: 4, SectionPath: "Security", Text: "All connections must use TLS 1.2 or higher."},
		},
		Chunks: []model.Chunk{
			{ID: "chunk_1", ItemIDs: []string{"item_1", "item_2"}},
		},
	}
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	e, err := New(model.DefaultConfig())
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	return e
}

func TestProcessBatch_NilBatch(t *testing.T) {
	e := newTestEngine(t)
	if _, err := e.ProcessBatch(context.Background(), nil); err == nil {
		t.Fatal("expected error for nil batch")
	}
}

func TestProcessBatch_OneLogEntryPerAssertion(t *testing.T) {
	e := newTestEngine(t)
	batch := testBatch()
	batch.Assertions = []model.RawAssertion{
		{ID: "a1", Text: "The Contoso platform guarantees an availability of 99.95% per month.", Type: model.AssertionPrescriptive, SourceChunkID: "chunk_1", Confidence: 0.9},
		{ID: "a2", Text: "© 2024 Contoso Ltd. All rights reserved.", Type: model.AssertionFactual, SourceChunkID: "chunk_1", Confidence: 0.9},
		{ID: "a3", Text: "Network topology", Type: model.AssertionFactual, SourceChunkID: "chunk_1", Confidence: 0.9},
		{ID: "a4", Text: "Something entirely absent from the source document text here.", Type: model.AssertionFactual, SourceChunkID: "chunk_1", Confidence: 0.9},
	}

	res, err := e.ProcessBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}

	if len(res.Log) != len(batch.Assertions) {
		t.Fatalf("log entries = %d, want %d", len(res.Log), len(batch.Assertions))
	}
	seen := make(map[string]bool)
	for _, entry := range res.Log {
		if seen[entry.AssertionID] {
			t.Errorf("assertion %s logged twice", entry.AssertionID)
		}
		seen[entry.AssertionID] = true
	}
	for _, a := range batch.Assertions {
		if !seen[a.ID] {
			t.Errorf("assertion %s has no log entry", a.ID)
		}
	}
	if res.Report.Total != 4 {
		t.Errorf("report total = %d, want 4", res.Report.Total)
	}
}

func TestProcessBatch_RejectionReasons(t *testing.T) {
	e := newTestEngine(t)
	batch := testBatch()
	batch.Assertions = []model.RawAssertion{
		{ID: "meta", Text: "© 2024 Contoso Ltd. All rights reserved.", Type: model.AssertionFactual, SourceChunkID: "chunk_1", Confidence: 0.9},
		{ID: "frag", Text: "Network topology", Type: model.AssertionFactual, SourceChunkID: "chunk_1", Confidence: 0.9},
		{ID: "unanchored", Text: "This sentence has a verb but appears nowhere in the source items.", Type: model.AssertionFactual, SourceChunkID: "chunk_1", Confidence: 0.9},
	}

	res, err := e.ProcessBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}

	want := map[string]model.ReasonCode{
		"meta":       model.ReasonMetaPattern,
		"frag":       model.ReasonFragmentNoPredicate,
		"unanchored": model.ReasonNoDocItemAnchor,
	}
	for _, entry := range res.Log {
		if entry.Status != model.StatusRejected {
			t.Errorf("%s: status = %s, want rejected", entry.AssertionID, entry.Status)
		}
		if entry.Reason != want[entry.AssertionID] {
			t.Errorf("%s: reason = %s, want %s", entry.AssertionID, entry.Reason, want[entry.AssertionID])
		}
	}
	if len(res.Information) != 0 {
		t.Errorf("rejected batch produced %d records", len(res.Information))
	}
	if res.Report.Rejected != 3 {
		t.Errorf("report rejected = %d, want 3", res.Report.Rejected)
	}
}

func TestProcessBatch_PromotedRecord(t *testing.T) {
	e := newTestEngine(t)
	batch := testBatch()
	batch.Assertions = []model.RawAssertion{
		{ID: "a1", Text: "The Contoso platform guarantees an availability of 99.95% per month.", Type: model.AssertionPrescriptive, SourceChunkID: "chunk_1", Confidence: 0.9},
	}

	res, err := e.ProcessBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}
	if len(res.Information) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Information))
	}

	info := res.Information[0]
	if info.Status != model.StatusPromoted {
		t.Errorf("status = %s, want promoted", info.Status)
	}

	// The quote must be a verbatim slice of the anchored item
	item := batch.Items[0]
	if !strings.Contains(item.Text, info.ExactQuote) {
		t.Errorf("quote %q not verbatim in item text", info.ExactQuote)
	}
	if info.Anchor.DocItemID != "item_1" {
		t.Errorf("anchored to %s, want item_1", info.Anchor.DocItemID)
	}
	if info.Page != 3 || info.SectionPath != "Service Levels" {
		t.Errorf("provenance fields wrong: page %d, section %q", info.Page, info.SectionPath)
	}

	if info.ClaimKey == nil || info.ClaimKey.Key != "sla.availability.contoso" {
		t.Errorf("claim key = %+v, want sla.availability.contoso", info.ClaimKey)
	}
	if info.Value.Kind != model.ValuePercent || info.Value.Normalized != "0.9995" {
		t.Errorf("value = %s %q, want percent 0.9995", info.Value.Kind, info.Value.Normalized)
	}

	if info.Fingerprint == "" || info.ID != "info_"+info.Fingerprint {
		t.Errorf("record id %q does not derive from fingerprint %q", info.ID, info.Fingerprint)
	}
	if res.Report.Promoted != 1 {
		t.Errorf("report promoted = %d, want 1", res.Report.Promoted)
	}
}

func TestProcessBatch_RestatementsMergeByFingerprint(t *testing.T) {
	e := newTestEngine(t)
	batch := testBatch()
	// Same fact asserted twice with identical wording
	text := "The Contoso platform guarantees an availability of 99.95% per month."
	batch.Assertions = []model.RawAssertion{
		{ID: "a1", Text: text, Type: model.AssertionPrescriptive, SourceChunkID: "chunk_1", Confidence: 0.9},
		{ID: "a2", Text: text, Type: model.AssertionPrescriptive, SourceChunkID: "chunk_1", Confidence: 0.8},
	}

	res, err := e.ProcessBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}

	if len(res.Information) != 1 {
		t.Fatalf("restatements should merge into 1 record, got %d", len(res.Information))
	}
	// Both assertions still get their own log entry and report count
	if len(res.Log) != 2 {
		t.Errorf("log entries = %d, want 2", len(res.Log))
	}
	if res.Report.Promoted != 2 {
		t.Errorf("report promoted = %d, want 2", res.Report.Promoted)
	}
}

func TestProcessBatch_LowConfidenceAbstains(t *testing.T) {
	e := newTestEngine(t)
	batch := testBatch()
	batch.Assertions = []model.RawAssertion{
		{ID: "a1", Text: "All connections must use TLS 1.2 or higher.", Type: model.AssertionFactual, SourceChunkID: "chunk_1", Confidence: 0.5},
	}

	res, err := e.ProcessBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}
	if res.Report.Abstained != 1 {
		t.Errorf("report abstained = %d, want 1", res.Report.Abstained)
	}
	if len(res.Information) != 0 {
		t.Errorf("abstained assertion produced %d records", len(res.Information))
	}
	if res.Log[0].Reason != model.ReasonLowConfidence {
		t.Errorf("reason = %s, want low_confidence", res.Log[0].Reason)
	}
}

func TestProcessBatch_UnlinkedPromotionCarriesReason(t *testing.T) {
	e := newTestEngine(t)
	batch := &model.ExtractionBatch{
		DocumentID: "doc_plain",
		Items: []model.SourceItem{
			// No section path, so only a claim key could make it addressable
			{ID: "item_1", Page: -1, Text: "The premises are accessible to staff on weekends."},
		},
		Chunks: []model.Chunk{{ID: "chunk_1", ItemIDs: []string{"item_1"}}},
		Assertions: []model.RawAssertion{
			{ID: "a1", Text: "The premises are accessible to staff on weekends.", Type: model.AssertionDefinitional, SourceChunkID: "chunk_1", Confidence: 0.9},
		},
	}

	res, err := e.ProcessBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}
	if res.Report.Unlinked != 1 {
		t.Fatalf("report unlinked = %d, want 1 (log: %+v)", res.Report.Unlinked, res.Log)
	}
	if res.Log[0].Reason != model.ReasonNoConceptMatch {
		t.Errorf("reason = %s, want no_concept_match", res.Log[0].Reason)
	}
	// Unlinked facts are still stored
	if len(res.Information) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Information))
	}
	if res.Information[0].Status != model.StatusPromotedUnlinked {
		t.Errorf("record status = %s, want promoted_unlinked", res.Information[0].Status)
	}
}

func TestProcessBatch_ConceptLinkCarriedIntoRecord(t *testing.T) {
	e := newTestEngine(t)
	batch := testBatch()
	batch.Assertions = []model.RawAssertion{
		{ID: "a1", Text: "All connections must use TLS 1.2 or higher.", Type: model.AssertionPrescriptive, SourceChunkID: "chunk_1", Confidence: 0.9},
	}
	batch.Links = []model.ConceptLink{
		{AssertionID: "a1", ConceptID: "concept_tls", ThemeID: "theme_security", Confidence: 0.8},
	}

	res, err := e.ProcessBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}
	if len(res.Information) != 1 {
		t.Fatalf("expected 1 record, got %d", len(res.Information))
	}
	info := res.Information[0]
	if info.ConceptID != "concept_tls" || info.ThemeID != "theme_security" {
		t.Errorf("concept link not carried: %+v", info)
	}
}

func TestProcessBatch_CancelledContext(t *testing.T) {
	e := newTestEngine(t)
	batch := testBatch()
	batch.Assertions = []model.RawAssertion{
		{ID: "a1", Text: "All connections must use TLS 1.2 or higher.", Type: model.AssertionPrescriptive, SourceChunkID: "chunk_1", Confidence: 0.9},
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := e.ProcessBatch(ctx, batch)
	if err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}
	// Cancellation still yields one entry per assertion
	if len(res.Log) != 1 {
		t.Fatalf("log entries = %d, want 1", len(res.Log))
	}
	entry := res.Log[0]
	if entry.Rule != "cancelled" {
		t.Errorf("rule = %q, want cancelled", entry.Rule)
	}
	if !strings.Contains(entry.Detail, "not evaluated") {
		t.Errorf("detail = %q, want a not-evaluated marker", entry.Detail)
	}
	if entry.Reason != model.ReasonInternalError {
		t.Errorf("reason = %s, want %s", entry.Reason, model.ReasonInternalError)
	}
}

func TestProcessBatch_DuplicateAssertionIDKeepsGoing(t *testing.T) {
	e := newTestEngine(t)
	batch := testBatch()
	batch.Assertions = []model.RawAssertion{
		{ID: "a1", Text: "The Contoso platform guarantees an availability of 99.95% per month.", Type: model.AssertionPrescriptive, SourceChunkID: "chunk_1", Confidence: 0.9},
		{ID: "a1", Text: "The Contoso platform guarantees an availability of 99.95% per month.", Type: model.AssertionPrescriptive, SourceChunkID: "chunk_1", Confidence: 0.9},
		{ID: "a2", Text: "All connections must use TLS 1.2 or higher.", Type: model.AssertionPrescriptive, SourceChunkID: "chunk_1", Confidence: 0.9},
	}

	res, err := e.ProcessBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}

	// The first a1 keeps its entry; the id reuse never gets a second one
	if len(res.Log) != 2 {
		t.Fatalf("log entries = %d, want 2", len(res.Log))
	}
	if res.Report.Total != 3 {
		t.Errorf("report total = %d, want 3", res.Report.Total)
	}
	if got := res.Report.ByReason[model.ReasonInternalError]; got != 1 {
		t.Errorf("internal_error tally = %d, want 1", got)
	}
	if res.Report.Promoted != 2 {
		t.Errorf("promoted = %d, want 2", res.Report.Promoted)
	}
	if len(res.Information) != 2 {
		t.Errorf("records = %d, want 2", len(res.Information))
	}
}

func TestProcessBatch_PanicBecomesInternalError(t *testing.T) {
	e := newTestEngine(t)
	e.policy = nil // the first assertion reaching Evaluate panics

	batch := testBatch()
	batch.Assertions = []model.RawAssertion{
		{ID: "boom", Text: "The Contoso platform guarantees an availability of 99.95% per month.", Type: model.AssertionPrescriptive, SourceChunkID: "chunk_1", Confidence: 0.9},
		{ID: "meta", Text: "© 2024 Contoso Ltd. All rights reserved.", Type: model.AssertionFactual, SourceChunkID: "chunk_1", Confidence: 0.9},
	}

	res, err := e.ProcessBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("ProcessBatch failed: %v", err)
	}
	if len(res.Log) != 2 {
		t.Fatalf("log entries = %d, want 2", len(res.Log))
	}

	byID := make(map[string]model.AssertionLogEntry)
	for _, entry := range res.Log {
		byID[entry.AssertionID] = entry
	}
	boom := byID["boom"]
	if boom.Status != model.StatusRejected || boom.Reason != model.ReasonInternalError {
		t.Errorf("boom: status/reason = %s/%s, want rejected/%s", boom.Status, boom.Reason, model.ReasonInternalError)
	}
	if !strings.Contains(boom.Detail, "panic") {
		t.Errorf("boom detail = %q, want a panic marker", boom.Detail)
	}
	// The sibling is unaffected by the fault
	if got := byID["meta"].Reason; got != model.ReasonMetaPattern {
		t.Errorf("meta reason = %s, want %s", got, model.ReasonMetaPattern)
	}
}

func TestNew_NilConfigUsesDefaults(t *testing.T) {
	if _, err := New(nil); err != nil {
		t.Fatalf("New(nil) failed: %v", err)
	}
}

func TestNew_InvalidPolicy(t *testing.T) {
	cfg := model.DefaultConfig()
	cfg.Policy.Tiers = map[string]string{"factual": "sometimes"}
	if _, err := New(cfg); err == nil {
		t.Fatal("expected error for invalid tier map")
	}
}
