// Package engine orchestrates the promotion pipeline for one extraction
// batch: filtering, span anchoring, claim-key matching, value extraction,
// the tier policy, fingerprinting, and the per-assertion audit log.
package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/factline/factline/internal/anchor"
	"github.com/factline/factline/internal/audit"
	"github.com/factline/factline/internal/claimkey"
	"github.com/factline/factline/internal/filter"
	"github.com/factline/factline/internal/fingerprint"
	"github.com/factline/factline/internal/model"
	"github.com/factline/factline/internal/promote"
	"github.com/factline/factline/internal/spanindex"
	"github.com/factline/factline/internal/value"
)

// Engine holds the batch-independent pieces: catalogs, the tier policy,
// and configuration. Per-batch state (index, resolver, observations) is
// built fresh in ProcessBatch so batches never bleed into each other.
type Engine struct {
	cfg    *model.Config
	meta   *filter.MetaFilter
	keys   *claimkey.Matcher
	policy *promote.Policy
}

// New creates an engine, loading the meta-pattern and claim-key catalogs
// from the configured paths (built-in catalogs when paths are empty).
func New(cfg *model.Config) (*Engine, error) {
	if cfg == nil {
		cfg = model.DefaultConfig()
	}

	metaCat := filter.BuiltinCatalog()
	if cfg.Filter.MetaCatalogPath != "" {
		loaded, err := filter.LoadCatalog(cfg.Filter.MetaCatalogPath)
		if err != nil {
			return nil, fmt.Errorf("load meta catalog: %w", err)
		}
		metaCat = loaded
	}
	meta, err := filter.NewMetaFilter(metaCat)
	if err != nil {
		return nil, fmt.Errorf("compile meta catalog: %w", err)
	}

	keyCat := claimkey.DefaultCatalog()
	if cfg.ClaimKeys.CatalogPath != "" {
		loaded, err := claimkey.Load(cfg.ClaimKeys.CatalogPath)
		if err != nil {
			return nil, fmt.Errorf("load claimkey catalog: %w", err)
		}
		keyCat = loaded
	}
	keys, err := claimkey.NewMatcher(keyCat)
	if err != nil {
		return nil, fmt.Errorf("compile claimkey catalog: %w", err)
	}

	policy, err := promote.NewPolicy(cfg.Policy)
	if err != nil {
		return nil, fmt.Errorf("build policy: %w", err)
	}

	return &Engine{
		cfg:    cfg,
		meta:   meta,
		keys:   keys,
		policy: policy,
	}, nil
}

// BatchResult is the complete outcome of one batch: the promoted records,
// one log entry per assertion, and the aggregate report.
type BatchResult struct {
	Report      *model.BatchReport
	Information []model.Information
	Log         []model.AssertionLogEntry
}

// outcome pairs a decision with the record it produced, if any
type outcome struct {
	decision model.PromotionDecision
	info     *model.Information
}

// ProcessBatch runs every assertion in the batch through the pipeline.
// One assertion failing, even by panic, never aborts the batch: the
// failure becomes that assertion's log entry and processing continues.
func (e *Engine) ProcessBatch(ctx context.Context, batch *model.ExtractionBatch) (*BatchResult, error) {
	if batch == nil {
		return nil, fmt.Errorf("nil batch")
	}
	started := time.Now().UTC()

	index := spanindex.New(batch.Items, batch.Chunks)
	resolver := anchor.NewResolver(index, e.cfg.Anchor)
	extractor := value.NewExtractor(value.NewObservations(0))
	contextKey := fingerprint.ContextKey(batch.Hint.Edition, batch.Hint.Region, batch.Hint.Version, batch.Hint.Product)

	links := make(map[string]model.ConceptLink, len(batch.Links))
	for _, l := range batch.Links {
		links[l.AssertionID] = l
	}

	workers := e.cfg.Concurrency.Workers
	if workers <= 0 {
		workers = 8
	}

	outcomes := make([]outcome, len(batch.Assertions))
	var wg sync.WaitGroup
	semaphore := make(chan struct{}, workers)

	for i, a := range batch.Assertions {
		wg.Add(1)
		go func(idx int, a model.RawAssertion) {
			defer wg.Done()
			defer func() {
				if r := recover(); r != nil {
					outcomes[idx] = outcome{decision: model.PromotionDecision{
						Status: model.StatusRejected,
						Reason: model.ReasonInternalError,
						Detail: fmt.Sprintf("panic: %v", r),
					}}
				}
			}()

			// Never evaluated; the rule keeps these apart from
			// pipeline rejections in the audit trail
			cancelled := outcome{decision: model.PromotionDecision{
				Status: model.StatusRejected,
				Reason: model.ReasonInternalError,
				Rule:   "cancelled",
				Detail: "not evaluated: run cancelled before this assertion",
			}}
			if ctx.Err() != nil {
				outcomes[idx] = cancelled
				return
			}
			select {
			case <-ctx.Done():
				outcomes[idx] = cancelled
				return
			case semaphore <- struct{}{}:
			}
			defer func() { <-semaphore }()

			outcomes[idx] = e.processOne(index, resolver, extractor, links, batch, contextKey, a)
		}(i, a)
	}
	wg.Wait()

	report := &model.BatchReport{
		DocumentID:  batch.DocumentID,
		ProcessedAt: started,
		ByReason:    make(map[model.ReasonCode]int),
	}
	logger := audit.NewLogger()
	var infos []model.Information
	seen := make(map[string]bool)

	for i, a := range batch.Assertions {
		o := outcomes[i]
		if err := logger.Record(a.ID, o.decision); err != nil {
			// Malformed input: a later assertion reuses an id already
			// logged. The first entry stands; the reuse is tallied as an
			// internal error and the batch keeps going.
			report.Count(model.PromotionDecision{
				Status: model.StatusRejected,
				Reason: model.ReasonInternalError,
				Rule:   "audit",
				Detail: fmt.Sprintf("duplicate assertion id %s", a.ID),
			})
			continue
		}
		report.Count(o.decision)
		if o.info == nil {
			continue
		}
		// Same fingerprint, same record: restatements merge by id
		if seen[o.info.ID] {
			continue
		}
		seen[o.info.ID] = true
		infos = append(infos, *o.info)
	}
	report.Duration = time.Since(started)

	return &BatchResult{
		Report:      report,
		Information: infos,
		Log:         logger.Entries(),
	}, nil
}

// processOne runs the pipeline stages for one assertion. Stage order is
// fixed: filters before anchoring, anchoring before policy, so confidence
// can never rescue a structural failure.
func (e *Engine) processOne(
	index *spanindex.Index,
	resolver *anchor.Resolver,
	extractor *value.Extractor,
	links map[string]model.ConceptLink,
	batch *model.ExtractionBatch,
	contextKey string,
	a model.RawAssertion,
) outcome {
	if name, ok := e.meta.Match(a.Text, a.Language); ok {
		return outcome{decision: model.PromotionDecision{
			Status: model.StatusRejected,
			Reason: model.ReasonMetaPattern,
			Rule:   "meta:" + name,
		}}
	}

	if detail, frag := filter.IsFragment(a.Text, a.Language, e.cfg.Filter.MinAssertionLength); frag {
		return outcome{decision: model.PromotionDecision{
			Status: model.StatusRejected,
			Reason: model.ReasonFragmentNoPredicate,
			Rule:   "fragment",
			Detail: detail,
		}}
	}

	out := resolver.Resolve(a)
	if !out.Resolved() {
		return outcome{decision: model.PromotionDecision{
			Status: model.StatusRejected,
			Reason: out.Reason,
			Rule:   "anchor",
			Detail: out.Detail,
		}}
	}

	// The quote is reconstructed from the item text, never taken from
	// the extractor's wording
	quote, err := index.Quote(*out.Anchor)
	if err != nil {
		return outcome{decision: model.PromotionDecision{
			Status: model.StatusRejected,
			Reason: model.ReasonInternalError,
			Rule:   "anchor",
			Detail: fmt.Sprintf("quote reconstruction: %v", err),
		}}
	}

	item, _ := index.Item(out.Anchor.DocItemID)

	km := e.keys.Match(quote, batch.Hint)
	keyStr := ""
	if km != nil {
		keyStr = km.Key
	}

	v := extractor.Extract(quote, keyStr)

	link := links[a.ID]
	decision := e.policy.Evaluate(a, promote.Handles{
		ConceptID:   link.ConceptID,
		ThemeID:     link.ThemeID,
		SectionPath: item.SectionPath,
		HasClaimKey: km != nil,
		HasLink:     link.ConceptID != "" || link.ThemeID != "",
	})
	if !decision.Accepted() {
		return outcome{decision: decision}
	}

	fp := fingerprint.Compute(keyStr, v.Normalized, contextKey, item.Page, e.cfg.Fingerprint.Width)

	return outcome{
		decision: decision,
		info: &model.Information{
			ID:          "info_" + fp,
			DocumentID:  batch.DocumentID,
			ExactQuote:  quote,
			Anchor:      *out.Anchor,
			Page:        item.Page,
			SectionPath: item.SectionPath,
			ConceptID:   link.ConceptID,
			ThemeID:     link.ThemeID,
			Type:        a.Type,
			Value:       v,
			ClaimKey:    km,
			Fingerprint: fp,
			Status:      decision.Status,
			CreatedAt:   time.Now().UTC(),
		},
	}
}
