// Package anchor maps a candidate assertion's chunk-relative text to a
// precise span inside exactly one source item, or reports a typed failure.
//
// Strategies escalate and stop at the first success:
//  1. exact substring search in the chunk's single item
//  2. retry with whitespace runs collapsed, offsets mapped back by linear
//     interpolation over string length
//  3. the same across all of the chunk's candidate items
//  4. edit-distance similarity against each candidate, with an acceptance
//     threshold and an ambiguity band below it
//  5. the full item set as a last resort when the chunk has no mapping
//
// Resolution is pure: no I/O, no retries, no clocks.
package anchor

import (
	"fmt"
	"strings"

	"github.com/factline/factline/internal/model"
	"github.com/factline/factline/internal/spanindex"
)

// ambiguityMargin is how close a runner-up similarity hit must be to the
// winner before the span is declared ambiguous rather than accepted.
const ambiguityMargin = 0.05

// Outcome is the result of span resolution: an anchor, or a typed reason
type Outcome struct {
	Anchor   *model.Anchor
	Reason   model.ReasonCode // empty on success
	Strategy string           // "exact", "whitespace", "similarity"
	Ratio    float64          // best similarity ratio, when strategy 4 ran
	Detail   string
}

// Resolved reports whether an anchor was produced
func (o Outcome) Resolved() bool {
	return o.Anchor != nil
}

// Resolver resolves assertion text to source-item spans
type Resolver struct {
	index        *spanindex.Index
	acceptRatio  float64
	ambiguousLow float64
}

// NewResolver creates a resolver over the given index.
// Zero config fields fall back to the default bands (0.85 accept, 0.30 low).
func NewResolver(index *spanindex.Index, cfg model.AnchorConfig) *Resolver {
	accept := cfg.AcceptRatio
	if accept <= 0 || accept > 1 {
		accept = 0.85
	}
	low := cfg.AmbiguousLow
	if low <= 0 || low >= accept {
		low = 0.30
	}
	return &Resolver{
		index:        index,
		acceptRatio:  accept,
		ambiguousLow: low,
	}
}

// Resolve maps an assertion to a span in exactly one source item
func (r *Resolver) Resolve(a model.RawAssertion) Outcome {
	text := strings.TrimSpace(a.Text)
	if text == "" {
		return Outcome{Reason: model.ReasonNoDocItemAnchor, Detail: "empty assertion text"}
	}

	candidates := r.index.ChunkItems(a.SourceChunkID)
	if len(candidates) > 0 {
		return r.resolveAgainst(text, candidates)
	}

	// Chunk has no mapping: last resort against the full item set
	out := r.resolveAgainst(text, r.index.AllItems())
	if out.Detail == "" {
		out.Detail = fmt.Sprintf("chunk %q unmapped, searched full item set", a.SourceChunkID)
	}
	return out
}

// resolveAgainst runs the escalation ladder over a fixed candidate set
func (r *Resolver) resolveAgainst(text string, candidates []model.SourceItem) Outcome {
	// Pass 1: exact substring, first hit wins
	for _, it := range candidates {
		if pos := strings.Index(it.Text, text); pos >= 0 {
			return Outcome{
				Anchor:   &model.Anchor{DocItemID: it.ID, SpanStart: pos, SpanEnd: pos + len(text)},
				Strategy: "exact",
			}
		}
	}

	// Pass 2: collapse whitespace runs in both strings, map the match
	// position back to original offsets by linear interpolation
	needle := collapseWhitespace(text)
	if needle != "" {
		for _, it := range candidates {
			hay := collapseWhitespace(it.Text)
			pos := strings.Index(hay, needle)
			if pos < 0 {
				continue
			}
			start := interpolate(pos, len(hay), len(it.Text))
			end := interpolate(pos+len(needle), len(hay), len(it.Text))
			if end > len(it.Text) {
				end = len(it.Text)
			}
			if start >= end {
				continue
			}
			return Outcome{
				Anchor: &model.Anchor{
					DocItemID:   it.ID,
					SpanStart:   start,
					SpanEnd:     end,
					Approximate: true,
				},
				Strategy: "whitespace",
			}
		}
	}

	// Pass 3: similarity ratio against each candidate's best window
	type hit struct {
		item       model.SourceItem
		ratio      float64
		start, end int
	}
	var best, second hit
	best.ratio, second.ratio = -1, -1
	for _, it := range candidates {
		if it.Text == "" {
			continue
		}
		ratio, start, end := bestWindow(text, it.Text)
		if ratio > best.ratio {
			second = best
			best = hit{item: it, ratio: ratio, start: start, end: end}
		} else if ratio > second.ratio {
			second = hit{item: it, ratio: ratio, start: start, end: end}
		}
	}

	switch {
	case best.ratio >= r.acceptRatio:
		// Two near-equal winners in different items: refusing to pick is
		// safer than anchoring the quote to the wrong one
		if second.ratio >= r.acceptRatio &&
			best.ratio-second.ratio < ambiguityMargin &&
			second.item.ID != best.item.ID {
			return Outcome{
				Reason: model.ReasonAmbiguousSpan,
				Ratio:  best.ratio,
				Detail: fmt.Sprintf("items %q and %q both match at %.2f/%.2f", best.item.ID, second.item.ID, best.ratio, second.ratio),
			}
		}
		return Outcome{
			Anchor: &model.Anchor{
				DocItemID:   best.item.ID,
				SpanStart:   best.start,
				SpanEnd:     best.end,
				Approximate: true,
			},
			Strategy: "similarity",
			Ratio:    best.ratio,
		}
	case best.ratio >= r.ambiguousLow:
		// Likely straddles multiple items; do not silently accept
		return Outcome{
			Reason: model.ReasonCrossDocItem,
			Ratio:  best.ratio,
			Detail: fmt.Sprintf("best ratio %.2f in ambiguity band [%.2f, %.2f)", best.ratio, r.ambiguousLow, r.acceptRatio),
		}
	default:
		return Outcome{
			Reason: model.ReasonNoDocItemAnchor,
			Ratio:  best.ratio,
		}
	}
}

// interpolate maps a position in the collapsed string back to the original
// by scaling over the two string lengths
func interpolate(pos, collapsedLen, originalLen int) int {
	if collapsedLen <= 0 {
		return 0
	}
	mapped := pos * originalLen / collapsedLen
	if mapped < 0 {
		return 0
	}
	if mapped > originalLen {
		return originalLen
	}
	return mapped
}
