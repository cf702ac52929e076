package model

// Anchor is the proof of provenance for a promoted fact: a pointer to
// exactly one source item plus a character span into that item's own text.
// Anchors never reference chunks.
type Anchor struct {
	DocItemID   string `json:"docitem_id"`
	SpanStart   int    `json:"span_start"`
	SpanEnd     int    `json:"span_end"`
	Approximate bool   `json:"approximate,omitempty"` // accepted via similarity, not exact match
}

// ValidFor reports whether the span satisfies 0 <= start < end <= textLen
func (a Anchor) ValidFor(textLen int) bool {
	return a.SpanStart >= 0 && a.SpanStart < a.SpanEnd && a.SpanEnd <= textLen
}
