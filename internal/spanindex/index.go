// Package spanindex provides read-only lookup of source-item text and the
// chunk -> source-item association table supplied by the structural layer.
package spanindex

import (
	"fmt"

	"github.com/factline/factline/internal/model"
)

// Index is an immutable view over a document's source items and chunks.
// Construct it once per document and share it freely across workers.
type Index struct {
	items   map[string]model.SourceItem
	order   []string
	chunks  map[string][]string
}

// New builds an index from the structural layer's items and chunk table.
// Item order is preserved for full-set fallback scans.
func New(items []model.SourceItem, chunks []model.Chunk) *Index {
	idx := &Index{
		items:  make(map[string]model.SourceItem, len(items)),
		order:  make([]string, 0, len(items)),
		chunks: make(map[string][]string, len(chunks)),
	}
	for _, it := range items {
		if _, dup := idx.items[it.ID]; dup {
			continue
		}
		idx.items[it.ID] = it
		idx.order = append(idx.order, it.ID)
	}
	for _, c := range chunks {
		ids := make([]string, 0, len(c.ItemIDs))
		for _, id := range c.ItemIDs {
			if _, ok := idx.items[id]; ok {
				ids = append(ids, id)
			}
		}
		idx.chunks[c.ID] = ids
	}
	return idx
}

// Item returns the source item with the given id
func (x *Index) Item(id string) (model.SourceItem, bool) {
	it, ok := x.items[id]
	return it, ok
}

// ChunkItems returns the source items a chunk was assembled from, in order.
// An unknown chunk id returns nil.
func (x *Index) ChunkItems(chunkID string) []model.SourceItem {
	ids, ok := x.chunks[chunkID]
	if !ok {
		return nil
	}
	items := make([]model.SourceItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, x.items[id])
	}
	return items
}

// AllItems returns every source item in document order
func (x *Index) AllItems() []model.SourceItem {
	items := make([]model.SourceItem, 0, len(x.order))
	for _, id := range x.order {
		items = append(items, x.items[id])
	}
	return items
}

// Len returns the number of source items
func (x *Index) Len() int {
	return len(x.order)
}

// Quote reconstructs the verbatim substring an anchor points at.
// This is the only sanctioned way to obtain an exact_quote: quotes are
// always rebuilt from the stored item text, never taken from the extractor.
func (x *Index) Quote(a model.Anchor) (string, error) {
	it, ok := x.items[a.DocItemID]
	if !ok {
		return "", fmt.Errorf("unknown source item %q", a.DocItemID)
	}
	if !a.ValidFor(len(it.Text)) {
		return "", fmt.Errorf("span [%d,%d) out of bounds for item %q (len %d)",
			a.SpanStart, a.SpanEnd, a.DocItemID, len(it.Text))
	}
	return it.Text[a.SpanStart:a.SpanEnd], nil
}
