package ingest

import (
	"fmt"
	"strings"

	"github.com/factline/factline/internal/model"
)

// Chunker assembles source items into extraction windows. Items are never
// split: a chunk closes when adding the next item would exceed the target,
// unless the chunk is still below the minimum. Oversized single items
// become their own chunk.
type Chunker struct {
	target int
	max    int
	min    int
}

// NewChunker creates a chunker, falling back to defaults for zero fields
func NewChunker(cfg model.ChunkingConfig) *Chunker {
	target := cfg.TargetChars
	if target <= 0 {
		target = 4000
	}
	max := cfg.MaxChars
	if max < target {
		max = target + target/2
	}
	min := cfg.MinChars
	if min <= 0 || min > target {
		min = target / 5
	}
	return &Chunker{target: target, max: max, min: min}
}

// Build groups items into chunks in document order
func (c *Chunker) Build(items []model.SourceItem) []model.Chunk {
	var chunks []model.Chunk
	var texts []string
	var ids []string
	size := 0

	flush := func() {
		if len(ids) == 0 {
			return
		}
		chunks = append(chunks, model.Chunk{
			ID:      fmt.Sprintf("chunk_%03d", len(chunks)+1),
			Text:    strings.Join(texts, "\n\n"),
			ItemIDs: ids,
		})
		texts, ids, size = nil, nil, 0
	}

	for _, it := range items {
		if it.Text == "" {
			continue
		}
		sep := 0
		if size > 0 {
			sep = 2 // joining separator
		}
		next := size + sep + len(it.Text)
		// Close at the target once the minimum is met; the max closes
		// unconditionally rather than overflow the window
		if size > 0 && (next > c.max || (next > c.target && size >= c.min)) {
			flush()
			sep = 0
		}
		texts = append(texts, it.Text)
		ids = append(ids, it.ID)
		size += sep + len(it.Text)
	}
	flush()
	return chunks
}
