package model

// SourceItem is an atomic structural unit of a document (paragraph, table,
// heading) with a stable id and verbatim text. Supplied by the structural
// layer; the engine only ever reads it.
type SourceItem struct {
	ID          string `json:"id"`
	Text        string `json:"text"`
	Page        int    `json:"page"`
	SectionPath string `json:"section_path,omitempty"`
}

// Chunk is an extraction window over one or more source items. Chunks exist
// only to scope the upstream extractor; anchors never point at them.
type Chunk struct {
	ID      string   `json:"id"`
	Text    string   `json:"text"`
	ItemIDs []string `json:"item_ids"` // source items the chunk was assembled from, in order
}

// ExtractionBatch is the document-scoped input handed to the engine:
// the structural layer's items and chunk table plus the extractor's
// candidate assertions and optional concept links.
type ExtractionBatch struct {
	DocumentID string         `json:"document_id"`
	Hint       DocumentHint   `json:"hint,omitempty"`
	Items      []SourceItem   `json:"items"`
	Chunks     []Chunk        `json:"chunks"`
	Assertions []RawAssertion `json:"assertions"`
	Links      []ConceptLink  `json:"links,omitempty"`
}
