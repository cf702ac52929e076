package model

import "time"

// ClaimKeyMatch is a wording-independent canonical key for a factual
// question, inferred from the pattern catalog
type ClaimKeyMatch struct {
	Key          string    `json:"key"`            // e.g. "sla.availability.default"
	Domain       string    `json:"domain"`         // e.g. "sla", "security", "backup"
	Question     string    `json:"question"`       // canonical question the fact answers
	ExpectedKind ValueKind `json:"expected_kind"`  // value kind the key expects
}

// DocumentHint carries document-level scoping attributes used for
// placeholder resolution and the fingerprint context key
type DocumentHint struct {
	Product string `json:"product,omitempty"`
	Edition string `json:"edition,omitempty"`
	Region  string `json:"region,omitempty"`
	Version string `json:"version,omitempty"`
}

// Information is a promoted, anchored, typed factual record.
// It is created once at promotion and never mutated; later merges happen in
// an external consolidation stage via equivalence pointers.
type Information struct {
	ID          string          `json:"id"`
	DocumentID  string          `json:"source_document_id"`
	ExactQuote  string          `json:"exact_quote"` // always reconstructed from the source item text
	Anchor      Anchor          `json:"anchor"`
	Page        int             `json:"page"`
	SectionPath string          `json:"section_path,omitempty"`
	ConceptID   string          `json:"concept_id,omitempty"`
	ThemeID     string          `json:"theme_id,omitempty"`
	Type        AssertionType   `json:"type"`
	Value       ValueInfo       `json:"value"`
	ClaimKey    *ClaimKeyMatch  `json:"claimkey,omitempty"`
	Fingerprint string          `json:"fingerprint"`
	Status      PromotionStatus `json:"status"`
	CreatedAt   time.Time       `json:"created_at"`
}
