package model

// AssertionType categorizes the nature of a candidate assertion
type AssertionType string

const (
	AssertionDefinitional AssertionType = "definitional" // "X is defined as Y"
	AssertionPrescriptive AssertionType = "prescriptive" // "X must/shall Y"
	AssertionFactual      AssertionType = "factual"      // "X is Y"
	AssertionPermissive   AssertionType = "permissive"   // "X may Y"
	AssertionConditional  AssertionType = "conditional"  // "If X then Y"
	AssertionCausal       AssertionType = "causal"       // "X because Y"
	AssertionComparative  AssertionType = "comparative"  // "X is better/larger than Y"
	AssertionProcedural   AssertionType = "procedural"   // "To X, do Y"
)

// AssertionTypes returns all known assertion types in a stable order
func AssertionTypes() []AssertionType {
	return []AssertionType{
		AssertionDefinitional,
		AssertionPrescriptive,
		AssertionFactual,
		AssertionPermissive,
		AssertionConditional,
		AssertionCausal,
		AssertionComparative,
		AssertionProcedural,
	}
}

// Valid reports whether t is a known assertion type
func (t AssertionType) Valid() bool {
	for _, known := range AssertionTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// RawAssertion is a candidate statement proposed by the upstream extractor.
// It is immutable input: the engine consumes it once and never persists it.
type RawAssertion struct {
	ID            string        `json:"id"`
	Text          string        `json:"text"`
	Type          AssertionType `json:"type"`
	SourceChunkID string        `json:"source_chunk_id"`
	CharStart     int           `json:"char_start"`               // chunk-relative, advisory
	CharEnd       int           `json:"char_end"`                 // chunk-relative, advisory
	Confidence    float64       `json:"advisory_confidence"`      // extractor's self-estimate, 0.0-1.0
	Language      string        `json:"language,omitempty"`       // BCP-47-ish short tag ("en", "de")
}

// ConceptLink is an optional association between an assertion and a
// concept/theme produced by the upstream linker
type ConceptLink struct {
	AssertionID string  `json:"assertion_id"`
	ConceptID   string  `json:"concept_id,omitempty"`
	ThemeID     string  `json:"theme_id,omitempty"`
	Confidence  float64 `json:"link_confidence,omitempty"`
}
