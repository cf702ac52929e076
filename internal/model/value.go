package model

// ValueKind classifies the typed value extracted from an assertion
type ValueKind string

const (
	ValuePercent ValueKind = "percent"
	ValueVersion ValueKind = "version"
	ValueNumber  ValueKind = "number" // numeric token with a recognized unit
	ValueBoolean ValueKind = "boolean"
	ValueEnum    ValueKind = "enum"
	ValueNone    ValueKind = "none"
)

// Operator is the comparison semantics attached to a value
type Operator string

const (
	OpEqual       Operator = "="
	OpAtLeast     Operator = ">="
	OpAtMost      Operator = "<="
	OpMoreThan    Operator = ">"
	OpLessThan    Operator = "<"
	OpApproximate Operator = "~"
)

// Comparability grades how safely two values under the same key can be compared
type Comparability string

const (
	CompareStrict        Comparability = "strict"         // kind, unit and operator stable under this key
	CompareLoose         Comparability = "loose"          // kind known but units/operators vary
	CompareNonComparable Comparability = "non_comparable" // no structured value found
)

// ValueInfo is the normalized, comparable value derived from an assertion.
// Normalized is the canonical textual form used for fingerprinting
// (e.g. "0.9995" for 99.95%, "1.2" for TLS 1.2, "true"/"false", an enum token).
type ValueInfo struct {
	Kind       ValueKind     `json:"kind"`
	Raw        string        `json:"raw,omitempty"`        // verbatim matched token(s)
	Normalized string        `json:"normalized,omitempty"` // canonical comparable form
	Numeric    *float64      `json:"numeric,omitempty"`    // set for percent/number kinds
	Unit       string        `json:"unit,omitempty"`       // base unit after conversion ("s", "byte", "eur")
	Operator   Operator      `json:"operator"`
	Comparable Comparability `json:"comparable"`
}

// NoValue is the ValueInfo for assertions without a structured value
func NoValue() ValueInfo {
	return ValueInfo{Kind: ValueNone, Operator: OpEqual, Comparable: CompareNonComparable}
}
