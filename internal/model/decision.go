package model

import "time"

// PromotionStatus is the outcome bucket of policy evaluation
type PromotionStatus string

const (
	StatusPromoted         PromotionStatus = "promoted"
	StatusPromotedUnlinked PromotionStatus = "promoted_unlinked" // accepted without a navigation handle
	StatusAbstained        PromotionStatus = "abstained"         // held back, may be retried later
	StatusRejected         PromotionStatus = "rejected"
)

// ReasonCode explains why a decision landed where it did.
// Business-rule outcomes are always typed reasons, never errors.
type ReasonCode string

const (
	ReasonPromoted            ReasonCode = "promoted"
	ReasonPromotedUnlinked    ReasonCode = "promoted_unlinked"
	ReasonLowConfidence       ReasonCode = "low_confidence"
	ReasonPolicyRejected      ReasonCode = "policy_rejected"
	ReasonNoConceptMatch      ReasonCode = "no_concept_match"
	ReasonNoDocItemAnchor     ReasonCode = "no_docitem_anchor"
	ReasonAmbiguousSpan       ReasonCode = "ambiguous_span"
	ReasonCrossDocItem        ReasonCode = "cross_docitem"
	ReasonMetaPattern         ReasonCode = "meta_pattern"
	ReasonFragmentNoPredicate ReasonCode = "fragment_no_predicate"
	ReasonInternalError       ReasonCode = "internal_error"
)

// Tier is the promotion policy bucket for an assertion type
type Tier string

const (
	TierAlways      Tier = "always"      // promote regardless of confidence
	TierConditional Tier = "conditional" // promote when confidence >= conditional threshold
	TierRarely      Tier = "rarely"      // promote when confidence >= rarely threshold
	TierNever       Tier = "never"       // always reject
)

// Valid reports whether t is a known tier
func (t Tier) Valid() bool {
	switch t {
	case TierAlways, TierConditional, TierRarely, TierNever:
		return true
	}
	return false
}

// PromotionDecision is the computed outcome for a single RawAssertion
type PromotionDecision struct {
	Status PromotionStatus `json:"status"`
	Reason ReasonCode      `json:"reason"`
	Rule   string          `json:"rule,omitempty"`   // which rule fired (e.g. "tier:always")
	Detail string          `json:"detail,omitempty"` // free-form diagnostics
}

// Accepted reports whether the decision admits the assertion as knowledge
func (d PromotionDecision) Accepted() bool {
	return d.Status == StatusPromoted || d.Status == StatusPromotedUnlinked
}

// AssertionLogEntry is the append-only audit record.
// Exactly one entry exists per consumed RawAssertion.
type AssertionLogEntry struct {
	ID          string          `json:"id"`
	AssertionID string          `json:"assertion_id"`
	Status      PromotionStatus `json:"status"`
	Reason      ReasonCode      `json:"reason"`
	Rule        string          `json:"rule,omitempty"`
	Detail      string          `json:"detail,omitempty"`
	Timestamp   time.Time       `json:"timestamp"`
}
