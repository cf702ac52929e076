// Package promote applies the tier-based accept/hold/reject policy to
// anchored assertions.
//
// Each assertion type maps to exactly one tier. ALWAYS promotes once
// filtering and anchoring passed, regardless of confidence. CONDITIONAL and
// RARELY hold assertions back below their confidence thresholds. NEVER
// rejects outright. Advisory confidence never overrides a structural
// failure and never single-handedly rejects an ALWAYS-tier assertion.
package promote

import (
	"fmt"

	"github.com/factline/factline/internal/model"
)

// Handles are the navigation attributes an assertion can be reached by.
// An anchored assertion lacking all of them is promoted unlinked rather
// than silently dropped.
type Handles struct {
	ConceptID   string
	ThemeID     string
	SectionPath string
	HasClaimKey bool
	HasLink     bool // whether any concept association existed at all
}

// addressable reports whether at least one navigation handle is present
func (h Handles) addressable() bool {
	return h.ConceptID != "" || h.ThemeID != "" || h.SectionPath != "" || h.HasClaimKey
}

// Policy is the immutable tier map plus thresholds
type Policy struct {
	tiers          map[model.AssertionType]model.Tier
	conditionalMin float64
	rarelyMin      float64
}

// NewPolicy builds a policy from configuration, validating that the tier
// map is total: every assertion type has exactly one valid tier.
func NewPolicy(cfg model.PolicyConfig) (*Policy, error) {
	raw := cfg.Tiers
	if len(raw) == 0 {
		raw = model.DefaultTierMap()
	}

	tiers := make(map[model.AssertionType]model.Tier, len(raw))
	for typeStr, tierStr := range raw {
		t := model.AssertionType(typeStr)
		if !t.Valid() {
			return nil, fmt.Errorf("tier map: unknown assertion type %q", typeStr)
		}
		tier := model.Tier(tierStr)
		if !tier.Valid() {
			return nil, fmt.Errorf("tier map: unknown tier %q for type %q", tierStr, typeStr)
		}
		tiers[t] = tier
	}
	for _, t := range model.AssertionTypes() {
		if _, ok := tiers[t]; !ok {
			return nil, fmt.Errorf("tier map: assertion type %q has no tier", t)
		}
	}

	conditionalMin := cfg.ConditionalThreshold
	if conditionalMin <= 0 {
		conditionalMin = 0.70
	}
	rarelyMin := cfg.RarelyThreshold
	if rarelyMin <= 0 {
		rarelyMin = 0.90
	}

	return &Policy{
		tiers:          tiers,
		conditionalMin: conditionalMin,
		rarelyMin:      rarelyMin,
	}, nil
}

// Tier returns the tier for an assertion type
func (p *Policy) Tier(t model.AssertionType) model.Tier {
	return p.tiers[t]
}

// Evaluate decides the fate of an anchored, filter-passing assertion.
// It must only be called after anchoring succeeded: structural failures are
// decided upstream and confidence never overrides them.
func (p *Policy) Evaluate(a model.RawAssertion, h Handles) model.PromotionDecision {
	tier := p.tiers[a.Type]

	switch tier {
	case model.TierNever:
		return model.PromotionDecision{
			Status: model.StatusRejected,
			Reason: model.ReasonPolicyRejected,
			Rule:   "tier:never",
		}
	case model.TierConditional:
		if a.Confidence < p.conditionalMin {
			return model.PromotionDecision{
				Status: model.StatusAbstained,
				Reason: model.ReasonLowConfidence,
				Rule:   "tier:conditional",
				Detail: fmt.Sprintf("confidence %.2f below %.2f", a.Confidence, p.conditionalMin),
			}
		}
	case model.TierRarely:
		if a.Confidence < p.rarelyMin {
			return model.PromotionDecision{
				Status: model.StatusAbstained,
				Reason: model.ReasonLowConfidence,
				Rule:   "tier:rarely",
				Detail: fmt.Sprintf("confidence %.2f below %.2f", a.Confidence, p.rarelyMin),
			}
		}
	}

	rule := "tier:" + string(tier)

	if !h.addressable() {
		reason := model.ReasonPromotedUnlinked
		if !h.HasLink {
			reason = model.ReasonNoConceptMatch
		}
		return model.PromotionDecision{
			Status: model.StatusPromotedUnlinked,
			Reason: reason,
			Rule:   rule,
		}
	}

	return model.PromotionDecision{
		Status: model.StatusPromoted,
		Reason: model.ReasonPromoted,
		Rule:   rule,
	}
}
