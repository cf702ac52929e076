package model

import "time"

// BatchReport summarizes one document-scoped engine run
type BatchReport struct {
	DocumentID  string             `json:"document_id"`
	ProcessedAt time.Time          `json:"processed_at"`
	Duration    time.Duration      `json:"duration_ns"`
	Total       int                `json:"total_assertions"`
	Promoted    int                `json:"promoted"`
	Unlinked    int                `json:"promoted_unlinked"`
	Abstained   int                `json:"abstained"`
	Rejected    int                `json:"rejected"`
	ByReason    map[ReasonCode]int `json:"by_reason"`
}

// Count registers one decision in the report tallies
func (r *BatchReport) Count(d PromotionDecision) {
	r.Total++
	switch d.Status {
	case StatusPromoted:
		r.Promoted++
	case StatusPromotedUnlinked:
		r.Unlinked++
	case StatusAbstained:
		r.Abstained++
	case StatusRejected:
		r.Rejected++
	}
	if r.ByReason == nil {
		r.ByReason = make(map[ReasonCode]int)
	}
	r.ByReason[d.Reason]++
}
