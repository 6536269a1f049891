package vaccine

import "time"

// Plan accumulates a vaccine and the recommendations to link to it.
// It holds every input of the unit of work, so no prompt happens while the
// transaction is open.
type Plan struct {
	vaccine VaccineInput
	links   []pendingLink
}

type pendingLink struct {
	// recommendation is inserted before the link; nil links an existing one.
	recommendation   *RecommendationInput
	recommendationID *int64
	appliedOn        *time.Time
}

// NewPlan starts a plan for v.
func NewPlan(v VaccineInput) *Plan {
	return &Plan{vaccine: v}
}

// AddRecommendation queues a new recommendation and its link to the vaccine.
func (p *Plan) AddRecommendation(r RecommendationInput, appliedOn *time.Time) *Plan {
	p.links = append(p.links, pendingLink{recommendation: &r, recommendationID: r.ID, appliedOn: appliedOn})
	return p
}

// LinkRecommendation queues a link to an already registered recommendation.
func (p *Plan) LinkRecommendation(id *int64, appliedOn *time.Time) *Plan {
	p.links = append(p.links, pendingLink{recommendationID: id, appliedOn: appliedOn})
	return p
}

// Vaccine returns the vaccine the plan inserts.
func (p *Plan) Vaccine() VaccineInput {
	return p.vaccine
}

// Len returns the number of queued links.
func (p *Plan) Len() int {
	return len(p.links)
}
