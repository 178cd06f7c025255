package dto

import (
	"time"

	"opportunity-matcher/internal/domain/opportunity"
)

type OpportunityResponse struct {
	ID           string         `json:"id"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Category     string         `json:"category"`
	Tags         []string       `json:"tags"`
	Requirements []string       `json:"requirements"`
	Deadline     *string        `json:"deadline"`
	PostedBy     *string        `json:"posted_by"`
	Metadata     map[string]any `json:"metadata"`
	CreatedAt    time.Time      `json:"created_at"`
	Status       string         `json:"status"`
}

type OpportunityListResponse struct {
	Opportunities []OpportunityResponse `json:"opportunities"`
}

type CreateOpportunityResponse struct {
	OK            bool   `json:"ok"`
	OpportunityID string `json:"opportunity_id,omitempty"`
	Error         string `json:"error,omitempty"`
}

func NewOpportunityResponse(o opportunity.Opportunity) OpportunityResponse {
	md := o.Metadata
	if md == nil {
		md = map[string]any{}
	}
	return OpportunityResponse{
		ID:           o.ID,
		Title:        o.Title,
		Description:  o.Description,
		Category:     o.Category,
		Tags:         nonNil(o.Tags),
		Requirements: nonNil(o.Requirements),
		Deadline:     o.Deadline,
		PostedBy:     o.PostedBy,
		Metadata:     md,
		CreatedAt:    o.CreatedAt,
		Status:       string(o.Status),
	}
}

func NewOpportunityList(items []opportunity.Opportunity) OpportunityListResponse {
	out := OpportunityListResponse{Opportunities: make([]OpportunityResponse, 0, len(items))}
	for _, o := range items {
		out.Opportunities = append(out.Opportunities, NewOpportunityResponse(o))
	}
	return out
}
