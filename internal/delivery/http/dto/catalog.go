package dto

import (
	"opportunity-matcher/internal/domain/opportunity"
	"opportunity-matcher/internal/usecase"
)

type CatalogMatchResponse struct {
	Title       string   `json:"title"`
	Type        string   `json:"type"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Company     string   `json:"company"`
	Match       int      `json:"match"`
	Urgency     string   `json:"urgency"`
	UrgencyIcon string   `json:"urgency_icon"`
	UrgencyDays int      `json:"urgency_days"`
	MatchedTags []string `json:"matched_tags"`
}

type CatalogRecommendationsResponse struct {
	Opportunities []CatalogMatchResponse `json:"opportunities"`
}

type CatalogStatsResponse struct {
	Total       int `json:"total"`
	HighMatch   int `json:"high_match"`
	MediumMatch int `json:"medium_match"`
	Urgent      int `json:"urgent"`
}

type CatalogTemplatesResponse struct {
	Templates []opportunity.Template `json:"templates"`
}

func NewCatalogRecommendations(items []usecase.CatalogMatch) CatalogRecommendationsResponse {
	out := CatalogRecommendationsResponse{Opportunities: make([]CatalogMatchResponse, 0, len(items))}
	for _, m := range items {
		out.Opportunities = append(out.Opportunities, CatalogMatchResponse{
			Title:       m.Title,
			Type:        m.Type,
			Category:    m.Category,
			Description: m.Description,
			Company:     m.Company,
			Match:       m.Match,
			Urgency:     m.Urgency,
			UrgencyIcon: m.UrgencyIcon,
			UrgencyDays: m.UrgencyDays,
			MatchedTags: nonNil(m.MatchedTags),
		})
	}
	return out
}

func NewCatalogStats(s usecase.CatalogStats) CatalogStatsResponse {
	return CatalogStatsResponse{
		Total:       s.Total,
		HighMatch:   s.HighMatch,
		MediumMatch: s.MediumMatch,
		Urgent:      s.Urgent,
	}
}
