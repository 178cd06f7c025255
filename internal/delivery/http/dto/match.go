package dto

import (
	"opportunity-matcher/internal/domain/matching"
	"opportunity-matcher/internal/usecase"
)

type MatchResponse struct {
	Opportunity         OpportunityResponse `json:"opportunity"`
	MatchScore          float64             `json:"match_score"`
	Breakdown           matching.Breakdown  `json:"breakdown"`
	MatchedRequirements []string            `json:"matched_requirements"`
	MatchedTags         []string            `json:"matched_tags"`
}

type MatchListResponse struct {
	Matches []MatchResponse `json:"matches"`
}

type MatchSummaryResponse struct {
	Matches []MatchResponse `json:"matches"`
	Summary string          `json:"summary"`
}

func NewMatchList(results []usecase.MatchResult) MatchListResponse {
	return MatchListResponse{Matches: newMatches(results)}
}

func NewMatchSummary(s usecase.MatchSummary) MatchSummaryResponse {
	return MatchSummaryResponse{Matches: newMatches(s.Matches), Summary: s.Summary}
}

func newMatches(results []usecase.MatchResult) []MatchResponse {
	out := make([]MatchResponse, 0, len(results))
	for _, m := range results {
		out = append(out, MatchResponse{
			Opportunity:         NewOpportunityResponse(m.Opportunity),
			MatchScore:          m.MatchScore,
			Breakdown:           m.Breakdown,
			MatchedRequirements: nonNil(m.MatchedRequirements),
			MatchedTags:         nonNil(m.MatchedTags),
		})
	}
	return out
}
