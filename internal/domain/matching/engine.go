package matching

import (
	"math"
	"strings"

	"opportunity-matcher/internal/domain/activity"
	"opportunity-matcher/internal/domain/opportunity"
	"opportunity-matcher/internal/domain/profile"
)

const (
	WeightSkills    = 0.40
	WeightInterests = 0.30
	WeightActivity  = 0.20
	WeightBio       = 0.10

	// ActivityWindow is how many of the newest activity records feed the
	// activity similarity term.
	ActivityWindow = 20
)

// Breakdown holds each weighted contribution. The four terms sum to the
// unclamped score.
type Breakdown struct {
	Skills    float64 `json:"skills"`
	Interests float64 `json:"interests"`
	Activity  float64 `json:"activity"`
	Bio       float64 `json:"bio"`
}

type Result struct {
	Score               float64
	Breakdown           Breakdown
	MatchedRequirements []string
	MatchedTags         []string
}

// Calculate scores an opportunity against a profile and its recent activity.
// Components without data on the opportunity side contribute zero; their
// weight is not redistributed. The result is always within [0, 1].
func Calculate(opp opportunity.Opportunity, p profile.UserProfile, recent []activity.Record) Result {
	requirements := lowerSet(opp.Requirements)
	tags := lowerSet(opp.Tags)
	skills := lowerLookup(p.Skills)
	interests := lowerLookup(p.Interests)
	description := strings.ToLower(opp.Description)

	var b Breakdown
	matchedReqs := make([]string, 0)
	matchedTags := make([]string, 0)

	if len(requirements) > 0 {
		for _, r := range requirements {
			if _, ok := skills[r]; ok {
				matchedReqs = append(matchedReqs, r)
			}
		}
		b.Skills = ratio(len(matchedReqs), len(requirements)) * WeightSkills
	}

	if len(tags) > 0 {
		for _, t := range tags {
			if _, ok := interests[t]; ok {
				matchedTags = append(matchedTags, t)
			}
		}
		b.Interests = ratio(len(matchedTags), len(tags)) * WeightInterests
	}

	if len(recent) > 0 {
		text := strings.ToLower(strings.Join(activity.LastContents(recent, ActivityWindow), " "))
		b.Activity = SimilarityRatio(text, description) * WeightActivity
	}

	if bio := strings.ToLower(p.Bio); bio != "" {
		b.Bio = SimilarityRatio(bio, description) * WeightBio
	}

	total := b.Skills + b.Interests + b.Activity + b.Bio

	return Result{
		Score:               clampFloat(total, 0, 1),
		Breakdown:           b,
		MatchedRequirements: matchedReqs,
		MatchedTags:         matchedTags,
	}
}

// RoundScore rounds a dynamic score to three decimals for presentation.
func RoundScore(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func lowerSet(values []string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func lowerLookup(values []string) map[string]struct{} {
	set := lowerSet(values)
	m := make(map[string]struct{}, len(set))
	for _, v := range set {
		m[v] = struct{}{}
	}
	return m
}

func ratio(n, d int) float64 {
	if d <= 0 {
		return 0
	}
	r := float64(n) / float64(d)
	if r > 1 {
		return 1
	}
	return r
}

func clampFloat(v, minV, maxV float64) float64 {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func clampInt(v, minV, maxV int) int {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}
