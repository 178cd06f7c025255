package matching

import (
	"math"
	"strings"

	"opportunity-matcher/internal/domain/opportunity"
	"opportunity-matcher/internal/domain/profile"
)

const (
	CatalogWeightTags      = 50
	CatalogWeightSkills    = 25
	CatalogWeightInterests = 15
	CatalogWeightBio       = 10
)

type CatalogResult struct {
	// Score is the pre-jitter percentage in [0, 100].
	Score       int
	MaxScore    int
	MatchedTags []string
}

// CalculateCatalog is the tag-weighted scorer used for catalog templates.
// Only applicable components add their weight to MaxScore, so the
// percentage is renormalized across whatever the template declares. A
// template with no applicable component scores 0.
func CalculateCatalog(p profile.UserProfile, t opportunity.Template) CatalogResult {
	userTags := lowerSet(p.Tags)
	userSkills := lowerSet(p.Skills)
	userInterests := lowerSet(p.Interests)
	bio := strings.ToLower(p.Bio)

	oppTags := lowerSet(t.Tags)
	oppSkills := lowerSet(t.Skills)
	oppInterests := lowerSet(t.Interests)

	var score float64
	maxScore := 0
	matchedTags := make([]string, 0)

	if len(oppTags) > 0 && len(userTags) > 0 {
		maxScore += CatalogWeightTags
		oppTagSet := make(map[string]struct{}, len(oppTags))
		for _, tag := range oppTags {
			oppTagSet[tag] = struct{}{}
		}
		for _, tag := range userTags {
			if _, ok := oppTagSet[tag]; ok {
				matchedTags = append(matchedTags, tag)
			}
		}
		score += ratio(len(matchedTags), len(oppTags)) * CatalogWeightTags
	}

	if len(oppSkills) > 0 {
		maxScore += CatalogWeightSkills
		score += ratio(countLooseMatches(userSkills, oppSkills), len(oppSkills)) * CatalogWeightSkills
	}

	if len(oppInterests) > 0 {
		maxScore += CatalogWeightInterests
		score += ratio(countLooseMatches(userInterests, oppInterests), len(oppInterests)) * CatalogWeightInterests
	}

	if bio != "" && len(oppTags) > 0 {
		maxScore += CatalogWeightBio
		hits := 0
		for _, tag := range oppTags {
			if strings.Contains(bio, tag) {
				hits++
			}
		}
		score += ratio(hits, len(oppTags)) * CatalogWeightBio
	}

	if maxScore == 0 {
		return CatalogResult{Score: 0, MaxScore: 0, MatchedTags: matchedTags}
	}

	pct := int(math.Round(score / float64(maxScore) * 100))
	return CatalogResult{
		Score:       clampInt(pct, 0, 100),
		MaxScore:    maxScore,
		MatchedTags: matchedTags,
	}
}

// countLooseMatches counts user values that contain, or are contained in,
// any of the candidate values.
func countLooseMatches(user, candidates []string) int {
	n := 0
	for _, u := range user {
		for _, c := range candidates {
			if strings.Contains(c, u) || strings.Contains(u, c) {
				n++
				break
			}
		}
	}
	return n
}
