package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// TextGenerator turns a prompt into text. Implementations call an external
// model and may be slow or unavailable.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type MatchSummary struct {
	Matches []MatchResult
	Summary string
}

type SummaryService struct {
	ranker    *Ranker
	generator TextGenerator
	logger    zerolog.Logger
}

func NewSummaryService(ranker *Ranker, generator TextGenerator, logger zerolog.Logger) *SummaryService {
	return &SummaryService{ranker: ranker, generator: generator, logger: logger}
}

// Summarize ranks the community for username and asks the generator for a
// short explanation. The summary is empty when there is nothing to
// summarize or generation failed; the ranked matches are returned anyway.
func (s *SummaryService) Summarize(ctx context.Context, username, community string, topK int, minScore float64) MatchSummary {
	matches := FilterByMinScore(s.ranker.MatchOpportunities(ctx, username, community, topK), minScore)
	out := MatchSummary{Matches: matches}
	if len(matches) == 0 || s.generator == nil {
		return out
	}

	text, err := s.generator.Generate(ctx, BuildSummaryPrompt(username, community, matches))
	if err != nil {
		s.logger.Warn().Err(err).Str("op", "match_summary").Str("username", username).Str("community", community).Msg("summary generation failed")
		return out
	}
	out.Summary = strings.TrimSpace(text)
	return out
}

func BuildSummaryPrompt(username, community string, matches []MatchResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Summarize in two or three short bullet points why these opportunities in the %q community suit %s:\n\n", community, username)
	for i, m := range matches {
		fmt.Fprintf(&b, "%d. %s (%s) score %.3f", i+1, m.Opportunity.Title, m.Opportunity.Category, m.MatchScore)
		if len(m.MatchedRequirements) > 0 {
			fmt.Fprintf(&b, "; skills: %s", strings.Join(m.MatchedRequirements, ", "))
		}
		if len(m.MatchedTags) > 0 {
			fmt.Fprintf(&b, "; interests: %s", strings.Join(m.MatchedTags, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
