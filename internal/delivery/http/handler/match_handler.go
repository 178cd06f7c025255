package handler

import (
	"github.com/gofiber/fiber/v3"

	"opportunity-matcher/internal/delivery/http/dto"
	"opportunity-matcher/internal/delivery/http/middleware"
	"opportunity-matcher/internal/pkg/response"
	"opportunity-matcher/internal/usecase"
)

const maxTopK = 50

type MatchDefaults struct {
	TopK     int
	MinScore float64
}

type MatchHandler struct {
	ranker   *usecase.Ranker
	summary  *usecase.SummaryService
	defaults MatchDefaults
}

func NewMatchHandler(ranker *usecase.Ranker, summary *usecase.SummaryService, defaults MatchDefaults) *MatchHandler {
	if defaults.TopK <= 0 {
		defaults.TopK = usecase.RecommendationTopK
	}
	return &MatchHandler{ranker: ranker, summary: summary, defaults: defaults}
}

func (h *MatchHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/opportunities/match")
	grp.Get("/:community/:username", h.Match)
	grp.Get("/:community/:username/summary", h.Summary)
}

func (h *MatchHandler) Match(c fiber.Ctx) error {
	topK, minScore, err := h.rankingParams(c)
	if err != nil {
		return err
	}

	matches := h.ranker.MatchOpportunities(c.Context(), c.Params("username"), c.Params("community"), topK)
	return response.OK(c, dto.NewMatchList(usecase.FilterByMinScore(matches, minScore)))
}

func (h *MatchHandler) Summary(c fiber.Ctx) error {
	topK, minScore, err := h.rankingParams(c)
	if err != nil {
		return err
	}

	s := h.summary.Summarize(c.Context(), c.Params("username"), c.Params("community"), topK, minScore)
	return response.OK(c, dto.NewMatchSummary(s))
}

func (h *MatchHandler) rankingParams(c fiber.Ctx) (int, float64, error) {
	topK, err := intQuery(c, "top_k", h.defaults.TopK)
	if err != nil {
		return 0, 0, err
	}
	if topK <= 0 || topK > maxTopK {
		return 0, 0, middleware.BadRequest("top_k must be between 1 and 50", nil)
	}
	minScore, err := floatQuery(c, "min_score", h.defaults.MinScore)
	if err != nil {
		return 0, 0, err
	}
	if minScore < 0 || minScore > 1 {
		return 0, 0, middleware.BadRequest("min_score must be between 0 and 1", nil)
	}
	return topK, minScore, nil
}
