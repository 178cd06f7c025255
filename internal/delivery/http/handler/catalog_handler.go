package handler

import (
	"github.com/gofiber/fiber/v3"

	"opportunity-matcher/internal/delivery/http/dto"
	"opportunity-matcher/internal/delivery/http/middleware"
	"opportunity-matcher/internal/domain/catalog"
	"opportunity-matcher/internal/domain/profile"
	"opportunity-matcher/internal/pkg/response"
	"opportunity-matcher/internal/usecase"
)

type CatalogDefaults struct {
	TopN     int
	MinScore int
}

type CatalogHandler struct {
	ranker   *usecase.Ranker
	catalog  *catalog.Catalog
	defaults CatalogDefaults
}

type catalogProfileRequest struct {
	Username  string   `json:"username"`
	Skills    []string `json:"skills"`
	Interests []string `json:"interests"`
	Tags      []string `json:"tags"`
	Bio       string   `json:"bio"`
}

type catalogRecommendationsRequest struct {
	Profile  catalogProfileRequest `json:"profile"`
	TopN     *int                  `json:"top_n"`
	MinScore *int                  `json:"min_score"`
}

type catalogStatsRequest struct {
	Profile catalogProfileRequest `json:"profile"`
}

func NewCatalogHandler(ranker *usecase.Ranker, cat *catalog.Catalog, defaults CatalogDefaults) *CatalogHandler {
	if defaults.TopN <= 0 {
		defaults.TopN = usecase.DefaultCatalogTopN
	}
	return &CatalogHandler{ranker: ranker, catalog: cat, defaults: defaults}
}

func (h *CatalogHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	grp := r.Group("/catalog")
	grp.Get("/", h.List)
	grp.Post("/recommendations", h.Recommendations)
	grp.Post("/stats", h.Stats)
}

func (h *CatalogHandler) List(c fiber.Ctx) error {
	return response.OK(c, dto.CatalogTemplatesResponse{Templates: h.catalog.Templates()})
}

func (h *CatalogHandler) Recommendations(c fiber.Ctx) error {
	var req catalogRecommendationsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.BadRequest("Bad request", err)
	}

	topN := h.defaults.TopN
	if req.TopN != nil {
		topN = *req.TopN
	}
	if topN <= 0 {
		return middleware.BadRequest("top_n must be positive", nil)
	}
	minScore := h.defaults.MinScore
	if req.MinScore != nil {
		minScore = *req.MinScore
	}
	if minScore < 0 || minScore > 100 {
		return middleware.BadRequest("min_score must be between 0 and 100", nil)
	}

	items := h.ranker.PersonalizedOpportunities(req.Profile.toProfile(), topN, minScore)
	return response.OK(c, dto.NewCatalogRecommendations(items))
}

func (h *CatalogHandler) Stats(c fiber.Ctx) error {
	var req catalogStatsRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.BadRequest("Bad request", err)
	}
	return response.OK(c, dto.NewCatalogStats(h.ranker.CatalogStats(req.Profile.toProfile())))
}

func (r catalogProfileRequest) toProfile() profile.UserProfile {
	return profile.UserProfile{
		Username:  r.Username,
		Skills:    r.Skills,
		Interests: r.Interests,
		Tags:      r.Tags,
		Bio:       r.Bio,
	}
}
