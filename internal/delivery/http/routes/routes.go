package routes

import (
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog"

	"opportunity-matcher/internal/config"
	"opportunity-matcher/internal/delivery/http/handler"
	"opportunity-matcher/internal/delivery/http/middleware"
	"opportunity-matcher/internal/domain/catalog"
	"opportunity-matcher/internal/pkg/jwt"
	"opportunity-matcher/internal/usecase"
	"opportunity-matcher/internal/ws"
)

type Deps struct {
	Config        config.Config
	Logger        zerolog.Logger
	Stats         *usecase.Stats
	Catalog       *catalog.Catalog
	Profiles      *usecase.ProfileService
	Opportunities *usecase.OpportunityService
	Ranker        *usecase.Ranker
	Summary       *usecase.SummaryService
	Hub           *ws.Hub
	// JWT is nil when auth is disabled.
	JWT jwt.Service
}

type Registry struct {
	health        *handler.HealthHandler
	profiles      *handler.ProfileHandler
	opportunities *handler.OpportunityHandler
	matches       *handler.MatchHandler
	catalog       *handler.CatalogHandler
	ws            *ws.Handler
	auth          *middleware.AuthMiddleware
}

func NewRegistry(d Deps) *Registry {
	return &Registry{
		health:        handler.NewHealthHandler(d.Stats, d.Config.Store.Driver),
		profiles:      handler.NewProfileHandler(d.Profiles),
		opportunities: handler.NewOpportunityHandler(d.Opportunities),
		matches: handler.NewMatchHandler(d.Ranker, d.Summary, handler.MatchDefaults{
			TopK:     d.Config.Match.RecommendTopK,
			MinScore: d.Config.Match.DefaultMinScore,
		}),
		catalog: handler.NewCatalogHandler(d.Ranker, d.Catalog, handler.CatalogDefaults{
			TopN:     d.Config.Match.CatalogTopN,
			MinScore: d.Config.Match.CatalogMinScore,
		}),
		ws:   ws.NewHandler(d.Hub, d.Logger.With().Str("component", "ws").Logger()),
		auth: middleware.NewAuthMiddleware(d.JWT),
	}
}

func (r *Registry) Register(app *fiber.App) {
	if app == nil {
		return
	}

	r.health.RegisterRoutes(app)
	r.ws.RegisterRoutes(app)
	r.registerV1(app.Group("/api/v1"))
}

func (r *Registry) registerV1(v1 fiber.Router) {
	auth := r.auth.Middleware()

	r.matches.RegisterRoutes(v1)
	r.profiles.RegisterRoutes(v1, auth)
	r.opportunities.RegisterRoutes(v1, auth)
	r.catalog.RegisterRoutes(v1)
}
