package handler

import (
	"github.com/gofiber/fiber/v3"

	"opportunity-matcher/internal/delivery/http/dto"
	"opportunity-matcher/internal/pkg/response"
	"opportunity-matcher/internal/usecase"
)

type HealthHandler struct {
	stats *usecase.Stats
	store string
}

func NewHealthHandler(stats *usecase.Stats, store string) *HealthHandler {
	return &HealthHandler{stats: stats, store: store}
}

func (h *HealthHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}
	r.Get("/health", h.Health)
}

// Health always answers 200; store failures degrade results rather than
// take the service down, so they show up in Degraded instead.
func (h *HealthHandler) Health(c fiber.Ctx) error {
	degraded := h.stats.Degraded()
	status := "ok"
	if len(degraded) > 0 {
		status = "degraded"
	}
	return response.OK(c, dto.HealthResponse{
		Status:   status,
		Store:    h.store,
		Degraded: degraded,
		Lookups:  h.stats.Snapshot(),
	})
}
