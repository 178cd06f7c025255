package handler

import (
	"math"
	"strconv"

	"github.com/gofiber/fiber/v3"

	"opportunity-matcher/internal/delivery/http/dto"
	"opportunity-matcher/internal/delivery/http/middleware"
	"opportunity-matcher/internal/pkg/response"
	"opportunity-matcher/internal/usecase"
)

const defaultActivityLimit = 20

type ProfileHandler struct {
	svc *usecase.ProfileService
}

type updateProfileRequest struct {
	Username  string         `json:"username"`
	Skills    []string       `json:"skills"`
	Interests []string       `json:"interests"`
	Tags      []string       `json:"tags"`
	Bio       string         `json:"bio"`
	Metadata  map[string]any `json:"metadata"`
}

type trackActivityRequest struct {
	Username  string `json:"username"`
	Community string `json:"community"`
	Type      string `json:"type"`
	Content   string `json:"content"`
}

func NewProfileHandler(svc *usecase.ProfileService) *ProfileHandler {
	return &ProfileHandler{svc: svc}
}

// RegisterRoutes mounts the profile routes; auth guards the writes.
func (h *ProfileHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil || auth == nil {
		return
	}
	r.Get("/profiles/:username", h.Get)
	r.Get("/activity/:username", h.RecentActivity)

	r.Post("/profiles", auth, h.Update)
	r.Post("/activity", auth, h.Track)
}

func (h *ProfileHandler) Update(c fiber.Ctx) error {
	var req updateProfileRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.BadRequest("Bad request", err)
	}

	in := usecase.ProfileInput{
		Username:  req.Username,
		Skills:    req.Skills,
		Interests: req.Interests,
		Tags:      req.Tags,
		Bio:       req.Bio,
		Metadata:  req.Metadata,
	}
	if err := in.Validate(); err != nil {
		return middleware.BadRequest(err.Error(), err)
	}
	if err := middleware.RequireSelf(c, in.Username); err != nil {
		return err
	}

	return response.OK(c, dto.OKResponse{OK: h.svc.UpdateUserProfile(c.Context(), in)})
}

func (h *ProfileHandler) Get(c fiber.Ctx) error {
	p, found := h.svc.GetUserProfile(c.Context(), c.Params("username"))
	if !found {
		return response.OK(c, dto.ProfileEnvelope{})
	}
	return response.OK(c, dto.ProfileEnvelope{Profile: dto.NewProfileResponse(p)})
}

func (h *ProfileHandler) Track(c fiber.Ctx) error {
	var req trackActivityRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.BadRequest("Bad request", err)
	}

	in := usecase.ActivityInput{
		Username:  req.Username,
		Community: req.Community,
		Type:      req.Type,
		Content:   req.Content,
	}
	if err := in.Validate(); err != nil {
		return middleware.BadRequest(err.Error(), err)
	}
	if err := middleware.RequireSelf(c, in.Username); err != nil {
		return err
	}

	return response.OK(c, dto.OKResponse{OK: h.svc.TrackActivity(c.Context(), in)})
}

func (h *ProfileHandler) RecentActivity(c fiber.Ctx) error {
	limit, err := intQuery(c, "limit", defaultActivityLimit)
	if err != nil {
		return err
	}
	if limit <= 0 || limit > usecase.MaxActivityWindow {
		return middleware.BadRequest("limit must be between 1 and 50", nil)
	}

	recs := h.svc.RecentActivity(c.Context(), c.Params("username"), limit)
	return response.OK(c, dto.NewActivityList(recs))
}

func intQuery(c fiber.Ctx, key string, def int) (int, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, middleware.BadRequest("Invalid "+key, err)
	}
	return v, nil
}

func floatQuery(c fiber.Ctx, key string, def float64) (float64, error) {
	raw := c.Query(key)
	if raw == "" {
		return def, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, middleware.BadRequest("Invalid "+key, err)
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, middleware.BadRequest("Invalid "+key, nil)
	}
	return v, nil
}
