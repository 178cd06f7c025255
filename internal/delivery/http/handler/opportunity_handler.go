package handler

import (
	"strings"

	"github.com/gofiber/fiber/v3"

	"opportunity-matcher/internal/delivery/http/dto"
	"opportunity-matcher/internal/delivery/http/middleware"
	"opportunity-matcher/internal/domain/opportunity"
	"opportunity-matcher/internal/pkg/response"
	"opportunity-matcher/internal/usecase"
)

const msgCreateFailed = "Failed to create opportunity"

type OpportunityHandler struct {
	svc *usecase.OpportunityService
}

type createOpportunityRequest struct {
	Community    string         `json:"community"`
	Title        string         `json:"title"`
	Description  string         `json:"description"`
	Category     string         `json:"category"`
	Tags         []string       `json:"tags"`
	Requirements []string       `json:"requirements"`
	Deadline     string         `json:"deadline"`
	PostedBy     string         `json:"posted_by"`
	Metadata     map[string]any `json:"metadata"`
}

type updateStatusRequest struct {
	Status string `json:"status"`
}

func NewOpportunityHandler(svc *usecase.OpportunityService) *OpportunityHandler {
	return &OpportunityHandler{svc: svc}
}

func (h *OpportunityHandler) RegisterRoutes(r fiber.Router, auth fiber.Handler) {
	if r == nil || auth == nil {
		return
	}
	r.Get("/opportunities/:community", h.List)

	r.Post("/opportunities", auth, h.Create)
	r.Patch("/opportunities/:community/:id/status", auth, h.UpdateStatus)
}

func (h *OpportunityHandler) Create(c fiber.Ctx) error {
	var req createOpportunityRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.BadRequest("Bad request", err)
	}

	in := usecase.CreateOpportunityInput{
		Community:    req.Community,
		Title:        req.Title,
		Description:  req.Description,
		Category:     req.Category,
		Tags:         req.Tags,
		Requirements: req.Requirements,
		Deadline:     req.Deadline,
		PostedBy:     req.PostedBy,
		Metadata:     req.Metadata,
	}
	if err := in.Validate(); err != nil {
		return middleware.BadRequest(err.Error(), err)
	}
	if strings.TrimSpace(in.PostedBy) != "" {
		if err := middleware.RequireSelf(c, in.PostedBy); err != nil {
			return err
		}
	}

	id, ok := h.svc.Create(c.Context(), in)
	if !ok {
		return response.Write(c, fiber.StatusServiceUnavailable, msgCreateFailed, dto.CreateOpportunityResponse{OK: false, Error: msgCreateFailed})
	}
	return response.Created(c, dto.CreateOpportunityResponse{OK: true, OpportunityID: id})
}

func (h *OpportunityHandler) List(c fiber.Ctx) error {
	filter, ok := opportunity.ParseStatusFilter(c.Query("status"))
	if !ok {
		return middleware.BadRequest("status must be active, closed or all", nil)
	}
	limit, err := intQuery(c, "limit", usecase.DefaultListLimit)
	if err != nil {
		return err
	}
	if limit <= 0 {
		return middleware.BadRequest("limit must be positive", nil)
	}

	items := h.svc.List(c.Context(), c.Params("community"), filter, limit)
	return response.OK(c, dto.NewOpportunityList(items))
}

func (h *OpportunityHandler) UpdateStatus(c fiber.Ctx) error {
	var req updateStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.BadRequest("Bad request", err)
	}
	status, ok := opportunity.ParseStatus(req.Status)
	if !ok {
		return middleware.BadRequest("status must be active or closed", nil)
	}

	if !h.svc.SetStatus(c.Context(), c.Params("community"), c.Params("id"), status) {
		return middleware.NotFound("Opportunity not found")
	}
	return response.OK(c, dto.OKResponse{OK: true})
}
