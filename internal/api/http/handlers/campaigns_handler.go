package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/recognition-service/internal/api/dto"
	"github.com/spec-kit/recognition-service/internal/auth"
	"github.com/spec-kit/recognition-service/internal/service"
	apperrors "github.com/spec-kit/recognition-service/pkg/util"
)

// CampaignsHandler exposes campaign lifecycle (admin) and votable-campaign
// listing (staff).
type CampaignsHandler struct {
	campaigns *service.CampaignService
	results   *service.ResultsService
}

// NewCampaignsHandler constructs handler.
func NewCampaignsHandler(campaignService *service.CampaignService, resultsService *service.ResultsService) *CampaignsHandler {
	return &CampaignsHandler{campaigns: campaignService, results: resultsService}
}

// Create handles POST /campaigns.
func (h *CampaignsHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.CreateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	campaign, err := h.campaigns.Create(c.Context(), principal.Admin.ID, service.CampaignCreateInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewCampaignResponse(campaign)})
}

// Update handles PUT /campaigns/:id.
func (h *CampaignsHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	campaign, err := h.campaigns.Update(c.Context(), c.Params("id"), service.CampaignUpdateInput{
		Title:       req.Title,
		Description: req.Description,
		StartDate:   req.StartDate,
		EndDate:     req.EndDate,
		Active:      req.Active,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.NewCampaignResponse(campaign)})
}

// Publish handles POST /campaigns/:id/publish.
func (h *CampaignsHandler) Publish(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Admin == nil {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.PublishCampaignRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	if err := h.campaigns.SetPublished(c.Context(), principal.Admin.ID, c.Params("id"), req.IsPublished); err != nil {
		return err
	}

	campaign, err := h.campaigns.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCampaignResponse(campaign)})
}

// Delete handles DELETE /campaigns/:id.
func (h *CampaignsHandler) Delete(c *fiber.Ctx) error {
	if err := h.campaigns.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Get handles GET /campaigns/:id.
func (h *CampaignsHandler) Get(c *fiber.Ctx) error {
	campaign, err := h.campaigns.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCampaignResponse(campaign)})
}

// List handles GET /campaigns: every campaign, newest first.
func (h *CampaignsHandler) List(c *fiber.Ctx) error {
	campaigns, err := h.campaigns.ListAll(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCampaignListResponse(campaigns)})
}

// ListVotable handles GET /campaigns/active: campaigns open for voting now.
func (h *CampaignsHandler) ListVotable(c *fiber.Ctx) error {
	campaigns, err := h.campaigns.ListVotable(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewCampaignListResponse(campaigns)})
}

// Stats handles GET /campaigns/:id/stats.
func (h *CampaignsHandler) Stats(c *fiber.Ctx) error {
	campaign, stats, err := h.campaigns.Stats(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.CampaignStatsResponse{
		Campaign:     dto.NewCampaignResponse(campaign),
		TotalVotes:   stats.TotalVotes,
		UniqueVoters: stats.UniqueVoters,
		Candidates:   stats.Candidates,
	}})
}

// Results handles GET /campaigns/:id/results: an admin preview that skips
// the viewable gate, so a live campaign's standings can be inspected.
func (h *CampaignsHandler) Results(c *fiber.Ctx) error {
	rows, err := h.results.TallyForAdmin(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewTallyResponse(rows)})
}
