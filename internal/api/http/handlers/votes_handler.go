package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/recognition-service/internal/api/dto"
	"github.com/spec-kit/recognition-service/internal/auth"
	"github.com/spec-kit/recognition-service/internal/service"
	apperrors "github.com/spec-kit/recognition-service/pkg/util"
)

// VotesHandler exposes vote casting and amendment, the gated results view,
// and the admin audit listing.
type VotesHandler struct {
	votes   *service.VoteService
	results *service.ResultsService
}

// NewVotesHandler constructs handler.
func NewVotesHandler(voteService *service.VoteService, resultsService *service.ResultsService) *VotesHandler {
	return &VotesHandler{votes: voteService, results: resultsService}
}

// Cast handles POST /votes.
func (h *VotesHandler) Cast(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.CastVoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	vote, err := h.votes.Cast(c.Context(), principal.Staff.StaffID, service.CastVoteInput{
		CampaignID:       req.CampaignID,
		CandidateStaffID: req.CandidateStaffID,
		Reason:           req.Reason,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewVoteResponse(vote)})
}

// Amend handles PUT /votes/:id.
func (h *VotesHandler) Amend(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	var req dto.AmendVoteRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	vote, err := h.votes.Amend(c.Context(), principal.Staff.StaffID, c.Params("id"), service.AmendVoteInput{
		CandidateStaffID: req.CandidateStaffID,
		Reason:           req.Reason,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.NewVoteResponse(vote)})
}

// MyVote handles GET /votes/my-vote/:campaignId. Returns null data when the
// caller has not voted.
func (h *VotesHandler) MyVote(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	detail, err := h.votes.MyVote(c.Context(), c.Params("campaignId"), principal.Staff.StaffID)
	if err != nil {
		return err
	}
	if detail == nil {
		return c.JSON(fiber.Map{"data": nil})
	}
	return c.JSON(fiber.Map{"data": dto.NewMyVoteResponse(detail)})
}

// Results handles GET /votes/results/:campaignId. The tally only becomes
// visible once the campaign is published and past its end date.
func (h *VotesHandler) Results(c *fiber.Ctx) error {
	campaign, rows, err := h.results.TallyForStaff(c.Context(), c.Params("campaignId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"campaign": dto.NewCampaignResponse(campaign),
			"results":  dto.NewTallyResponse(rows),
		},
	})
}

// Stats handles GET /votes/stats/:campaignId.
func (h *VotesHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.results.Stats(c.Context(), c.Params("campaignId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.VoteStatsResponse{
		TotalVotes:   stats.TotalVotes,
		UniqueVoters: stats.UniqueVoters,
		Candidates:   stats.Candidates,
		TotalStaff:   stats.TotalStaff,
	}})
}

// ListByCampaign handles GET /votes/campaign/:campaignId. Admin-facing audit
// view with voter identity; never exposed to staff.
func (h *VotesHandler) ListByCampaign(c *fiber.Ctx) error {
	votes, err := h.votes.ListByCampaign(c.Context(), c.Params("campaignId"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewVoteAuditListResponse(votes)})
}
