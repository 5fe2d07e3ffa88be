package dto

import (
	"time"

	"github.com/spec-kit/recognition-service/internal/domain"
)

// CreateCampaignRequest payload.
type CreateCampaignRequest struct {
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
}

// UpdateCampaignRequest payload.
type UpdateCampaignRequest struct {
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Active      *bool     `json:"is_active"`
}

// PublishCampaignRequest payload.
type PublishCampaignRequest struct {
	IsPublished bool `json:"is_published"`
}

// CampaignResponse represents a campaign.
type CampaignResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description,omitempty"`
	StartDate   time.Time `json:"start_date"`
	EndDate     time.Time `json:"end_date"`
	Active      bool      `json:"is_active"`
	Published   bool      `json:"is_published"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewCampaignResponse maps a domain campaign to its response shape.
func NewCampaignResponse(campaign *domain.Campaign) CampaignResponse {
	return CampaignResponse{
		ID:          campaign.ID,
		Title:       campaign.Title,
		Description: campaign.Description,
		StartDate:   campaign.StartDate,
		EndDate:     campaign.EndDate,
		Active:      campaign.Active,
		Published:   campaign.Published,
		CreatedAt:   campaign.CreatedAt,
		UpdatedAt:   campaign.UpdatedAt,
	}
}

// NewCampaignListResponse maps a campaign slice.
func NewCampaignListResponse(campaigns []domain.Campaign) []CampaignResponse {
	result := make([]CampaignResponse, 0, len(campaigns))
	for i := range campaigns {
		result = append(result, NewCampaignResponse(&campaigns[i]))
	}
	return result
}

// CampaignStatsResponse combines a campaign with its vote aggregates.
type CampaignStatsResponse struct {
	Campaign     CampaignResponse `json:"campaign"`
	TotalVotes   int              `json:"total_votes"`
	UniqueVoters int              `json:"unique_voters"`
	Candidates   int              `json:"candidates"`
}
