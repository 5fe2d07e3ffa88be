package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/recognition-service/internal/domain"
	"github.com/spec-kit/recognition-service/internal/events"
	"github.com/spec-kit/recognition-service/internal/repository"
	apperrors "github.com/spec-kit/recognition-service/pkg/util"
)

// CampaignService coordinates campaign lifecycle workflows.
type CampaignService struct {
	campaigns  repository.CampaignRepository
	votes      repository.VoteRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// CampaignDependencies bundles repositories for campaign service.
type CampaignDependencies struct {
	CampaignRepo repository.CampaignRepository
	VoteRepo     repository.VoteRepository
	Dispatcher   events.Dispatcher
}

// CampaignCreateInput describes campaign creation payload.
type CampaignCreateInput struct {
	Title       string
	Description *string
	StartDate   time.Time
	EndDate     time.Time
}

// CampaignUpdateInput describes campaign update payload.
type CampaignUpdateInput struct {
	Title       string
	Description *string
	StartDate   time.Time
	EndDate     time.Time
	Active      *bool
}

// NewCampaignService constructs the service.
func NewCampaignService(deps CampaignDependencies) *CampaignService {
	return &CampaignService{
		campaigns:  deps.CampaignRepo,
		votes:      deps.VoteRepo,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// Create persists a new campaign. The start date must lie strictly in the
// future; this check applies only at creation.
func (s *CampaignService) Create(ctx context.Context, adminID string, input CampaignCreateInput) (*domain.Campaign, error) {
	if strings.TrimSpace(input.Title) == "" || input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, apperrors.NewValidationError("title, start date, and end date are required", nil)
	}
	now := s.now()
	if !input.StartDate.After(now) {
		return nil, apperrors.NewValidationError("start date must be in the future", nil)
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, apperrors.NewValidationError("end date must be after start date", nil)
	}

	campaign := &domain.Campaign{
		Title:       strings.TrimSpace(input.Title),
		Description: input.Description,
		StartDate:   input.StartDate,
		EndDate:     input.EndDate,
		Active:      true,
		Published:   false,
	}
	if err := s.campaigns.Create(ctx, campaign); err != nil {
		return nil, apperrors.NewStorageError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventCampaignCreated,
		CampaignID: campaign.ID,
		Actor:      adminActor(adminID),
		Payload: events.CampaignCreatedPayload{
			Title:     campaign.Title,
			StartDate: campaign.StartDate,
			EndDate:   campaign.EndDate,
		},
	})
	return campaign, nil
}

// Update edits a campaign. Editing a live or past campaign stays possible:
// the start-in-future rule is not re-checked here.
func (s *CampaignService) Update(ctx context.Context, id string, input CampaignUpdateInput) (*domain.Campaign, error) {
	if strings.TrimSpace(input.Title) == "" || input.StartDate.IsZero() || input.EndDate.IsZero() {
		return nil, apperrors.NewValidationError("title, start date, and end date are required", nil)
	}
	if !input.EndDate.After(input.StartDate) {
		return nil, apperrors.NewValidationError("end date must be after start date", nil)
	}

	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("campaign", nil)
		}
		return nil, apperrors.NewStorageError(err)
	}

	campaign.Title = strings.TrimSpace(input.Title)
	campaign.Description = input.Description
	campaign.StartDate = input.StartDate
	campaign.EndDate = input.EndDate
	if input.Active != nil {
		campaign.Active = *input.Active
	}

	if err := s.campaigns.Update(ctx, campaign); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("campaign", nil)
		}
		return nil, apperrors.NewStorageError(err)
	}
	return campaign, nil
}

// SetPublished flips only the publish flag.
func (s *CampaignService) SetPublished(ctx context.Context, adminID, id string, published bool) error {
	if err := s.campaigns.SetPublished(ctx, id, published); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("campaign", nil)
		}
		return apperrors.NewStorageError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventCampaignPublished,
		CampaignID: id,
		Actor:      adminActor(adminID),
		Payload:    events.CampaignPublishedPayload{Published: published},
	})
	return nil
}

// Delete removes a campaign unless votes reference it.
func (s *CampaignService) Delete(ctx context.Context, id string) error {
	err := s.campaigns.DeleteIfNoVotes(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrHasVotes):
		return apperrors.NewConflict("cannot delete campaign with existing votes; deactivate instead", nil)
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFound("campaign", nil)
	default:
		return apperrors.NewStorageError(err)
	}
}

// GetByID fetches a single campaign.
func (s *CampaignService) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	campaign, err := s.campaigns.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("campaign", nil)
		}
		return nil, apperrors.NewStorageError(err)
	}
	return campaign, nil
}

// ListAll returns every campaign, newest first.
func (s *CampaignService) ListAll(ctx context.Context) ([]domain.Campaign, error) {
	campaigns, err := s.campaigns.ListAll(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return campaigns, nil
}

// ListVotable returns campaigns open for voting right now, newest first. The
// predicate is evaluated server-side.
func (s *CampaignService) ListVotable(ctx context.Context) ([]domain.Campaign, error) {
	campaigns, err := s.campaigns.ListVotable(ctx, s.now())
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return campaigns, nil
}

// Stats returns a campaign together with its aggregate vote counts.
func (s *CampaignService) Stats(ctx context.Context, id string) (*domain.Campaign, *domain.CampaignStats, error) {
	campaign, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	stats, err := s.votes.Stats(ctx, id)
	if err != nil {
		return nil, nil, apperrors.NewStorageError(err)
	}
	return campaign, stats, nil
}

func (s *CampaignService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func adminActor(adminID string) events.Actor {
	return events.Actor{
		Type:    domain.SubjectTypeAdmin,
		AdminID: &adminID,
	}
}

func staffActor(staffID string) events.Actor {
	return events.Actor{
		Type:    domain.SubjectTypeStaff,
		StaffID: &staffID,
	}
}
