package service

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/recognition-service/internal/domain"
	"github.com/spec-kit/recognition-service/internal/events"
	"github.com/spec-kit/recognition-service/internal/repository"
	apperrors "github.com/spec-kit/recognition-service/pkg/util"
)

const minReasonLength = 10

// VoteService enforces vote admission control.
type VoteService struct {
	votes      repository.VoteRepository
	campaigns  repository.CampaignRepository
	staff      repository.StaffRepository
	dispatcher events.Dispatcher
	now        func() time.Time
}

// VoteDependencies bundles repositories for vote service.
type VoteDependencies struct {
	VoteRepo     repository.VoteRepository
	CampaignRepo repository.CampaignRepository
	StaffRepo    repository.StaffRepository
	Dispatcher   events.Dispatcher
}

// CastVoteInput describes vote creation payload.
type CastVoteInput struct {
	CampaignID       string
	CandidateStaffID string
	Reason           string
}

// AmendVoteInput describes vote amendment payload.
type AmendVoteInput struct {
	CandidateStaffID string
	Reason           string
}

// NewVoteService constructs the service.
func NewVoteService(deps VoteDependencies) *VoteService {
	return &VoteService{
		votes:      deps.VoteRepo,
		campaigns:  deps.CampaignRepo,
		staff:      deps.StaffRepo,
		dispatcher: deps.Dispatcher,
		now:        time.Now,
	}
}

// Cast records one vote for the voter in the campaign. The unique constraint
// on (campaign_id, voter_staff_id) is the authoritative duplicate guard; the
// prior lookup only yields a friendlier message when the duplicate is visible.
func (s *VoteService) Cast(ctx context.Context, voterStaffID string, input CastVoteInput) (*domain.Vote, error) {
	reason := strings.TrimSpace(input.Reason)
	if input.CampaignID == "" || input.CandidateStaffID == "" || input.Reason == "" {
		return nil, apperrors.NewValidationError("campaign ID, candidate staff ID, and reason are required", nil)
	}
	// Characters, not bytes: a multibyte reason must clear the same bar.
	if utf8.RuneCountInString(reason) < minReasonLength {
		return nil, apperrors.NewValidationError("reason must be at least 10 characters long", nil)
	}
	if voterStaffID == input.CandidateStaffID {
		return nil, apperrors.NewValidationError("you cannot vote for yourself", nil)
	}

	if err := s.checkCampaignVotable(ctx, input.CampaignID, "campaign is not active or not found"); err != nil {
		return nil, err
	}
	if err := s.checkCandidateActive(ctx, input.CandidateStaffID); err != nil {
		return nil, err
	}

	if existing, err := s.votes.GetByVoter(ctx, input.CampaignID, voterStaffID); err == nil && existing != nil {
		return nil, apperrors.NewConflict("you have already voted in this campaign", nil)
	} else if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.NewStorageError(err)
	}

	vote := &domain.Vote{
		CampaignID:       input.CampaignID,
		VoterStaffID:     voterStaffID,
		CandidateStaffID: input.CandidateStaffID,
		Reason:           reason,
	}
	if err := s.votes.Create(ctx, vote); err != nil {
		if repository.IsUniqueViolation(err) {
			// A concurrent cast won the race between the lookup and the insert.
			return nil, apperrors.NewConflict("you have already voted in this campaign", nil)
		}
		return nil, apperrors.NewStorageError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventVoteCast,
		CampaignID: vote.CampaignID,
		Actor:      staffActor(voterStaffID),
		Payload: events.VoteCastPayload{
			VoteID:           vote.ID,
			CandidateStaffID: vote.CandidateStaffID,
			ReasonPreview:    stringPreview(vote.Reason, 120),
		},
	})
	return vote, nil
}

// Amend rewrites the candidate and reason of the voter's own vote while the
// campaign remains votable. Self-vote and candidate-activity rules apply the
// same as on Cast.
func (s *VoteService) Amend(ctx context.Context, voterStaffID, voteID string, input AmendVoteInput) (*domain.Vote, error) {
	reason := strings.TrimSpace(input.Reason)
	if input.CandidateStaffID == "" || input.Reason == "" {
		return nil, apperrors.NewValidationError("candidate staff ID and reason are required", nil)
	}
	if utf8.RuneCountInString(reason) < minReasonLength {
		return nil, apperrors.NewValidationError("reason must be at least 10 characters long", nil)
	}
	if voterStaffID == input.CandidateStaffID {
		return nil, apperrors.NewValidationError("you cannot vote for yourself", nil)
	}

	vote, err := s.votes.GetByID(ctx, voteID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("vote", nil)
		}
		return nil, apperrors.NewStorageError(err)
	}
	if vote.VoterStaffID != voterStaffID {
		return nil, apperrors.NewNotFound("vote", nil)
	}

	if err := s.checkCampaignVotable(ctx, vote.CampaignID, "campaign is no longer active"); err != nil {
		return nil, err
	}
	if err := s.checkCandidateActive(ctx, input.CandidateStaffID); err != nil {
		return nil, err
	}

	vote.CandidateStaffID = input.CandidateStaffID
	vote.Reason = reason
	if err := s.votes.Update(ctx, vote); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("vote", nil)
		}
		return nil, apperrors.NewStorageError(err)
	}

	s.publishEvent(ctx, events.Event{
		Type:       events.EventVoteAmended,
		CampaignID: vote.CampaignID,
		Actor:      staffActor(voterStaffID),
		Payload: events.VoteAmendedPayload{
			VoteID:           vote.ID,
			CandidateStaffID: vote.CandidateStaffID,
		},
	})
	return vote, nil
}

// MyVote returns the voter's vote for the campaign joined with display
// fields, or nil when the voter has not voted. Absence is not an error.
func (s *VoteService) MyVote(ctx context.Context, campaignID, voterStaffID string) (*domain.VoteDetail, error) {
	detail, err := s.votes.GetDetailByVoter(ctx, campaignID, voterStaffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, apperrors.NewStorageError(err)
	}
	return detail, nil
}

// ListByCampaign returns every vote in a campaign with voter and candidate
// identity, newest first. Admin-facing.
func (s *VoteService) ListByCampaign(ctx context.Context, campaignID string) ([]domain.VoteAudit, error) {
	votes, err := s.votes.ListByCampaign(ctx, campaignID)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return votes, nil
}

func (s *VoteService) checkCampaignVotable(ctx context.Context, campaignID, message string) error {
	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError(message, nil)
		}
		return apperrors.NewStorageError(err)
	}
	if !campaign.Votable(s.now()) {
		return apperrors.NewValidationError(message, nil)
	}
	return nil
}

func (s *VoteService) checkCandidateActive(ctx context.Context, candidateStaffID string) error {
	candidate, err := s.staff.GetByStaffID(ctx, candidateStaffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewValidationError("candidate not found or inactive", nil)
		}
		return apperrors.NewStorageError(err)
	}
	if !candidate.Active {
		return apperrors.NewValidationError("candidate not found or inactive", nil)
	}
	return nil
}

func (s *VoteService) publishEvent(ctx context.Context, event events.Event) {
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

// stringPreview shortens body to at most max characters, truncating on rune
// boundaries so multibyte text stays valid UTF-8.
func stringPreview(body string, max int) string {
	body = strings.TrimSpace(body)
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
