package service

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/recognition-service/internal/domain"
	"github.com/spec-kit/recognition-service/internal/persistence"
	"github.com/spec-kit/recognition-service/internal/repository"
	apperrors "github.com/spec-kit/recognition-service/pkg/util"
)

const tallyCacheTTL = 5 * time.Minute

// ResultsService produces ranked tallies and aggregate stats for campaigns.
type ResultsService struct {
	votes     repository.VoteRepository
	campaigns repository.CampaignRepository
	cache     *persistence.Redis
	logger    *zap.Logger
	now       func() time.Time
}

// ResultsDependencies bundles requirements for results service.
type ResultsDependencies struct {
	VoteRepo     repository.VoteRepository
	CampaignRepo repository.CampaignRepository
	Cache        *persistence.Redis
	Logger       *zap.Logger
}

// NewResultsService constructs the service.
func NewResultsService(deps ResultsDependencies) *ResultsService {
	return &ResultsService{
		votes:     deps.VoteRepo,
		campaigns: deps.CampaignRepo,
		cache:     deps.Cache,
		logger:    deps.Logger,
		now:       time.Now,
	}
}

// TallyForAdmin returns the ranked tally without the viewable gate; admins
// may preview results before a campaign ends.
func (s *ResultsService) TallyForAdmin(ctx context.Context, campaignID string) ([]domain.TallyRow, error) {
	if _, err := s.getCampaign(ctx, campaignID); err != nil {
		return nil, err
	}
	rows, err := s.votes.Tally(ctx, campaignID)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return rows, nil
}

// TallyForStaff returns the ranked tally once the campaign is published and
// past its end date. Ended campaigns have an immutable vote set, so the
// tally is cached briefly in redis; cache failures fall through to postgres.
func (s *ResultsService) TallyForStaff(ctx context.Context, campaignID string) (*domain.Campaign, []domain.TallyRow, error) {
	campaign, err := s.getCampaign(ctx, campaignID)
	if err != nil {
		return nil, nil, err
	}
	if !campaign.ResultsViewable(s.now()) {
		return nil, nil, apperrors.NewValidationError("campaign results are not yet available", nil)
	}

	cacheKey := "tally:" + campaignID
	if raw, ok := s.cache.GetBytes(ctx, cacheKey); ok {
		var rows []domain.TallyRow
		if err := json.Unmarshal(raw, &rows); err == nil {
			return campaign, rows, nil
		}
		s.logger.Warn("discarding malformed tally cache entry", zap.String("campaign_id", campaignID))
	}

	rows, err := s.votes.Tally(ctx, campaignID)
	if err != nil {
		return nil, nil, apperrors.NewStorageError(err)
	}

	if raw, err := json.Marshal(rows); err == nil {
		s.cache.SetBytes(ctx, cacheKey, raw, tallyCacheTTL)
	}
	return campaign, rows, nil
}

// Stats returns aggregate counts for the campaign.
func (s *ResultsService) Stats(ctx context.Context, campaignID string) (*domain.CampaignStats, error) {
	stats, err := s.votes.Stats(ctx, campaignID)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return stats, nil
}

func (s *ResultsService) getCampaign(ctx context.Context, campaignID string) (*domain.Campaign, error) {
	campaign, err := s.campaigns.GetByID(ctx, campaignID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("campaign", nil)
		}
		return nil, apperrors.NewStorageError(err)
	}
	return campaign, nil
}
