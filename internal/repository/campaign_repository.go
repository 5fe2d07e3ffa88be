package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/recognition-service/internal/domain"
)

// CampaignRepository encapsulates campaign persistence.
type CampaignRepository interface {
	Create(ctx context.Context, campaign *domain.Campaign) error
	Update(ctx context.Context, campaign *domain.Campaign) error
	SetPublished(ctx context.Context, id string, published bool) error
	DeleteIfNoVotes(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Campaign, error)
	ListAll(ctx context.Context) ([]domain.Campaign, error)
	ListVotable(ctx context.Context, now time.Time) ([]domain.Campaign, error)
}

type campaignRepository struct {
	pool *pgxpool.Pool
}

// NewCampaignRepository instantiates the repository.
func NewCampaignRepository(pool *pgxpool.Pool) CampaignRepository {
	return &campaignRepository{pool: pool}
}

const campaignColumns = `id, title, description, start_date, end_date, active_flag, published_flag, created_at, updated_at`

func (r *campaignRepository) Create(ctx context.Context, campaign *domain.Campaign) error {
	const query = `
        INSERT INTO campaigns (title, description, start_date, end_date, active_flag, published_flag)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		campaign.Title,
		campaign.Description,
		campaign.StartDate,
		campaign.EndDate,
		campaign.Active,
		campaign.Published,
	).Scan(&campaign.ID, &campaign.CreatedAt, &campaign.UpdatedAt)
}

func (r *campaignRepository) Update(ctx context.Context, campaign *domain.Campaign) error {
	const query = `
        UPDATE campaigns
        SET title=$1, description=$2, start_date=$3, end_date=$4, active_flag=$5, updated_at=NOW()
        WHERE id=$6`

	cmd, err := r.pool.Exec(ctx, query,
		campaign.Title,
		campaign.Description,
		campaign.StartDate,
		campaign.EndDate,
		campaign.Active,
		campaign.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *campaignRepository) SetPublished(ctx context.Context, id string, published bool) error {
	const query = `UPDATE campaigns SET published_flag=$1, updated_at=NOW() WHERE id=$2`
	cmd, err := r.pool.Exec(ctx, query, published, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

// DeleteIfNoVotes removes a campaign only when no votes reference it. The
// row lock, the vote count, and the delete run in one transaction so a cast
// committing in between cannot leave an orphaned vote; the RESTRICT foreign
// key backs the check at the storage level.
func (r *campaignRepository) DeleteIfNoVotes(ctx context.Context, id string) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	var lockedID string
	if err := tx.QueryRow(ctx, `SELECT id FROM campaigns WHERE id=$1 FOR UPDATE`, id).Scan(&lockedID); err != nil {
		return err
	}

	var voteCount int
	if err := tx.QueryRow(ctx, `SELECT COUNT(*) FROM votes WHERE campaign_id=$1`, id).Scan(&voteCount); err != nil {
		return err
	}
	if voteCount > 0 {
		return ErrHasVotes
	}

	if _, err := tx.Exec(ctx, `DELETE FROM campaigns WHERE id=$1`, id); err != nil {
		if IsForeignKeyViolation(err) {
			return ErrHasVotes
		}
		return err
	}
	return tx.Commit(ctx)
}

func (r *campaignRepository) GetByID(ctx context.Context, id string) (*domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns WHERE id=$1`

	var campaign domain.Campaign
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&campaign.ID,
		&campaign.Title,
		&campaign.Description,
		&campaign.StartDate,
		&campaign.EndDate,
		&campaign.Active,
		&campaign.Published,
		&campaign.CreatedAt,
		&campaign.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &campaign, nil
}

func (r *campaignRepository) ListAll(ctx context.Context) ([]domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCampaigns(rows)
}

func (r *campaignRepository) ListVotable(ctx context.Context, now time.Time) ([]domain.Campaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM campaigns
        WHERE active_flag AND published_flag AND start_date <= $1 AND end_date >= $1
        ORDER BY created_at DESC`
	rows, err := r.pool.Query(ctx, query, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanCampaigns(rows)
}

func scanCampaigns(rows pgx.Rows) ([]domain.Campaign, error) {
	var result []domain.Campaign
	for rows.Next() {
		var campaign domain.Campaign
		if err := rows.Scan(
			&campaign.ID,
			&campaign.Title,
			&campaign.Description,
			&campaign.StartDate,
			&campaign.EndDate,
			&campaign.Active,
			&campaign.Published,
			&campaign.CreatedAt,
			&campaign.UpdatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, campaign)
	}
	return result, rows.Err()
}
