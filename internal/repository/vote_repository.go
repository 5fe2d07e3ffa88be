package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/recognition-service/internal/domain"
)

// VoteRepository encapsulates vote persistence and aggregation.
type VoteRepository interface {
	// Create inserts a vote. A duplicate (campaign_id, voter_staff_id) pair
	// surfaces as a unique constraint violation; callers detect it with
	// IsUniqueViolation. The constraint, not the application-level lookup,
	// is the authoritative duplicate guard.
	Create(ctx context.Context, vote *domain.Vote) error
	Update(ctx context.Context, vote *domain.Vote) error
	GetByID(ctx context.Context, id string) (*domain.Vote, error)
	GetByVoter(ctx context.Context, campaignID, voterStaffID string) (*domain.Vote, error)
	GetDetailByVoter(ctx context.Context, campaignID, voterStaffID string) (*domain.VoteDetail, error)
	ListByCampaign(ctx context.Context, campaignID string) ([]domain.VoteAudit, error)
	Tally(ctx context.Context, campaignID string) ([]domain.TallyRow, error)
	Stats(ctx context.Context, campaignID string) (*domain.CampaignStats, error)
	CountByStaff(ctx context.Context, staffID string) (int, error)
}

type voteRepository struct {
	pool *pgxpool.Pool
}

// NewVoteRepository instantiates the repository.
func NewVoteRepository(pool *pgxpool.Pool) VoteRepository {
	return &voteRepository{pool: pool}
}

const voteColumns = `id, campaign_id, voter_staff_id, candidate_staff_id, reason, created_at`

func (r *voteRepository) Create(ctx context.Context, vote *domain.Vote) error {
	const query = `
        INSERT INTO votes (campaign_id, voter_staff_id, candidate_staff_id, reason)
        VALUES ($1,$2,$3,$4)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		vote.CampaignID,
		vote.VoterStaffID,
		vote.CandidateStaffID,
		vote.Reason,
	).Scan(&vote.ID, &vote.CreatedAt)
}

func (r *voteRepository) Update(ctx context.Context, vote *domain.Vote) error {
	const query = `UPDATE votes SET candidate_staff_id=$1, reason=$2 WHERE id=$3`
	cmd, err := r.pool.Exec(ctx, query, vote.CandidateStaffID, vote.Reason, vote.ID)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *voteRepository) GetByID(ctx context.Context, id string) (*domain.Vote, error) {
	query := `SELECT ` + voteColumns + ` FROM votes WHERE id=$1`
	return r.fetchSingle(ctx, query, id)
}

func (r *voteRepository) GetByVoter(ctx context.Context, campaignID, voterStaffID string) (*domain.Vote, error) {
	query := `SELECT ` + voteColumns + ` FROM votes WHERE campaign_id=$1 AND voter_staff_id=$2`
	return r.fetchSingle(ctx, query, campaignID, voterStaffID)
}

func (r *voteRepository) fetchSingle(ctx context.Context, query string, args ...any) (*domain.Vote, error) {
	var vote domain.Vote
	if err := r.pool.QueryRow(ctx, query, args...).Scan(
		&vote.ID,
		&vote.CampaignID,
		&vote.VoterStaffID,
		&vote.CandidateStaffID,
		&vote.Reason,
		&vote.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &vote, nil
}

func (r *voteRepository) GetDetailByVoter(ctx context.Context, campaignID, voterStaffID string) (*domain.VoteDetail, error) {
	const query = `
        SELECT v.id, v.campaign_id, v.voter_staff_id, v.candidate_staff_id, v.reason, v.created_at,
               c.title, s.name, s.position, s.department
        FROM votes v
        JOIN campaigns c ON c.id = v.campaign_id
        JOIN staff_members s ON s.staff_id = v.candidate_staff_id
        WHERE v.campaign_id=$1 AND v.voter_staff_id=$2`

	var detail domain.VoteDetail
	if err := r.pool.QueryRow(ctx, query, campaignID, voterStaffID).Scan(
		&detail.ID,
		&detail.CampaignID,
		&detail.VoterStaffID,
		&detail.CandidateStaffID,
		&detail.Reason,
		&detail.CreatedAt,
		&detail.CampaignTitle,
		&detail.CandidateName,
		&detail.CandidatePosition,
		&detail.CandidateDepartment,
	); err != nil {
		return nil, err
	}
	return &detail, nil
}

func (r *voteRepository) ListByCampaign(ctx context.Context, campaignID string) ([]domain.VoteAudit, error) {
	const query = `
        SELECT v.id, v.campaign_id, v.voter_staff_id, v.candidate_staff_id, v.reason, v.created_at,
               voter.name, voter.position, voter.department,
               candidate.name, candidate.position, candidate.department
        FROM votes v
        JOIN staff_members voter ON voter.staff_id = v.voter_staff_id
        JOIN staff_members candidate ON candidate.staff_id = v.candidate_staff_id
        WHERE v.campaign_id=$1
        ORDER BY v.created_at DESC`

	rows, err := r.pool.Query(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.VoteAudit
	for rows.Next() {
		var audit domain.VoteAudit
		if err := rows.Scan(
			&audit.ID,
			&audit.CampaignID,
			&audit.VoterStaffID,
			&audit.CandidateStaffID,
			&audit.Reason,
			&audit.CreatedAt,
			&audit.VoterName,
			&audit.VoterPosition,
			&audit.VoterDepartment,
			&audit.CandidateName,
			&audit.CandidatePosition,
			&audit.CandidateDepartment,
		); err != nil {
			return nil, err
		}
		result = append(result, audit)
	}
	return result, rows.Err()
}

// Tally returns one row per active staff member, vote counts grouped by
// candidate, ordered by count descending with name as the tiebreak.
func (r *voteRepository) Tally(ctx context.Context, campaignID string) ([]domain.TallyRow, error) {
	const query = `
        SELECT s.name, s.position, s.department,
               COUNT(v.id) AS vote_count,
               COALESCE(ARRAY_AGG(v.reason ORDER BY v.created_at) FILTER (WHERE v.id IS NOT NULL), '{}') AS reasons
        FROM staff_members s
        LEFT JOIN votes v ON v.candidate_staff_id = s.staff_id AND v.campaign_id = $1
        WHERE s.active_flag
        GROUP BY s.id, s.name, s.position, s.department
        ORDER BY vote_count DESC, s.name ASC`

	rows, err := r.pool.Query(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.TallyRow
	for rows.Next() {
		var row domain.TallyRow
		if err := rows.Scan(&row.Name, &row.Position, &row.Department, &row.VoteCount, &row.Reasons); err != nil {
			return nil, err
		}
		if row.Reasons == nil {
			row.Reasons = []string{}
		}
		result = append(result, row)
	}
	return result, rows.Err()
}

func (r *voteRepository) Stats(ctx context.Context, campaignID string) (*domain.CampaignStats, error) {
	const query = `
        SELECT COUNT(v.id),
               COUNT(DISTINCT v.voter_staff_id),
               COUNT(DISTINCT v.candidate_staff_id),
               (SELECT COUNT(*) FROM staff_members WHERE active_flag)
        FROM votes v
        WHERE v.campaign_id=$1`

	var stats domain.CampaignStats
	if err := r.pool.QueryRow(ctx, query, campaignID).Scan(
		&stats.TotalVotes,
		&stats.UniqueVoters,
		&stats.Candidates,
		&stats.TotalStaff,
	); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *voteRepository) CountByStaff(ctx context.Context, staffID string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM votes WHERE voter_staff_id=$1 OR candidate_staff_id=$1`,
		staffID,
	).Scan(&count)
	return count, err
}
