package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/spec-kit/recognition-service/internal/domain"
	"github.com/spec-kit/recognition-service/internal/repository"
)

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505"}
}

type fakeCampaignRepo struct {
	mu        sync.Mutex
	seq       int
	campaigns []*domain.Campaign
	votes     *fakeVoteRepo
}

func newFakeCampaignRepo(votes *fakeVoteRepo) *fakeCampaignRepo {
	return &fakeCampaignRepo{votes: votes}
}

func (r *fakeCampaignRepo) Create(_ context.Context, campaign *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	campaign.ID = fmt.Sprintf("campaign-%d", r.seq)
	campaign.CreatedAt = time.Now()
	campaign.UpdatedAt = campaign.CreatedAt
	clone := *campaign
	r.campaigns = append(r.campaigns, &clone)
	return nil
}

func (r *fakeCampaignRepo) Update(_ context.Context, campaign *domain.Campaign) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.campaigns {
		if existing.ID == campaign.ID {
			clone := *campaign
			clone.UpdatedAt = time.Now()
			r.campaigns[i] = &clone
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeCampaignRepo) SetPublished(_ context.Context, id string, published bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.campaigns {
		if existing.ID == id {
			existing.Published = published
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeCampaignRepo) DeleteIfNoVotes(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.campaigns {
		if existing.ID != id {
			continue
		}
		if r.votes != nil && r.votes.hasVotes(id) {
			return repository.ErrHasVotes
		}
		r.campaigns = append(r.campaigns[:i], r.campaigns[i+1:]...)
		return nil
	}
	return pgx.ErrNoRows
}

func (r *fakeCampaignRepo) GetByID(_ context.Context, id string) (*domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.campaigns {
		if existing.ID == id {
			clone := *existing
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeCampaignRepo) ListAll(_ context.Context) ([]domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Campaign, 0, len(r.campaigns))
	for i := len(r.campaigns) - 1; i >= 0; i-- {
		result = append(result, *r.campaigns[i])
	}
	return result, nil
}

func (r *fakeCampaignRepo) ListVotable(_ context.Context, now time.Time) ([]domain.Campaign, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.Campaign, 0)
	for i := len(r.campaigns) - 1; i >= 0; i-- {
		if r.campaigns[i].Votable(now) {
			result = append(result, *r.campaigns[i])
		}
	}
	return result, nil
}

type fakeStaffRepo struct {
	mu    sync.Mutex
	seq   int
	staff []*domain.StaffMember
}

func newFakeStaffRepo() *fakeStaffRepo {
	return &fakeStaffRepo{}
}

func (r *fakeStaffRepo) seed(members ...domain.StaffMember) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range members {
		clone := members[i]
		if clone.ID == "" {
			r.seq++
			clone.ID = fmt.Sprintf("staff-%d", r.seq)
		}
		r.staff = append(r.staff, &clone)
	}
}

func (r *fakeStaffRepo) Create(_ context.Context, staff *domain.StaffMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.staff {
		if existing.StaffID == staff.StaffID {
			return uniqueViolation()
		}
	}
	r.seq++
	staff.ID = fmt.Sprintf("staff-%d", r.seq)
	staff.CreatedAt = time.Now()
	staff.UpdatedAt = staff.CreatedAt
	clone := *staff
	r.staff = append(r.staff, &clone)
	return nil
}

func (r *fakeStaffRepo) Update(_ context.Context, staff *domain.StaffMember) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.staff {
		if existing.ID == staff.ID {
			clone := *staff
			r.staff[i] = &clone
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeStaffRepo) UpdatePIN(_ context.Context, id, pinHash string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.staff {
		if existing.ID == id {
			existing.PINHash = pinHash
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeStaffRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.staff {
		if existing.ID == id {
			r.staff = append(r.staff[:i], r.staff[i+1:]...)
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeStaffRepo) GetByID(_ context.Context, id string) (*domain.StaffMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.staff {
		if existing.ID == id {
			clone := *existing
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) GetByStaffID(_ context.Context, staffID string) (*domain.StaffMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.staff {
		if existing.StaffID == staffID {
			clone := *existing
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeStaffRepo) List(_ context.Context, filter repository.StaffFilter) ([]domain.StaffMember, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.StaffMember, 0)
	for _, existing := range r.staff {
		if filter.Active != nil && existing.Active != *filter.Active {
			continue
		}
		if filter.Department != nil && existing.Department != *filter.Department {
			continue
		}
		if filter.ExcludeStaffID != nil && existing.StaffID == *filter.ExcludeStaffID {
			continue
		}
		result = append(result, *existing)
	}
	sort.Slice(result, func(i, j int) bool {
		return strings.ToLower(result[i].Name) < strings.ToLower(result[j].Name)
	})
	return result, nil
}

func (r *fakeStaffRepo) Overview(_ context.Context) (*domain.StaffOverview, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	overview := &domain.StaffOverview{}
	departments := map[string]struct{}{}
	for _, existing := range r.staff {
		overview.TotalStaff++
		if existing.Active {
			overview.ActiveStaff++
		} else {
			overview.InactiveStaff++
		}
		departments[existing.Department] = struct{}{}
	}
	overview.Departments = len(departments)
	return overview, nil
}

type fakeVoteRepo struct {
	mu    sync.Mutex
	seq   int
	votes []*domain.Vote

	// hideExisting makes GetByVoter report no rows even when a vote exists,
	// simulating a concurrent cast landing between lookup and insert.
	hideExisting bool

	// roster backs Tally's aggregation; tests seeding votes against it get
	// the same one-row-per-active-member result the SQL produces.
	roster *fakeStaffRepo

	stats *domain.CampaignStats
}

func newFakeVoteRepo() *fakeVoteRepo {
	return &fakeVoteRepo{}
}

func (r *fakeVoteRepo) hasVotes(campaignID string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.votes {
		if existing.CampaignID == campaignID {
			return true
		}
	}
	return false
}

func (r *fakeVoteRepo) Create(_ context.Context, vote *domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.votes {
		if existing.CampaignID == vote.CampaignID && existing.VoterStaffID == vote.VoterStaffID {
			return uniqueViolation()
		}
	}
	r.seq++
	vote.ID = fmt.Sprintf("vote-%d", r.seq)
	vote.CreatedAt = time.Now()
	clone := *vote
	r.votes = append(r.votes, &clone)
	return nil
}

func (r *fakeVoteRepo) Update(_ context.Context, vote *domain.Vote) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i, existing := range r.votes {
		if existing.ID == vote.ID {
			clone := *vote
			r.votes[i] = &clone
			return nil
		}
	}
	return pgx.ErrNoRows
}

func (r *fakeVoteRepo) GetByID(_ context.Context, id string) (*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.votes {
		if existing.ID == id {
			clone := *existing
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeVoteRepo) GetByVoter(_ context.Context, campaignID, voterStaffID string) (*domain.Vote, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.hideExisting {
		return nil, pgx.ErrNoRows
	}
	for _, existing := range r.votes {
		if existing.CampaignID == campaignID && existing.VoterStaffID == voterStaffID {
			clone := *existing
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeVoteRepo) GetDetailByVoter(ctx context.Context, campaignID, voterStaffID string) (*domain.VoteDetail, error) {
	vote, err := r.GetByVoter(ctx, campaignID, voterStaffID)
	if err != nil {
		return nil, err
	}
	return &domain.VoteDetail{Vote: *vote}, nil
}

func (r *fakeVoteRepo) ListByCampaign(_ context.Context, campaignID string) ([]domain.VoteAudit, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	result := make([]domain.VoteAudit, 0)
	for i := len(r.votes) - 1; i >= 0; i-- {
		if r.votes[i].CampaignID == campaignID {
			result = append(result, domain.VoteAudit{Vote: *r.votes[i]})
		}
	}
	return result, nil
}

// Tally mirrors the production aggregation: one row per active roster
// member, reasons in cast order, ranked by vote count with a name tiebreak.
func (r *fakeVoteRepo) Tally(ctx context.Context, campaignID string) ([]domain.TallyRow, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.roster == nil {
		return []domain.TallyRow{}, nil
	}
	active := true
	members, err := r.roster.List(ctx, repository.StaffFilter{Active: &active})
	if err != nil {
		return nil, err
	}

	rows := make([]domain.TallyRow, 0, len(members))
	for _, member := range members {
		row := domain.TallyRow{
			Name:       member.Name,
			Position:   member.Position,
			Department: member.Department,
			Reasons:    []string{},
		}
		for _, vote := range r.votes {
			if vote.CampaignID == campaignID && vote.CandidateStaffID == member.StaffID {
				row.VoteCount++
				row.Reasons = append(row.Reasons, vote.Reason)
			}
		}
		rows = append(rows, row)
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].VoteCount != rows[j].VoteCount {
			return rows[i].VoteCount > rows[j].VoteCount
		}
		return rows[i].Name < rows[j].Name
	})
	return rows, nil
}

func (r *fakeVoteRepo) Stats(_ context.Context, _ string) (*domain.CampaignStats, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stats != nil {
		return r.stats, nil
	}
	return &domain.CampaignStats{}, nil
}

func (r *fakeVoteRepo) CountByStaff(_ context.Context, staffID string) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	count := 0
	for _, existing := range r.votes {
		if existing.VoterStaffID == staffID || existing.CandidateStaffID == staffID {
			count++
		}
	}
	return count, nil
}

type fakeAdminRepo struct {
	mu     sync.Mutex
	seq    int
	admins []*domain.Admin
}

func newFakeAdminRepo() *fakeAdminRepo {
	return &fakeAdminRepo{}
}

func (r *fakeAdminRepo) Create(_ context.Context, admin *domain.Admin) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.seq++
	admin.ID = fmt.Sprintf("admin-%d", r.seq)
	admin.CreatedAt = time.Now()
	clone := *admin
	r.admins = append(r.admins, &clone)
	return nil
}

func (r *fakeAdminRepo) GetByID(_ context.Context, id string) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.admins {
		if existing.ID == id {
			clone := *existing
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAdminRepo) GetByUsername(_ context.Context, username string) (*domain.Admin, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.admins {
		if existing.Username == username {
			clone := *existing
			return &clone, nil
		}
	}
	return nil, pgx.ErrNoRows
}

func (r *fakeAdminRepo) Count(_ context.Context) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.admins), nil
}
