package dto

import (
	"time"

	"github.com/spec-kit/recognition-service/internal/domain"
)

// CastVoteRequest payload.
type CastVoteRequest struct {
	CampaignID       string `json:"campaign_id"`
	CandidateStaffID string `json:"candidate_staff_id"`
	Reason           string `json:"reason"`
}

// AmendVoteRequest payload.
type AmendVoteRequest struct {
	CandidateStaffID string `json:"candidate_staff_id"`
	Reason           string `json:"reason"`
}

// VoteResponse represents a cast or amended vote.
type VoteResponse struct {
	ID               string    `json:"id"`
	CampaignID       string    `json:"campaign_id"`
	CandidateStaffID string    `json:"candidate_staff_id"`
	Reason           string    `json:"reason"`
	CreatedAt        time.Time `json:"created_at"`
}

// NewVoteResponse maps a domain vote to its response shape.
func NewVoteResponse(vote *domain.Vote) VoteResponse {
	return VoteResponse{
		ID:               vote.ID,
		CampaignID:       vote.CampaignID,
		CandidateStaffID: vote.CandidateStaffID,
		Reason:           vote.Reason,
		CreatedAt:        vote.CreatedAt,
	}
}

// MyVoteResponse joins the voter's vote with display fields.
type MyVoteResponse struct {
	VoteResponse
	CampaignTitle       string `json:"campaign_title"`
	CandidateName       string `json:"candidate_name"`
	CandidatePosition   string `json:"candidate_position"`
	CandidateDepartment string `json:"candidate_department"`
}

// NewMyVoteResponse maps a vote detail.
func NewMyVoteResponse(detail *domain.VoteDetail) MyVoteResponse {
	return MyVoteResponse{
		VoteResponse:        NewVoteResponse(&detail.Vote),
		CampaignTitle:       detail.CampaignTitle,
		CandidateName:       detail.CandidateName,
		CandidatePosition:   detail.CandidatePosition,
		CandidateDepartment: detail.CandidateDepartment,
	}
}

// VoteAuditResponse joins a vote with voter and candidate identity.
type VoteAuditResponse struct {
	VoteResponse
	VoterStaffID        string `json:"voter_staff_id"`
	VoterName           string `json:"voter_name"`
	VoterPosition       string `json:"voter_position"`
	VoterDepartment     string `json:"voter_department"`
	CandidateName       string `json:"candidate_name"`
	CandidatePosition   string `json:"candidate_position"`
	CandidateDepartment string `json:"candidate_department"`
}

// NewVoteAuditListResponse maps an audit listing.
func NewVoteAuditListResponse(votes []domain.VoteAudit) []VoteAuditResponse {
	result := make([]VoteAuditResponse, 0, len(votes))
	for i := range votes {
		audit := &votes[i]
		result = append(result, VoteAuditResponse{
			VoteResponse:        NewVoteResponse(&audit.Vote),
			VoterStaffID:        audit.VoterStaffID,
			VoterName:           audit.VoterName,
			VoterPosition:       audit.VoterPosition,
			VoterDepartment:     audit.VoterDepartment,
			CandidateName:       audit.CandidateName,
			CandidatePosition:   audit.CandidatePosition,
			CandidateDepartment: audit.CandidateDepartment,
		})
	}
	return result
}

// TallyRowResponse is one ranked results line.
type TallyRowResponse struct {
	Name       string   `json:"name"`
	Position   string   `json:"position"`
	Department string   `json:"department"`
	VoteCount  int      `json:"vote_count"`
	Reasons    []string `json:"reasons"`
}

// NewTallyResponse maps tally rows.
func NewTallyResponse(rows []domain.TallyRow) []TallyRowResponse {
	result := make([]TallyRowResponse, 0, len(rows))
	for _, row := range rows {
		reasons := row.Reasons
		if reasons == nil {
			reasons = []string{}
		}
		result = append(result, TallyRowResponse{
			Name:       row.Name,
			Position:   row.Position,
			Department: row.Department,
			VoteCount:  row.VoteCount,
			Reasons:    reasons,
		})
	}
	return result
}

// VoteStatsResponse carries aggregate counts for a campaign.
type VoteStatsResponse struct {
	TotalVotes   int `json:"total_votes"`
	UniqueVoters int `json:"unique_voters"`
	Candidates   int `json:"candidates"`
	TotalStaff   int `json:"total_staff"`
}
