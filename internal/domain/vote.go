package domain

import "time"

// Vote records one staff member's choice within one campaign. At most one
// vote exists per (CampaignID, VoterStaffID); the storage layer enforces
// this with a unique constraint.
type Vote struct {
	ID               string
	CampaignID       string
	VoterStaffID     string
	CandidateStaffID string
	Reason           string
	CreatedAt        time.Time
}

// VoteDetail joins a vote with display fields for its campaign and candidate.
type VoteDetail struct {
	Vote
	CampaignTitle       string
	CandidateName       string
	CandidatePosition   string
	CandidateDepartment string
}

// VoteAudit joins a vote with voter and candidate identity for admin review.
type VoteAudit struct {
	Vote
	VoterName           string
	VoterPosition       string
	VoterDepartment     string
	CandidateName       string
	CandidatePosition   string
	CandidateDepartment string
}

// TallyRow is one candidate's line in a campaign's ranked results. Candidates
// with zero votes still appear with an empty Reasons slice.
type TallyRow struct {
	Name       string
	Position   string
	Department string
	VoteCount  int
	Reasons    []string
}

// CampaignStats aggregates vote counts for one campaign.
type CampaignStats struct {
	TotalVotes   int
	UniqueVoters int
	Candidates   int
	TotalStaff   int
}
