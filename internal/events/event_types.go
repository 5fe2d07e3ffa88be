package events

import (
	"time"

	"github.com/spec-kit/recognition-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventCampaignCreated   EventType = "campaign_created"
	EventCampaignPublished EventType = "campaign_published"
	EventVoteCast          EventType = "vote_cast"
	EventVoteAmended       EventType = "vote_amended"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	Type    domain.SubjectType `json:"type"`
	AdminID *string            `json:"admin_id,omitempty"`
	StaffID *string            `json:"staff_id,omitempty"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID         string      `json:"id"`
	Type       EventType   `json:"type"`
	CampaignID string      `json:"campaign_id"`
	Actor      Actor       `json:"actor"`
	Timestamp  time.Time   `json:"timestamp"`
	Payload    interface{} `json:"payload"`
}

// CampaignCreatedPayload payload.
type CampaignCreatedPayload struct {
	Title     string    `json:"title"`
	StartDate time.Time `json:"start_date"`
	EndDate   time.Time `json:"end_date"`
}

// CampaignPublishedPayload payload.
type CampaignPublishedPayload struct {
	Published bool `json:"published"`
}

// VoteCastPayload payload.
type VoteCastPayload struct {
	VoteID           string `json:"vote_id"`
	CandidateStaffID string `json:"candidate_staff_id"`
	ReasonPreview    string `json:"reason_preview"`
}

// VoteAmendedPayload payload.
type VoteAmendedPayload struct {
	VoteID           string `json:"vote_id"`
	CandidateStaffID string `json:"candidate_staff_id"`
}
