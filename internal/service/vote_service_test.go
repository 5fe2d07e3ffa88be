package service

import (
	"context"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/spec-kit/recognition-service/internal/domain"
	"github.com/spec-kit/recognition-service/internal/events"
)

type voteTestEnv struct {
	svc       *VoteService
	votes     *fakeVoteRepo
	campaigns *fakeCampaignRepo
	staff     *fakeStaffRepo
	campaign  *domain.Campaign
	now       time.Time
}

func newVoteTestEnv(t *testing.T) *voteTestEnv {
	t.Helper()
	now := time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

	votes := newFakeVoteRepo()
	campaigns := newFakeCampaignRepo(votes)
	staff := newFakeStaffRepo()
	staff.seed(
		domain.StaffMember{StaffID: "E100", Name: "Ada Vance", Position: "Nurse", Department: "ICU", Active: true},
		domain.StaffMember{StaffID: "E200", Name: "Ben Okoro", Position: "Technician", Department: "Radiology", Active: true},
		domain.StaffMember{StaffID: "E300", Name: "Cleo Marsh", Position: "Clerk", Department: "Admissions", Active: false},
	)

	campaign := &domain.Campaign{
		Title:     "Employee of the Month",
		StartDate: now.Add(-24 * time.Hour),
		EndDate:   now.Add(24 * time.Hour),
		Active:    true,
		Published: true,
	}
	if err := campaigns.Create(context.Background(), campaign); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	svc := NewVoteService(VoteDependencies{
		VoteRepo:     votes,
		CampaignRepo: campaigns,
		StaffRepo:    staff,
		Dispatcher:   events.NewInMemoryDispatcher(zap.NewNop()),
	})
	svc.now = func() time.Time { return now }

	return &voteTestEnv{svc: svc, votes: votes, campaigns: campaigns, staff: staff, campaign: campaign, now: now}
}

func TestCastValidation(t *testing.T) {
	env := newVoteTestEnv(t)

	cases := []struct {
		name    string
		voter   string
		input   CastVoteInput
		message string
	}{
		{
			name:    "missing fields",
			voter:   "E100",
			input:   CastVoteInput{CampaignID: env.campaign.ID},
			message: "campaign ID, candidate staff ID, and reason are required",
		},
		{
			name:    "whitespace reason",
			voter:   "E100",
			input:   CastVoteInput{CampaignID: env.campaign.ID, CandidateStaffID: "E200", Reason: "   "},
			message: "reason must be at least 10 characters long",
		},
		{
			name:    "short reason",
			voter:   "E100",
			input:   CastVoteInput{CampaignID: env.campaign.ID, CandidateStaffID: "E200", Reason: "too short"},
			message: "reason must be at least 10 characters long",
		},
		{
			name:    "short multibyte reason",
			voter:   "E100",
			input:   CastVoteInput{CampaignID: env.campaign.ID, CandidateStaffID: "E200", Reason: "日本語です"},
			message: "reason must be at least 10 characters long",
		},
		{
			name:    "short reason padded with whitespace",
			voter:   "E100",
			input:   CastVoteInput{CampaignID: env.campaign.ID, CandidateStaffID: "E200", Reason: "  short  "},
			message: "reason must be at least 10 characters long",
		},
		{
			name:    "self vote",
			voter:   "E100",
			input:   CastVoteInput{CampaignID: env.campaign.ID, CandidateStaffID: "E100", Reason: "a perfectly valid reason"},
			message: "you cannot vote for yourself",
		},
		{
			name:    "unknown campaign",
			voter:   "E100",
			input:   CastVoteInput{CampaignID: "campaign-404", CandidateStaffID: "E200", Reason: "a perfectly valid reason"},
			message: "campaign is not active or not found",
		},
		{
			name:    "inactive candidate",
			voter:   "E100",
			input:   CastVoteInput{CampaignID: env.campaign.ID, CandidateStaffID: "E300", Reason: "a perfectly valid reason"},
			message: "candidate not found or inactive",
		},
		{
			name:    "unknown candidate",
			voter:   "E100",
			input:   CastVoteInput{CampaignID: env.campaign.ID, CandidateStaffID: "E999", Reason: "a perfectly valid reason"},
			message: "candidate not found or inactive",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.svc.Cast(context.Background(), tc.voter, tc.input)
			domainErr := assertDomainErrorCode(t, err, "VALIDATION_FAILED")
			if domainErr.Message != tc.message {
				t.Fatalf("expected message %q, got %q", tc.message, domainErr.Message)
			}
		})
	}
}

func TestCastReasonExactlyTenChars(t *testing.T) {
	env := newVoteTestEnv(t)

	// Ten runes each, ASCII and multibyte alike; the limit counts
	// characters, not bytes.
	reasons := map[string]string{
		"ascii":     strings.Repeat("x", 10),
		"multibyte": strings.Repeat("語", 10),
	}
	voters := map[string]string{"ascii": "E100", "multibyte": "E200"}
	candidates := map[string]string{"ascii": "E200", "multibyte": "E100"}

	for name, reason := range reasons {
		t.Run(name, func(t *testing.T) {
			vote, err := env.svc.Cast(context.Background(), voters[name], CastVoteInput{
				CampaignID:       env.campaign.ID,
				CandidateStaffID: candidates[name],
				Reason:           reason,
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if vote.Reason != reason {
				t.Fatalf("reason altered: %q", vote.Reason)
			}
			if vote.ID == "" {
				t.Fatal("expected assigned vote ID")
			}
		})
	}
}

func TestCastRejectsClosedCampaigns(t *testing.T) {
	env := newVoteTestEnv(t)

	mutate := []struct {
		name  string
		apply func(c *domain.Campaign)
	}{
		{"inactive", func(c *domain.Campaign) { c.Active = false }},
		{"unpublished", func(c *domain.Campaign) { c.Published = false }},
		{"not started", func(c *domain.Campaign) { c.StartDate = env.now.Add(time.Hour) }},
		{"ended", func(c *domain.Campaign) {
			c.StartDate = env.now.Add(-48 * time.Hour)
			c.EndDate = env.now.Add(-time.Hour)
		}},
	}

	for _, tc := range mutate {
		t.Run(tc.name, func(t *testing.T) {
			campaign := &domain.Campaign{
				Title:     "closed " + tc.name,
				StartDate: env.now.Add(-24 * time.Hour),
				EndDate:   env.now.Add(24 * time.Hour),
				Active:    true,
				Published: true,
			}
			tc.apply(campaign)
			if err := env.campaigns.Create(context.Background(), campaign); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			_, err := env.svc.Cast(context.Background(), "E100", CastVoteInput{
				CampaignID:       campaign.ID,
				CandidateStaffID: "E200",
				Reason:           "a perfectly valid reason",
			})
			domainErr := assertDomainErrorCode(t, err, "VALIDATION_FAILED")
			if domainErr.Message != "campaign is not active or not found" {
				t.Fatalf("unexpected message %q", domainErr.Message)
			}
		})
	}
}

func TestCastDuplicate(t *testing.T) {
	env := newVoteTestEnv(t)

	input := CastVoteInput{
		CampaignID:       env.campaign.ID,
		CandidateStaffID: "E200",
		Reason:           "a perfectly valid reason",
	}
	if _, err := env.svc.Cast(context.Background(), "E100", input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err := env.svc.Cast(context.Background(), "E100", input)
	domainErr := assertDomainErrorCode(t, err, "CONFLICT")
	if domainErr.Message != "you have already voted in this campaign" {
		t.Fatalf("unexpected message %q", domainErr.Message)
	}
}

func TestCastDuplicateRace(t *testing.T) {
	env := newVoteTestEnv(t)

	input := CastVoteInput{
		CampaignID:       env.campaign.ID,
		CandidateStaffID: "E200",
		Reason:           "a perfectly valid reason",
	}
	if _, err := env.svc.Cast(context.Background(), "E100", input); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// The pre-insert lookup misses the concurrent vote; the unique
	// constraint still yields the same conflict.
	env.votes.hideExisting = true
	_, err := env.svc.Cast(context.Background(), "E100", input)
	domainErr := assertDomainErrorCode(t, err, "CONFLICT")
	if domainErr.Message != "you have already voted in this campaign" {
		t.Fatalf("unexpected message %q", domainErr.Message)
	}
}

func TestAmend(t *testing.T) {
	env := newVoteTestEnv(t)
	env.staff.seed(domain.StaffMember{StaffID: "E400", Name: "Dee Ames", Position: "Porter", Department: "Facilities", Active: true})

	vote, err := env.svc.Cast(context.Background(), "E100", CastVoteInput{
		CampaignID:       env.campaign.ID,
		CandidateStaffID: "E200",
		Reason:           "a perfectly valid reason",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	amended, err := env.svc.Amend(context.Background(), "E100", vote.ID, AmendVoteInput{
		CandidateStaffID: "E400",
		Reason:           "changed my mind after the night shift",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if amended.CandidateStaffID != "E400" {
		t.Fatalf("candidate not updated: %q", amended.CandidateStaffID)
	}
	if amended.Reason != "changed my mind after the night shift" {
		t.Fatalf("reason not updated: %q", amended.Reason)
	}
}

func TestAmendOwnership(t *testing.T) {
	env := newVoteTestEnv(t)

	vote, err := env.svc.Cast(context.Background(), "E100", CastVoteInput{
		CampaignID:       env.campaign.ID,
		CandidateStaffID: "E200",
		Reason:           "a perfectly valid reason",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// Another voter cannot see or amend the vote; the error does not reveal
	// that it exists.
	_, err = env.svc.Amend(context.Background(), "E200", vote.ID, AmendVoteInput{
		CandidateStaffID: "E100",
		Reason:           "trying to rewrite someone else's vote",
	})
	assertDomainErrorCode(t, err, "NOT_FOUND")

	_, err = env.svc.Amend(context.Background(), "E100", "vote-404", AmendVoteInput{
		CandidateStaffID: "E200",
		Reason:           "a perfectly valid reason",
	})
	assertDomainErrorCode(t, err, "NOT_FOUND")
}

func TestAmendAfterCampaignEnds(t *testing.T) {
	env := newVoteTestEnv(t)

	vote, err := env.svc.Cast(context.Background(), "E100", CastVoteInput{
		CampaignID:       env.campaign.ID,
		CandidateStaffID: "E200",
		Reason:           "a perfectly valid reason",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	env.campaign.StartDate = env.now.Add(-48 * time.Hour)
	env.campaign.EndDate = env.now.Add(-time.Hour)
	if err := env.campaigns.Update(context.Background(), env.campaign); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = env.svc.Amend(context.Background(), "E100", vote.ID, AmendVoteInput{
		CandidateStaffID: "E200",
		Reason:           "far too late to change this vote",
	})
	domainErr := assertDomainErrorCode(t, err, "VALIDATION_FAILED")
	if domainErr.Message != "campaign is no longer active" {
		t.Fatalf("unexpected message %q", domainErr.Message)
	}
}

func TestAmendSelfVoteRejected(t *testing.T) {
	env := newVoteTestEnv(t)

	vote, err := env.svc.Cast(context.Background(), "E100", CastVoteInput{
		CampaignID:       env.campaign.ID,
		CandidateStaffID: "E200",
		Reason:           "a perfectly valid reason",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = env.svc.Amend(context.Background(), "E100", vote.ID, AmendVoteInput{
		CandidateStaffID: "E100",
		Reason:           "routing the vote back to myself",
	})
	domainErr := assertDomainErrorCode(t, err, "VALIDATION_FAILED")
	if domainErr.Message != "you cannot vote for yourself" {
		t.Fatalf("unexpected message %q", domainErr.Message)
	}
}

func TestAmendShortMultibyteReason(t *testing.T) {
	env := newVoteTestEnv(t)

	vote, err := env.svc.Cast(context.Background(), "E100", CastVoteInput{
		CampaignID:       env.campaign.ID,
		CandidateStaffID: "E200",
		Reason:           "a perfectly valid reason",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	_, err = env.svc.Amend(context.Background(), "E100", vote.ID, AmendVoteInput{
		CandidateStaffID: "E200",
		Reason:           "短い理由です",
	})
	domainErr := assertDomainErrorCode(t, err, "VALIDATION_FAILED")
	if domainErr.Message != "reason must be at least 10 characters long" {
		t.Fatalf("unexpected message %q", domainErr.Message)
	}
}

func TestStringPreviewRuneBoundary(t *testing.T) {
	long := strings.Repeat("語", 10)
	preview := stringPreview(long, 5)
	if preview != "語語..." {
		t.Fatalf("unexpected preview %q", preview)
	}
	if !utf8.ValidString(preview) {
		t.Fatalf("preview is not valid UTF-8: %q", preview)
	}

	if got := stringPreview("  short  ", 120); got != "short" {
		t.Fatalf("expected trimmed body, got %q", got)
	}
	if got := stringPreview(long, 10); got != long {
		t.Fatalf("body within the limit must pass unchanged, got %q", got)
	}
}

func TestMyVote(t *testing.T) {
	env := newVoteTestEnv(t)

	detail, err := env.svc.MyVote(context.Background(), env.campaign.ID, "E100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail != nil {
		t.Fatalf("expected nil before voting, got %+v", detail)
	}

	vote, err := env.svc.Cast(context.Background(), "E100", CastVoteInput{
		CampaignID:       env.campaign.ID,
		CandidateStaffID: "E200",
		Reason:           "a perfectly valid reason",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	detail, err = env.svc.MyVote(context.Background(), env.campaign.ID, "E100")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if detail == nil || detail.ID != vote.ID {
		t.Fatalf("expected vote %s, got %+v", vote.ID, detail)
	}
}
