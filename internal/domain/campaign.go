package domain

import "time"

// Campaign is a time-boxed voting round.
//
// Active is a soft-disable switch independent of the time window. Published
// gates visibility: an unpublished campaign is invisible to staff even while
// its window is open.
type Campaign struct {
	ID          string
	Title       string
	Description *string
	StartDate   time.Time
	EndDate     time.Time
	Active      bool
	Published   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Votable reports whether votes may be cast at the given instant.
func (c *Campaign) Votable(now time.Time) bool {
	return c.Active && c.Published && !now.Before(c.StartDate) && !now.After(c.EndDate)
}

// ResultsViewable reports whether results may be shown to staff: the campaign
// must be published and past its end date.
func (c *Campaign) ResultsViewable(now time.Time) bool {
	return c.Published && now.After(c.EndDate)
}
