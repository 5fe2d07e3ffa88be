package domain

import "time"

// StaffMember models an employee who can vote and be voted for.
type StaffMember struct {
	ID         string
	StaffID    string
	PINHash    string
	Name       string
	Position   string
	Department string
	Email      *string
	Phone      *string
	Active     bool
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// StaffOverview aggregates roster counts for the admin dashboard.
type StaffOverview struct {
	TotalStaff    int
	ActiveStaff   int
	InactiveStaff int
	Departments   int
}
