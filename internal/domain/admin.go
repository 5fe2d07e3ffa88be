package domain

import "time"

// Admin is an administrator account authenticated by username and password.
type Admin struct {
	ID           string
	Username     string
	Email        *string
	PasswordHash string
	Active       bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
