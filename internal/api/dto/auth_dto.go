package dto

import "time"

// AdminLoginRequest payload.
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// StaffLoginRequest payload.
type StaffLoginRequest struct {
	StaffID string `json:"staff_id"`
	PIN     string `json:"pin"`
}

// AuthResponse standard response for auth endpoints.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
}
