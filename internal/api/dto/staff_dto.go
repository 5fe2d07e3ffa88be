package dto

import (
	"time"

	"github.com/spec-kit/recognition-service/internal/domain"
)

// CreateStaffRequest payload.
type CreateStaffRequest struct {
	StaffID    string  `json:"staff_id"`
	PIN        string  `json:"pin"`
	Name       string  `json:"name"`
	Position   string  `json:"position"`
	Department string  `json:"department"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
}

// UpdateStaffRequest payload.
type UpdateStaffRequest struct {
	Name       string  `json:"name"`
	Position   string  `json:"position"`
	Department string  `json:"department"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Active     *bool   `json:"is_active"`
}

// StaffResponse represents a roster entry. The PIN hash never leaves the
// service.
type StaffResponse struct {
	ID         string    `json:"id"`
	StaffID    string    `json:"staff_id"`
	Name       string    `json:"name"`
	Position   string    `json:"position"`
	Department string    `json:"department"`
	Email      *string   `json:"email,omitempty"`
	Phone      *string   `json:"phone,omitempty"`
	Active     bool      `json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewStaffResponse maps a domain staff member to its response shape.
func NewStaffResponse(staff *domain.StaffMember) StaffResponse {
	return StaffResponse{
		ID:         staff.ID,
		StaffID:    staff.StaffID,
		Name:       staff.Name,
		Position:   staff.Position,
		Department: staff.Department,
		Email:      staff.Email,
		Phone:      staff.Phone,
		Active:     staff.Active,
		CreatedAt:  staff.CreatedAt,
	}
}

// NewStaffListResponse maps a roster slice.
func NewStaffListResponse(staff []domain.StaffMember) []StaffResponse {
	result := make([]StaffResponse, 0, len(staff))
	for i := range staff {
		result = append(result, NewStaffResponse(&staff[i]))
	}
	return result
}

// StaffOverviewResponse aggregates roster counts.
type StaffOverviewResponse struct {
	TotalStaff    int `json:"total_staff"`
	ActiveStaff   int `json:"active_staff"`
	InactiveStaff int `json:"inactive_staff"`
	Departments   int `json:"departments"`
}

// ResetPINResponse carries the freshly generated PIN, shown exactly once.
type ResetPINResponse struct {
	NewPIN string `json:"new_pin"`
}
