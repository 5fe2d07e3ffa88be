package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/recognition-service/internal/auth"
	"github.com/spec-kit/recognition-service/internal/domain"
	"github.com/spec-kit/recognition-service/internal/repository"
	apperrors "github.com/spec-kit/recognition-service/pkg/util"
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// StaffService manages the staff roster.
type StaffService struct {
	staff      repository.StaffRepository
	votes      repository.VoteRepository
	bcryptCost int
}

// StaffDependencies bundles repositories for staff service.
type StaffDependencies struct {
	StaffRepo repository.StaffRepository
	VoteRepo  repository.VoteRepository
}

// StaffCreateInput describes roster creation payload.
type StaffCreateInput struct {
	StaffID    string
	PIN        string
	Name       string
	Position   string
	Department string
	Email      *string
	Phone      *string
}

// StaffUpdateInput describes roster update payload.
type StaffUpdateInput struct {
	Name       string
	Position   string
	Department string
	Email      *string
	Phone      *string
	Active     *bool
}

// NewStaffService constructs the service.
func NewStaffService(deps StaffDependencies, bcryptCost int) *StaffService {
	return &StaffService{
		staff:      deps.StaffRepo,
		votes:      deps.VoteRepo,
		bcryptCost: bcryptCost,
	}
}

// Create registers a new staff member. The PIN is stored as a bcrypt hash,
// never verbatim.
func (s *StaffService) Create(ctx context.Context, input StaffCreateInput) (*domain.StaffMember, error) {
	if input.StaffID == "" || input.PIN == "" || input.Name == "" || input.Position == "" || input.Department == "" {
		return nil, apperrors.NewValidationError("staff ID, PIN, name, position, and department are required", nil)
	}
	if !pinPattern.MatchString(input.PIN) {
		return nil, apperrors.NewValidationError("PIN must be exactly 4 digits", nil)
	}

	pinHash, err := auth.HashPassword(input.PIN, s.bcryptCost)
	if err != nil {
		return nil, err
	}

	staff := &domain.StaffMember{
		StaffID:    strings.TrimSpace(input.StaffID),
		PINHash:    pinHash,
		Name:       strings.TrimSpace(input.Name),
		Position:   input.Position,
		Department: input.Department,
		Email:      input.Email,
		Phone:      input.Phone,
		Active:     true,
	}
	if err := s.staff.Create(ctx, staff); err != nil {
		if repository.IsUniqueViolation(err) {
			return nil, apperrors.NewConflict("staff ID already exists; choose a different ID", nil)
		}
		return nil, apperrors.NewStorageError(err)
	}
	return staff, nil
}

// Update edits a staff member's profile and active flag.
func (s *StaffService) Update(ctx context.Context, id string, input StaffUpdateInput) (*domain.StaffMember, error) {
	if input.Name == "" || input.Position == "" || input.Department == "" {
		return nil, apperrors.NewValidationError("name, position, and department are required", nil)
	}

	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff member", nil)
		}
		return nil, apperrors.NewStorageError(err)
	}

	staff.Name = strings.TrimSpace(input.Name)
	staff.Position = input.Position
	staff.Department = input.Department
	staff.Email = input.Email
	staff.Phone = input.Phone
	if input.Active != nil {
		staff.Active = *input.Active
	}

	if err := s.staff.Update(ctx, staff); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff member", nil)
		}
		return nil, apperrors.NewStorageError(err)
	}
	return staff, nil
}

// Delete removes a staff member unless any vote references them as voter or
// candidate; deactivation is the alternative.
func (s *StaffService) Delete(ctx context.Context, id string) error {
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("staff member", nil)
		}
		return apperrors.NewStorageError(err)
	}

	count, err := s.votes.CountByStaff(ctx, staff.StaffID)
	if err != nil {
		return apperrors.NewStorageError(err)
	}
	if count > 0 {
		return apperrors.NewConflict("cannot delete staff member with existing votes; deactivate instead", nil)
	}

	err = s.staff.Delete(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repository.ErrHasVotes):
		// a vote landed between the count and the delete
		return apperrors.NewConflict("cannot delete staff member with existing votes; deactivate instead", nil)
	case errors.Is(err, pgx.ErrNoRows):
		return apperrors.NewNotFound("staff member", nil)
	default:
		return apperrors.NewStorageError(err)
	}
}

// GetByID fetches one staff member.
func (s *StaffService) GetByID(ctx context.Context, id string) (*domain.StaffMember, error) {
	staff, err := s.staff.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("staff member", nil)
		}
		return nil, apperrors.NewStorageError(err)
	}
	return staff, nil
}

// List returns the full roster ordered by name.
func (s *StaffService) List(ctx context.Context) ([]domain.StaffMember, error) {
	staff, err := s.staff.List(ctx, repository.StaffFilter{})
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return staff, nil
}

// Candidates returns active staff excluding the caller, ordered by name.
func (s *StaffService) Candidates(ctx context.Context, callerStaffID string) ([]domain.StaffMember, error) {
	active := true
	staff, err := s.staff.List(ctx, repository.StaffFilter{
		Active:         &active,
		ExcludeStaffID: &callerStaffID,
	})
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return staff, nil
}

// ByDepartment returns active staff within one department, ordered by name.
func (s *StaffService) ByDepartment(ctx context.Context, department string) ([]domain.StaffMember, error) {
	active := true
	staff, err := s.staff.List(ctx, repository.StaffFilter{
		Active:     &active,
		Department: &department,
	})
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return staff, nil
}

// Overview returns roster counts for the admin dashboard.
func (s *StaffService) Overview(ctx context.Context) (*domain.StaffOverview, error) {
	overview, err := s.staff.Overview(ctx)
	if err != nil {
		return nil, apperrors.NewStorageError(err)
	}
	return overview, nil
}

// ResetPIN assigns a fresh random 4-digit PIN and returns it once; only the
// hash is stored.
func (s *StaffService) ResetPIN(ctx context.Context, id string) (string, error) {
	newPIN, err := generatePIN()
	if err != nil {
		return "", err
	}
	pinHash, err := auth.HashPassword(newPIN, s.bcryptCost)
	if err != nil {
		return "", err
	}

	if err := s.staff.UpdatePIN(ctx, id, pinHash); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", apperrors.NewNotFound("staff member", nil)
		}
		return "", apperrors.NewStorageError(err)
	}
	return newPIN, nil
}

func generatePIN() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(10000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%04d", n.Int64()), nil
}
