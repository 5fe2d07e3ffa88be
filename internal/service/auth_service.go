package service

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"github.com/spec-kit/recognition-service/internal/auth"
	"github.com/spec-kit/recognition-service/internal/config"
	"github.com/spec-kit/recognition-service/internal/domain"
	"github.com/spec-kit/recognition-service/internal/repository"
	apperrors "github.com/spec-kit/recognition-service/pkg/util"
)

// AuthService coordinates admin and staff login flows.
type AuthService struct {
	admins     repository.AdminRepository
	staff      repository.StaffRepository
	tokenMgr   *auth.TokenManager
	bcryptCost int
}

// AuthDependencies encapsulates repo requirements for auth service.
type AuthDependencies struct {
	AdminRepo repository.AdminRepository
	StaffRepo repository.StaffRepository
}

// NewAuthService builds the service.
func NewAuthService(cfg config.Config, deps AuthDependencies) *AuthService {
	return &AuthService{
		admins:     deps.AdminRepo,
		staff:      deps.StaffRepo,
		tokenMgr:   auth.NewTokenManager(cfg.Auth.JWTSecret, cfg.Auth.AccessTokenTTLMinutes),
		bcryptCost: cfg.Auth.BcryptCost,
	}
}

// LoginAdmin authenticates an administrator by username and password.
func (s *AuthService) LoginAdmin(ctx context.Context, username, password string) (*domain.Admin, string, time.Time, error) {
	admin, err := s.admins.GetByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
		}
		return nil, "", time.Time{}, apperrors.NewStorageError(err)
	}
	if !admin.Active {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}
	if err := auth.ComparePassword(admin.PasswordHash, password); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid credentials")
	}

	token, exp, err := s.tokenMgr.GenerateToken(admin.ID, domain.SubjectTypeAdmin, "", "")
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return admin, token, exp, nil
}

// LoginStaff authenticates a staff member by staff ID and PIN.
func (s *AuthService) LoginStaff(ctx context.Context, staffID, pin string) (*domain.StaffMember, string, time.Time, error) {
	staff, err := s.staff.GetByStaffID(ctx, staffID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid staff ID or PIN")
		}
		return nil, "", time.Time{}, apperrors.NewStorageError(err)
	}
	if !staff.Active {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid staff ID or PIN")
	}
	if err := auth.ComparePassword(staff.PINHash, pin); err != nil {
		return nil, "", time.Time{}, apperrors.NewUnauthorized("invalid staff ID or PIN")
	}

	token, exp, err := s.tokenMgr.GenerateToken(staff.ID, domain.SubjectTypeStaff, staff.StaffID, staff.Name)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return staff, token, exp, nil
}

// EnsureBootstrapAdmin creates the initial administrator account when the
// admins table is empty and a bootstrap password is configured.
func (s *AuthService) EnsureBootstrapAdmin(ctx context.Context, cfg config.AuthConfig, logger *zap.Logger) error {
	if cfg.BootstrapAdminPassword == "" {
		return nil
	}
	count, err := s.admins.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword(cfg.BootstrapAdminPassword, s.bcryptCost)
	if err != nil {
		return err
	}
	admin := &domain.Admin{
		Username:     cfg.BootstrapAdminUsername,
		PasswordHash: hash,
		Active:       true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return err
	}
	logger.Info("bootstrap admin created", zap.String("username", admin.Username))
	return nil
}

// TokenManager exposes the underlying token manager for middleware usage.
func (s *AuthService) TokenManager() *auth.TokenManager {
	return s.tokenMgr
}
