package service

import (
	"context"
	"testing"

	"go.uber.org/zap"

	"github.com/spec-kit/recognition-service/internal/auth"
	"github.com/spec-kit/recognition-service/internal/config"
	"github.com/spec-kit/recognition-service/internal/domain"
)

func newAuthTestService(t *testing.T) (*AuthService, *fakeAdminRepo, *fakeStaffRepo) {
	t.Helper()
	admins := newFakeAdminRepo()
	staff := newFakeStaffRepo()
	cfg := config.Config{
		Auth: config.AuthConfig{
			JWTSecret:             "test-secret",
			AccessTokenTTLMinutes: 60,
			BcryptCost:            testBcryptCost,
		},
	}
	return NewAuthService(cfg, AuthDependencies{AdminRepo: admins, StaffRepo: staff}), admins, staff
}

func mustHash(t *testing.T, plain string) string {
	t.Helper()
	hash, err := auth.HashPassword(plain, testBcryptCost)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	return hash
}

func TestLoginAdmin(t *testing.T) {
	svc, admins, _ := newAuthTestService(t)
	if err := admins.Create(context.Background(), &domain.Admin{
		Username:     "root",
		PasswordHash: mustHash(t, "s3cret"),
		Active:       true,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	admin, token, exp, err := svc.LoginAdmin(context.Background(), "root", "s3cret")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if token == "" || exp.IsZero() {
		t.Fatal("expected token and expiry")
	}

	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.SubjectID != admin.ID || claims.Subject != domain.SubjectTypeAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginAdminUniformFailures(t *testing.T) {
	svc, admins, _ := newAuthTestService(t)
	if err := admins.Create(context.Background(), &domain.Admin{
		Username:     "root",
		PasswordHash: mustHash(t, "s3cret"),
		Active:       true,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := admins.Create(context.Background(), &domain.Admin{
		Username:     "retired",
		PasswordHash: mustHash(t, "s3cret"),
		Active:       false,
	}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cases := []struct {
		name     string
		username string
		password string
	}{
		{"unknown username", "ghost", "s3cret"},
		{"wrong password", "root", "wrong"},
		{"inactive account", "retired", "s3cret"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := svc.LoginAdmin(context.Background(), tc.username, tc.password)
			domainErr := assertDomainErrorCode(t, err, "UNAUTHORIZED")
			if domainErr.Message != "invalid credentials" {
				t.Fatalf("failure must not reveal which check failed, got %q", domainErr.Message)
			}
		})
	}
}

func TestLoginStaff(t *testing.T) {
	svc, _, staff := newAuthTestService(t)
	staff.seed(domain.StaffMember{
		ID: "staff-a", StaffID: "E100", PINHash: mustHash(t, "1234"),
		Name: "Ada Vance", Position: "Nurse", Department: "ICU", Active: true,
	})

	member, token, _, err := svc.LoginStaff(context.Background(), "E100", "1234")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	claims, err := svc.TokenManager().ParseToken(token)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if claims.Subject != domain.SubjectTypeStaff || claims.StaffID != member.StaffID || claims.Name != member.Name {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestLoginStaffUniformFailures(t *testing.T) {
	svc, _, staff := newAuthTestService(t)
	staff.seed(
		domain.StaffMember{ID: "staff-a", StaffID: "E100", PINHash: mustHash(t, "1234"), Name: "Ada Vance", Position: "Nurse", Department: "ICU", Active: true},
		domain.StaffMember{ID: "staff-b", StaffID: "E300", PINHash: mustHash(t, "1234"), Name: "Cleo Marsh", Position: "Clerk", Department: "Admissions", Active: false},
	)

	cases := []struct {
		name    string
		staffID string
		pin     string
	}{
		{"unknown staff ID", "E999", "1234"},
		{"wrong PIN", "E100", "0000"},
		{"inactive staff", "E300", "1234"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, _, err := svc.LoginStaff(context.Background(), tc.staffID, tc.pin)
			domainErr := assertDomainErrorCode(t, err, "UNAUTHORIZED")
			if domainErr.Message != "invalid staff ID or PIN" {
				t.Fatalf("failure must not reveal which check failed, got %q", domainErr.Message)
			}
		})
	}
}

func TestEnsureBootstrapAdmin(t *testing.T) {
	svc, admins, _ := newAuthTestService(t)
	logger := zap.NewNop()

	cfg := config.AuthConfig{
		BootstrapAdminUsername: "root",
		BootstrapAdminPassword: "s3cret",
		BcryptCost:             testBcryptCost,
	}
	if err := svc.EnsureBootstrapAdmin(context.Background(), cfg, logger); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	admin, err := admins.GetByUsername(context.Background(), "root")
	if err != nil {
		t.Fatalf("expected bootstrap admin: %v", err)
	}
	if err := auth.ComparePassword(admin.PasswordHash, "s3cret"); err != nil {
		t.Fatalf("bootstrap password hash does not verify: %v", err)
	}

	// A second run must not create another account.
	if err := svc.EnsureBootstrapAdmin(context.Background(), cfg, logger); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count, err := admins.Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected exactly one admin, got %d", count)
	}
}

func TestEnsureBootstrapAdminSkippedWithoutPassword(t *testing.T) {
	svc, admins, _ := newAuthTestService(t)

	if err := svc.EnsureBootstrapAdmin(context.Background(), config.AuthConfig{}, zap.NewNop()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	count, err := admins.Count(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected no admin, got %d", count)
	}
}
