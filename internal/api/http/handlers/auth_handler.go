package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/recognition-service/internal/api/dto"
	"github.com/spec-kit/recognition-service/internal/auth"
	"github.com/spec-kit/recognition-service/internal/domain"
	"github.com/spec-kit/recognition-service/internal/service"
	apperrors "github.com/spec-kit/recognition-service/pkg/util"
)

// AuthHandler exposes login endpoints for admins and staff.
type AuthHandler struct {
	auth *service.AuthService
}

// NewAuthHandler constructs handler.
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{auth: authService}
}

// AdminLogin handles POST /auth/admin/login.
func (h *AuthHandler) AdminLogin(c *fiber.Ctx) error {
	var req dto.AdminLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.Username == "" || req.Password == "" {
		return apperrors.NewValidationError("username and password are required", nil)
	}

	admin, token, exp, err := h.auth.LoginAdmin(c.Context(), req.Username, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": fiber.Map{
				"id":       admin.ID,
				"username": admin.Username,
				"email":    admin.Email,
				"role":     "admin",
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// StaffLogin handles POST /auth/staff/login.
func (h *AuthHandler) StaffLogin(c *fiber.Ctx) error {
	var req dto.StaffLoginRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.StaffID == "" || req.PIN == "" {
		return apperrors.NewValidationError("staff ID and PIN are required", nil)
	}

	staff, token, exp, err := h.auth.LoginStaff(c.Context(), req.StaffID, req.PIN)
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{
		"data": fiber.Map{
			"user": fiber.Map{
				"id":         staff.ID,
				"staff_id":   staff.StaffID,
				"name":       staff.Name,
				"position":   staff.Position,
				"department": staff.Department,
				"email":      staff.Email,
				"role":       "staff",
			},
			"auth": dto.AuthResponse{Token: token, ExpiresAt: exp},
		},
	})
}

// Me handles GET /auth/me.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	switch principal.SubjectType {
	case domain.SubjectTypeAdmin:
		return c.JSON(fiber.Map{
			"data": fiber.Map{
				"id":       principal.Admin.ID,
				"username": principal.Admin.Username,
				"role":     "admin",
			},
		})
	case domain.SubjectTypeStaff:
		return c.JSON(fiber.Map{
			"data": fiber.Map{
				"id":         principal.Staff.ID,
				"staff_id":   principal.Staff.StaffID,
				"name":       principal.Staff.Name,
				"position":   principal.Staff.Position,
				"department": principal.Staff.Department,
				"role":       "staff",
			},
		})
	default:
		return apperrors.NewUnauthorized("unknown subject")
	}
}
