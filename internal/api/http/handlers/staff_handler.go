package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/recognition-service/internal/api/dto"
	"github.com/spec-kit/recognition-service/internal/auth"
	"github.com/spec-kit/recognition-service/internal/service"
	apperrors "github.com/spec-kit/recognition-service/pkg/util"
)

// StaffHandler exposes roster management (admin) and candidate listing (staff).
type StaffHandler struct {
	staff *service.StaffService
}

// NewStaffHandler constructs handler.
func NewStaffHandler(staffService *service.StaffService) *StaffHandler {
	return &StaffHandler{staff: staffService}
}

// Create handles POST /staff.
func (h *StaffHandler) Create(c *fiber.Ctx) error {
	var req dto.CreateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	staff, err := h.staff.Create(c.Context(), service.StaffCreateInput{
		StaffID:    req.StaffID,
		PIN:        req.PIN,
		Name:       req.Name,
		Position:   req.Position,
		Department: req.Department,
		Email:      req.Email,
		Phone:      req.Phone,
	})
	if err != nil {
		return err
	}

	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewStaffResponse(staff)})
}

// Update handles PUT /staff/:id.
func (h *StaffHandler) Update(c *fiber.Ctx) error {
	var req dto.UpdateStaffRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	staff, err := h.staff.Update(c.Context(), c.Params("id"), service.StaffUpdateInput{
		Name:       req.Name,
		Position:   req.Position,
		Department: req.Department,
		Email:      req.Email,
		Phone:      req.Phone,
		Active:     req.Active,
	})
	if err != nil {
		return err
	}

	return c.JSON(fiber.Map{"data": dto.NewStaffResponse(staff)})
}

// Delete handles DELETE /staff/:id.
func (h *StaffHandler) Delete(c *fiber.Ctx) error {
	if err := h.staff.Delete(c.Context(), c.Params("id")); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// Get handles GET /staff/:id.
func (h *StaffHandler) Get(c *fiber.Ctx) error {
	staff, err := h.staff.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffResponse(staff)})
}

// List handles GET /staff: the full roster, active and inactive.
func (h *StaffHandler) List(c *fiber.Ctx) error {
	staff, err := h.staff.List(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffListResponse(staff)})
}

// ByDepartment handles GET /staff/department/:department: active members of
// one department.
func (h *StaffHandler) ByDepartment(c *fiber.Ctx) error {
	staff, err := h.staff.ByDepartment(c.Context(), c.Params("department"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffListResponse(staff)})
}

// Candidates handles GET /staff/voting: active staff excluding the caller.
func (h *StaffHandler) Candidates(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok || principal.Staff == nil {
		return fiber.NewError(http.StatusUnauthorized, http.StatusText(http.StatusUnauthorized))
	}

	staff, err := h.staff.Candidates(c.Context(), principal.Staff.StaffID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffListResponse(staff)})
}

// Overview handles GET /staff/stats/overview.
func (h *StaffHandler) Overview(c *fiber.Ctx) error {
	overview, err := h.staff.Overview(c.Context())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.StaffOverviewResponse{
		TotalStaff:    overview.TotalStaff,
		ActiveStaff:   overview.ActiveStaff,
		InactiveStaff: overview.InactiveStaff,
		Departments:   overview.Departments,
	}})
}

// ResetPIN handles POST /staff/:id/reset-pin. The fresh PIN is returned once
// and only its hash is stored.
func (h *StaffHandler) ResetPIN(c *fiber.Ctx) error {
	newPIN, err := h.staff.ResetPIN(c.Context(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.ResetPINResponse{NewPIN: newPIN}})
}
