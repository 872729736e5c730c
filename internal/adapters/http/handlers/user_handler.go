package handlers

import (
	"github.com/gofiber/fiber/v2"

	"hospicare/internal/core/services"
	"hospicare/internal/pkg/response"
)

// UserHandler handles the authenticated directory endpoints
type UserHandler struct {
	doctorService     *services.DoctorService
	departmentService *services.DepartmentService
}

// NewUserHandler creates a new user handler
func NewUserHandler(
	doctorService *services.DoctorService,
	departmentService *services.DepartmentService,
) *UserHandler {
	return &UserHandler{
		doctorService:     doctorService,
		departmentService: departmentService,
	}
}

// ListDoctors lists directory entries for booking
// @Summary List doctors
// @Tags Directory
// @Security BearerAuth
// @Produce json
// @Param specialization query string false "Exact specialization filter"
// @Success 200 {object} response.Response
// @Router /doctors [get]
func (h *UserHandler) ListDoctors(c *fiber.Ctx) error {
	doctors, err := h.doctorService.ListDoctors(c.Context(), c.Query("specialization"))
	if err != nil {
		return response.InternalServerError(c, "Failed to list doctors")
	}

	return response.Success(c, "", doctors)
}

// ListDepartments lists the department catalog, seeding defaults on first
// access
// @Summary List departments
// @Tags Directory
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /departments [get]
func (h *UserHandler) ListDepartments(c *fiber.Ctx) error {
	departments, err := h.departmentService.List(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list departments")
	}

	return response.Success(c, "", departments)
}
