package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hospicare/internal/core/domain"
	"hospicare/internal/core/services"
	"hospicare/internal/pkg/pagination"
	"hospicare/internal/pkg/response"
)

// AdminHandler handles admin-only endpoints
type AdminHandler struct {
	doctorService      *services.DoctorService
	appointmentService *services.AppointmentService
	departmentService  *services.DepartmentService
	dashboardService   *services.DashboardService
}

// NewAdminHandler creates a new admin handler
func NewAdminHandler(
	doctorService *services.DoctorService,
	appointmentService *services.AppointmentService,
	departmentService *services.DepartmentService,
	dashboardService *services.DashboardService,
) *AdminHandler {
	return &AdminHandler{
		doctorService:      doctorService,
		appointmentService: appointmentService,
		departmentService:  departmentService,
		dashboardService:   dashboardService,
	}
}

// SetActiveRequest represents the active-flag toggle request body.
// An absent "active" field means flip the current value.
type SetActiveRequest struct {
	Active *bool `json:"active"`
}

// DepartmentRequest represents department creation request body
type DepartmentRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Stats returns dashboard counts
// @Summary Admin dashboard stats
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.dashboardService.GetAdminStats(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to load stats")
	}

	return response.Success(c, "", stats)
}

// ListDoctors lists the full directory joined with identity fields
// @Summary List all doctors (admin view)
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/doctors [get]
func (h *AdminHandler) ListDoctors(c *fiber.Ctx) error {
	doctors, err := h.doctorService.ListDoctors(c.Context(), c.Query("specialization"))
	if err != nil {
		return response.InternalServerError(c, "Failed to list doctors")
	}

	return response.Success(c, "", doctors)
}

// AddDoctor provisions a doctor identity plus profile
// @Summary Provision doctor
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body services.ProvisionDoctorInput true "Doctor draft"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/doctors [post]
func (h *AdminHandler) AddDoctor(c *fiber.Ctx) error {
	var input services.ProvisionDoctorInput
	if err := c.BodyParser(&input); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	doctor, err := h.doctorService.ProvisionDoctor(c.Context(), &input)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, "Missing required doctor fields")
		case errors.Is(err, domain.ErrDuplicate):
			return response.Conflict(c, "Email already registered")
		default:
			return response.InternalServerError(c, "Failed to create doctor")
		}
	}

	return response.Created(c, "Doctor created successfully", doctor)
}

// ListPatients lists patient identities
// @Summary List patients
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/patients [get]
func (h *AdminHandler) ListPatients(c *fiber.Ctx) error {
	params := pagination.GetParams(c)

	patients, total, err := h.doctorService.ListPatients(c.Context(), params.Offset, params.Limit)
	if err != nil {
		return response.InternalServerError(c, "Failed to list patients")
	}

	return response.Success(c, "", pagination.NewResponse(patients, params, total))
}

// ToggleUserStatus sets or flips a user's active flag
// @Summary Toggle user active flag
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/users/{id}/status [put]
func (h *AdminHandler) ToggleUserStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid user ID")
	}

	var req SetActiveRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.doctorService.SetActive(c.Context(), uint(id), req.Active)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "User not found")
		}
		return response.InternalServerError(c, "Failed to update user")
	}

	message := "User blocked"
	if user.IsActive {
		message = "User activated"
	}
	return response.Success(c, message, user)
}

// ListAppointments lists every appointment
// @Summary List all appointments
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /admin/appointments [get]
func (h *AdminHandler) ListAppointments(c *fiber.Ctx) error {
	appointments, err := h.appointmentService.ListAll(c.Context())
	if err != nil {
		return response.InternalServerError(c, "Failed to list appointments")
	}

	return response.Success(c, "", appointments)
}

// AddDepartment creates a department
// @Summary Create department
// @Tags Admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body DepartmentRequest true "Department data"
// @Success 201 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /admin/departments [post]
func (h *AdminHandler) AddDepartment(c *fiber.Ctx) error {
	var req DepartmentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	department, err := h.departmentService.Create(c.Context(), &services.CreateDepartmentInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, "Department name is required")
		case errors.Is(err, domain.ErrDuplicate):
			return response.Conflict(c, "Department already exists")
		default:
			return response.InternalServerError(c, "Failed to create department")
		}
	}

	return response.Created(c, "Department created", department)
}

// DeleteDepartment removes a department
// @Summary Delete department
// @Tags Admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "Department ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /admin/departments/{id} [delete]
func (h *AdminHandler) DeleteDepartment(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid department ID")
	}

	if err := h.departmentService.Delete(c.Context(), uint(id)); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return response.NotFound(c, "Department not found")
		}
		return response.InternalServerError(c, "Failed to delete department")
	}

	return response.Success(c, "Department removed", nil)
}
