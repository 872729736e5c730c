package handlers

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"hospicare/internal/adapters/http/middleware"
	"hospicare/internal/adapters/persistence/models"
	"hospicare/internal/core/domain"
	"hospicare/internal/core/services"
	"hospicare/internal/pkg/response"
)

// AppointmentHandler handles appointment endpoints
type AppointmentHandler struct {
	appointmentService *services.AppointmentService
}

// NewAppointmentHandler creates a new appointment handler
func NewAppointmentHandler(appointmentService *services.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{appointmentService: appointmentService}
}

// CreateAppointmentRequest represents booking request body
type CreateAppointmentRequest struct {
	DoctorID uint    `json:"doctor_id"`
	Date     string  `json:"date"`
	TimeSlot *string `json:"time_slot"`
	Reason   string  `json:"reason"`
}

// UpdateStatusRequest carries the target status plus the clinical notes
// accepted on completion
type UpdateStatusRequest struct {
	Status       string `json:"status"`
	Diagnosis    string `json:"diagnosis"`
	Prescription string `json:"prescription"`
}

// Create books a new appointment
// @Summary Create appointment
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param body body CreateAppointmentRequest true "Booking data"
// @Success 201 {object} response.Response
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /appointments [post]
func (h *AppointmentHandler) Create(c *fiber.Ctx) error {
	var req CreateAppointmentRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	patientID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	appointment, err := h.appointmentService.Create(c.Context(), patientID, &services.CreateAppointmentInput{
		DoctorID: req.DoctorID,
		Date:     req.Date,
		TimeSlot: req.TimeSlot,
		Reason:   req.Reason,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrValidation):
			return response.BadRequest(c, "Doctor, date and reason are required")
		case errors.Is(err, domain.ErrDoctorNotFound):
			return response.NotFound(c, "Doctor not found")
		case errors.Is(err, domain.ErrNotADoctor):
			return response.BadRequest(c, "Selected user is not a doctor")
		default:
			return response.InternalServerError(c, "Failed to create appointment")
		}
	}

	return response.Created(c, "Appointment created", appointment)
}

// My lists the calling patient's appointments
// @Summary List my appointments
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /appointments/my [get]
func (h *AppointmentHandler) My(c *fiber.Ctx) error {
	patientID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	appointments, err := h.appointmentService.ListForPatient(c.Context(), patientID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list appointments")
	}

	return response.Success(c, "", appointments)
}

// Doctor lists the calling doctor's appointments, soonest first
// @Summary List doctor's appointments
// @Tags Appointments
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Router /appointments/doctor [get]
func (h *AppointmentHandler) Doctor(c *fiber.Ctx) error {
	doctorID, ok := c.Locals("userID").(uint)
	if !ok {
		return response.Unauthorized(c, "Unauthorized")
	}

	appointments, err := h.appointmentService.ListForDoctor(c.Context(), doctorID)
	if err != nil {
		return response.InternalServerError(c, "Failed to list appointments")
	}

	return response.Success(c, "", appointments)
}

// UpdateStatus transitions an appointment. The wire shape is the target
// status; the ledger validates the transition and the actor against the
// record itself.
// @Summary Transition appointment status
// @Tags Appointments
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "Appointment ID"
// @Param body body UpdateStatusRequest true "Target status"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /appointments/{id}/status [put]
func (h *AppointmentHandler) UpdateStatus(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 32)
	if err != nil {
		return response.BadRequest(c, "Invalid appointment ID")
	}

	var req UpdateStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}
	if !domain.ValidStatus(req.Status) {
		return response.BadRequest(c, "Invalid target status")
	}

	actor := middleware.ActorFromContext(c)

	var appointment *models.AppointmentResponse
	switch domain.Status(req.Status) {
	case domain.StatusApproved:
		appointment, err = h.appointmentService.Approve(c.Context(), uint(id), actor)
	case domain.StatusCancelled:
		appointment, err = h.appointmentService.Cancel(c.Context(), uint(id), actor)
	case domain.StatusCompleted:
		appointment, err = h.appointmentService.Complete(c.Context(), uint(id), actor, &services.CompleteInput{
			Diagnosis:    req.Diagnosis,
			Prescription: req.Prescription,
		})
	default:
		// pending is the initial state only — never a transition target
		return response.BadRequest(c, "Cannot transition back to pending")
	}

	if err != nil {
		switch {
		case errors.Is(err, domain.ErrAppointmentNotFound):
			return response.NotFound(c, "Appointment not found")
		case errors.Is(err, domain.ErrForbidden):
			return response.Forbidden(c, "You cannot act on this appointment")
		case errors.Is(err, domain.ErrInvalidTransition):
			return response.Conflict(c, "Illegal status transition")
		default:
			return response.InternalServerError(c, "Failed to update appointment")
		}
	}

	return response.Success(c, "Appointment updated", appointment)
}
