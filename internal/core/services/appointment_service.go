package services

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"

	"hospicare/internal/adapters/persistence/models"
	"hospicare/internal/adapters/persistence/repositories"
	"hospicare/internal/core/domain"
)

// AppointmentService owns the appointment ledger. Every status change
// funnels through applyTransition: ownership is checked here against the
// loaded record, the legal next state comes from domain.Transition, and
// the write is a compare-and-set on (id, current status). The transport
// layer's role check is never trusted on its own.
type AppointmentService struct {
	appointmentRepo repositories.AppointmentRepository
	userRepo        repositories.UserRepository
}

// NewAppointmentService creates a new appointment service
func NewAppointmentService(
	appointmentRepo repositories.AppointmentRepository,
	userRepo repositories.UserRepository,
) *AppointmentService {
	return &AppointmentService{
		appointmentRepo: appointmentRepo,
		userRepo:        userRepo,
	}
}

// CreateAppointmentInput represents appointment booking input
type CreateAppointmentInput struct {
	DoctorID uint    `json:"doctor_id" validate:"required"`
	Date     string  `json:"date" validate:"required"`
	TimeSlot *string `json:"time_slot"`
	Reason   string  `json:"reason" validate:"required"`
}

// CompleteInput carries the optional clinical notes written on completion
type CompleteInput struct {
	Diagnosis    string `json:"diagnosis"`
	Prescription string `json:"prescription"`
}

// Create books a new appointment in state pending
func (s *AppointmentService) Create(ctx context.Context, patientID uint, input *CreateAppointmentInput) (*models.AppointmentResponse, error) {
	if input.DoctorID == 0 || strings.TrimSpace(input.Reason) == "" || strings.TrimSpace(input.Date) == "" {
		return nil, domain.ErrValidation
	}

	date, err := time.Parse("2006-01-02", input.Date)
	if err != nil {
		return nil, domain.ErrValidation
	}

	// Resolve the doctor against the identity store
	doctor, err := s.userRepo.GetByID(ctx, input.DoctorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrDoctorNotFound
		}
		return nil, err
	}
	if doctor.Role != domain.RoleDoctor {
		return nil, domain.ErrNotADoctor
	}

	appointment := &models.Appointment{
		PatientID: patientID,
		DoctorID:  doctor.ID,
		Date:      date,
		TimeSlot:  input.TimeSlot,
		Reason:    strings.TrimSpace(input.Reason),
		Status:    domain.StatusPending,
	}

	if err := s.appointmentRepo.Create(ctx, appointment); err != nil {
		return nil, err
	}

	// Reload with relations
	appointment, err = s.appointmentRepo.GetByID(ctx, appointment.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Appointment %d created: patient=%d doctor=%d date=%s",
		appointment.ID, patientID, doctor.ID, input.Date)

	return appointment.ToResponse(), nil
}

// Approve moves a pending appointment to approved.
// Allowed: assigned doctor, admin.
func (s *AppointmentService) Approve(ctx context.Context, id uint, actor domain.Actor) (*models.AppointmentResponse, error) {
	return s.applyTransition(ctx, id, actor, domain.ActionApprove, nil)
}

// Reject moves a pending appointment to cancelled (doctor-initiated).
// Allowed: assigned doctor, admin.
func (s *AppointmentService) Reject(ctx context.Context, id uint, actor domain.Actor) (*models.AppointmentResponse, error) {
	return s.applyTransition(ctx, id, actor, domain.ActionReject, nil)
}

// Cancel moves a pending or approved appointment to cancelled.
// Allowed: owning patient, assigned doctor, admin.
func (s *AppointmentService) Cancel(ctx context.Context, id uint, actor domain.Actor) (*models.AppointmentResponse, error) {
	return s.applyTransition(ctx, id, actor, domain.ActionCancel, nil)
}

// Complete moves an approved appointment to completed and stores the
// clinical notes. Allowed: assigned doctor, admin.
func (s *AppointmentService) Complete(ctx context.Context, id uint, actor domain.Actor, input *CompleteInput) (*models.AppointmentResponse, error) {
	updates := map[string]interface{}{}
	if input != nil {
		if input.Diagnosis != "" {
			updates["diagnosis"] = input.Diagnosis
		}
		if input.Prescription != "" {
			updates["prescription"] = input.Prescription
		}
	}
	return s.applyTransition(ctx, id, actor, domain.ActionComplete, updates)
}

// applyTransition loads the record, authorizes the actor against it,
// validates the transition and performs the CAS write. A CAS miss means a
// concurrent writer got there first; that surfaces as ErrInvalidTransition
// so the caller re-reads current state.
func (s *AppointmentService) applyTransition(ctx context.Context, id uint, actor domain.Actor, action domain.Action, updates map[string]interface{}) (*models.AppointmentResponse, error) {
	appointment, err := s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, err
	}

	if !s.authorized(appointment, actor, action) {
		return nil, domain.ErrForbidden
	}

	next, err := domain.Transition(appointment.Status, action)
	if err != nil {
		return nil, err
	}

	ok, err := s.appointmentRepo.UpdateStatus(ctx, id, appointment.Status, next, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		// Lost the race — the record moved under us
		return nil, domain.ErrInvalidTransition
	}

	appointment, err = s.appointmentRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	log.Printf("✅ Appointment %d → %s (by user %d)", id, next, actor.ID)
	return appointment.ToResponse(), nil
}

// authorized checks the actor against the record. Assigned doctor and
// owning patient are record-specific facts only the ledger knows.
func (s *AppointmentService) authorized(a *models.Appointment, actor domain.Actor, action domain.Action) bool {
	if actor.IsAdmin() {
		return true
	}

	switch action {
	case domain.ActionApprove, domain.ActionReject, domain.ActionComplete:
		return actor.Role == domain.RoleDoctor && actor.ID == a.DoctorID
	case domain.ActionCancel:
		if actor.Role == domain.RolePatient {
			return actor.ID == a.PatientID
		}
		return actor.Role == domain.RoleDoctor && actor.ID == a.DoctorID
	}
	return false
}

// ListForPatient lists a patient's appointments joined with the doctor's
// name and specialization, newest first
func (s *AppointmentService) ListForPatient(ctx context.Context, patientID uint) ([]*models.AppointmentResponse, error) {
	appointments, err := s.appointmentRepo.ListByPatient(ctx, patientID)
	if err != nil {
		return nil, err
	}
	return toResponses(appointments), nil
}

// ListForDoctor lists a doctor's appointments joined with the patient's
// name and contact, soonest first
func (s *AppointmentService) ListForDoctor(ctx context.Context, doctorID uint) ([]*models.AppointmentResponse, error) {
	appointments, err := s.appointmentRepo.ListByDoctor(ctx, doctorID)
	if err != nil {
		return nil, err
	}
	return toResponses(appointments), nil
}

// ListAll lists every appointment joined with both names, newest first
func (s *AppointmentService) ListAll(ctx context.Context) ([]*models.AppointmentResponse, error) {
	appointments, err := s.appointmentRepo.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	return toResponses(appointments), nil
}

func toResponses(appointments []*models.Appointment) []*models.AppointmentResponse {
	responses := make([]*models.AppointmentResponse, 0, len(appointments))
	for _, a := range appointments {
		responses = append(responses, a.ToResponse())
	}
	return responses
}
