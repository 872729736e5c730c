package services

import (
	"context"

	"hospicare/internal/adapters/persistence/repositories"
	"hospicare/internal/core/domain"
)

// DashboardService aggregates admin overview counts
type DashboardService struct {
	userRepo        repositories.UserRepository
	appointmentRepo repositories.AppointmentRepository
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(
	userRepo repositories.UserRepository,
	appointmentRepo repositories.AppointmentRepository,
) *DashboardService {
	return &DashboardService{
		userRepo:        userRepo,
		appointmentRepo: appointmentRepo,
	}
}

// AdminStats represents the admin dashboard counts
type AdminStats struct {
	Doctors      int64                   `json:"doctors"`
	Patients     int64                   `json:"patients"`
	Appointments int64                   `json:"appointments"`
	ByStatus     map[domain.Status]int64 `json:"by_status"`
}

// GetAdminStats returns doctor/patient/appointment totals plus the
// per-status appointment breakdown
func (s *DashboardService) GetAdminStats(ctx context.Context) (*AdminStats, error) {
	doctors, err := s.userRepo.CountByRole(ctx, domain.RoleDoctor)
	if err != nil {
		return nil, err
	}

	patients, err := s.userRepo.CountByRole(ctx, domain.RolePatient)
	if err != nil {
		return nil, err
	}

	appointments, err := s.appointmentRepo.Count(ctx)
	if err != nil {
		return nil, err
	}

	byStatus, err := s.appointmentRepo.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &AdminStats{
		Doctors:      doctors,
		Patients:     patients,
		Appointments: appointments,
		ByStatus:     byStatus,
	}, nil
}
