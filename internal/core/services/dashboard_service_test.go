package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hospicare/internal/core/domain"
)

func TestDashboardService_GetAdminStats(t *testing.T) {
	ctx := context.Background()

	userRepo := new(MockUserRepository)
	appointmentRepo := new(MockAppointmentRepository)
	service := NewDashboardService(userRepo, appointmentRepo)

	userRepo.On("CountByRole", ctx, domain.RoleDoctor).Return(int64(4), nil)
	userRepo.On("CountByRole", ctx, domain.RolePatient).Return(int64(120), nil)
	appointmentRepo.On("Count", ctx).Return(int64(300), nil)
	appointmentRepo.On("CountByStatus", ctx).Return(map[domain.Status]int64{
		domain.StatusPending:   12,
		domain.StatusApproved:  30,
		domain.StatusCancelled: 58,
		domain.StatusCompleted: 200,
	}, nil)

	stats, err := service.GetAdminStats(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(4), stats.Doctors)
	assert.Equal(t, int64(120), stats.Patients)
	assert.Equal(t, int64(300), stats.Appointments)
	assert.Equal(t, int64(12), stats.ByStatus[domain.StatusPending])
}
