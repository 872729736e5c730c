package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"hospicare/internal/adapters/persistence/models"
	"hospicare/internal/core/domain"
)

func pendingAppointment() *models.Appointment {
	return &models.Appointment{
		ID:        1,
		PatientID: 10,
		DoctorID:  20,
		Date:      time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC),
		Reason:    "Annual checkup",
		Status:    domain.StatusPending,
	}
}

func newAppointmentService(appointmentRepo *MockAppointmentRepository, userRepo *MockUserRepository) *AppointmentService {
	return NewAppointmentService(appointmentRepo, userRepo)
}

func TestAppointmentService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("success", func(t *testing.T) {
		appointmentRepo := new(MockAppointmentRepository)
		userRepo := new(MockUserRepository)
		service := newAppointmentService(appointmentRepo, userRepo)

		doctor := &models.User{ID: 20, Name: "Dr. Smith", Role: domain.RoleDoctor, IsActive: true}
		userRepo.On("GetByID", ctx, uint(20)).Return(doctor, nil)
		appointmentRepo.On("Create", ctx, mock.AnythingOfType("*models.Appointment")).
			Run(func(args mock.Arguments) {
				a := args.Get(1).(*models.Appointment)
				a.ID = 1
				assert.Equal(t, domain.StatusPending, a.Status)
			}).Return(nil)
		appointmentRepo.On("GetByID", ctx, uint(1)).Return(pendingAppointment(), nil)

		resp, err := service.Create(ctx, 10, &CreateAppointmentInput{
			DoctorID: 20,
			Date:     "2026-09-01",
			Reason:   "Annual checkup",
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusPending, resp.Status)
		assert.Equal(t, uint(10), resp.PatientID)
		assert.Equal(t, uint(20), resp.DoctorID)
		appointmentRepo.AssertExpectations(t)
	})

	t.Run("missing fields", func(t *testing.T) {
		service := newAppointmentService(new(MockAppointmentRepository), new(MockUserRepository))

		_, err := service.Create(ctx, 10, &CreateAppointmentInput{Date: "2026-09-01", Reason: "x"})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = service.Create(ctx, 10, &CreateAppointmentInput{DoctorID: 20, Reason: "x"})
		assert.ErrorIs(t, err, domain.ErrValidation)

		_, err = service.Create(ctx, 10, &CreateAppointmentInput{DoctorID: 20, Date: "2026-09-01", Reason: "  "})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("bad date format", func(t *testing.T) {
		service := newAppointmentService(new(MockAppointmentRepository), new(MockUserRepository))

		_, err := service.Create(ctx, 10, &CreateAppointmentInput{
			DoctorID: 20,
			Date:     "01-09-2026",
			Reason:   "checkup",
		})
		assert.ErrorIs(t, err, domain.ErrValidation)
	})

	t.Run("doctor not found", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := newAppointmentService(new(MockAppointmentRepository), userRepo)

		userRepo.On("GetByID", ctx, uint(99)).Return(nil, gorm.ErrRecordNotFound)

		_, err := service.Create(ctx, 10, &CreateAppointmentInput{
			DoctorID: 99,
			Date:     "2026-09-01",
			Reason:   "checkup",
		})
		assert.ErrorIs(t, err, domain.ErrDoctorNotFound)
	})

	t.Run("target user is not a doctor", func(t *testing.T) {
		userRepo := new(MockUserRepository)
		service := newAppointmentService(new(MockAppointmentRepository), userRepo)

		patient := &models.User{ID: 11, Role: domain.RolePatient}
		userRepo.On("GetByID", ctx, uint(11)).Return(patient, nil)

		_, err := service.Create(ctx, 10, &CreateAppointmentInput{
			DoctorID: 11,
			Date:     "2026-09-01",
			Reason:   "checkup",
		})
		assert.ErrorIs(t, err, domain.ErrNotADoctor)
	})
}

func TestAppointmentService_Approve(t *testing.T) {
	ctx := context.Background()

	t.Run("assigned doctor approves pending", func(t *testing.T) {
		appointmentRepo := new(MockAppointmentRepository)
		service := newAppointmentService(appointmentRepo, new(MockUserRepository))

		approved := pendingAppointment()
		approved.Status = domain.StatusApproved

		appointmentRepo.On("GetByID", ctx, uint(1)).Return(pendingAppointment(), nil).Once()
		appointmentRepo.On("UpdateStatus", ctx, uint(1), domain.StatusPending, domain.StatusApproved, mock.Anything).
			Return(true, nil)
		appointmentRepo.On("GetByID", ctx, uint(1)).Return(approved, nil).Once()

		resp, err := service.Approve(ctx, 1, domain.Actor{ID: 20, Role: domain.RoleDoctor})
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusApproved, resp.Status)
		appointmentRepo.AssertExpectations(t)
	})

	t.Run("patient cannot approve", func(t *testing.T) {
		appointmentRepo := new(MockAppointmentRepository)
		service := newAppointmentService(appointmentRepo, new(MockUserRepository))

		appointmentRepo.On("GetByID", ctx, uint(1)).Return(pendingAppointment(), nil)

		_, err := service.Approve(ctx, 1, domain.Actor{ID: 10, Role: domain.RolePatient})
		assert.ErrorIs(t, err, domain.ErrForbidden)
		appointmentRepo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("foreign doctor cannot approve", func(t *testing.T) {
		appointmentRepo := new(MockAppointmentRepository)
		service := newAppointmentService(appointmentRepo, new(MockUserRepository))

		appointmentRepo.On("GetByID", ctx, uint(1)).Return(pendingAppointment(), nil)

		_, err := service.Approve(ctx, 1, domain.Actor{ID: 77, Role: domain.RoleDoctor})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("admin may approve any appointment", func(t *testing.T) {
		appointmentRepo := new(MockAppointmentRepository)
		service := newAppointmentService(appointmentRepo, new(MockUserRepository))

		approved := pendingAppointment()
		approved.Status = domain.StatusApproved

		appointmentRepo.On("GetByID", ctx, uint(1)).Return(pendingAppointment(), nil).Once()
		appointmentRepo.On("UpdateStatus", ctx, uint(1), domain.StatusPending, domain.StatusApproved, mock.Anything).
			Return(true, nil)
		appointmentRepo.On("GetByID", ctx, uint(1)).Return(approved, nil).Once()

		_, err := service.Approve(ctx, 1, domain.Actor{ID: 1, Role: domain.RoleAdmin})
		assert.NoError(t, err)
	})

	t.Run("not found", func(t *testing.T) {
		appointmentRepo := new(MockAppointmentRepository)
		service := newAppointmentService(appointmentRepo, new(MockUserRepository))

		appointmentRepo.On("GetByID", ctx, uint(404)).Return(nil, gorm.ErrRecordNotFound)

		_, err := service.Approve(ctx, 404, domain.Actor{ID: 1, Role: domain.RoleAdmin})
		assert.ErrorIs(t, err, domain.ErrAppointmentNotFound)
	})

	t.Run("cancelled appointment cannot be approved", func(t *testing.T) {
		appointmentRepo := new(MockAppointmentRepository)
		service := newAppointmentService(appointmentRepo, new(MockUserRepository))

		cancelled := pendingAppointment()
		cancelled.Status = domain.StatusCancelled
		appointmentRepo.On("GetByID", ctx, uint(1)).Return(cancelled, nil)

		_, err := service.Approve(ctx, 1, domain.Actor{ID: 20, Role: domain.RoleDoctor})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("cas miss surfaces as invalid transition", func(t *testing.T) {
		appointmentRepo := new(MockAppointmentRepository)
		service := newAppointmentService(appointmentRepo, new(MockUserRepository))

		appointmentRepo.On("GetByID", ctx, uint(1)).Return(pendingAppointment(), nil)
		appointmentRepo.On("UpdateStatus", ctx, uint(1), domain.StatusPending, domain.StatusApproved, mock.Anything).
			Return(false, nil)

		_, err := service.Approve(ctx, 1, domain.Actor{ID: 20, Role: domain.RoleDoctor})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestAppointmentService_Cancel(t *testing.T) {
	ctx := context.Background()

	t.Run("owning patient cancels pending", func(t *testing.T) {
		appointmentRepo := new(MockAppointmentRepository)
		service := newAppointmentService(appointmentRepo, new(MockUserRepository))

		cancelled := pendingAppointment()
		cancelled.Status = domain.StatusCancelled

		appointmentRepo.On("GetByID", ctx, uint(1)).Return(pendingAppointment(), nil).Once()
		appointmentRepo.On("UpdateStatus", ctx, uint(1), domain.StatusPending, domain.StatusCancelled, mock.Anything).
			Return(true, nil)
		appointmentRepo.On("GetByID", ctx, uint(1)).Return(cancelled, nil).Once()

		resp, err := service.Cancel(ctx, 1, domain.Actor{ID: 10, Role: domain.RolePatient})
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, resp.Status)
	})

	t.Run("foreign patient cannot cancel", func(t *testing.T) {
		appointmentRepo := new(MockAppointmentRepository)
		service := newAppointmentService(appointmentRepo, new(MockUserRepository))

		appointmentRepo.On("GetByID", ctx, uint(1)).Return(pendingAppointment(), nil)

		_, err := service.Cancel(ctx, 1, domain.Actor{ID: 99, Role: domain.RolePatient})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("assigned doctor cancels approved", func(t *testing.T) {
		appointmentRepo := new(MockAppointmentRepository)
		service := newAppointmentService(appointmentRepo, new(MockUserRepository))

		approved := pendingAppointment()
		approved.Status = domain.StatusApproved
		cancelled := pendingAppointment()
		cancelled.Status = domain.StatusCancelled

		appointmentRepo.On("GetByID", ctx, uint(1)).Return(approved, nil).Once()
		appointmentRepo.On("UpdateStatus", ctx, uint(1), domain.StatusApproved, domain.StatusCancelled, mock.Anything).
			Return(true, nil)
		appointmentRepo.On("GetByID", ctx, uint(1)).Return(cancelled, nil).Once()

		resp, err := service.Cancel(ctx, 1, domain.Actor{ID: 20, Role: domain.RoleDoctor})
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, resp.Status)
	})

	t.Run("completed appointment cannot be cancelled", func(t *testing.T) {
		appointmentRepo := new(MockAppointmentRepository)
		service := newAppointmentService(appointmentRepo, new(MockUserRepository))

		completed := pendingAppointment()
		completed.Status = domain.StatusCompleted
		appointmentRepo.On("GetByID", ctx, uint(1)).Return(completed, nil)

		_, err := service.Cancel(ctx, 1, domain.Actor{ID: 10, Role: domain.RolePatient})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestAppointmentService_Reject(t *testing.T) {
	ctx := context.Background()

	t.Run("assigned doctor rejects pending", func(t *testing.T) {
		appointmentRepo := new(MockAppointmentRepository)
		service := newAppointmentService(appointmentRepo, new(MockUserRepository))

		cancelled := pendingAppointment()
		cancelled.Status = domain.StatusCancelled

		appointmentRepo.On("GetByID", ctx, uint(1)).Return(pendingAppointment(), nil).Once()
		appointmentRepo.On("UpdateStatus", ctx, uint(1), domain.StatusPending, domain.StatusCancelled, mock.Anything).
			Return(true, nil)
		appointmentRepo.On("GetByID", ctx, uint(1)).Return(cancelled, nil).Once()

		resp, err := service.Reject(ctx, 1, domain.Actor{ID: 20, Role: domain.RoleDoctor})
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusCancelled, resp.Status)
	})

	t.Run("patient cannot reject", func(t *testing.T) {
		appointmentRepo := new(MockAppointmentRepository)
		service := newAppointmentService(appointmentRepo, new(MockUserRepository))

		appointmentRepo.On("GetByID", ctx, uint(1)).Return(pendingAppointment(), nil)

		_, err := service.Reject(ctx, 1, domain.Actor{ID: 10, Role: domain.RolePatient})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("approved appointment cannot be rejected", func(t *testing.T) {
		appointmentRepo := new(MockAppointmentRepository)
		service := newAppointmentService(appointmentRepo, new(MockUserRepository))

		approved := pendingAppointment()
		approved.Status = domain.StatusApproved
		appointmentRepo.On("GetByID", ctx, uint(1)).Return(approved, nil)

		_, err := service.Reject(ctx, 1, domain.Actor{ID: 20, Role: domain.RoleDoctor})
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestAppointmentService_Complete(t *testing.T) {
	ctx := context.Background()

	t.Run("doctor completes approved with notes", func(t *testing.T) {
		appointmentRepo := new(MockAppointmentRepository)
		service := newAppointmentService(appointmentRepo, new(MockUserRepository))

		approved := pendingAppointment()
		approved.Status = domain.StatusApproved
		completed := pendingAppointment()
		completed.Status = domain.StatusCompleted
		completed.Diagnosis = "Seasonal flu"
		completed.Prescription = "Rest and fluids"

		appointmentRepo.On("GetByID", ctx, uint(1)).Return(approved, nil).Once()
		appointmentRepo.On("UpdateStatus", ctx, uint(1), domain.StatusApproved, domain.StatusCompleted,
			map[string]interface{}{"diagnosis": "Seasonal flu", "prescription": "Rest and fluids"}).
			Return(true, nil)
		appointmentRepo.On("GetByID", ctx, uint(1)).Return(completed, nil).Once()

		resp, err := service.Complete(ctx, 1, domain.Actor{ID: 20, Role: domain.RoleDoctor}, &CompleteInput{
			Diagnosis:    "Seasonal flu",
			Prescription: "Rest and fluids",
		})
		assert.NoError(t, err)
		assert.Equal(t, domain.StatusCompleted, resp.Status)
		assert.Equal(t, "Seasonal flu", resp.Diagnosis)
		appointmentRepo.AssertExpectations(t)
	})

	t.Run("pending appointment cannot be completed", func(t *testing.T) {
		appointmentRepo := new(MockAppointmentRepository)
		service := newAppointmentService(appointmentRepo, new(MockUserRepository))

		appointmentRepo.On("GetByID", ctx, uint(1)).Return(pendingAppointment(), nil)

		_, err := service.Complete(ctx, 1, domain.Actor{ID: 20, Role: domain.RoleDoctor}, nil)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("patient cannot complete", func(t *testing.T) {
		appointmentRepo := new(MockAppointmentRepository)
		service := newAppointmentService(appointmentRepo, new(MockUserRepository))

		approved := pendingAppointment()
		approved.Status = domain.StatusApproved
		appointmentRepo.On("GetByID", ctx, uint(1)).Return(approved, nil)

		_, err := service.Complete(ctx, 1, domain.Actor{ID: 10, Role: domain.RolePatient}, nil)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

// fakeAppointmentStore is a minimal in-memory ledger whose UpdateStatus is a
// real compare-and-set guarded by a mutex. Used to prove that two concurrent
// transitions from the same state produce exactly one winner.
type fakeAppointmentStore struct {
	mu     sync.Mutex
	record models.Appointment
}

func (f *fakeAppointmentStore) Create(ctx context.Context, a *models.Appointment) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record = *a
	return nil
}

func (f *fakeAppointmentStore) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.record.ID != id {
		return nil, gorm.ErrRecordNotFound
	}
	rec := f.record
	return &rec, nil
}

func (f *fakeAppointmentStore) UpdateStatus(ctx context.Context, id uint, from, to domain.Status, updates map[string]interface{}) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.record.ID != id || f.record.Status != from {
		return false, nil
	}
	f.record.Status = to
	return true, nil
}

func (f *fakeAppointmentStore) ListByPatient(ctx context.Context, patientID uint) ([]*models.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentStore) ListByDoctor(ctx context.Context, doctorID uint) ([]*models.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentStore) ListAll(ctx context.Context) ([]*models.Appointment, error) {
	return nil, nil
}

func (f *fakeAppointmentStore) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	return nil, nil
}

func (f *fakeAppointmentStore) Count(ctx context.Context) (int64, error) {
	return 0, nil
}

func (f *fakeAppointmentStore) FindPendingBefore(ctx context.Context, cutoff time.Time) ([]*models.Appointment, error) {
	return nil, nil
}

// A patient cancel and a doctor approve race on the same pending record.
// The compare-and-set guarantees exactly one writer wins; the loser gets
// ErrInvalidTransition.
func TestAppointmentService_ConcurrentTransitions(t *testing.T) {
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		store := &fakeAppointmentStore{record: *pendingAppointment()}
		service := NewAppointmentService(store, new(MockUserRepository))

		var wg sync.WaitGroup
		errs := make([]error, 2)

		wg.Add(2)
		go func() {
			defer wg.Done()
			_, errs[0] = service.Cancel(ctx, 1, domain.Actor{ID: 10, Role: domain.RolePatient})
		}()
		go func() {
			defer wg.Done()
			_, errs[1] = service.Approve(ctx, 1, domain.Actor{ID: 20, Role: domain.RoleDoctor})
		}()
		wg.Wait()

		winners := 0
		for _, err := range errs {
			if err == nil {
				winners++
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidTransition)
			}
		}
		assert.Equal(t, 1, winners, "exactly one of two racing transitions must win")

		final, err := store.GetByID(ctx, 1)
		assert.NoError(t, err)
		assert.Contains(t, []domain.Status{domain.StatusApproved, domain.StatusCancelled}, final.Status)
	}
}

func TestAppointmentService_Lists(t *testing.T) {
	ctx := context.Background()

	appointmentRepo := new(MockAppointmentRepository)
	service := newAppointmentService(appointmentRepo, new(MockUserRepository))

	records := []*models.Appointment{pendingAppointment()}
	appointmentRepo.On("ListByPatient", ctx, uint(10)).Return(records, nil)
	appointmentRepo.On("ListByDoctor", ctx, uint(20)).Return(records, nil)
	appointmentRepo.On("ListAll", ctx).Return(records, nil)

	forPatient, err := service.ListForPatient(ctx, 10)
	assert.NoError(t, err)
	assert.Len(t, forPatient, 1)

	forDoctor, err := service.ListForDoctor(ctx, 20)
	assert.NoError(t, err)
	assert.Len(t, forDoctor, 1)

	all, err := service.ListAll(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 1)
}
