package repositories

import (
	"context"
	"time"

	"gorm.io/gorm"

	"hospicare/internal/adapters/persistence/models"
	"hospicare/internal/core/domain"
)

// appointmentRepository implements AppointmentRepository interface
type appointmentRepository struct {
	db *gorm.DB
}

// NewAppointmentRepository creates a new appointment repository
func NewAppointmentRepository(db *gorm.DB) AppointmentRepository {
	return &appointmentRepository{db: db}
}

// Create creates a new appointment
func (r *appointmentRepository) Create(ctx context.Context, appointment *models.Appointment) error {
	return r.db.WithContext(ctx).Create(appointment).Error
}

// GetByID gets an appointment with both identities preloaded
func (r *appointmentRepository) GetByID(ctx context.Context, id uint) (*models.Appointment, error) {
	var appointment models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Preload("Doctor.Profile").
		First(&appointment, id).Error
	if err != nil {
		return nil, err
	}
	return &appointment, nil
}

// UpdateStatus performs the compare-and-set transition write.
// The WHERE clause carries the expected current status, so under two
// concurrent transitions on the same record exactly one UPDATE matches;
// the loser gets false and must re-read.
func (r *appointmentRepository) UpdateStatus(ctx context.Context, id uint, from, to domain.Status, updates map[string]interface{}) (bool, error) {
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = to

	result := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Where("id = ? AND status = ?", id, from).
		Updates(updates)
	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

// ListByPatient lists a patient's appointments, newest first
func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID uint) ([]*models.Appointment, error) {
	var appointments []*models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Doctor").
		Preload("Doctor.Profile").
		Where("patient_id = ?", patientID).
		Order("date DESC").
		Find(&appointments).Error
	return appointments, err
}

// ListByDoctor lists a doctor's appointments, soonest first
func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID uint) ([]*models.Appointment, error) {
	var appointments []*models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Where("doctor_id = ?", doctorID).
		Order("date ASC").
		Find(&appointments).Error
	return appointments, err
}

// ListAll lists every appointment with both identities, newest first
func (r *appointmentRepository) ListAll(ctx context.Context) ([]*models.Appointment, error) {
	var appointments []*models.Appointment
	err := r.db.WithContext(ctx).
		Preload("Patient").
		Preload("Doctor").
		Order("date DESC").
		Find(&appointments).Error
	return appointments, err
}

// CountByStatus returns appointment counts grouped by status
func (r *appointmentRepository) CountByStatus(ctx context.Context) (map[domain.Status]int64, error) {
	type row struct {
		Status domain.Status
		Count  int64
	}
	var rows []row

	err := r.db.WithContext(ctx).
		Model(&models.Appointment{}).
		Select("status, COUNT(*) as count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	counts := map[domain.Status]int64{
		domain.StatusPending:   0,
		domain.StatusApproved:  0,
		domain.StatusCancelled: 0,
		domain.StatusCompleted: 0,
	}
	for _, r := range rows {
		counts[r.Status] = r.Count
	}
	return counts, nil
}

// Count returns the total number of appointments
func (r *appointmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Appointment{}).Count(&count).Error
	return count, err
}

// FindPendingBefore finds pending appointments dated before the cutoff
// (cleanup sweep)
func (r *appointmentRepository) FindPendingBefore(ctx context.Context, cutoff time.Time) ([]*models.Appointment, error) {
	var appointments []*models.Appointment
	err := r.db.WithContext(ctx).
		Where("status = ? AND date < ?", domain.StatusPending, cutoff).
		Find(&appointments).Error
	return appointments, err
}
