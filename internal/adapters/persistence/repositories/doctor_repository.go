package repositories

import (
	"context"

	"gorm.io/gorm"

	"hospicare/internal/adapters/persistence/models"
)

// doctorRepository implements DoctorRepository interface
type doctorRepository struct {
	db *gorm.DB
}

// NewDoctorRepository creates a new doctor repository
func NewDoctorRepository(db *gorm.DB) DoctorRepository {
	return &doctorRepository{db: db}
}

// CreateWithUser creates the doctor user and the linked profile in one
// transaction. The identity must never outlive a failed profile insert.
func (r *doctorRepository) CreateWithUser(ctx context.Context, user *models.User, profile *models.DoctorProfile) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}

		profile.UserID = user.ID
		if err := tx.Create(profile).Error; err != nil {
			return err
		}

		return nil
	})
}

// GetByUserID gets a doctor profile by the owning user ID
func (r *doctorRepository) GetByUserID(ctx context.Context, userID uint) (*models.DoctorProfile, error) {
	var profile models.DoctorProfile
	err := r.db.WithContext(ctx).
		Preload("User").
		Preload("Availability").
		Where("user_id = ?", userID).
		First(&profile).Error
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// List lists doctor profiles joined with their users, optionally filtered
// by exact specialization
func (r *doctorRepository) List(ctx context.Context, specialization string) ([]*models.DoctorProfile, error) {
	var profiles []*models.DoctorProfile

	query := r.db.WithContext(ctx).
		Preload("User").
		Preload("Availability").
		Order("id ASC")

	if specialization != "" {
		query = query.Where("specialization = ?", specialization)
	}

	err := query.Find(&profiles).Error
	return profiles, err
}
