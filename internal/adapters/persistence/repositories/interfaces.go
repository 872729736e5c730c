package repositories

import (
	"context"
	"time"

	"hospicare/internal/adapters/persistence/models"
	"hospicare/internal/core/domain"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uint) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	ListByRole(ctx context.Context, role domain.Role, offset, limit int) ([]*models.User, int64, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	CountByRole(ctx context.Context, role domain.Role) (int64, error)
}

// RefreshTokenRepository defines refresh token repository interface
type RefreshTokenRepository interface {
	Create(ctx context.Context, token *models.RefreshToken) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.RefreshToken, error)
	Revoke(ctx context.Context, id uint) error
	RevokeByTokenHash(ctx context.Context, tokenHash string) error
	RevokeAllByUserID(ctx context.Context, userID uint) error
	DeleteExpired(ctx context.Context) (int64, error)
}

// DoctorRepository defines doctor directory repository interface
type DoctorRepository interface {
	// CreateWithUser persists the doctor identity, profile and availability
	// rows as one transaction. A failure anywhere rolls everything back.
	CreateWithUser(ctx context.Context, user *models.User, profile *models.DoctorProfile) error
	GetByUserID(ctx context.Context, userID uint) (*models.DoctorProfile, error)
	List(ctx context.Context, specialization string) ([]*models.DoctorProfile, error)
}

// AppointmentRepository defines appointment ledger repository interface
type AppointmentRepository interface {
	Create(ctx context.Context, appointment *models.Appointment) error
	GetByID(ctx context.Context, id uint) (*models.Appointment, error)
	// UpdateStatus performs an atomic compare-and-set keyed on
	// (id, expected current status). Returns false when another writer won.
	UpdateStatus(ctx context.Context, id uint, from, to domain.Status, updates map[string]interface{}) (bool, error)
	ListByPatient(ctx context.Context, patientID uint) ([]*models.Appointment, error)
	ListByDoctor(ctx context.Context, doctorID uint) ([]*models.Appointment, error)
	ListAll(ctx context.Context) ([]*models.Appointment, error)
	CountByStatus(ctx context.Context) (map[domain.Status]int64, error)
	Count(ctx context.Context) (int64, error)
	FindPendingBefore(ctx context.Context, cutoff time.Time) ([]*models.Appointment, error)
}

// DepartmentRepository defines department catalog repository interface
type DepartmentRepository interface {
	Create(ctx context.Context, department *models.Department) error
	Delete(ctx context.Context, id uint) error
	List(ctx context.Context) ([]*models.Department, error)
	Count(ctx context.Context) (int64, error)
	// EnsureDefaults inserts the default catalog idempotently
	// (upsert by unique name — safe under concurrent first access).
	EnsureDefaults(ctx context.Context) error
}
