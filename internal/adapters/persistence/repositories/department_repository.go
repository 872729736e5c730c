package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hospicare/internal/adapters/persistence/models"
)

// DefaultDepartments is the catalog seeded into an empty installation
var DefaultDepartments = []models.Department{
	{Name: "Cardiology", Description: "Heart and blood vessel specialist"},
	{Name: "Neurology", Description: "Brain and nervous system specialist"},
	{Name: "Pediatrics", Description: "Child and adolescent medical care"},
	{Name: "Dermatology", Description: "Skin, hair and nail specialist"},
	{Name: "Orthopedics", Description: "Bone and muscle specialist"},
	{Name: "Oncology", Description: "Cancer specialist"},
	{Name: "Radiology", Description: "Imaging specialist"},
	{Name: "Psychiatry", Description: "Mental health specialist"},
	{Name: "Gynecology", Description: "Female reproductive system specialist"},
	{Name: "Ophthalmology", Description: "Eye specialist"},
	{Name: "ENT Specialist", Description: "Ear, Nose, and Throat specialist"},
	{Name: "General Medicine", Description: "General health and diagnosis"},
	{Name: "Urology", Description: "Urinary tract specialist"},
	{Name: "Gastroenterology", Description: "Digestive system specialist"},
	{Name: "Endocrinology", Description: "Hormone and metabolism specialist"},
	{Name: "Nephrology", Description: "Kidney specialist"},
	{Name: "Pulmonology", Description: "Lung and respiratory specialist"},
}

// departmentRepository implements DepartmentRepository interface
type departmentRepository struct {
	db *gorm.DB
}

// NewDepartmentRepository creates a new department repository
func NewDepartmentRepository(db *gorm.DB) DepartmentRepository {
	return &departmentRepository{db: db}
}

// Create creates a new department
func (r *departmentRepository) Create(ctx context.Context, department *models.Department) error {
	return r.db.WithContext(ctx).Create(department).Error
}

// Delete deletes a department by ID
func (r *departmentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Department{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List lists all departments
func (r *departmentRepository) List(ctx context.Context) ([]*models.Department, error) {
	var departments []*models.Department
	err := r.db.WithContext(ctx).Order("name ASC").Find(&departments).Error
	return departments, err
}

// Count counts departments
func (r *departmentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Department{}).Count(&count).Error
	return count, err
}

// EnsureDefaults upserts the default catalog keyed on the unique name.
// ON CONFLICT DO NOTHING makes concurrent first accesses converge on one
// copy of the defaults instead of double-inserting.
func (r *departmentRepository) EnsureDefaults(ctx context.Context) error {
	departments := make([]models.Department, len(DefaultDepartments))
	copy(departments, DefaultDepartments)

	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "name"}},
			DoNothing: true,
		}).
		Create(&departments).Error
}
