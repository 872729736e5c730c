package services

import (
	"context"
	"errors"
	"log"
	"strings"

	"gorm.io/gorm"

	"hospicare/internal/adapters/persistence/models"
	"hospicare/internal/adapters/persistence/repositories"
	"hospicare/internal/core/domain"
)

// DepartmentService handles the specialization label catalog
type DepartmentService struct {
	departmentRepo repositories.DepartmentRepository
}

// NewDepartmentService creates a new department service
func NewDepartmentService(departmentRepo repositories.DepartmentRepository) *DepartmentService {
	return &DepartmentService{departmentRepo: departmentRepo}
}

// CreateDepartmentInput represents department creation input
type CreateDepartmentInput struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
}

// List returns the catalog, seeding the defaults first when it is empty.
// EnsureDefaults is an upsert over the unique name, so concurrent first
// accesses all converge on a single copy of the defaults.
func (s *DepartmentService) List(ctx context.Context) ([]*models.Department, error) {
	count, err := s.departmentRepo.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		if err := s.departmentRepo.EnsureDefaults(ctx); err != nil {
			return nil, err
		}
	}

	return s.departmentRepo.List(ctx)
}

// Create adds a department to the catalog
func (s *DepartmentService) Create(ctx context.Context, input *CreateDepartmentInput) (*models.Department, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, domain.ErrValidation
	}

	department := &models.Department{
		Name:        name,
		Description: strings.TrimSpace(input.Description),
	}

	if err := s.departmentRepo.Create(ctx, department); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, domain.ErrDuplicate
		}
		return nil, err
	}

	log.Printf("✅ Department created: %s", department.Name)
	return department, nil
}

// Delete removes a department from the catalog
func (s *DepartmentService) Delete(ctx context.Context, id uint) error {
	if err := s.departmentRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrNotFound
		}
		return err
	}
	return nil
}
