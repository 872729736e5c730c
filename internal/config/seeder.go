package config

import (
	"context"
	"log"

	"gorm.io/gorm"

	"hospicare/internal/adapters/persistence/models"
	"hospicare/internal/adapters/persistence/repositories"
	"hospicare/internal/core/domain"
	"hospicare/internal/pkg/password"
)

// Seeder handles database seeding
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// Run executes all seeders
func (s *Seeder) Run() error {
	log.Println("🌱 Running database seeders...")

	if err := s.seedAdminUser(); err != nil {
		log.Printf("⚠️ Admin seeder skipped: %v", err)
	}

	if err := s.seedDepartments(); err != nil {
		log.Printf("⚠️ Department seeder skipped: %v", err)
	}

	log.Println("✅ Database seeding completed")
	return nil
}

// seedAdminUser seeds the one-time bootstrap admin.
// Change the credentials immediately in any real deployment.
func (s *Seeder) seedAdminUser() error {
	var count int64
	s.db.Model(&models.User{}).Where("role = ?", domain.RoleAdmin).Count(&count)
	if count > 0 {
		return nil // Admin already exists
	}

	hashedPassword, err := password.Hash("admin123456")
	if err != nil {
		return err
	}

	admin := &models.User{
		Name:     "Admin User",
		Email:    "admin@example.com",
		Password: hashedPassword,
		Role:     domain.RoleAdmin,
		Phone:    "1234567890",
		Gender:   "Male",
		IsActive: true,
	}

	if err := s.db.Create(admin).Error; err != nil {
		return err
	}

	log.Printf("✅ Admin user created: %s", admin.Email)
	return nil
}

// seedDepartments upserts the default department catalog. Safe to run on
// every startup and concurrently with the lazy seed on first list.
func (s *Seeder) seedDepartments() error {
	repo := repositories.NewDepartmentRepository(s.db)
	if err := repo.EnsureDefaults(context.Background()); err != nil {
		return err
	}

	log.Println("✅ Department catalog seeded")
	return nil
}
