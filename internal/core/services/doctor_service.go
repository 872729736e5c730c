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
	"hospicare/internal/pkg/password"
)

// DoctorService handles the practitioner directory business logic
type DoctorService struct {
	doctorRepo repositories.DoctorRepository
	userRepo   repositories.UserRepository
}

// NewDoctorService creates a new doctor service
func NewDoctorService(
	doctorRepo repositories.DoctorRepository,
	userRepo repositories.UserRepository,
) *DoctorService {
	return &DoctorService{
		doctorRepo: doctorRepo,
		userRepo:   userRepo,
	}
}

// AvailabilityInput is one weekly availability template entry
type AvailabilityInput struct {
	Day       string `json:"day" validate:"required"`
	StartTime string `json:"start_time" validate:"required"`
	EndTime   string `json:"end_time" validate:"required"`
}

// ProvisionDoctorInput represents admin doctor provisioning input
type ProvisionDoctorInput struct {
	Name                string              `json:"name" validate:"required"`
	Email               string              `json:"email" validate:"required,email"`
	Password            string              `json:"password" validate:"required,min=8"`
	Phone               string              `json:"phone"`
	Gender              string              `json:"gender"`
	Specialization      string              `json:"specialization" validate:"required"`
	Qualification       string              `json:"qualification" validate:"required"`
	Experience          int                 `json:"experience"`
	FeesPerConsultation float64             `json:"fees_per_consultation"`
	About               string              `json:"about"`
	Availability        []AvailabilityInput `json:"availability"`
}

// Validate checks required profile fields
func (in *ProvisionDoctorInput) Validate() error {
	switch {
	case strings.TrimSpace(in.Name) == "",
		strings.TrimSpace(in.Email) == "",
		strings.TrimSpace(in.Specialization) == "",
		strings.TrimSpace(in.Qualification) == "":
		return domain.ErrValidation
	case len(in.Password) < 8:
		return domain.ErrValidation
	case in.Experience < 0 || in.FeesPerConsultation < 0:
		return domain.ErrValidation
	}
	return nil
}

// ProvisionDoctor creates a doctor identity plus the linked profile as one
// unit of work. The repository wraps both inserts in a transaction, so a
// profile failure never leaves an orphaned identity behind.
func (s *DoctorService) ProvisionDoctor(ctx context.Context, input *ProvisionDoctorInput) (*models.DoctorResponse, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	exists, err := s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, domain.ErrDuplicate
	}

	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	gender := input.Gender
	if gender == "" {
		gender = "Male"
	}

	user := &models.User{
		Name:     strings.TrimSpace(input.Name),
		Email:    strings.ToLower(strings.TrimSpace(input.Email)),
		Password: hashedPassword,
		Role:     domain.RoleDoctor,
		Phone:    strings.TrimSpace(input.Phone),
		Gender:   gender,
		IsActive: true,
	}

	availability := make([]models.DoctorAvailability, 0, len(input.Availability))
	for _, a := range input.Availability {
		availability = append(availability, models.DoctorAvailability{
			Day:       a.Day,
			StartTime: a.StartTime,
			EndTime:   a.EndTime,
		})
	}

	profile := &models.DoctorProfile{
		Specialization:      strings.TrimSpace(input.Specialization),
		Qualification:       strings.TrimSpace(input.Qualification),
		Experience:          input.Experience,
		FeesPerConsultation: input.FeesPerConsultation,
		About:               input.About,
		Availability:        availability,
	}

	if err := s.doctorRepo.CreateWithUser(ctx, user, profile); err != nil {
		return nil, err
	}

	log.Printf("✅ Doctor provisioned: %s (%s)", user.Name, profile.Specialization)

	profile.User = user
	return profile.ToResponse(), nil
}

// ListDoctors lists directory entries, optionally filtered by exact
// specialization. The credential hash never leaves the repository layer.
func (s *DoctorService) ListDoctors(ctx context.Context, specialization string) ([]*models.DoctorResponse, error) {
	profiles, err := s.doctorRepo.List(ctx, strings.TrimSpace(specialization))
	if err != nil {
		return nil, err
	}

	responses := make([]*models.DoctorResponse, 0, len(profiles))
	for _, p := range profiles {
		responses = append(responses, p.ToResponse())
	}
	return responses, nil
}

// SetActive toggles or sets a user's active flag. Role and profile are
// never altered here.
func (s *DoctorService) SetActive(ctx context.Context, userID uint, active *bool) (*models.UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}

	if active != nil {
		user.IsActive = *active
	} else {
		user.IsActive = !user.IsActive
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	state := "blocked"
	if user.IsActive {
		state = "activated"
	}
	log.Printf("✅ User %d %s", user.ID, state)

	return user.ToResponse(), nil
}

// ListPatients lists patient identities (admin view)
func (s *DoctorService) ListPatients(ctx context.Context, offset, limit int) ([]*models.UserResponse, int64, error) {
	users, total, err := s.userRepo.ListByRole(ctx, domain.RolePatient, offset, limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, u.ToResponse())
	}
	return responses, total, nil
}
