package models

import (
	"time"

	"gorm.io/gorm"

	"hospicare/internal/core/domain"
)

// ============================================================
// Identity & Auth Tables
// ============================================================

// User represents users table (patients, doctors and admins)
type User struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"size:100;not null" json:"name"`
	Email     string         `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password  string         `gorm:"size:255;not null" json:"-"`
	Role      domain.Role    `gorm:"size:20;default:'patient'" json:"role"`
	Phone     string         `gorm:"size:20" json:"phone"`
	Gender    string         `gorm:"size:10" json:"gender"`
	IsActive  bool           `gorm:"default:true" json:"is_active"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Profile *DoctorProfile `gorm:"foreignKey:UserID" json:"profile,omitempty"`
}

func (User) TableName() string {
	return "users"
}

// UserResponse DTO — public identity fields, never the credential hash
type UserResponse struct {
	ID        uint        `json:"id"`
	Name      string      `json:"name"`
	Email     string      `json:"email"`
	Role      domain.Role `json:"role"`
	Phone     string      `json:"phone"`
	Gender    string      `json:"gender"`
	IsActive  bool        `json:"is_active"`
	CreatedAt time.Time   `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		Phone:     u.Phone,
		Gender:    u.Gender,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// RefreshToken represents refresh_tokens table
type RefreshToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	UserID    uint       `gorm:"index;not null" json:"user_id"`
	TokenHash string     `gorm:"size:255;not null;index" json:"-"`
	ExpiresAt time.Time  `gorm:"not null" json:"expires_at"`
	CreatedAt time.Time  `gorm:"autoCreateTime" json:"created_at"`
	RevokedAt *time.Time `gorm:"index" json:"revoked_at"`
	User      User       `gorm:"foreignKey:UserID" json:"-"`
}

func (RefreshToken) TableName() string {
	return "refresh_tokens"
}

func (rt *RefreshToken) IsRevoked() bool {
	return rt.RevokedAt != nil
}

func (rt *RefreshToken) IsExpired() bool {
	return time.Now().After(rt.ExpiresAt)
}

// ============================================================
// Doctor Directory Tables
// ============================================================

// DoctorProfile extends exactly one doctor user with clinical data
type DoctorProfile struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	UserID              uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Specialization      string         `gorm:"size:100;not null" json:"specialization"`
	Qualification       string         `gorm:"size:200;not null" json:"qualification"`
	Experience          int            `gorm:"not null" json:"experience"`
	FeesPerConsultation float64        `gorm:"type:decimal(10,2);not null" json:"fees_per_consultation"`
	About               string         `gorm:"type:text" json:"about"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	User         *User                `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Availability []DoctorAvailability `gorm:"foreignKey:ProfileID" json:"availability,omitempty"`
}

func (DoctorProfile) TableName() string {
	return "doctor_profiles"
}

// DoctorAvailability is a weekly availability template entry.
// Descriptive only — never cross-checked against booked appointments.
type DoctorAvailability struct {
	ID        uint   `gorm:"primaryKey" json:"id"`
	ProfileID uint   `gorm:"index;not null" json:"profile_id"`
	Day       string `gorm:"size:10;not null" json:"day"`
	StartTime string `gorm:"size:10;not null" json:"start_time"`
	EndTime   string `gorm:"size:10;not null" json:"end_time"`
}

func (DoctorAvailability) TableName() string {
	return "doctor_availabilities"
}

// DoctorResponse DTO — profile joined with public user fields
type DoctorResponse struct {
	ID                  uint                 `json:"id"`
	UserID              uint                 `json:"user_id"`
	Name                string               `json:"name"`
	Email               string               `json:"email,omitempty"`
	Phone               string               `json:"phone,omitempty"`
	IsActive            bool                 `json:"is_active"`
	Specialization      string               `json:"specialization"`
	Qualification       string               `json:"qualification"`
	Experience          int                  `json:"experience"`
	FeesPerConsultation float64              `json:"fees_per_consultation"`
	About               string               `json:"about,omitempty"`
	Availability        []DoctorAvailability `json:"availability,omitempty"`
}

func (p *DoctorProfile) ToResponse() *DoctorResponse {
	resp := &DoctorResponse{
		ID:                  p.ID,
		UserID:              p.UserID,
		Specialization:      p.Specialization,
		Qualification:       p.Qualification,
		Experience:          p.Experience,
		FeesPerConsultation: p.FeesPerConsultation,
		About:               p.About,
		Availability:        p.Availability,
	}

	if p.User != nil {
		resp.Name = p.User.Name
		resp.Email = p.User.Email
		resp.Phone = p.User.Phone
		resp.IsActive = p.User.IsActive
	}

	return resp
}

// ============================================================
// Appointment Table
// ============================================================

// Appointment represents appointments table.
// Status changes go through domain.Transition and a compare-and-set
// update only — never a plain Save.
type Appointment struct {
	ID           uint          `gorm:"primaryKey" json:"id"`
	PatientID    uint          `gorm:"not null;index" json:"patient_id"`
	DoctorID     uint          `gorm:"not null;index" json:"doctor_id"`
	Date         time.Time     `gorm:"type:date;not null" json:"date"`
	TimeSlot     *string       `gorm:"size:10" json:"time_slot"`
	Reason       string        `gorm:"type:text;not null" json:"reason"`
	Status       domain.Status `gorm:"size:20;not null;default:'pending'" json:"status"`
	Diagnosis    string        `gorm:"type:text" json:"diagnosis"`
	Prescription string        `gorm:"type:text" json:"prescription"`
	CreatedAt    time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time     `gorm:"autoUpdateTime" json:"updated_at"`

	Patient *User `gorm:"foreignKey:PatientID" json:"patient,omitempty"`
	Doctor  *User `gorm:"foreignKey:DoctorID" json:"doctor,omitempty"`
}

func (Appointment) TableName() string {
	return "appointments"
}

// AppointmentResponse DTO — record joined with counterpart identity fields
type AppointmentResponse struct {
	ID                   uint          `json:"id"`
	PatientID            uint          `json:"patient_id"`
	DoctorID             uint          `json:"doctor_id"`
	Date                 time.Time     `json:"date"`
	TimeSlot             *string       `json:"time_slot"`
	Reason               string        `json:"reason"`
	Status               domain.Status `json:"status"`
	Diagnosis            string        `json:"diagnosis,omitempty"`
	Prescription         string        `json:"prescription,omitempty"`
	PatientName          string        `json:"patient_name,omitempty"`
	PatientPhone         string        `json:"patient_phone,omitempty"`
	PatientGender        string        `json:"patient_gender,omitempty"`
	DoctorName           string        `json:"doctor_name,omitempty"`
	DoctorSpecialization string        `json:"doctor_specialization,omitempty"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

func (a *Appointment) ToResponse() *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:           a.ID,
		PatientID:    a.PatientID,
		DoctorID:     a.DoctorID,
		Date:         a.Date,
		TimeSlot:     a.TimeSlot,
		Reason:       a.Reason,
		Status:       a.Status,
		Diagnosis:    a.Diagnosis,
		Prescription: a.Prescription,
		CreatedAt:    a.CreatedAt,
		UpdatedAt:    a.UpdatedAt,
	}

	if a.Patient != nil {
		resp.PatientName = a.Patient.Name
		resp.PatientPhone = a.Patient.Phone
		resp.PatientGender = a.Patient.Gender
	}
	if a.Doctor != nil {
		resp.DoctorName = a.Doctor.Name
		if a.Doctor.Profile != nil {
			resp.DoctorSpecialization = a.Doctor.Profile.Specialization
		}
	}

	return resp
}

// ============================================================
// Department Catalog Table
// ============================================================

// Department is a flat specialization label catalog
type Department struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	Name        string    `gorm:"uniqueIndex;size:100;not null" json:"name"`
	Description string    `gorm:"size:255" json:"description"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Department) TableName() string {
	return "departments"
}

// ============================================================
// Auto Migration
// ============================================================

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&RefreshToken{},
		&DoctorProfile{},
		&DoctorAvailability{},
		&Appointment{},
		&Department{},
	)
}
