package domain

import "errors"

// Common domain errors
var (
	ErrNotFound          = errors.New("resource not found")
	ErrValidation        = errors.New("invalid input")
	ErrUnauthenticated   = errors.New("unauthenticated")
	ErrForbidden         = errors.New("forbidden")
	ErrDuplicate         = errors.New("duplicate entry")
	ErrInvalidTransition = errors.New("invalid status transition")
	ErrInternal          = errors.New("internal server error")
)

// Auth errors
var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserInactive       = errors.New("user account is inactive")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
)

// Appointment errors
var (
	ErrAppointmentNotFound = errors.New("appointment not found")
	ErrDoctorNotFound      = errors.New("doctor not found")
	ErrNotADoctor          = errors.New("user is not a doctor")
)
