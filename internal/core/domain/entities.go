package domain

// Role represents user role in the system
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleAdmin   Role = "admin"
)

// ValidRole reports whether s is one of the known roles
func ValidRole(s string) bool {
	switch Role(s) {
	case RolePatient, RoleDoctor, RoleAdmin:
		return true
	}
	return false
}

// Actor identifies who is performing an operation.
// Handlers build it from the JWT claims; services use it for the
// record-level ownership checks that the middleware cannot do.
type Actor struct {
	ID   uint
	Role Role
}

// IsAdmin returns true for admin actors
func (a Actor) IsAdmin() bool {
	return a.Role == RoleAdmin
}
