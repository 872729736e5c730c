package domain

// Status represents the lifecycle state of an appointment
type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// ValidStatus reports whether s is one of the known statuses
func ValidStatus(s string) bool {
	switch Status(s) {
	case StatusPending, StatusApproved, StatusCancelled, StatusCompleted:
		return true
	}
	return false
}

// IsTerminal returns true for states that accept no further transitions
func (s Status) IsTerminal() bool {
	return s == StatusCancelled || s == StatusCompleted
}

// Action is a requested transition on an appointment
type Action string

const (
	ActionApprove  Action = "approve"
	ActionReject   Action = "reject"
	ActionCancel   Action = "cancel"
	ActionComplete Action = "complete"
)

// Transition is the only way an appointment status may change.
// It returns the next status, or ErrInvalidTransition when the action is
// not legal from the current status. Terminal states reject everything.
func Transition(current Status, action Action) (Status, error) {
	switch current {
	case StatusPending:
		switch action {
		case ActionApprove:
			return StatusApproved, nil
		case ActionReject, ActionCancel:
			return StatusCancelled, nil
		}
	case StatusApproved:
		switch action {
		case ActionCancel:
			return StatusCancelled, nil
		case ActionComplete:
			return StatusCompleted, nil
		}
	}
	return current, ErrInvalidTransition
}
