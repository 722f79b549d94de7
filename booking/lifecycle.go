package booking

import "errors"

// Status is the lifecycle state of a booking
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ErrInvalidTransition is returned when a requested status change is not
// permitted by the lifecycle. The booking's stored status must be left
// unchanged; the transition is never silently applied.
var ErrInvalidTransition = errors.New("invalid booking status transition")

// transitions lists the permitted provider-initiated status changes.
// Completed and cancelled are terminal.
var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusCompleted, StatusCancelled},
}

func (s Status) String() string {
	return string(s)
}

// IsValid reports whether s is a known lifecycle status
func (s Status) IsValid() bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCompleted, StatusCancelled:
		return true
	default:
		return false
	}
}

// IsTerminal reports whether no further transitions are permitted out of s
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusCancelled
}

// CanTransition reports whether from -> to is a permitted status change.
// Repeating an already-applied transition (confirmed -> confirmed) is not
// permitted; callers treat it as a rejected no-op.
func CanTransition(from, to Status) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// Transition validates from -> to and returns the new status, or
// ErrInvalidTransition leaving the caller's state untouched.
func Transition(from, to Status) (Status, error) {
	if !from.IsValid() || !to.IsValid() {
		return from, ErrInvalidTransition
	}
	if !CanTransition(from, to) {
		return from, ErrInvalidTransition
	}
	return to, nil
}
