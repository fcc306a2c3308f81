package domain

import "fmt"

// Domain errors are deterministic and never retried blindly; infrastructure
// errors pass through wrapped and may be retried by the caller.

// ValidationError reports malformed input: date ordering, time format,
// missing required fields.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

// ConflictError reports a double booking: an overlapping confirmed range or
// a duplicate active booking for the same (renter, vehicle) pair.
type ConflictError struct {
	Reason string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("conflict: %s", e.Reason)
}

// StateError reports an operation that is invalid for the booking's current
// status.
type StateError struct {
	Current  BookingStatus
	Required string
}

func (e *StateError) Error() string {
	return fmt.Sprintf("invalid state %s: %s", e.Current, e.Required)
}

// AuthorizationError reports an actor that is not the owning party or is
// blocked.
type AuthorizationError struct {
	Reason string
}

func (e *AuthorizationError) Error() string {
	return fmt.Sprintf("not authorized: %s", e.Reason)
}

// NotFoundError reports a missing booking, vehicle, or party.
type NotFoundError struct {
	Entity string
	ID     int32
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}
