package booking

import (
	"errors"
	"fmt"
	"strings"

	"poorito-booking/internal/pkg/calendar"

	"github.com/google/uuid"
)

var (
	ErrValidation           = errors.New("booking validation failed")
	ErrAvailabilityConflict = errors.New("booking conflicts with existing bookings")
	ErrDuplicateBooking     = errors.New("user already holds an overlapping booking")
	ErrInvalidTransition    = errors.New("invalid booking status transition")
	ErrNotOwner             = errors.New("booking belongs to another user")
	ErrInvalidStatus        = errors.New("invalid booking status")
)

// ValidationError is a user-correctable input problem.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// AvailabilityConflictError lists every requested date that cannot take the booking.
type AvailabilityConflictError struct {
	BookingType Type
	Dates       []calendar.Date
	Reason      string
}

func (e *AvailabilityConflictError) Error() string {
	ds := make([]string, len(e.Dates))
	for i, d := range e.Dates {
		ds[i] = d.String()
	}
	return fmt.Sprintf("%s on %s", e.Reason, strings.Join(ds, ", "))
}

func (e *AvailabilityConflictError) Is(target error) bool {
	return target == ErrAvailabilityConflict
}

// DuplicateBookingError carries the clashing booking when it is known. It is
// uuid.Nil when the overlap was caught by the database constraint.
type DuplicateBookingError struct {
	ExistingBookingID uuid.UUID
}

func (e *DuplicateBookingError) Error() string {
	if e.ExistingBookingID == uuid.Nil {
		return ErrDuplicateBooking.Error()
	}
	return fmt.Sprintf("%s (booking %s)", ErrDuplicateBooking.Error(), e.ExistingBookingID)
}

func (e *DuplicateBookingError) Is(target error) bool {
	return target == ErrDuplicateBooking
}
