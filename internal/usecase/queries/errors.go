package queries

import (
	"poorito-booking/internal/pkg/errs"
)

var (
	ErrMountainNotFound = errs.New("mountain not found")
	ErrBookingNotFound  = errs.New("booking not found")
	ErrBookingAccess    = errs.New("booking access denied")
	ErrInvalidCursor    = errs.New("invalid cursor")
	ErrUserNotFound     = errs.New("user not found")
	ErrUserInactive     = errs.New("user inactive")
)
