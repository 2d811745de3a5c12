package commands

import (
	"context"

	"poorito-booking/internal/pkg/errs"
	"poorito-booking/internal/usecase/queries"
	"poorito-booking/internal/usecase/shared"
)

// Errors shared with the read side so handlers map one sentinel per case.
var (
	ErrMountainNotFound = queries.ErrMountainNotFound
	ErrBookingNotFound  = queries.ErrBookingNotFound
)

var (
	ErrStatusNotSettable = errs.New("status cannot be set directly")
	ErrMissingResult     = errs.New("completed idempotency key has no booking")
)

const (
	notificationKindEmail = "email"
	createBookingEndpoint = "POST /api/bookings"
)

// Notifier delivers one outbox job. An error leaves the job for a later retry.
type Notifier interface {
	Notify(ctx context.Context, job shared.NotificationJob) error
}
