package shared

import (
	"context"
	"time"

	"poorito-booking/internal/domain/booking"
	"poorito-booking/internal/domain/mountain"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/pkg/calendar"

	"github.com/google/uuid"
)

type UnitOfWork interface {
	// Within: Full transaction for write operations with retry logic
	Within(ctx context.Context, fn func(ctx context.Context, tx Tx) error) error
	// WithinReadOnly: Read-only transaction for multi-table consistent reads
	WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db query.DBTX) error) error
	// WithDB: Single query operations using implicit transactions
	WithDB(ctx context.Context, fn func(ctx context.Context, db query.DBTX) error) error
	// CommandReads: Direct access to command reads for validation outside transactions
	CommandReads() CommandReads
}

type Tx interface {
	Bookings() BookingRepository
	Idempotency() IdempotencyRepository
	Notifications() NotificationRepository
	Users() UserRepository
	Reads() CommandReads
	DB() query.DBTX
}

// CommandReads loads write-side aggregates. Inside a transaction the
// ForUpdate variants hold row locks until commit.
type CommandReads interface {
	MountainByID(ctx context.Context, id uuid.UUID) (*mountain.Mountain, error)
	MountainForUpdate(ctx context.Context, id uuid.UUID) (*mountain.Mountain, error)
	ActiveOccupancies(ctx context.Context, mountainID uuid.UUID, window calendar.Range) ([]booking.Occupancy, error)
	BookingForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error)
	IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*IdempotencyRecord, error)
	// DueNotifications locks up to limit queued jobs whose run_at has passed.
	DueNotifications(ctx context.Context, now time.Time, limit int) ([]*NotificationJob, error)
}

type BookingRepository interface {
	Create(ctx context.Context, tx query.DBTX, b *booking.Booking) (uuid.UUID, error)
	UpdateStatus(ctx context.Context, tx query.DBTX, b *booking.Booking) error
}

type IdempotencyRepository interface {
	Claim(ctx context.Context, tx query.DBTX, key, userID uuid.UUID, endpoint, requestHash string, now, expiresAt time.Time) (bool, error)
	Complete(ctx context.Context, tx query.DBTX, key, userID uuid.UUID, responseHash string, bookingID uuid.UUID, now time.Time) error
	Release(ctx context.Context, tx query.DBTX, key, userID uuid.UUID) error
	DeleteExpired(ctx context.Context, tx query.DBTX, now time.Time) (int64, error)
}

type NotificationRepository interface {
	CreateJob(ctx context.Context, tx query.DBTX, kind, topic string, payload []byte, runAt time.Time) error
	MarkSent(ctx context.Context, tx query.DBTX, id uuid.UUID, now time.Time) error
	// MarkFailed requeues the job at retryAt, or gives up on it when retryAt is nil.
	MarkFailed(ctx context.Context, tx query.DBTX, id uuid.UUID, reason string, retryAt *time.Time, now time.Time) error
}

type UserRepository interface {
	UpdateLastLogin(ctx context.Context, tx query.DBTX, userID uuid.UUID, at time.Time) error
}
