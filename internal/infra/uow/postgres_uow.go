package uow

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"poorito-booking/internal/domain/booking"
	"poorito-booking/internal/domain/mountain"
	"poorito-booking/internal/infra"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/infra/readstore"
	"poorito-booking/internal/infra/repository"
	"poorito-booking/internal/infra/repository/converter"
	"poorito-booking/internal/pkg/calendar"
	"poorito-booking/internal/pkg/errs"
	"poorito-booking/internal/pkg/pgconv"
	"poorito-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgErrCodeSerializationFailure = "40001"
	pgErrCodeDeadlockDetected     = "40P01"
)

var (
	errTransactionBegin   = errs.New("failed to begin transaction")
	errTransactionCommit  = errs.New("failed to commit transaction")
	errMaxRetriesExceeded = errs.New("transaction failed after max retries")
)

// Pool is satisfied by *pgxpool.Pool and by pgxmock pools in tests.
type Pool interface {
	query.DBTX
	BeginTx(ctx context.Context, txOptions pgx.TxOptions) (pgx.Tx, error)
}

type PostgresUoW struct {
	pool Pool
	q    *query.Queries
}

func NewPostgresUoW(pool Pool, q *query.Queries) shared.UnitOfWork {
	return &PostgresUoW{
		pool: pool,
		q:    q,
	}
}

// ReadCommitted is enough for booking writes: the mountain row lock taken by
// MountainForUpdate serialises every create for the same mountain.
func (u *PostgresUoW) Within(ctx context.Context, fn func(ctx context.Context, tx shared.Tx) error) error {
	return u.runInTxWithOptions(ctx, pgx.TxOptions{IsoLevel: pgx.ReadCommitted}, fn)
}

// Read-only transaction for consistent multi-table snapshots
func (u *PostgresUoW) WithinReadOnly(ctx context.Context, fn func(ctx context.Context, db query.DBTX) error) error {
	return u.runReadOnlyTx(ctx, pgx.TxOptions{IsoLevel: pgx.RepeatableRead, AccessMode: pgx.ReadOnly}, fn)
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(ctx context.Context, db query.DBTX) error) error {
	return fn(ctx, u.pool)
}

func (u *PostgresUoW) CommandReads() shared.CommandReads {
	return &commandReads{uow: u, dbtx: u.pool}
}

// retryPolicy bounds how often a booking transaction is replayed after
// Postgres aborts it with a serialization failure or deadlock.
type retryPolicy struct {
	maxRetries int
	base       time.Duration
}

var defaultRetry = retryPolicy{maxRetries: 3, base: 100 * time.Millisecond}

// backoff doubles per attempt and adds up to 20% jitter.
func (p retryPolicy) backoff(attempt int) time.Duration {
	wait := p.base << attempt
	return wait + time.Duration(rand.Int64N(int64(wait/5)+1))
}

func (u *PostgresUoW) runInTxWithOptions(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	policy := defaultRetry

	var err error
	for attempt := 0; ; attempt++ {
		err = u.attempt(ctx, options, fn)
		if err == nil || !isRetryableError(err) {
			return err
		}
		if attempt == policy.maxRetries {
			break
		}

		wait := policy.backoff(attempt)
		slog.Warn("Retrying booking transaction",
			"attempt", attempt+1,
			"wait_ms", wait.Milliseconds(),
			"error", err.Error())

		timer := time.NewTimer(wait)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	slog.Error("Booking transaction failed after max retries",
		"attempts", policy.maxRetries+1,
		"error", err.Error())
	return errs.Mark(err, errMaxRetriesExceeded)
}

// attempt runs fn in a single transaction. Rollback happens inline so retry
// loops never stack deferred calls.
func (u *PostgresUoW) attempt(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, tx shared.Tx) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}

	if err = fn(ctx, &pgTx{dbtx: pgxTx, uow: u}); err == nil {
		if err = pgxTx.Commit(ctx); err == nil {
			return nil
		}
		err = errs.Mark(err, errTransactionCommit)
	}

	rollback(ctx, pgxTx)
	return err
}

func rollback(ctx context.Context, tx pgx.Tx) {
	if err := tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		slog.Warn("Rollback failed", "error", err.Error())
	}
}

func (u *PostgresUoW) runReadOnlyTx(ctx context.Context, options pgx.TxOptions, fn func(ctx context.Context, db query.DBTX) error) error {
	pgxTx, err := u.pool.BeginTx(ctx, options)
	if err != nil {
		return errs.Mark(err, errTransactionBegin)
	}
	defer rollback(ctx, pgxTx)

	if err := fn(ctx, pgxTx); err != nil {
		return err
	}
	return pgxTx.Commit(ctx)
}

func isRetryableError(err error) bool {
	var pgErr *pgconn.PgError
	if !errors.As(err, &pgErr) {
		return false
	}
	return pgErr.Code == pgErrCodeSerializationFailure || pgErr.Code == pgErrCodeDeadlockDetected
}

type pgTx struct {
	dbtx query.DBTX
	uow  *PostgresUoW

	// Lazy-initialized repositories
	bookingRepo      shared.BookingRepository
	idempotencyRepo  shared.IdempotencyRepository
	notificationRepo shared.NotificationRepository
	userRepo         shared.UserRepository
	commandReads     shared.CommandReads
}

func (t *pgTx) DB() query.DBTX {
	return t.dbtx
}

func (t *pgTx) Bookings() shared.BookingRepository {
	if t.bookingRepo == nil {
		t.bookingRepo = repository.NewBookingRepository(t.uow.q)
	}
	return t.bookingRepo
}

func (t *pgTx) Idempotency() shared.IdempotencyRepository {
	if t.idempotencyRepo == nil {
		t.idempotencyRepo = repository.NewIdempotencyRepository(t.uow.q)
	}
	return t.idempotencyRepo
}

func (t *pgTx) Notifications() shared.NotificationRepository {
	if t.notificationRepo == nil {
		t.notificationRepo = repository.NewNotificationRepository(t.uow.q)
	}
	return t.notificationRepo
}

func (t *pgTx) Users() shared.UserRepository {
	if t.userRepo == nil {
		t.userRepo = repository.NewUserRepository(t.uow.q)
	}
	return t.userRepo
}

func (t *pgTx) Reads() shared.CommandReads {
	if t.commandReads == nil {
		t.commandReads = &commandReads{
			uow:  t.uow,
			dbtx: t.dbtx,
		}
	}
	return t.commandReads
}

type commandReads struct {
	uow  *PostgresUoW
	dbtx query.DBTX

	// Lazy-initialized readstores
	availabilityStore *readstore.AvailabilityReadStore
	idempotencyStore  *readstore.IdempotencyReadStore
	notificationStore *readstore.NotificationReadStore
}

func (r *commandReads) MountainByID(ctx context.Context, id uuid.UUID) (*mountain.Mountain, error) {
	row, err := r.uow.q.GetMountainByID(ctx, r.dbtx, id)
	return toMountain(row, err)
}

func (r *commandReads) MountainForUpdate(ctx context.Context, id uuid.UUID) (*mountain.Mountain, error) {
	row, err := r.uow.q.GetMountainByIDForUpdate(ctx, r.dbtx, id)
	return toMountain(row, err)
}

func toMountain(row query.Mountains, err error) (*mountain.Mountain, error) {
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("mountain not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load mountain", err)
	}
	m, err := converter.MountainToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr("mountain row is invalid", err, infra.KindCorruptRow)
	}
	return m, nil
}

func (r *commandReads) ActiveOccupancies(ctx context.Context, mountainID uuid.UUID, window calendar.Range) ([]booking.Occupancy, error) {
	if r.availabilityStore == nil {
		r.availabilityStore = readstore.NewAvailabilityReadStore(r.uow.q)
	}
	return r.availabilityStore.ActiveOccupancies(ctx, r.dbtx, mountainID, window)
}

func (r *commandReads) BookingForUpdate(ctx context.Context, id uuid.UUID) (*booking.Booking, error) {
	row, err := r.uow.q.GetBookingByIDForUpdate(ctx, r.dbtx, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to load booking", err)
	}
	b, err := converter.BookingToDomain(row)
	if err != nil {
		return nil, infra.WrapRepoErr("booking row is invalid", err, infra.KindCorruptRow)
	}
	return b, nil
}

func (r *commandReads) IdempotencyByKey(ctx context.Context, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	if r.idempotencyStore == nil {
		r.idempotencyStore = readstore.NewIdempotencyReadStore(r.uow.q)
	}
	return r.idempotencyStore.Get(ctx, r.dbtx, key, userID)
}

func (r *commandReads) DueNotifications(ctx context.Context, now time.Time, limit int) ([]*shared.NotificationJob, error) {
	if r.notificationStore == nil {
		r.notificationStore = readstore.NewNotificationReadStore(r.uow.q)
	}
	return r.notificationStore.DueJobs(ctx, r.dbtx, now, limit)
}
