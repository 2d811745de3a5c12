package repository

import (
	"context"
	"time"

	"poorito-booking/internal/infra"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type IdempotencyWriteQueries interface {
	ClaimIdempotencyKey(ctx context.Context, db query.DBTX, arg query.ClaimIdempotencyKeyParams) (int64, error)
	CompleteIdempotencyKey(ctx context.Context, db query.DBTX, arg query.CompleteIdempotencyKeyParams) (int64, error)
	ReleaseIdempotencyKey(ctx context.Context, db query.DBTX, arg query.GetIdempotencyKeyParams) error
	DeleteExpiredIdempotencyKeys(ctx context.Context, db query.DBTX, now pgtype.Timestamptz) (int64, error)
}

type IdempotencyRepository struct {
	queries IdempotencyWriteQueries
}

func NewIdempotencyRepository(queries IdempotencyWriteQueries) *IdempotencyRepository {
	return &IdempotencyRepository{
		queries: queries,
	}
}

// Claim reports whether the caller now owns the key. A false result means a
// live record already exists and must be inspected.
func (r *IdempotencyRepository) Claim(ctx context.Context, tx query.DBTX, key, userID uuid.UUID, endpoint, requestHash string, now, expiresAt time.Time) (bool, error) {
	params := query.ClaimIdempotencyKeyParams{
		Key:         key,
		UserID:      userID,
		Endpoint:    endpoint,
		RequestHash: requestHash,
		ExpiresAt:   pgconv.TimeToPgtype(expiresAt),
		Now:         pgconv.TimeToPgtype(now),
	}

	n, err := r.queries.ClaimIdempotencyKey(ctx, tx, params)
	if err != nil {
		return false, infra.WrapRepoErr("failed to claim idempotency key", err)
	}

	return n == 1, nil
}

func (r *IdempotencyRepository) Complete(ctx context.Context, tx query.DBTX, key, userID uuid.UUID, responseHash string, bookingID uuid.UUID, now time.Time) error {
	params := query.CompleteIdempotencyKeyParams{
		Key:              key,
		UserID:           userID,
		ResponseBodyHash: pgconv.StringToPgtype(responseHash),
		ResultBookingID:  pgconv.UUIDToPgtype(bookingID),
		UpdatedAt:        pgconv.TimeToPgtype(now),
	}

	n, err := r.queries.CompleteIdempotencyKey(ctx, tx, params)
	if err != nil {
		return infra.WrapRepoErr("failed to complete idempotency key", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("idempotency key is not processing", nil, infra.KindConflict)
	}

	return nil
}

func (r *IdempotencyRepository) Release(ctx context.Context, tx query.DBTX, key, userID uuid.UUID) error {
	err := r.queries.ReleaseIdempotencyKey(ctx, tx, query.GetIdempotencyKeyParams{Key: key, UserID: userID})
	if err != nil {
		return infra.WrapRepoErr("failed to release idempotency key", err)
	}
	return nil
}

func (r *IdempotencyRepository) DeleteExpired(ctx context.Context, db query.DBTX, now time.Time) (int64, error) {
	count, err := r.queries.DeleteExpiredIdempotencyKeys(ctx, db, pgconv.TimeToPgtype(now))
	if err != nil {
		return 0, infra.WrapRepoErr("failed to delete expired idempotency keys", err)
	}

	return count, nil
}
