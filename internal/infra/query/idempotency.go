package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

// Inserts a fresh key, or takes over an expired one. Zero rows affected means
// a live key already exists for this user.
const claimIdempotencyKey = `-- name: ClaimIdempotencyKey :execrows
INSERT INTO idempotency_keys (key, user_id, endpoint, request_hash, status, expires_at, created_at, updated_at)
VALUES ($1, $2, $3, $4, 'processing', $5, $6, $6)
ON CONFLICT (key, user_id) DO UPDATE
SET endpoint = EXCLUDED.endpoint,
    request_hash = EXCLUDED.request_hash,
    response_body_hash = NULL,
    result_booking_id = NULL,
    status = 'processing',
    expires_at = EXCLUDED.expires_at,
    updated_at = EXCLUDED.updated_at
WHERE idempotency_keys.expires_at < EXCLUDED.created_at`

type ClaimIdempotencyKeyParams struct {
	Key         uuid.UUID
	UserID      uuid.UUID
	Endpoint    string
	RequestHash string
	ExpiresAt   pgtype.Timestamptz
	Now         pgtype.Timestamptz
}

func (q *Queries) ClaimIdempotencyKey(ctx context.Context, db DBTX, arg ClaimIdempotencyKeyParams) (int64, error) {
	result, err := db.Exec(ctx, claimIdempotencyKey,
		arg.Key,
		arg.UserID,
		arg.Endpoint,
		arg.RequestHash,
		arg.ExpiresAt,
		arg.Now,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getIdempotencyKey = `-- name: GetIdempotencyKey :one
SELECT key, user_id, endpoint, request_hash, response_body_hash, status,
       result_booking_id, expires_at, created_at, updated_at
FROM idempotency_keys
WHERE key = $1 AND user_id = $2`

type GetIdempotencyKeyParams struct {
	Key    uuid.UUID
	UserID uuid.UUID
}

func (q *Queries) GetIdempotencyKey(ctx context.Context, db DBTX, arg GetIdempotencyKeyParams) (IdempotencyKeys, error) {
	var k IdempotencyKeys
	err := db.QueryRow(ctx, getIdempotencyKey, arg.Key, arg.UserID).Scan(
		&k.Key,
		&k.UserID,
		&k.Endpoint,
		&k.RequestHash,
		&k.ResponseBodyHash,
		&k.Status,
		&k.ResultBookingID,
		&k.ExpiresAt,
		&k.CreatedAt,
		&k.UpdatedAt,
	)
	return k, err
}

const completeIdempotencyKey = `-- name: CompleteIdempotencyKey :execrows
UPDATE idempotency_keys
SET status = 'completed',
    response_body_hash = $3,
    result_booking_id = $4,
    updated_at = $5
WHERE key = $1 AND user_id = $2 AND status = 'processing'`

type CompleteIdempotencyKeyParams struct {
	Key              uuid.UUID
	UserID           uuid.UUID
	ResponseBodyHash pgtype.Text
	ResultBookingID  pgtype.UUID
	UpdatedAt        pgtype.Timestamptz
}

func (q *Queries) CompleteIdempotencyKey(ctx context.Context, db DBTX, arg CompleteIdempotencyKeyParams) (int64, error) {
	result, err := db.Exec(ctx, completeIdempotencyKey,
		arg.Key,
		arg.UserID,
		arg.ResponseBodyHash,
		arg.ResultBookingID,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const releaseIdempotencyKey = `-- name: ReleaseIdempotencyKey :exec
DELETE FROM idempotency_keys
WHERE key = $1 AND user_id = $2 AND status = 'processing'`

func (q *Queries) ReleaseIdempotencyKey(ctx context.Context, db DBTX, arg GetIdempotencyKeyParams) error {
	_, err := db.Exec(ctx, releaseIdempotencyKey, arg.Key, arg.UserID)
	return err
}

const deleteExpiredIdempotencyKeys = `-- name: DeleteExpiredIdempotencyKeys :execrows
DELETE FROM idempotency_keys
WHERE expires_at < $1`

func (q *Queries) DeleteExpiredIdempotencyKeys(ctx context.Context, db DBTX, now pgtype.Timestamptz) (int64, error) {
	result, err := db.Exec(ctx, deleteExpiredIdempotencyKeys, now)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
