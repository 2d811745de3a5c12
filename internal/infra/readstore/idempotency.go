package readstore

import (
	"context"

	"poorito-booking/internal/infra"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/pkg/pgconv"
	"poorito-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type IdempotencyReadQueries interface {
	GetIdempotencyKey(ctx context.Context, db query.DBTX, arg query.GetIdempotencyKeyParams) (query.IdempotencyKeys, error)
}

type IdempotencyReadStore struct {
	queries IdempotencyReadQueries
}

func NewIdempotencyReadStore(queries IdempotencyReadQueries) *IdempotencyReadStore {
	return &IdempotencyReadStore{
		queries: queries,
	}
}

// Get returns the stored key regardless of expiry; a live claim is decided
// by the claim statement itself.
func (r *IdempotencyReadStore) Get(ctx context.Context, db query.DBTX, key, userID uuid.UUID) (*shared.IdempotencyRecord, error) {
	row, err := r.queries.GetIdempotencyKey(ctx, db, query.GetIdempotencyKeyParams{
		Key:    key,
		UserID: userID,
	})
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("idempotency key not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to get idempotency key", err)
	}

	return &shared.IdempotencyRecord{
		Key:             row.Key,
		UserID:          row.UserID,
		Status:          row.Status,
		RequestHash:     row.RequestHash,
		ResultBookingID: pgconv.UUIDPtrFromPgtype(row.ResultBookingID),
		ExpiresAt:       pgconv.TimeFromPgtype(row.ExpiresAt),
	}, nil
}
