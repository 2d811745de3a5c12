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

type UserWriteQueries interface {
	UpdateUserLastLogin(ctx context.Context, db query.DBTX, id uuid.UUID, at pgtype.Timestamptz) error
}

type UserRepository struct {
	queries UserWriteQueries
}

func NewUserRepository(queries UserWriteQueries) *UserRepository {
	return &UserRepository{
		queries: queries,
	}
}

func (r *UserRepository) UpdateLastLogin(ctx context.Context, tx query.DBTX, userID uuid.UUID, at time.Time) error {
	err := r.queries.UpdateUserLastLogin(ctx, tx, userID, pgconv.TimeToPgtype(at))
	if err != nil {
		return infra.WrapRepoErr("failed to update user last login", err)
	}
	return nil
}
