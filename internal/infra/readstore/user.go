package readstore

import (
	"context"

	"poorito-booking/internal/infra"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/pkg/pgconv"
	"poorito-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type UserReadQueries interface {
	FindUserByID(ctx context.Context, db query.DBTX, id uuid.UUID) (query.Users, error)
	FindUserByEmail(ctx context.Context, db query.DBTX, email string) (query.Users, error)
}

type UserReadStore struct {
	queries UserReadQueries
}

func NewUserReadStore(queries UserReadQueries) *UserReadStore {
	return &UserReadStore{
		queries: queries,
	}
}

func (r *UserReadStore) FindByID(ctx context.Context, db query.DBTX, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	row, err := r.queries.FindUserByID(ctx, db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find user by ID", err)
	}

	return toAuthorizedUserView(row), nil
}

func (r *UserReadStore) FindByEmail(ctx context.Context, db query.DBTX, email string) (*queries.AuthorizedUserView, string, error) {
	row, err := r.queries.FindUserByEmail(ctx, db, email)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, "", infra.WrapRepoErr("user not found", err, infra.KindNotFound)
		}
		return nil, "", infra.WrapRepoErr("failed to find user by email", err)
	}

	return toAuthorizedUserView(row), row.PasswordHash, nil
}

func toAuthorizedUserView(row query.Users) *queries.AuthorizedUserView {
	return &queries.AuthorizedUserView{
		ID:          row.ID,
		Email:       row.Email,
		Role:        row.Role,
		DisplayName: row.DisplayName,
		IsActive:    row.IsActive,
	}
}
