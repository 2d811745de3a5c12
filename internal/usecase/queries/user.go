package queries

import (
	"context"

	"poorito-booking/internal/infra"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type AuthorizedUserView struct {
	ID          uuid.UUID `json:"id"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	DisplayName string    `json:"display_name"`
	IsActive    bool      `json:"is_active"`
}

type UserQueries interface {
	GetCurrentUser(ctx context.Context, userID uuid.UUID) (*AuthorizedUserView, error)
}

type UserReadStore interface {
	FindByID(ctx context.Context, db query.DBTX, id uuid.UUID) (*AuthorizedUserView, error)
	FindByEmail(ctx context.Context, db query.DBTX, email string) (*AuthorizedUserView, string, error)
}

type userQueriesImpl struct {
	uow       shared.UnitOfWork
	readStore UserReadStore
}

func NewUserQueries(uow shared.UnitOfWork, readStore UserReadStore) UserQueries {
	return &userQueriesImpl{
		uow:       uow,
		readStore: readStore,
	}
}

func (q *userQueriesImpl) GetCurrentUser(ctx context.Context, userID uuid.UUID) (*AuthorizedUserView, error) {
	var user *AuthorizedUserView
	err := q.uow.WithDB(ctx, func(ctx context.Context, db query.DBTX) error {
		var err error
		user, err = q.readStore.FindByID(ctx, db, userID)
		return err
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	if !user.IsActive {
		return nil, ErrUserInactive
	}

	return user, nil
}
