//go:build unit

package queries_test

import (
	"context"
	"testing"

	"poorito-booking/internal/infra"
	"poorito-booking/internal/testutil/builder"
	"poorito-booking/internal/testutil/fakeuow"
	"poorito-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestUserQueries_GetCurrentUser(t *testing.T) {
	t.Run("active user", func(t *testing.T) {
		store := new(MockUserReadStore)
		u := builder.NewUserBuilder().BuildReadModel()
		store.On("FindByID", mock.Anything, mock.Anything, u.ID).Return(u, nil)

		got, err := queries.NewUserQueries(fakeuow.New(), store).GetCurrentUser(context.Background(), u.ID)

		require.NoError(t, err)
		assert.Equal(t, u, got)
	})

	t.Run("inactive user", func(t *testing.T) {
		store := new(MockUserReadStore)
		u := builder.NewUserBuilder().AsInactive().BuildReadModel()
		store.On("FindByID", mock.Anything, mock.Anything, u.ID).Return(u, nil)

		_, err := queries.NewUserQueries(fakeuow.New(), store).GetCurrentUser(context.Background(), u.ID)

		assert.ErrorIs(t, err, queries.ErrUserInactive)
	})

	t.Run("missing user", func(t *testing.T) {
		store := new(MockUserReadStore)
		id := uuid.New()
		store.On("FindByID", mock.Anything, mock.Anything, id).
			Return(nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound))

		_, err := queries.NewUserQueries(fakeuow.New(), store).GetCurrentUser(context.Background(), id)

		assert.ErrorIs(t, err, queries.ErrUserNotFound)
	})
}
