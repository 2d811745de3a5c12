//go:build unit

package commands

import (
	"context"
	"testing"
	"time"

	"poorito-booking/internal/domain/user"
	"poorito-booking/internal/infra"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/pkg/clock"
	"poorito-booking/internal/pkg/errs"
	"poorito-booking/internal/pkg/jwt"
	"poorito-booking/internal/pkg/password"
	"poorito-booking/internal/testutil/builder"
	"poorito-booking/internal/testutil/fakeuow"
	"poorito-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockUserReadStore struct {
	mock.Mock
}

func (m *MockUserReadStore) FindByID(ctx context.Context, db query.DBTX, id uuid.UUID) (*queries.AuthorizedUserView, error) {
	args := m.Called(ctx, db, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queries.AuthorizedUserView), args.Error(1)
}

func (m *MockUserReadStore) FindByEmail(ctx context.Context, db query.DBTX, email string) (*queries.AuthorizedUserView, string, error) {
	args := m.Called(ctx, db, email)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).(*queries.AuthorizedUserView), args.String(1), args.Error(2)
}

func newAuthCommands(t *testing.T) (AuthCommands, *MockUserReadStore, *fakeuow.UoW, *jwt.Service) {
	t.Helper()
	store := new(MockUserReadStore)
	uow := fakeuow.New()
	jwtService := jwt.NewService("test-secret-key-for-auth-commands", 15*time.Minute, 24*time.Hour)
	return NewAuthCommands(uow, store, jwtService, clock.NewMockClock(october1)), store, uow, jwtService
}

func TestAuthCommands_Login(t *testing.T) {
	hash, err := password.HashPassword("password123")
	require.NoError(t, err)

	t.Run("success issues both tokens", func(t *testing.T) {
		cmds, store, uow, jwtService := newAuthCommands(t)
		u := builder.NewUserBuilder().WithPasswordHash(hash).AsAdmin()
		store.On("FindByEmail", mock.Anything, mock.Anything, u.Email).Return(u.BuildReadModel(), hash, nil)

		res, err := cmds.Login(context.Background(), builder.NewAuthBuilder().BuildDTO())

		require.NoError(t, err)
		assert.Equal(t, u.ID, res.UserID)
		assert.Equal(t, user.RoleAdmin, res.Role)

		claims, err := jwtService.ValidateToken(res.TokenPair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, jwt.TokenTypeAccess, claims.TokenType)
		assert.Equal(t, "admin", claims.Role)

		at, ok := uow.LastLogin(u.ID)
		require.True(t, ok)
		assert.Equal(t, october1, at)
		store.AssertExpectations(t)
	})

	t.Run("wrong password", func(t *testing.T) {
		cmds, store, _, _ := newAuthCommands(t)
		u := builder.NewUserBuilder().WithPasswordHash(hash)
		store.On("FindByEmail", mock.Anything, mock.Anything, u.Email).Return(u.BuildReadModel(), hash, nil)

		_, err := cmds.Login(context.Background(), builder.NewAuthBuilder().WithPassword("wrong-password").BuildDTO())

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email looks like a bad password", func(t *testing.T) {
		cmds, store, _, _ := newAuthCommands(t)
		store.On("FindByEmail", mock.Anything, mock.Anything, "nobody@example.com").
			Return(nil, "", infra.WrapRepoErr("user not found", nil, infra.KindNotFound))

		_, err := cmds.Login(context.Background(), builder.NewAuthBuilder().WithEmail("nobody@example.com").BuildDTO())

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("storage failure is not reported as bad credentials", func(t *testing.T) {
		cmds, store, _, _ := newAuthCommands(t)
		store.On("FindByEmail", mock.Anything, mock.Anything, "hiker@example.com").
			Return(nil, "", infra.WrapRepoErr("failed to find user by email", assert.AnError))

		_, err := cmds.Login(context.Background(), builder.NewAuthBuilder().BuildDTO())

		require.Error(t, err)
		assert.NotErrorIs(t, err, ErrInvalidCredentials)
		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("inactive user", func(t *testing.T) {
		cmds, store, _, _ := newAuthCommands(t)
		u := builder.NewUserBuilder().WithPasswordHash(hash).AsInactive()
		store.On("FindByEmail", mock.Anything, mock.Anything, u.Email).Return(u.BuildReadModel(), hash, nil)

		_, err := cmds.Login(context.Background(), builder.NewAuthBuilder().BuildDTO())

		assert.ErrorIs(t, err, ErrUserInactive)
	})

	t.Run("malformed email", func(t *testing.T) {
		cmds, store, _, _ := newAuthCommands(t)

		_, err := cmds.Login(context.Background(), builder.NewAuthBuilder().WithEmail("not-an-email").BuildDTO())

		assert.True(t, errs.Is(err, ErrAuthenticationFailed), err)
		store.AssertNotCalled(t, "FindByEmail", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthCommands_RefreshToken(t *testing.T) {
	t.Run("refresh token yields a new pair", func(t *testing.T) {
		cmds, store, _, jwtService := newAuthCommands(t)
		u := builder.NewUserBuilder()
		refresh, err := jwtService.GenerateRefreshToken(u.ID, user.RoleUser)
		require.NoError(t, err)
		store.On("FindByID", mock.Anything, mock.Anything, u.ID).Return(u.BuildReadModel(), nil)

		pair, err := cmds.RefreshToken(context.Background(), refresh)

		require.NoError(t, err)
		assert.NotEmpty(t, pair.AccessToken)
		assert.NotEmpty(t, pair.RefreshToken)
	})

	t.Run("stored role replaces the role in the token", func(t *testing.T) {
		cmds, store, _, jwtService := newAuthCommands(t)
		u := builder.NewUserBuilder()
		refresh, err := jwtService.GenerateRefreshToken(u.ID, user.RoleAdmin)
		require.NoError(t, err)
		store.On("FindByID", mock.Anything, mock.Anything, u.ID).Return(u.BuildReadModel(), nil)

		pair, err := cmds.RefreshToken(context.Background(), refresh)

		require.NoError(t, err)
		claims, err := jwtService.ValidateToken(pair.AccessToken)
		require.NoError(t, err)
		assert.Equal(t, "user", claims.Role)
	})

	t.Run("access token is rejected", func(t *testing.T) {
		cmds, _, _, jwtService := newAuthCommands(t)
		access, err := jwtService.GenerateAccessToken(uuid.New(), user.RoleUser)
		require.NoError(t, err)

		_, err = cmds.RefreshToken(context.Background(), access)

		assert.ErrorIs(t, err, ErrTokenValidation)
	})

	t.Run("garbage token", func(t *testing.T) {
		cmds, _, _, _ := newAuthCommands(t)

		_, err := cmds.RefreshToken(context.Background(), "not.a.token")

		assert.True(t, errs.Is(err, ErrTokenValidation), err)
	})

	t.Run("disabled account", func(t *testing.T) {
		cmds, store, _, jwtService := newAuthCommands(t)
		u := builder.NewUserBuilder().AsInactive()
		refresh, err := jwtService.GenerateRefreshToken(u.ID, user.RoleUser)
		require.NoError(t, err)
		store.On("FindByID", mock.Anything, mock.Anything, u.ID).Return(u.BuildReadModel(), nil)

		_, err = cmds.RefreshToken(context.Background(), refresh)

		assert.ErrorIs(t, err, ErrUserInactive)
	})

	t.Run("deleted account", func(t *testing.T) {
		cmds, store, _, jwtService := newAuthCommands(t)
		id := uuid.New()
		refresh, err := jwtService.GenerateRefreshToken(id, user.RoleUser)
		require.NoError(t, err)
		store.On("FindByID", mock.Anything, mock.Anything, id).Return(nil, infra.WrapRepoErr("user not found", nil, infra.KindNotFound))

		_, err = cmds.RefreshToken(context.Background(), refresh)

		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}
