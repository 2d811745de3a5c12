//go:build unit

package readstore

import (
	"context"
	"testing"
	"time"

	"poorito-booking/internal/infra"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var mountainColumnNames = []string{
	"id", "name", "location", "elevation", "difficulty", "trip_duration",
	"base_price_per_head_cents", "joiner_capacity", "exclusive_price_cents",
	"is_joiner_available", "is_exclusive_available", "created_at", "updated_at",
}

func newPool(t *testing.T) pgxmock.PgxPoolIface {
	t.Helper()
	pool, err := pgxmock.NewPool(pgxmock.QueryMatcherOption(pgxmock.QueryMatcherRegexp))
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return pool
}

func TestMountainReadStore_FindByID(t *testing.T) {
	id := uuid.New()
	created := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)

	t.Run("maps catalog row", func(t *testing.T) {
		pool := newPool(t)
		pool.ExpectQuery(`FROM mountains\s+WHERE id = \$1`).
			WithArgs(id).
			WillReturnRows(pgxmock.NewRows(mountainColumnNames).AddRow(
				id.String(), "Mt. Pulag", "Benguet", int32(2922), "Moderate", int32(2),
				int64(350000), int32(12), int64(900000),
				true, true, created, created,
			))

		store := NewMountainReadStore(query.New())
		view, err := store.FindByID(context.Background(), pool, id)

		require.NoError(t, err)
		assert.Equal(t, id, view.ID)
		assert.Equal(t, "Mt. Pulag", view.Name)
		assert.Equal(t, 2, view.TripDuration)
		assert.Equal(t, money.FromCents(350000), view.BasePricePerHead)
		require.NotNil(t, view.ExclusivePrice)
		assert.Equal(t, money.FromCents(900000), *view.ExclusivePrice)
		assert.Equal(t, 12, view.JoinerCapacity)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("null exclusive price", func(t *testing.T) {
		pool := newPool(t)
		pool.ExpectQuery(`FROM mountains`).
			WithArgs(id).
			WillReturnRows(pgxmock.NewRows(mountainColumnNames).AddRow(
				id.String(), "Mt. Batulao", "Batangas", int32(811), "Easy", int32(1),
				int64(150000), int32(20), nil,
				true, false, created, created,
			))

		store := NewMountainReadStore(query.New())
		view, err := store.FindByID(context.Background(), pool, id)

		require.NoError(t, err)
		assert.Nil(t, view.ExclusivePrice)
		assert.False(t, view.IsExclusiveAvailable)
	})

	t.Run("not found", func(t *testing.T) {
		pool := newPool(t)
		pool.ExpectQuery(`FROM mountains`).WithArgs(id).WillReturnError(pgx.ErrNoRows)

		store := NewMountainReadStore(query.New())
		view, err := store.FindByID(context.Background(), pool, id)

		assert.Nil(t, view)
		assert.True(t, infra.IsKind(err, infra.KindNotFound))
	})

	t.Run("database failure", func(t *testing.T) {
		pool := newPool(t)
		pool.ExpectQuery(`FROM mountains`).WithArgs(id).WillReturnError(assert.AnError)

		store := NewMountainReadStore(query.New())
		_, err := store.FindByID(context.Background(), pool, id)

		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}

func TestMountainReadStore_List(t *testing.T) {
	created := time.Date(2025, time.September, 1, 0, 0, 0, 0, time.UTC)

	t.Run("filters by difficulty", func(t *testing.T) {
		pool := newPool(t)
		difficulty := "Hard"
		pool.ExpectQuery(`ORDER BY name ASC, id ASC`).
			WithArgs(pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows(mountainColumnNames).
				AddRow(uuid.NewString(), "Mt. Apo", "Davao", int32(2954), "Hard", int32(3),
					int64(500000), int32(8), nil, true, false, created, created).
				AddRow(uuid.NewString(), "Mt. Halcon", "Mindoro", int32(2586), "Hard", int32(4),
					int64(650000), int32(6), int64(2000000), true, true, created, created))

		store := NewMountainReadStore(query.New())
		views, err := store.List(context.Background(), pool, &difficulty)

		require.NoError(t, err)
		require.Len(t, views, 2)
		assert.Equal(t, "Mt. Apo", views[0].Name)
		assert.Equal(t, 4, views[1].TripDuration)
		assert.NoError(t, pool.ExpectationsWereMet())
	})

	t.Run("empty catalog", func(t *testing.T) {
		pool := newPool(t)
		pool.ExpectQuery(`FROM mountains`).
			WithArgs(pgxmock.AnyArg()).
			WillReturnRows(pgxmock.NewRows(mountainColumnNames))

		store := NewMountainReadStore(query.New())
		views, err := store.List(context.Background(), pool, nil)

		require.NoError(t, err)
		assert.Empty(t, views)
	})

	t.Run("query failure", func(t *testing.T) {
		pool := newPool(t)
		pool.ExpectQuery(`FROM mountains`).WithArgs(pgxmock.AnyArg()).WillReturnError(assert.AnError)

		store := NewMountainReadStore(query.New())
		_, err := store.List(context.Background(), pool, nil)

		assert.True(t, infra.IsKind(err, infra.KindDBFailure))
	})
}
