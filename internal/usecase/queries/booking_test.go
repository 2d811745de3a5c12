//go:build unit

package queries_test

import (
	"context"
	"testing"
	"time"

	"poorito-booking/internal/domain/user"
	"poorito-booking/internal/infra"
	"poorito-booking/internal/pkg/clock"
	"poorito-booking/internal/testutil/builder"
	"poorito-booking/internal/testutil/fakeuow"
	"poorito-booking/internal/usecase/queries"
	"poorito-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type bookingQueriesFixture struct {
	q        queries.BookingQueries
	store    *MockBookingReadStore
	renderer *MockReceiptRenderer
}

func newBookingQueries() *bookingQueriesFixture {
	f := &bookingQueriesFixture{
		store:    new(MockBookingReadStore),
		renderer: new(MockReceiptRenderer),
	}
	f.q = queries.NewBookingQueries(fakeuow.New(), f.store, f.renderer, clock.NewMockClock(october1))
	return f
}

func listItems(userID uuid.UUID, n int) []*queries.BookingListItem {
	items := make([]*queries.BookingListItem, n)
	for i := range items {
		items[i] = &queries.BookingListItem{
			ID:        uuid.New(),
			Status:    "pending",
			CreatedAt: october1.Add(-time.Duration(i) * time.Hour),
		}
	}
	return items
}

func TestBookingQueries_GetByID(t *testing.T) {
	owner := uuid.New()
	view := builder.NewBookingBuilder().WithUserID(owner).BuildView()

	tests := []struct {
		name    string
		actor   shared.Actor
		wantErr error
	}{
		{name: "owner", actor: shared.Actor{UserID: owner, Role: user.RoleUser}},
		{name: "admin", actor: shared.Actor{UserID: uuid.New(), Role: user.RoleAdmin}},
		{name: "stranger", actor: shared.Actor{UserID: uuid.New(), Role: user.RoleUser}, wantErr: queries.ErrBookingAccess},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newBookingQueries()
			f.store.On("FindByID", mock.Anything, mock.Anything, view.ID).Return(view, nil)

			got, err := f.q.GetByID(context.Background(), tt.actor, view.ID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, view.ID, got.ID)
		})
	}

	t.Run("not found", func(t *testing.T) {
		f := newBookingQueries()
		id := uuid.New()
		f.store.On("FindByID", mock.Anything, mock.Anything, id).
			Return(nil, infra.WrapRepoErr("booking not found", nil, infra.KindNotFound))

		_, err := f.q.GetByID(context.Background(), shared.Actor{UserID: owner, Role: user.RoleUser}, id)

		assert.ErrorIs(t, err, queries.ErrBookingNotFound)
	})
}

func TestBookingQueries_ListByUser(t *testing.T) {
	actor := shared.Actor{UserID: uuid.New(), Role: user.RoleUser}

	t.Run("first page with more rows", func(t *testing.T) {
		f := newBookingQueries()
		rows := listItems(actor.UserID, 3)
		f.store.On("FindByUserFirstPage", mock.Anything, mock.Anything, actor.UserID, int32(3)).Return(rows, nil)

		got, next, err := f.q.ListByUser(context.Background(), actor, nil, 2)

		require.NoError(t, err)
		assert.Len(t, got, 2)
		require.NotNil(t, next)
		createdAt, lastID, err := queries.DecodeAfterCursor(next.After)
		require.NoError(t, err)
		assert.Equal(t, rows[1].ID, lastID)
		assert.True(t, rows[1].CreatedAt.Equal(createdAt))
	})

	t.Run("keyset page is the last one", func(t *testing.T) {
		f := newBookingQueries()
		lastID := uuid.New()
		cursor := &queries.Cursor{After: queries.EncodeAfterCursor(october1, lastID)}
		rows := listItems(actor.UserID, 1)
		f.store.On("FindByUserKeyset", mock.Anything, mock.Anything, actor.UserID, mock.Anything, lastID, int32(3)).Return(rows, nil)

		got, next, err := f.q.ListByUser(context.Background(), actor, cursor, 2)

		require.NoError(t, err)
		assert.Len(t, got, 1)
		assert.Nil(t, next)
	})

	t.Run("broken cursor", func(t *testing.T) {
		f := newBookingQueries()

		_, _, err := f.q.ListByUser(context.Background(), actor, &queries.Cursor{After: "%%%"}, 2)

		assert.ErrorIs(t, err, queries.ErrInvalidCursor)
	})
}

func TestBookingQueries_Receipt(t *testing.T) {
	owner := shared.Actor{UserID: uuid.New(), Role: user.RoleUser}
	view := builder.NewBookingBuilder().WithUserID(owner.UserID).WithStatus("confirmed").BuildView()

	t.Run("receipt number derives from the booking id", func(t *testing.T) {
		f := newBookingQueries()
		f.store.On("FindByID", mock.Anything, mock.Anything, view.ID).Return(view, nil)

		got, err := f.q.Receipt(context.Background(), owner, view.ID)

		require.NoError(t, err)
		assert.Equal(t, queries.ReceiptNumber(view.ID), got.ReceiptNumber)
		assert.Len(t, got.ReceiptNumber, len("PB-")+8)
		assert.Equal(t, october1, got.IssuedAt)
		assert.Equal(t, view.TotalPrice, got.Booking.TotalPrice)
	})

	t.Run("pdf is rendered from the receipt", func(t *testing.T) {
		f := newBookingQueries()
		f.store.On("FindByID", mock.Anything, mock.Anything, view.ID).Return(view, nil)
		f.renderer.On("Render", mock.MatchedBy(func(r *queries.ReceiptView) bool {
			return r.Booking.ID == view.ID
		})).Return([]byte("%PDF-1.3"), nil)

		pdf, receipt, err := f.q.ReceiptPDF(context.Background(), owner, view.ID)

		require.NoError(t, err)
		assert.Equal(t, []byte("%PDF-1.3"), pdf)
		assert.Equal(t, view.ID, receipt.Booking.ID)
		f.renderer.AssertExpectations(t)
	})

	t.Run("render failure", func(t *testing.T) {
		f := newBookingQueries()
		f.store.On("FindByID", mock.Anything, mock.Anything, view.ID).Return(view, nil)
		f.renderer.On("Render", mock.Anything).Return(nil, assert.AnError)

		_, _, err := f.q.ReceiptPDF(context.Background(), owner, view.ID)

		assert.ErrorIs(t, err, assert.AnError)
	})

	t.Run("stranger gets nothing", func(t *testing.T) {
		f := newBookingQueries()
		f.store.On("FindByID", mock.Anything, mock.Anything, view.ID).Return(view, nil)

		_, _, err := f.q.ReceiptPDF(context.Background(), shared.Actor{UserID: uuid.New(), Role: user.RoleUser}, view.ID)

		assert.ErrorIs(t, err, queries.ErrBookingAccess)
		f.renderer.AssertNotCalled(t, "Render", mock.Anything)
	})
}

func TestReceiptNumber(t *testing.T) {
	id := uuid.MustParse("3f2a9c1e-0000-4000-8000-000000000000")
	assert.Equal(t, "PB-3F2A9C1E", queries.ReceiptNumber(id))
}
