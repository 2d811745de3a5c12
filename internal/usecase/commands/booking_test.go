//go:build unit

package commands

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"poorito-booking/internal/domain/booking"
	"poorito-booking/internal/domain/user"
	reqdto "poorito-booking/internal/handler/dto/request"
	"poorito-booking/internal/infra"
	"poorito-booking/internal/pkg/clock"
	"poorito-booking/internal/pkg/errs"
	"poorito-booking/internal/pkg/money"
	"poorito-booking/internal/testutil/builder"
	"poorito-booking/internal/testutil/fakeuow"
	"poorito-booking/internal/usecase/queries"
	"poorito-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var october1 = time.Date(2025, time.October, 1, 2, 0, 0, 0, time.UTC)

// fakeBookingQueries answers read-after-write lookups from the fake store.
type fakeBookingQueries struct {
	queries.BookingQueries
	uow *fakeuow.UoW
}

func (q *fakeBookingQueries) GetByIDSystem(ctx context.Context, id uuid.UUID) (*queries.BookingView, error) {
	b, ok := q.uow.Booking(id)
	if !ok {
		return nil, queries.ErrBookingNotFound
	}
	return &queries.BookingView{
		ID:                   b.ID(),
		MountainID:           b.MountainID(),
		UserID:               b.UserID(),
		StartDate:            b.StartDate(),
		EndDate:              b.EndDate(),
		BookingType:          b.Type().String(),
		NumberOfParticipants: b.Participants(),
		Status:               b.Status().String(),
		PricePerHead:         b.PricePerHead(),
		TotalPrice:           b.TotalPrice(),
		CreatedAt:            b.CreatedAt(),
		UpdatedAt:            b.UpdatedAt(),
	}, nil
}

type fixture struct {
	uow      *fakeuow.UoW
	clock    *clock.MockClock
	commands BookingCommands
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)

	clk := clock.NewMockClock(october1)
	uow := fakeuow.New()
	validator := booking.NewValidator(clk, loc, booking.NewDefaultPriceCalculator())
	return &fixture{
		uow:      uow,
		clock:    clk,
		commands: NewBookingUseCase(uow, validator, &fakeBookingQueries{uow: uow}, clk, 24*time.Hour),
	}
}

func userActor() shared.Actor {
	return shared.Actor{UserID: uuid.New(), Role: user.RoleUser}
}

func adminActor() shared.Actor {
	return shared.Actor{UserID: uuid.New(), Role: user.RoleAdmin}
}

func createRequest(mountainID uuid.UUID, start, end, bookingType string, n int) reqdto.CreateBookingRequest {
	return reqdto.CreateBookingRequest{
		MountainID:           mountainID,
		StartDate:            start,
		EndDate:              end,
		BookingType:          bookingType,
		NumberOfParticipants: n,
	}
}

func TestBookingCommands_Create(t *testing.T) {
	t.Run("joiner booking is priced and stored pending", func(t *testing.T) {
		f := newFixture(t)
		m := builder.NewMountainBuilder().WithTripDuration(2).WithBasePriceCents(100000).MustBuildDomain()
		f.uow.AddMountain(m)

		res, err := f.commands.Create(context.Background(), userActor(), createRequest(m.ID(), "2025-10-10", "2025-10-12", "joiner", 3), nil)

		require.NoError(t, err)
		assert.False(t, res.IsReplayed)
		assert.Equal(t, "pending", res.Booking.Status)
		assert.Equal(t, money.FromCents(150000), res.Booking.PricePerHead)
		assert.Equal(t, money.FromCents(450000), res.Booking.TotalPrice)

		notes := f.uow.Notifications()
		require.Len(t, notes, 1)
		assert.Equal(t, "booking_created", notes[0].Topic)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(notes[0].Payload, &payload))
		assert.Equal(t, res.Booking.ID.String(), payload["booking_id"])
	})

	t.Run("scenario D: capacity 14 with 12 booked", func(t *testing.T) {
		f := newFixture(t)
		m := builder.NewMountainBuilder().WithCapacity(14).MustBuildDomain()
		f.uow.AddMountain(m)
		f.uow.AddBooking(builder.NewBookingBuilder().WithMountainID(m.ID()).AsJoiner(12).WithStatus("confirmed").MustBuildDomain())

		_, err := f.commands.Create(context.Background(), userActor(), createRequest(m.ID(), "2025-10-10", "2025-10-11", "joiner", 3), nil)

		var conflict *booking.AvailabilityConflictError
		require.ErrorAs(t, err, &conflict)
		assert.NotEmpty(t, conflict.Dates)
		assert.Equal(t, 1, f.uow.BookingCount())
		assert.Empty(t, f.uow.Notifications())

		res, err := f.commands.Create(context.Background(), userActor(), createRequest(m.ID(), "2025-10-10", "2025-10-11", "joiner", 2), nil)
		require.NoError(t, err)
		assert.Equal(t, 2, res.Booking.NumberOfParticipants)
	})

	t.Run("exclusive booking takes the whole mountain", func(t *testing.T) {
		f := newFixture(t)
		m := builder.NewMountainBuilder().WithCapacity(8).MustBuildDomain()
		f.uow.AddMountain(m)

		res, err := f.commands.Create(context.Background(), userActor(), createRequest(m.ID(), "2025-10-10", "2025-10-11", "exclusive", 0), nil)
		require.NoError(t, err)
		assert.Equal(t, 8, res.Booking.NumberOfParticipants)

		_, err = f.commands.Create(context.Background(), userActor(), createRequest(m.ID(), "2025-10-11", "2025-10-12", "joiner", 1), nil)
		assert.ErrorIs(t, err, booking.ErrAvailabilityConflict)
	})

	t.Run("overlapping booking by the same user", func(t *testing.T) {
		f := newFixture(t)
		m := builder.NewMountainBuilder().MustBuildDomain()
		f.uow.AddMountain(m)
		actor := userActor()
		existing := builder.NewBookingBuilder().WithMountainID(m.ID()).WithUserID(actor.UserID).AsJoiner(1).MustBuildDomain()
		f.uow.AddBooking(existing)

		_, err := f.commands.Create(context.Background(), actor, createRequest(m.ID(), "2025-10-11", "2025-10-12", "joiner", 1), nil)

		var dup *booking.DuplicateBookingError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, existing.ID(), dup.ExistingBookingID)
	})

	exclusion := func(constraint string) error {
		return infra.WrapRepoErr("failed to create booking",
			&pgconn.PgError{Code: "23P01", ConstraintName: constraint})
	}

	t.Run("exclusive overlap constraint surfaces as availability conflict", func(t *testing.T) {
		f := newFixture(t)
		m := builder.NewMountainBuilder().MustBuildDomain()
		f.uow.AddMountain(m)
		f.uow.CreateErr = exclusion(infra.ConstraintNoExclusiveOverlap)

		_, err := f.commands.Create(context.Background(), userActor(), createRequest(m.ID(), "2025-10-10", "2025-10-11", "exclusive", 1), nil)

		assert.ErrorIs(t, err, booking.ErrAvailabilityConflict)
		assert.NotErrorIs(t, err, booking.ErrDuplicateBooking)
		var conflict *booking.AvailabilityConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Equal(t, booking.TypeExclusive, conflict.BookingType)
		assert.NotEmpty(t, conflict.Dates)
		assert.Equal(t, 0, f.uow.BookingCount())
	})

	t.Run("user overlap constraint surfaces as duplicate", func(t *testing.T) {
		f := newFixture(t)
		m := builder.NewMountainBuilder().MustBuildDomain()
		f.uow.AddMountain(m)
		f.uow.CreateErr = exclusion(infra.ConstraintNoUserOverlap)

		_, err := f.commands.Create(context.Background(), userActor(), createRequest(m.ID(), "2025-10-10", "2025-10-11", "joiner", 1), nil)

		assert.ErrorIs(t, err, booking.ErrDuplicateBooking)
		assert.Equal(t, 0, f.uow.BookingCount())
	})

	t.Run("unnamed exclusion violation is a database failure", func(t *testing.T) {
		f := newFixture(t)
		m := builder.NewMountainBuilder().MustBuildDomain()
		f.uow.AddMountain(m)
		f.uow.CreateErr = exclusion("")

		_, err := f.commands.Create(context.Background(), userActor(), createRequest(m.ID(), "2025-10-10", "2025-10-11", "joiner", 1), nil)

		assert.ErrorIs(t, err, errs.ErrDatabaseOperationFailed)
	})

	t.Run("unknown mountain", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.commands.Create(context.Background(), userActor(), createRequest(uuid.New(), "2025-10-10", "2025-10-11", "joiner", 1), nil)

		assert.ErrorIs(t, err, ErrMountainNotFound)
	})

	t.Run("validation runs before availability", func(t *testing.T) {
		f := newFixture(t)
		m := builder.NewMountainBuilder().MustBuildDomain()
		f.uow.AddMountain(m)

		_, err := f.commands.Create(context.Background(), userActor(), createRequest(m.ID(), "2025-10-10", "2025-10-12", "joiner", 1), nil)

		var verr *booking.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Equal(t, "end_date", verr.Field)
	})

	t.Run("malformed date", func(t *testing.T) {
		f := newFixture(t)
		m := builder.NewMountainBuilder().MustBuildDomain()
		f.uow.AddMountain(m)

		_, err := f.commands.Create(context.Background(), userActor(), createRequest(m.ID(), "10/10/2025", "2025-10-11", "joiner", 1), nil)

		assert.ErrorIs(t, err, booking.ErrValidation)
	})

	t.Run("database failure is marked", func(t *testing.T) {
		f := newFixture(t)
		m := builder.NewMountainBuilder().MustBuildDomain()
		f.uow.AddMountain(m)
		f.uow.CreateErr = infra.WrapRepoErr("failed to create booking", assert.AnError)

		_, err := f.commands.Create(context.Background(), userActor(), createRequest(m.ID(), "2025-10-10", "2025-10-11", "joiner", 1), nil)

		assert.True(t, errs.Is(err, errs.ErrDatabaseOperationFailed), err)
	})
}

func TestBookingCommands_CreateConcurrentLastSlots(t *testing.T) {
	f := newFixture(t)
	m := builder.NewMountainBuilder().WithCapacity(10).MustBuildDomain()
	f.uow.AddMountain(m)
	f.uow.AddBooking(builder.NewBookingBuilder().WithMountainID(m.ID()).AsJoiner(7).MustBuildDomain())

	const workers = 2
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.commands.Create(context.Background(), userActor(), createRequest(m.ID(), "2025-10-10", "2025-10-11", "joiner", 3), nil)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				succeeded++
			case errors.Is(err, booking.ErrAvailabilityConflict):
				conflicts++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, 1, conflicts)
}

func TestBookingCommands_CreateIdempotent(t *testing.T) {
	setup := func(t *testing.T) (*fixture, uuid.UUID) {
		f := newFixture(t)
		m := builder.NewMountainBuilder().MustBuildDomain()
		f.uow.AddMountain(m)
		return f, m.ID()
	}

	t.Run("replay returns the original booking", func(t *testing.T) {
		f, mountainID := setup(t)
		actor := userActor()
		key := uuid.New()
		req := createRequest(mountainID, "2025-10-10", "2025-10-11", "joiner", 2)

		first, err := f.commands.Create(context.Background(), actor, req, &key)
		require.NoError(t, err)
		second, err := f.commands.Create(context.Background(), actor, req, &key)
		require.NoError(t, err)

		assert.True(t, second.IsReplayed)
		assert.Equal(t, first.Booking.ID, second.Booking.ID)
		assert.Equal(t, 1, f.uow.BookingCount())

		rec, ok := f.uow.Idempotency(key, actor.UserID)
		require.True(t, ok)
		assert.Equal(t, shared.IdempotencyStatusCompleted, rec.Status)
	})

	t.Run("same key with another payload", func(t *testing.T) {
		f, mountainID := setup(t)
		actor := userActor()
		key := uuid.New()

		_, err := f.commands.Create(context.Background(), actor, createRequest(mountainID, "2025-10-10", "2025-10-11", "joiner", 2), &key)
		require.NoError(t, err)
		_, err = f.commands.Create(context.Background(), actor, createRequest(mountainID, "2025-10-20", "2025-10-21", "joiner", 2), &key)

		assert.ErrorIs(t, err, errs.ErrIdempotencyKeyMismatch)
	})

	t.Run("failed attempt releases the key", func(t *testing.T) {
		f, mountainID := setup(t)
		actor := userActor()
		key := uuid.New()
		req := createRequest(mountainID, "2025-10-10", "2025-10-11", "joiner", 2)
		f.uow.CreateErr = infra.WrapRepoErr("failed to create booking", assert.AnError)

		_, err := f.commands.Create(context.Background(), actor, req, &key)
		require.Error(t, err)
		_, held := f.uow.Idempotency(key, actor.UserID)
		assert.False(t, held)

		res, err := f.commands.Create(context.Background(), actor, req, &key)
		require.NoError(t, err)
		assert.False(t, res.IsReplayed)
	})

	t.Run("rejected input never claims the key", func(t *testing.T) {
		f, mountainID := setup(t)
		actor := userActor()
		key := uuid.New()

		_, err := f.commands.Create(context.Background(), actor, createRequest(mountainID, "2025-09-01", "2025-09-02", "joiner", 2), &key)

		assert.ErrorIs(t, err, booking.ErrValidation)
		_, held := f.uow.Idempotency(key, actor.UserID)
		assert.False(t, held)
	})

	t.Run("expired key can be reused", func(t *testing.T) {
		f, mountainID := setup(t)
		actor := userActor()
		key := uuid.New()

		first, err := f.commands.Create(context.Background(), actor, createRequest(mountainID, "2025-10-10", "2025-10-11", "joiner", 2), &key)
		require.NoError(t, err)
		f.clock.Add(25 * time.Hour)
		second, err := f.commands.Create(context.Background(), actor, createRequest(mountainID, "2025-10-20", "2025-10-21", "joiner", 2), &key)

		require.NoError(t, err)
		assert.NotEqual(t, first.Booking.ID, second.Booking.ID)
	})
}

func TestBookingCommands_UpdateStatus(t *testing.T) {
	tests := []struct {
		name    string
		actor   shared.Actor
		current string
		target  string
		wantErr error
	}{
		{name: "admin confirms pending", actor: adminActor(), current: "pending", target: "confirmed"},
		{name: "admin rejects pending", actor: adminActor(), current: "pending", target: "rejected"},
		{name: "admin completes confirmed", actor: adminActor(), current: "confirmed", target: "completed"},
		{name: "user cannot update", actor: userActor(), current: "pending", target: "confirmed", wantErr: errs.ErrForbidden},
		{name: "cancel is not an admin status", actor: adminActor(), current: "confirmed", target: "cancelled", wantErr: ErrStatusNotSettable},
		{name: "unknown status", actor: adminActor(), current: "pending", target: "archived", wantErr: booking.ErrValidation},
		{name: "completed is terminal", actor: adminActor(), current: "completed", target: "confirmed", wantErr: booking.ErrInvalidTransition},
		{name: "pending cannot complete", actor: adminActor(), current: "pending", target: "completed", wantErr: booking.ErrInvalidTransition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			b := builder.NewBookingBuilder().WithStatus(tt.current).MustBuildDomain()
			f.uow.AddBooking(b)

			view, err := f.commands.UpdateStatus(context.Background(), tt.actor, b.ID(), tt.target)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				stored, _ := f.uow.Booking(b.ID())
				assert.Equal(t, tt.current, stored.Status().String())
				assert.Empty(t, f.uow.Notifications())
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.target, view.Status)
			assert.Equal(t, b.TotalPrice(), view.TotalPrice)
			require.Len(t, f.uow.Notifications(), 1)
			assert.Equal(t, "booking_"+tt.target, f.uow.Notifications()[0].Topic)
		})
	}

	t.Run("unknown booking", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.commands.UpdateStatus(context.Background(), adminActor(), uuid.New(), "confirmed")
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestBookingCommands_Cancel(t *testing.T) {
	t.Run("owner cancels confirmed booking and frees capacity", func(t *testing.T) {
		f := newFixture(t)
		m := builder.NewMountainBuilder().WithCapacity(10).MustBuildDomain()
		f.uow.AddMountain(m)
		actor := userActor()
		b := builder.NewBookingBuilder().WithMountainID(m.ID()).WithUserID(actor.UserID).AsJoiner(10).WithStatus("confirmed").MustBuildDomain()
		f.uow.AddBooking(b)

		view, err := f.commands.Cancel(context.Background(), actor, b.ID())
		require.NoError(t, err)
		assert.Equal(t, "cancelled", view.Status)
		assert.Equal(t, b.TotalPrice(), view.TotalPrice)

		_, err = f.commands.Create(context.Background(), userActor(), createRequest(m.ID(), "2025-10-10", "2025-10-11", "joiner", 10), nil)
		assert.NoError(t, err)
	})

	t.Run("another user cannot cancel", func(t *testing.T) {
		f := newFixture(t)
		b := builder.NewBookingBuilder().WithStatus("confirmed").MustBuildDomain()
		f.uow.AddBooking(b)

		_, err := f.commands.Cancel(context.Background(), userActor(), b.ID())

		assert.ErrorIs(t, err, booking.ErrNotOwner)
	})

	t.Run("pending booking cannot be cancelled", func(t *testing.T) {
		f := newFixture(t)
		actor := userActor()
		b := builder.NewBookingBuilder().WithUserID(actor.UserID).MustBuildDomain()
		f.uow.AddBooking(b)

		_, err := f.commands.Cancel(context.Background(), actor, b.ID())

		assert.ErrorIs(t, err, booking.ErrInvalidTransition)
	})
}
