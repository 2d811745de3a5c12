//go:build unit

package booking_test

import (
	"testing"
	"time"

	"poorito-booking/internal/domain/booking"
	"poorito-booking/internal/domain/mountain"
	"poorito-booking/internal/pkg/calendar"
	"poorito-booking/internal/pkg/clock"
	"poorito-booking/internal/testutil/builder"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func manila(t *testing.T) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation("Asia/Manila")
	require.NoError(t, err)
	return loc
}

func newValidator(t *testing.T, now time.Time) *booking.Validator {
	t.Helper()
	return booking.NewValidator(clock.NewMockClock(now), manila(t), booking.NewDefaultPriceCalculator())
}

func request(t *testing.T, start, end, bookingType string, participants int) booking.Request {
	t.Helper()
	req := booking.Request{BookingType: bookingType, Participants: participants}
	if start != "" {
		req.StartDate = date(t, start)
	}
	if end != "" {
		req.EndDate = date(t, end)
	}
	return req
}

var october1 = time.Date(2025, time.October, 1, 2, 0, 0, 0, time.UTC)

func TestValidator_Prepare(t *testing.T) {
	tests := []struct {
		name      string
		mountain  *builder.MountainBuilder
		req       func(t *testing.T) booking.Request
		wantField string
		wantN     int
	}{
		{
			name:     "joiner accepted",
			mountain: builder.NewMountainBuilder(),
			req:      func(t *testing.T) booking.Request { return request(t, "2025-10-10", "2025-10-11", "joiner", 3) },
			wantN:    3,
		},
		{
			name:     "exclusive forces capacity",
			mountain: builder.NewMountainBuilder().WithCapacity(14),
			req:      func(t *testing.T) booking.Request { return request(t, "2025-10-10", "2025-10-11", "exclusive", 2) },
			wantN:    14,
		},
		{
			name:     "start date today is allowed",
			mountain: builder.NewMountainBuilder(),
			req:      func(t *testing.T) booking.Request { return request(t, "2025-10-01", "2025-10-02", "joiner", 1) },
			wantN:    1,
		},
		{
			name:      "missing start date",
			mountain:  builder.NewMountainBuilder(),
			req:       func(t *testing.T) booking.Request { return request(t, "", "2025-10-11", "joiner", 1) },
			wantField: "start_date",
		},
		{
			name:      "missing end date",
			mountain:  builder.NewMountainBuilder(),
			req:       func(t *testing.T) booking.Request { return request(t, "2025-10-10", "", "joiner", 1) },
			wantField: "end_date",
		},
		{
			name:      "end date inconsistent with trip duration",
			mountain:  builder.NewMountainBuilder().WithTripDuration(2),
			req:       func(t *testing.T) booking.Request { return request(t, "2025-10-10", "2025-10-11", "joiner", 1) },
			wantField: "end_date",
		},
		{
			name:      "unknown booking type",
			mountain:  builder.NewMountainBuilder(),
			req:       func(t *testing.T) booking.Request { return request(t, "2025-10-10", "2025-10-11", "private", 1) },
			wantField: "booking_type",
		},
		{
			name:      "zero joiners",
			mountain:  builder.NewMountainBuilder(),
			req:       func(t *testing.T) booking.Request { return request(t, "2025-10-10", "2025-10-11", "joiner", 0) },
			wantField: "number_of_participants",
		},
		{
			name:      "too many joiners",
			mountain:  builder.NewMountainBuilder().WithCapacity(30),
			req:       func(t *testing.T) booking.Request { return request(t, "2025-10-10", "2025-10-11", "joiner", 21) },
			wantField: "number_of_participants",
		},
		{
			name:      "joiner not offered",
			mountain:  builder.NewMountainBuilder().WithoutJoiner(),
			req:       func(t *testing.T) booking.Request { return request(t, "2025-10-10", "2025-10-11", "joiner", 2) },
			wantField: "booking_type",
		},
		{
			name:      "exclusive not offered",
			mountain:  builder.NewMountainBuilder().WithoutExclusive(),
			req:       func(t *testing.T) booking.Request { return request(t, "2025-10-10", "2025-10-11", "exclusive", 0) },
			wantField: "booking_type",
		},
		{
			name:      "past start date",
			mountain:  builder.NewMountainBuilder(),
			req:       func(t *testing.T) booking.Request { return request(t, "2025-09-30", "2025-10-01", "joiner", 1) },
			wantField: "start_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := newValidator(t, october1)
			m := tt.mountain.MustBuildDomain()

			prepared, err := v.Prepare(m, tt.req(t))

			if tt.wantField != "" {
				var verr *booking.ValidationError
				require.ErrorAs(t, err, &verr)
				assert.Equal(t, tt.wantField, verr.Field)
				assert.ErrorIs(t, err, booking.ErrValidation)
				assert.Nil(t, prepared)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantN, prepared.Participants)
		})
	}
}

func TestValidator_Prepare_TripDurationRoundTrip(t *testing.T) {
	v := newValidator(t, time.Date(2025, time.March, 1, 0, 0, 0, 0, time.UTC))
	m := builder.NewMountainBuilder().WithTripDuration(4).MustBuildDomain()

	prepared, err := v.Prepare(m, request(t, "2025-03-05", "2025-03-09", "joiner", 2))

	require.NoError(t, err)
	assert.Equal(t, "2025-03-09", prepared.Dates.End().String())
	assert.Equal(t, 5, prepared.Dates.Days())
}

func TestValidator_Prepare_TodayFollowsBusinessTimeZone(t *testing.T) {
	// 17:00 UTC on Oct 9 is already Oct 10 in Manila
	v := newValidator(t, time.Date(2025, time.October, 9, 17, 0, 0, 0, time.UTC))
	m := builder.NewMountainBuilder().MustBuildDomain()

	_, err := v.Prepare(m, request(t, "2025-10-09", "2025-10-10", "joiner", 1))
	var verr *booking.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "start_date", verr.Field)

	_, err = v.Prepare(m, request(t, "2025-10-10", "2025-10-11", "joiner", 1))
	assert.NoError(t, err)
}

func prepare(t *testing.T, v *booking.Validator, m *mountain.Mountain, req booking.Request) *booking.Prepared {
	t.Helper()
	p, err := v.Prepare(m, req)
	require.NoError(t, err)
	return p
}

func TestValidator_Accept_ScenarioA(t *testing.T) {
	v := newValidator(t, october1)
	m := builder.NewMountainBuilder().MustBuildDomain()
	userID := uuid.New()

	b, err := v.Accept(m, userID, prepare(t, v, m, request(t, "2025-10-10", "2025-10-11", "joiner", 3)), nil)

	require.NoError(t, err)
	assert.Equal(t, "3000.00", b.TotalPrice().String())
	assert.Equal(t, "1000.00", b.PricePerHead().String())
	assert.Equal(t, booking.StatusPending, b.Status())
	assert.Equal(t, userID, b.UserID())
	assert.Equal(t, m.ID(), b.MountainID())
	assert.Equal(t, october1, b.CreatedAt())
}

func TestValidator_Accept_ScenarioB(t *testing.T) {
	v := newValidator(t, october1)
	m := builder.NewMountainBuilder().WithTripDuration(3).MustBuildDomain()

	b, err := v.Accept(m, uuid.New(), prepare(t, v, m, request(t, "2025-10-10", "2025-10-13", "exclusive", 0)), nil)

	require.NoError(t, err)
	assert.Equal(t, "2000.00", b.PricePerHead().String())
	assert.Equal(t, "20000.00", b.TotalPrice().String())
	assert.Equal(t, 10, b.Participants())
	assert.Equal(t, booking.TypeExclusive, b.Type())
}

func TestValidator_Accept_ScenarioC(t *testing.T) {
	v := newValidator(t, october1)
	m := builder.NewMountainBuilder().WithTripDuration(2).MustBuildDomain()
	existing := []booking.Occupancy{
		builder.NewBookingBuilder().WithMountainID(m.ID()).WithDates("2025-10-10", "2025-10-12").AsExclusive(10).WithStatus("confirmed").BuildOccupancy(),
	}

	b, err := v.Accept(m, uuid.New(), prepare(t, v, m, request(t, "2025-10-10", "2025-10-12", "joiner", 1)), existing)

	assert.Nil(t, b)
	var conflict *booking.AvailabilityConflictError
	require.ErrorAs(t, err, &conflict)
	assert.ErrorIs(t, err, booking.ErrAvailabilityConflict)
	assert.Equal(t, booking.TypeJoiner, conflict.BookingType)
	assert.Equal(t, []calendar.Date{
		calendar.MustNew(2025, time.October, 10),
		calendar.MustNew(2025, time.October, 11),
		calendar.MustNew(2025, time.October, 12),
	}, conflict.Dates)
}

func TestValidator_Accept_ScenarioD(t *testing.T) {
	v := newValidator(t, october1)
	m := builder.NewMountainBuilder().WithCapacity(14).MustBuildDomain()
	existing := []booking.Occupancy{
		builder.NewBookingBuilder().WithDates("2025-10-05", "2025-10-06").AsJoiner(8).WithStatus("confirmed").BuildOccupancy(),
		builder.NewBookingBuilder().WithDates("2025-10-05", "2025-10-06").AsJoiner(4).WithStatus("pending").BuildOccupancy(),
	}

	t.Run("3 more participants exceed capacity", func(t *testing.T) {
		_, err := v.Accept(m, uuid.New(), prepare(t, v, m, request(t, "2025-10-05", "2025-10-06", "joiner", 3)), existing)
		var conflict *booking.AvailabilityConflictError
		require.ErrorAs(t, err, &conflict)
		assert.Len(t, conflict.Dates, 2)
	})

	t.Run("2 more participants fill capacity", func(t *testing.T) {
		b, err := v.Accept(m, uuid.New(), prepare(t, v, m, request(t, "2025-10-05", "2025-10-06", "joiner", 2)), existing)
		require.NoError(t, err)
		assert.Equal(t, 2, b.Participants())
	})
}

func TestValidator_Accept_ExclusiveBlockedByJoiner(t *testing.T) {
	v := newValidator(t, october1)
	m := builder.NewMountainBuilder().MustBuildDomain()
	existing := []booking.Occupancy{
		builder.NewBookingBuilder().WithDates("2025-10-11", "2025-10-12").AsJoiner(1).BuildOccupancy(),
	}

	_, err := v.Accept(m, uuid.New(), prepare(t, v, m, request(t, "2025-10-10", "2025-10-11", "exclusive", 0)), existing)

	var conflict *booking.AvailabilityConflictError
	require.ErrorAs(t, err, &conflict)
	assert.Equal(t, []calendar.Date{calendar.MustNew(2025, time.October, 11)}, conflict.Dates)
}

func TestValidator_Accept_InactiveBookingsFreeCapacity(t *testing.T) {
	v := newValidator(t, october1)
	m := builder.NewMountainBuilder().MustBuildDomain()
	existing := []booking.Occupancy{
		builder.NewBookingBuilder().WithDates("2025-10-10", "2025-10-11").AsExclusive(10).WithStatus("cancelled").BuildOccupancy(),
		builder.NewBookingBuilder().WithDates("2025-10-10", "2025-10-11").AsJoiner(10).WithStatus("rejected").BuildOccupancy(),
	}

	_, err := v.Accept(m, uuid.New(), prepare(t, v, m, request(t, "2025-10-10", "2025-10-11", "exclusive", 0)), existing)

	assert.NoError(t, err)
}

func TestValidator_Accept_Duplicate(t *testing.T) {
	v := newValidator(t, october1)
	m := builder.NewMountainBuilder().MustBuildDomain()
	userID := uuid.New()
	mine := builder.NewBookingBuilder().WithUserID(userID).WithDates("2025-10-11", "2025-10-12").AsJoiner(2)
	existing := []booking.Occupancy{mine.BuildOccupancy()}

	t.Run("same user overlapping", func(t *testing.T) {
		_, err := v.Accept(m, userID, prepare(t, v, m, request(t, "2025-10-10", "2025-10-11", "joiner", 2)), existing)
		var dup *booking.DuplicateBookingError
		require.ErrorAs(t, err, &dup)
		assert.Equal(t, mine.ID, dup.ExistingBookingID)
		assert.ErrorIs(t, err, booking.ErrDuplicateBooking)
	})

	t.Run("another user on the same dates", func(t *testing.T) {
		_, err := v.Accept(m, uuid.New(), prepare(t, v, m, request(t, "2025-10-10", "2025-10-11", "joiner", 2)), existing)
		assert.NoError(t, err)
	})

	t.Run("availability is reported before duplicates", func(t *testing.T) {
		_, err := v.Accept(m, userID, prepare(t, v, m, request(t, "2025-10-10", "2025-10-11", "joiner", 9)), existing)
		assert.ErrorIs(t, err, booking.ErrAvailabilityConflict)
	})
}

func TestValidator_Quote(t *testing.T) {
	v := newValidator(t, october1)
	m := builder.NewMountainBuilder().WithTripDuration(3).MustBuildDomain()

	assert.Equal(t, "6000.00", v.Quote(m, booking.JoinerCandidate{Participants: 3}).TotalPrice.String())
	assert.Equal(t, "20000.00", v.Quote(m, booking.ExclusiveCandidate{}).TotalPrice.String())
}
