package queries

import (
	"context"
	"fmt"

	"poorito-booking/internal/domain/booking"
	"poorito-booking/internal/infra"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/pkg/calendar"
	"poorito-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type DayAvailabilityView struct {
	Date              calendar.Date `json:"date"`
	JoinerBooked      int           `json:"joiner_booked"`
	JoinerAvailable   int           `json:"joiner_available"`
	IsExclusiveBooked bool          `json:"is_exclusive_booked"`
}

type AvailabilityView struct {
	MountainID     uuid.UUID             `json:"mountain_id"`
	StartDate      calendar.Date         `json:"start_date"`
	EndDate        calendar.Date         `json:"end_date"`
	JoinerCapacity int                   `json:"joiner_capacity"`
	Days           []DayAvailabilityView `json:"days"`
}

// AvailabilityReadStore always reads the database; availability is never cached.
type AvailabilityReadStore interface {
	MountainCapacity(ctx context.Context, db query.DBTX, mountainID uuid.UUID) (int, error)
	ActiveOccupancies(ctx context.Context, db query.DBTX, mountainID uuid.UUID, window calendar.Range) ([]booking.Occupancy, error)
}

type AvailabilityQueries interface {
	GetAvailability(ctx context.Context, mountainID uuid.UUID, start, end calendar.Date) (*AvailabilityView, error)
}

type availabilityQueriesImpl struct {
	uow     shared.UnitOfWork
	store   AvailabilityReadStore
	maxDays int
}

func NewAvailabilityQueries(uow shared.UnitOfWork, store AvailabilityReadStore, maxDays int) AvailabilityQueries {
	return &availabilityQueriesImpl{
		uow:     uow,
		store:   store,
		maxDays: maxDays,
	}
}

func (q *availabilityQueriesImpl) GetAvailability(ctx context.Context, mountainID uuid.UUID, start, end calendar.Date) (*AvailabilityView, error) {
	window, err := calendar.NewRange(start, end)
	if err != nil {
		return nil, &booking.ValidationError{Field: "end", Reason: "must not be before start"}
	}
	if q.maxDays > 0 && window.Days() > q.maxDays {
		return nil, &booking.ValidationError{Field: "end", Reason: fmt.Sprintf("range must not exceed %d days", q.maxDays)}
	}

	var (
		capacity    int
		occupancies []booking.Occupancy
	)
	// capacity and bookings must come from the same snapshot
	err = q.uow.WithinReadOnly(ctx, func(ctx context.Context, db query.DBTX) error {
		var err error
		capacity, err = q.store.MountainCapacity(ctx, db, mountainID)
		if err != nil {
			return err
		}
		occupancies, err = q.store.ActiveOccupancies(ctx, db, mountainID, window)
		return err
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrMountainNotFound
		}
		return nil, err
	}

	resolved := booking.ResolveAvailability(capacity, window, occupancies)
	days := resolved.Days()
	view := &AvailabilityView{
		MountainID:     mountainID,
		StartDate:      window.Start(),
		EndDate:        window.End(),
		JoinerCapacity: capacity,
		Days:           make([]DayAvailabilityView, len(days)),
	}
	for i, d := range days {
		view.Days[i] = DayAvailabilityView{
			Date:              d.Date,
			JoinerBooked:      d.JoinerBooked,
			JoinerAvailable:   d.JoinerAvailable,
			IsExclusiveBooked: d.IsExclusiveBooked,
		}
	}
	return view, nil
}
