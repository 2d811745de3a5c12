package readstore

import (
	"context"

	"poorito-booking/internal/domain/booking"
	"poorito-booking/internal/infra"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/infra/repository/converter"
	"poorito-booking/internal/pkg/calendar"
	"poorito-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type AvailabilityReadQueries interface {
	GetMountainByID(ctx context.Context, db query.DBTX, id uuid.UUID) (query.Mountains, error)
	ListActiveBookingsInRange(ctx context.Context, db query.DBTX, arg query.ListActiveBookingsInRangeParams) ([]query.Bookings, error)
}

// AvailabilityReadStore serves the availability endpoint straight from the
// database; availability is never cached.
type AvailabilityReadStore struct {
	queries AvailabilityReadQueries
}

func NewAvailabilityReadStore(queries AvailabilityReadQueries) *AvailabilityReadStore {
	return &AvailabilityReadStore{
		queries: queries,
	}
}

func (r *AvailabilityReadStore) MountainCapacity(ctx context.Context, db query.DBTX, mountainID uuid.UUID) (int, error) {
	row, err := r.queries.GetMountainByID(ctx, db, mountainID)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return 0, infra.WrapRepoErr("mountain not found", err, infra.KindNotFound)
		}
		return 0, infra.WrapRepoErr("failed to load mountain capacity", err)
	}
	return int(row.JoinerCapacity), nil
}

func (r *AvailabilityReadStore) ActiveOccupancies(ctx context.Context, db query.DBTX, mountainID uuid.UUID, window calendar.Range) ([]booking.Occupancy, error) {
	rows, err := r.queries.ListActiveBookingsInRange(ctx, db, query.ListActiveBookingsInRangeParams{
		MountainID: mountainID,
		StartDate:  pgconv.DateToPgtype(window.Start()),
		EndDate:    pgconv.DateToPgtype(window.End()),
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list active bookings", err)
	}

	occupancies := make([]booking.Occupancy, 0, len(rows))
	for _, row := range rows {
		o, err := converter.BookingToOccupancy(row)
		if err != nil {
			return nil, infra.WrapRepoErr("booking row is invalid", err, infra.KindCorruptRow)
		}
		occupancies = append(occupancies, o)
	}
	return occupancies, nil
}
