package converter

import (
	"poorito-booking/internal/domain/booking"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/pkg/money"
	"poorito-booking/internal/pkg/pgconv"
)

func BookingToCreateParams(b *booking.Booking) query.CreateBookingParams {
	return query.CreateBookingParams{
		ID:                   b.ID(),
		MountainID:           b.MountainID(),
		UserID:               b.UserID(),
		StartDate:            pgconv.DateToPgtype(b.StartDate()),
		EndDate:              pgconv.DateToPgtype(b.EndDate()),
		BookingType:          b.Type().String(),
		NumberOfParticipants: int32(b.Participants()), // #nosec G115 -- bounded by capacity checks
		Status:               b.Status().String(),
		PricePerHeadCents:    b.PricePerHead().Cents(),
		TotalPriceCents:      b.TotalPrice().Cents(),
		CreatedAt:            pgconv.TimeToPgtype(b.CreatedAt()),
		UpdatedAt:            pgconv.TimeToPgtype(b.UpdatedAt()),
	}
}

func BookingToDomain(row query.Bookings) (*booking.Booking, error) {
	start, err := pgconv.DateFromPgtype(row.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := pgconv.DateFromPgtype(row.EndDate)
	if err != nil {
		return nil, err
	}
	return booking.Reconstruct(booking.Attributes{
		ID:           row.ID,
		MountainID:   row.MountainID,
		UserID:       row.UserID,
		StartDate:    start,
		EndDate:      end,
		Type:         booking.Type(row.BookingType),
		Participants: int(row.NumberOfParticipants),
		Status:       booking.Status(row.Status),
		PricePerHead: money.FromCents(row.PricePerHeadCents),
		TotalPrice:   money.FromCents(row.TotalPriceCents),
		CreatedAt:    pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:    pgconv.TimeFromPgtype(row.UpdatedAt),
	})
}

func BookingToOccupancy(row query.Bookings) (booking.Occupancy, error) {
	b, err := BookingToDomain(row)
	if err != nil {
		return booking.Occupancy{}, err
	}
	return b.Occupancy(), nil
}
