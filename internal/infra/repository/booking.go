package repository

import (
	"context"

	"poorito-booking/internal/domain/booking"
	"poorito-booking/internal/infra"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/infra/repository/converter"
	"poorito-booking/internal/pkg/pgconv"

	"github.com/google/uuid"
)

type BookingWriteQueries interface {
	CreateBooking(ctx context.Context, db query.DBTX, arg query.CreateBookingParams) (uuid.UUID, error)
	UpdateBookingStatus(ctx context.Context, db query.DBTX, arg query.UpdateBookingStatusParams) (int64, error)
}

type BookingRepository struct {
	queries BookingWriteQueries
}

func NewBookingRepository(queries BookingWriteQueries) *BookingRepository {
	return &BookingRepository{
		queries: queries,
	}
}

func (r *BookingRepository) Create(ctx context.Context, tx query.DBTX, b *booking.Booking) (uuid.UUID, error) {
	params := converter.BookingToCreateParams(b)

	id, err := r.queries.CreateBooking(ctx, tx, params)
	if err != nil {
		return uuid.Nil, infra.WrapRepoErr("failed to create booking", err)
	}

	return id, nil
}

func (r *BookingRepository) UpdateStatus(ctx context.Context, tx query.DBTX, b *booking.Booking) error {
	params := query.UpdateBookingStatusParams{
		ID:        b.ID(),
		Status:    b.Status().String(),
		UpdatedAt: pgconv.TimeToPgtype(b.UpdatedAt()),
	}

	n, err := r.queries.UpdateBookingStatus(ctx, tx, params)
	if err != nil {
		return infra.WrapRepoErr("failed to update booking status", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("booking not found", nil, infra.KindNotFound)
	}

	return nil
}
