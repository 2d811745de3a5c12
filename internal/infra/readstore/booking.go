package readstore

import (
	"context"
	"time"

	"poorito-booking/internal/infra"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/pkg/money"
	"poorito-booking/internal/pkg/pgconv"
	"poorito-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingReadQueries interface {
	GetBookingDetail(ctx context.Context, db query.DBTX, id uuid.UUID) (query.GetBookingDetailRow, error)
	ListBookingsByUserFirstPage(ctx context.Context, db query.DBTX, arg query.ListBookingsByUserFirstPageParams) ([]query.BookingListRow, error)
	ListBookingsByUserKeyset(ctx context.Context, db query.DBTX, arg query.ListBookingsByUserKeysetParams) ([]query.BookingListRow, error)
}

type BookingReadStore struct {
	queries BookingReadQueries
}

func NewBookingReadStore(queries BookingReadQueries) *BookingReadStore {
	return &BookingReadStore{
		queries: queries,
	}
}

func (r *BookingReadStore) FindByID(ctx context.Context, db query.DBTX, id uuid.UUID) (*queries.BookingView, error) {
	row, err := r.queries.GetBookingDetail(ctx, db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("booking not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find booking by ID", err)
	}
	return toBookingView(row)
}

func (r *BookingReadStore) FindByUserFirstPage(ctx context.Context, db query.DBTX, userID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	rows, err := r.queries.ListBookingsByUserFirstPage(ctx, db, query.ListBookingsByUserFirstPageParams{
		UserID: userID,
		Limit:  limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by user", err)
	}
	return toBookingListItems(rows)
}

func (r *BookingReadStore) FindByUserKeyset(ctx context.Context, db query.DBTX, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*queries.BookingListItem, error) {
	rows, err := r.queries.ListBookingsByUserKeyset(ctx, db, query.ListBookingsByUserKeysetParams{
		UserID:    userID,
		CreatedAt: pgconv.TimeToPgtype(lastCreatedAt),
		ID:        lastID,
		Limit:     limit,
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list bookings by user with keyset", err)
	}
	return toBookingListItems(rows)
}

func toBookingView(row query.GetBookingDetailRow) (*queries.BookingView, error) {
	start, err := pgconv.DateFromPgtype(row.StartDate)
	if err != nil {
		return nil, infra.WrapRepoErr("booking row has no start date", err, infra.KindCorruptRow)
	}
	end, err := pgconv.DateFromPgtype(row.EndDate)
	if err != nil {
		return nil, infra.WrapRepoErr("booking row has no end date", err, infra.KindCorruptRow)
	}

	return &queries.BookingView{
		ID:                   row.ID,
		MountainID:           row.MountainID,
		MountainName:         row.MountainName,
		MountainLocation:     row.MountainLocation,
		TripDuration:         int(row.TripDuration),
		UserID:               row.UserID,
		UserEmail:            row.UserEmail,
		UserDisplayName:      row.UserDisplayName,
		StartDate:            start,
		EndDate:              end,
		BookingType:          row.BookingType,
		NumberOfParticipants: int(row.NumberOfParticipants),
		Status:               row.Status,
		PricePerHead:         money.FromCents(row.PricePerHeadCents),
		TotalPrice:           money.FromCents(row.TotalPriceCents),
		CreatedAt:            pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:            pgconv.TimeFromPgtype(row.UpdatedAt),
	}, nil
}

func toBookingListItems(rows []query.BookingListRow) ([]*queries.BookingListItem, error) {
	items := make([]*queries.BookingListItem, 0, len(rows))
	for _, row := range rows {
		start, err := pgconv.DateFromPgtype(row.StartDate)
		if err != nil {
			return nil, infra.WrapRepoErr("booking row has no start date", err, infra.KindCorruptRow)
		}
		end, err := pgconv.DateFromPgtype(row.EndDate)
		if err != nil {
			return nil, infra.WrapRepoErr("booking row has no end date", err, infra.KindCorruptRow)
		}
		items = append(items, &queries.BookingListItem{
			ID:                   row.ID,
			MountainID:           row.MountainID,
			MountainName:         row.MountainName,
			StartDate:            start,
			EndDate:              end,
			BookingType:          row.BookingType,
			NumberOfParticipants: int(row.NumberOfParticipants),
			Status:               row.Status,
			TotalPrice:           money.FromCents(row.TotalPriceCents),
			CreatedAt:            pgconv.TimeFromPgtype(row.CreatedAt),
		})
	}
	return items, nil
}
