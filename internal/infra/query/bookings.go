package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const bookingColumns = `id, mountain_id, user_id, start_date, end_date, booking_type,
       number_of_participants, status, price_per_head_cents, total_price_cents,
       created_at, updated_at`

func scanBooking(row pgx.Row) (Bookings, error) {
	var b Bookings
	err := row.Scan(
		&b.ID,
		&b.MountainID,
		&b.UserID,
		&b.StartDate,
		&b.EndDate,
		&b.BookingType,
		&b.NumberOfParticipants,
		&b.Status,
		&b.PricePerHeadCents,
		&b.TotalPriceCents,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	return b, err
}

func collectBookings(rows pgx.Rows) ([]Bookings, error) {
	defer rows.Close()
	var items []Bookings
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const createBooking = `-- name: CreateBooking :one
INSERT INTO bookings (
    id, mountain_id, user_id, start_date, end_date, booking_type,
    number_of_participants, status, price_per_head_cents, total_price_cents,
    created_at, updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
RETURNING id`

type CreateBookingParams struct {
	ID                   uuid.UUID
	MountainID           uuid.UUID
	UserID               uuid.UUID
	StartDate            pgtype.Date
	EndDate              pgtype.Date
	BookingType          string
	NumberOfParticipants int32
	Status               string
	PricePerHeadCents    int64
	TotalPriceCents      int64
	CreatedAt            pgtype.Timestamptz
	UpdatedAt            pgtype.Timestamptz
}

func (q *Queries) CreateBooking(ctx context.Context, db DBTX, arg CreateBookingParams) (uuid.UUID, error) {
	row := db.QueryRow(ctx, createBooking,
		arg.ID,
		arg.MountainID,
		arg.UserID,
		arg.StartDate,
		arg.EndDate,
		arg.BookingType,
		arg.NumberOfParticipants,
		arg.Status,
		arg.PricePerHeadCents,
		arg.TotalPriceCents,
		arg.CreatedAt,
		arg.UpdatedAt,
	)
	var id uuid.UUID
	err := row.Scan(&id)
	return id, err
}

const updateBookingStatus = `-- name: UpdateBookingStatus :execrows
UPDATE bookings
SET status = $2, updated_at = $3
WHERE id = $1`

type UpdateBookingStatusParams struct {
	ID        uuid.UUID
	Status    string
	UpdatedAt pgtype.Timestamptz
}

func (q *Queries) UpdateBookingStatus(ctx context.Context, db DBTX, arg UpdateBookingStatusParams) (int64, error) {
	result, err := db.Exec(ctx, updateBookingStatus, arg.ID, arg.Status, arg.UpdatedAt)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}

const getBookingByIDForUpdate = `-- name: GetBookingByIDForUpdate :one
SELECT ` + bookingColumns + `
FROM bookings
WHERE id = $1
FOR UPDATE`

func (q *Queries) GetBookingByIDForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (Bookings, error) {
	return scanBooking(db.QueryRow(ctx, getBookingByIDForUpdate, id))
}

// Both ranges are inclusive on both ends.
const listActiveBookingsInRange = `-- name: ListActiveBookingsInRange :many
SELECT ` + bookingColumns + `
FROM bookings
WHERE mountain_id = $1
  AND status IN ('pending', 'confirmed')
  AND start_date <= $3
  AND end_date >= $2
ORDER BY start_date ASC, created_at ASC`

type ListActiveBookingsInRangeParams struct {
	MountainID uuid.UUID
	StartDate  pgtype.Date
	EndDate    pgtype.Date
}

func (q *Queries) ListActiveBookingsInRange(ctx context.Context, db DBTX, arg ListActiveBookingsInRangeParams) ([]Bookings, error) {
	rows, err := db.Query(ctx, listActiveBookingsInRange, arg.MountainID, arg.StartDate, arg.EndDate)
	if err != nil {
		return nil, err
	}
	return collectBookings(rows)
}

const getBookingDetail = `-- name: GetBookingDetail :one
SELECT b.id, b.mountain_id, m.name, m.location, m.trip_duration,
       b.user_id, u.email, u.display_name,
       b.start_date, b.end_date, b.booking_type, b.number_of_participants,
       b.status, b.price_per_head_cents, b.total_price_cents,
       b.created_at, b.updated_at
FROM bookings b
JOIN mountains m ON m.id = b.mountain_id
JOIN users u ON u.id = b.user_id
WHERE b.id = $1`

type GetBookingDetailRow struct {
	ID                   uuid.UUID
	MountainID           uuid.UUID
	MountainName         string
	MountainLocation     string
	TripDuration         int32
	UserID               uuid.UUID
	UserEmail            string
	UserDisplayName      string
	StartDate            pgtype.Date
	EndDate              pgtype.Date
	BookingType          string
	NumberOfParticipants int32
	Status               string
	PricePerHeadCents    int64
	TotalPriceCents      int64
	CreatedAt            pgtype.Timestamptz
	UpdatedAt            pgtype.Timestamptz
}

func (q *Queries) GetBookingDetail(ctx context.Context, db DBTX, id uuid.UUID) (GetBookingDetailRow, error) {
	var r GetBookingDetailRow
	err := db.QueryRow(ctx, getBookingDetail, id).Scan(
		&r.ID,
		&r.MountainID,
		&r.MountainName,
		&r.MountainLocation,
		&r.TripDuration,
		&r.UserID,
		&r.UserEmail,
		&r.UserDisplayName,
		&r.StartDate,
		&r.EndDate,
		&r.BookingType,
		&r.NumberOfParticipants,
		&r.Status,
		&r.PricePerHeadCents,
		&r.TotalPriceCents,
		&r.CreatedAt,
		&r.UpdatedAt,
	)
	return r, err
}

const bookingListColumns = `b.id, b.mountain_id, m.name, b.start_date, b.end_date, b.booking_type,
       b.number_of_participants, b.status, b.total_price_cents, b.created_at`

type BookingListRow struct {
	ID                   uuid.UUID
	MountainID           uuid.UUID
	MountainName         string
	StartDate            pgtype.Date
	EndDate              pgtype.Date
	BookingType          string
	NumberOfParticipants int32
	Status               string
	TotalPriceCents      int64
	CreatedAt            pgtype.Timestamptz
}

func collectBookingListRows(rows pgx.Rows) ([]BookingListRow, error) {
	defer rows.Close()
	var items []BookingListRow
	for rows.Next() {
		var r BookingListRow
		if err := rows.Scan(
			&r.ID,
			&r.MountainID,
			&r.MountainName,
			&r.StartDate,
			&r.EndDate,
			&r.BookingType,
			&r.NumberOfParticipants,
			&r.Status,
			&r.TotalPriceCents,
			&r.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const listBookingsByUserFirstPage = `-- name: ListBookingsByUserFirstPage :many
SELECT ` + bookingListColumns + `
FROM bookings b
JOIN mountains m ON m.id = b.mountain_id
WHERE b.user_id = $1
ORDER BY b.created_at DESC, b.id DESC
LIMIT $2`

type ListBookingsByUserFirstPageParams struct {
	UserID uuid.UUID
	Limit  int32
}

func (q *Queries) ListBookingsByUserFirstPage(ctx context.Context, db DBTX, arg ListBookingsByUserFirstPageParams) ([]BookingListRow, error) {
	rows, err := db.Query(ctx, listBookingsByUserFirstPage, arg.UserID, arg.Limit)
	if err != nil {
		return nil, err
	}
	return collectBookingListRows(rows)
}

const listBookingsByUserKeyset = `-- name: ListBookingsByUserKeyset :many
SELECT ` + bookingListColumns + `
FROM bookings b
JOIN mountains m ON m.id = b.mountain_id
WHERE b.user_id = $1
  AND (b.created_at, b.id) < ($2, $3)
ORDER BY b.created_at DESC, b.id DESC
LIMIT $4`

type ListBookingsByUserKeysetParams struct {
	UserID    uuid.UUID
	CreatedAt pgtype.Timestamptz
	ID        uuid.UUID
	Limit     int32
}

func (q *Queries) ListBookingsByUserKeyset(ctx context.Context, db DBTX, arg ListBookingsByUserKeysetParams) ([]BookingListRow, error) {
	rows, err := db.Query(ctx, listBookingsByUserKeyset, arg.UserID, arg.CreatedAt, arg.ID, arg.Limit)
	if err != nil {
		return nil, err
	}
	return collectBookingListRows(rows)
}
