package pgconv

import (
	"database/sql"
	"errors"
	"time"

	"poorito-booking/internal/pkg/calendar"
	"poorito-booking/internal/pkg/money"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

var ErrInvalidDate = errors.New("invalid or infinite date in pgtype.Date")

func UUIDPtrFromPgtype(pu pgtype.UUID) *uuid.UUID {
	if !pu.Valid {
		return nil
	}
	id := uuid.UUID(pu.Bytes)
	return &id
}

func StringPtrFromPgtype(pt pgtype.Text) *string {
	if !pt.Valid {
		return nil
	}
	return &pt.String
}

func TimeFromPgtype(pt pgtype.Timestamptz) time.Time {
	return pt.Time
}

func TimePtrFromPgtype(pt pgtype.Timestamptz) *time.Time {
	if !pt.Valid {
		return nil
	}
	return &pt.Time
}

// DateFromPgtype reads the calendar fields straight from the DATE value,
// which pgx decodes as midnight UTC.
func DateFromPgtype(pd pgtype.Date) (calendar.Date, error) {
	if !pd.Valid || pd.InfinityModifier != pgtype.Finite {
		return calendar.Date{}, ErrInvalidDate
	}
	return calendar.FromTime(pd.Time.UTC()), nil
}

func DateToPgtype(d calendar.Date) pgtype.Date {
	return pgtype.Date{Time: d.Time(), Valid: true}
}

func MoneyPtrFromPgtype(pi pgtype.Int8) *money.Money {
	if !pi.Valid {
		return nil
	}
	m := money.FromCents(pi.Int64)
	return &m
}

func MoneyPtrToPgtype(m *money.Money) pgtype.Int8 {
	if m == nil {
		return pgtype.Int8{Valid: false}
	}
	return pgtype.Int8{Int64: m.Cents(), Valid: true}
}

func UUIDToPgtype(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: id, Valid: true}
}

func UUIDPtrToPgtype(id *uuid.UUID) pgtype.UUID {
	if id == nil {
		return pgtype.UUID{Valid: false}
	}
	return pgtype.UUID{Bytes: *id, Valid: true}
}

func StringToPgtype(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: true}
}

func StringPtrToPgtype(s *string) pgtype.Text {
	if s == nil {
		return pgtype.Text{Valid: false}
	}
	return pgtype.Text{String: *s, Valid: true}
}

func TimeToPgtype(t time.Time) pgtype.Timestamptz {
	return pgtype.Timestamptz{Time: t, Valid: true}
}

// IsNoRows checks if the error is a "no rows" error from either sql or pgx
func IsNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows)
}
