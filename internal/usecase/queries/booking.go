package queries

import (
	"context"
	"strings"
	"time"

	"poorito-booking/internal/infra"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/pkg/calendar"
	"poorito-booking/internal/pkg/clock"
	"poorito-booking/internal/pkg/errs"
	"poorito-booking/internal/pkg/money"
	"poorito-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

// Read models (DTO for read side)
type BookingView struct {
	ID                   uuid.UUID     `json:"id"`
	MountainID           uuid.UUID     `json:"mountain_id"`
	MountainName         string        `json:"mountain_name"`
	MountainLocation     string        `json:"mountain_location"`
	TripDuration         int           `json:"trip_duration"`
	UserID               uuid.UUID     `json:"user_id"`
	UserEmail            string        `json:"user_email"`
	UserDisplayName      string        `json:"user_display_name"`
	StartDate            calendar.Date `json:"start_date"`
	EndDate              calendar.Date `json:"end_date"`
	BookingType          string        `json:"booking_type"`
	NumberOfParticipants int           `json:"number_of_participants"`
	Status               string        `json:"status"`
	PricePerHead         money.Money   `json:"price_per_head"`
	TotalPrice           money.Money   `json:"total_price"`
	CreatedAt            time.Time     `json:"created_at"`
	UpdatedAt            time.Time     `json:"updated_at"`
}

type BookingListItem struct {
	ID                   uuid.UUID     `json:"id"`
	MountainID           uuid.UUID     `json:"mountain_id"`
	MountainName         string        `json:"mountain_name"`
	StartDate            calendar.Date `json:"start_date"`
	EndDate              calendar.Date `json:"end_date"`
	BookingType          string        `json:"booking_type"`
	NumberOfParticipants int           `json:"number_of_participants"`
	Status               string        `json:"status"`
	TotalPrice           money.Money   `json:"total_price"`
	CreatedAt            time.Time     `json:"created_at"`
}

type ReceiptView struct {
	ReceiptNumber string       `json:"receipt_number"`
	IssuedAt      time.Time    `json:"issued_at"`
	Booking       *BookingView `json:"booking"`
}

type BookingReadStore interface {
	FindByID(ctx context.Context, db query.DBTX, id uuid.UUID) (*BookingView, error)
	FindByUserFirstPage(ctx context.Context, db query.DBTX, userID uuid.UUID, limit int32) ([]*BookingListItem, error)
	FindByUserKeyset(ctx context.Context, db query.DBTX, userID uuid.UUID, lastCreatedAt time.Time, lastID uuid.UUID, limit int32) ([]*BookingListItem, error)
}

type ReceiptRenderer interface {
	Render(r *ReceiptView) ([]byte, error)
}

type BookingQueries interface {
	GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*BookingView, error)
	// GetByIDSystem skips the access check; used for read-after-write and idempotent replays.
	GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error)
	ListByUser(ctx context.Context, actor shared.Actor, cursor *Cursor, limit int) ([]*BookingListItem, *Cursor, error)
	Receipt(ctx context.Context, actor shared.Actor, id uuid.UUID) (*ReceiptView, error)
	ReceiptPDF(ctx context.Context, actor shared.Actor, id uuid.UUID) ([]byte, *ReceiptView, error)
}

type bookingQueriesImpl struct {
	uow      shared.UnitOfWork
	store    BookingReadStore
	renderer ReceiptRenderer
	clock    clock.Clock
}

func NewBookingQueries(uow shared.UnitOfWork, store BookingReadStore, renderer ReceiptRenderer, clk clock.Clock) BookingQueries {
	return &bookingQueriesImpl{
		uow:      uow,
		store:    store,
		renderer: renderer,
		clock:    clk,
	}
}

func (q *bookingQueriesImpl) GetByID(ctx context.Context, actor shared.Actor, id uuid.UUID) (*BookingView, error) {
	view, err := q.GetByIDSystem(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanAccess(view.UserID) {
		return nil, ErrBookingAccess
	}
	return view, nil
}

func (q *bookingQueriesImpl) GetByIDSystem(ctx context.Context, id uuid.UUID) (*BookingView, error) {
	var view *BookingView
	err := q.uow.WithDB(ctx, func(ctx context.Context, db query.DBTX) error {
		var err error
		view, err = q.store.FindByID(ctx, db, id)
		return err
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *bookingQueriesImpl) ListByUser(ctx context.Context, actor shared.Actor, cursor *Cursor, limit int) ([]*BookingListItem, *Cursor, error) {
	limit = ValidateLimit(limit)

	var rows []*BookingListItem
	err := q.uow.WithDB(ctx, func(ctx context.Context, db query.DBTX) error {
		var err error
		if cursor == nil || cursor.After == "" {
			rows, err = q.store.FindByUserFirstPage(ctx, db, actor.UserID, int32(limit+1)) // #nosec G115 -- limit is capped by ValidateLimit
			return err
		}
		lastCreatedAt, lastID, derr := DecodeAfterCursor(cursor.After)
		if derr != nil {
			return ErrInvalidCursor
		}
		rows, err = q.store.FindByUserKeyset(ctx, db, actor.UserID, lastCreatedAt, lastID, int32(limit+1)) // #nosec G115 -- limit is capped by ValidateLimit
		return err
	})
	if err != nil {
		return nil, nil, err
	}

	var next *Cursor
	if len(rows) > limit {
		last := rows[limit-1]
		next = &Cursor{After: EncodeAfterCursor(last.CreatedAt, last.ID)}
		rows = rows[:limit]
	}
	return rows, next, nil
}

func (q *bookingQueriesImpl) Receipt(ctx context.Context, actor shared.Actor, id uuid.UUID) (*ReceiptView, error) {
	view, err := q.GetByID(ctx, actor, id)
	if err != nil {
		return nil, err
	}
	return &ReceiptView{
		ReceiptNumber: ReceiptNumber(view.ID),
		IssuedAt:      q.clock.Now(),
		Booking:       view,
	}, nil
}

func (q *bookingQueriesImpl) ReceiptPDF(ctx context.Context, actor shared.Actor, id uuid.UUID) ([]byte, *ReceiptView, error) {
	receipt, err := q.Receipt(ctx, actor, id)
	if err != nil {
		return nil, nil, err
	}
	pdf, err := q.renderer.Render(receipt)
	if err != nil {
		return nil, nil, errs.Wrap(err, "failed to render receipt")
	}
	return pdf, receipt, nil
}

// ReceiptNumber is stable per booking: PB- followed by the first eight hex digits of the id.
func ReceiptNumber(id uuid.UUID) string {
	return "PB-" + strings.ToUpper(strings.ReplaceAll(id.String(), "-", "")[:8])
}
