package commands

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"poorito-booking/internal/domain/booking"
	"poorito-booking/internal/domain/mountain"
	reqdto "poorito-booking/internal/handler/dto/request"
	"poorito-booking/internal/infra"
	"poorito-booking/internal/pkg/clock"
	"poorito-booking/internal/pkg/errs"
	"poorito-booking/internal/usecase/queries"
	"poorito-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type CreateBookingResult struct {
	Booking    *queries.BookingView
	IsReplayed bool
}

type BookingCommands interface {
	Create(ctx context.Context, actor shared.Actor, req reqdto.CreateBookingRequest, idempotencyKey *uuid.UUID) (*CreateBookingResult, error)
	UpdateStatus(ctx context.Context, actor shared.Actor, id uuid.UUID, status string) (*queries.BookingView, error)
	Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*queries.BookingView, error)
}

type bookingUseCaseImpl struct {
	uow            shared.UnitOfWork
	validator      *booking.Validator
	bookingQueries queries.BookingQueries
	clock          clock.Clock
	idempotencyTTL time.Duration
}

func NewBookingUseCase(
	uow shared.UnitOfWork,
	validator *booking.Validator,
	bookingQueries queries.BookingQueries,
	clk clock.Clock,
	idempotencyTTL time.Duration,
) BookingCommands {
	return &bookingUseCaseImpl{
		uow:            uow,
		validator:      validator,
		bookingQueries: bookingQueries,
		clock:          clk,
		idempotencyTTL: idempotencyTTL,
	}
}

func (uc *bookingUseCaseImpl) Create(
	ctx context.Context,
	actor shared.Actor,
	req reqdto.CreateBookingRequest,
	idempotencyKey *uuid.UUID,
) (*CreateBookingResult, error) {
	domainReq, err := req.ToDomain()
	if err != nil {
		return nil, err
	}

	// Input checks run before the key is claimed so a rejected request
	// never occupies it.
	m, err := loadMountain(ctx, uc.uow.CommandReads().MountainByID, req.MountainID)
	if err != nil {
		return nil, err
	}
	if _, err := uc.validator.Prepare(m, domainReq); err != nil {
		return nil, err
	}

	requestHash := calculateRequestHash(req)
	if idempotencyKey != nil {
		replayed, err := uc.claimIdempotencyKey(ctx, *idempotencyKey, actor.UserID, requestHash)
		if err != nil {
			return nil, err
		}
		if replayed != nil {
			return &CreateBookingResult{Booking: replayed, IsReplayed: true}, nil
		}
	}

	bookingID, err := uc.createInTx(ctx, actor.UserID, req.MountainID, domainReq, idempotencyKey)
	if err != nil {
		if idempotencyKey != nil {
			uc.releaseIdempotencyKey(ctx, *idempotencyKey, actor.UserID)
		}
		return nil, err
	}

	// Read-after-write: return the joined view
	view, err := uc.bookingQueries.GetByIDSystem(ctx, bookingID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return &CreateBookingResult{Booking: view}, nil
}

func (uc *bookingUseCaseImpl) createInTx(
	ctx context.Context,
	userID, mountainID uuid.UUID,
	req booking.Request,
	idempotencyKey *uuid.UUID,
) (uuid.UUID, error) {
	var createdID uuid.UUID
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		// The row lock serialises concurrent creates for this mountain until commit.
		m, err := loadMountain(ctx, tx.Reads().MountainForUpdate, mountainID)
		if err != nil {
			return err
		}
		prepared, err := uc.validator.Prepare(m, req)
		if err != nil {
			return err
		}
		existing, err := tx.Reads().ActiveOccupancies(ctx, m.ID(), prepared.Dates)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		b, err := uc.validator.Accept(m, userID, prepared, existing)
		if err != nil {
			return err
		}

		id, err := tx.Bookings().Create(ctx, tx.DB(), b)
		if err != nil {
			if infra.IsKind(err, infra.KindExclusionViolated) {
				return exclusionError(err, prepared)
			}
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		if err := uc.enqueueNotification(ctx, tx, "booking_created", id, b); err != nil {
			return err
		}

		if idempotencyKey != nil {
			err = tx.Idempotency().Complete(ctx, tx.DB(), *idempotencyKey, userID, calculateIDHash(id), id, uc.clock.Now())
			if err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
		}

		createdID = id
		return nil
	})
	return createdID, err
}

// exclusionError maps a constraint violation raised by a booking that slipped
// past the in-transaction checks to the domain error it stands for.
func exclusionError(err error, prepared *booking.Prepared) error {
	switch infra.ViolatedConstraint(err) {
	case infra.ConstraintNoExclusiveOverlap:
		return &booking.AvailabilityConflictError{
			BookingType: booking.TypeExclusive,
			Dates:       prepared.Dates.Dates(),
			Reason:      "mountain already has an exclusive booking",
		}
	case infra.ConstraintNoUserOverlap:
		return &booking.DuplicateBookingError{}
	default:
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
}

// claimIdempotencyKey returns a non-nil view when the key already produced a booking.
func (uc *bookingUseCaseImpl) claimIdempotencyKey(
	ctx context.Context,
	key, userID uuid.UUID,
	requestHash string,
) (*queries.BookingView, error) {
	now := uc.clock.Now()

	var claimed bool
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		claimed, err = tx.Idempotency().Claim(ctx, tx.DB(), key, userID, createBookingEndpoint, requestHash, now, now.Add(uc.idempotencyTTL))
		return err
	})
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	if claimed {
		return nil, nil
	}

	existing, err := uc.uow.CommandReads().IdempotencyByKey(ctx, key, userID)
	if err != nil {
		return nil, errs.Mark(err, errs.ErrIdempotencyCheckFailed)
	}
	if existing.RequestHash != requestHash {
		return nil, errs.ErrIdempotencyKeyMismatch
	}

	switch existing.Status {
	case shared.IdempotencyStatusCompleted:
		if existing.ResultBookingID == nil {
			return nil, errs.Mark(ErrMissingResult, errs.ErrIdempotencyCheckFailed)
		}
		return uc.bookingQueries.GetByIDSystem(ctx, *existing.ResultBookingID)
	case shared.IdempotencyStatusProcessing:
		return nil, errs.ErrIdempotencyInProgress
	default:
		return nil, errs.Mark(errs.New("invalid idempotency key status"), errs.ErrIdempotencyCheckFailed)
	}
}

func (uc *bookingUseCaseImpl) releaseIdempotencyKey(ctx context.Context, key, userID uuid.UUID) {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		return tx.Idempotency().Release(ctx, tx.DB(), key, userID)
	})
	if err != nil {
		slog.Warn("failed to release idempotency key", "key", key, "user_id", userID, "error", err.Error())
	}
}

var adminSettable = map[booking.Status]bool{
	booking.StatusConfirmed: true,
	booking.StatusRejected:  true,
	booking.StatusCompleted: true,
}

func (uc *bookingUseCaseImpl) UpdateStatus(ctx context.Context, actor shared.Actor, id uuid.UUID, status string) (*queries.BookingView, error) {
	if !actor.IsAdmin() {
		return nil, errs.ErrForbidden
	}
	target, err := booking.NewStatus(status)
	if err != nil {
		return nil, &booking.ValidationError{Field: "status", Reason: "unknown status"}
	}
	if !adminSettable[target] {
		return nil, ErrStatusNotSettable
	}

	err = uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := loadBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := b.TransitionTo(target, uc.clock.Now()); err != nil {
			return err
		}
		if err := tx.Bookings().UpdateStatus(ctx, tx.DB(), b); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return uc.enqueueNotification(ctx, tx, "booking_"+target.String(), b.ID(), b)
	})
	if err != nil {
		return nil, err
	}

	return uc.bookingQueries.GetByIDSystem(ctx, id)
}

func (uc *bookingUseCaseImpl) Cancel(ctx context.Context, actor shared.Actor, id uuid.UUID) (*queries.BookingView, error) {
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		b, err := loadBooking(ctx, tx, id)
		if err != nil {
			return err
		}
		if err := b.Cancel(actor.UserID, uc.clock.Now()); err != nil {
			return err
		}
		if err := tx.Bookings().UpdateStatus(ctx, tx.DB(), b); err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return uc.enqueueNotification(ctx, tx, "booking_cancelled", b.ID(), b)
	})
	if err != nil {
		return nil, err
	}

	return uc.bookingQueries.GetByIDSystem(ctx, id)
}

func loadMountain(
	ctx context.Context,
	load func(ctx context.Context, id uuid.UUID) (*mountain.Mountain, error),
	id uuid.UUID,
) (*mountain.Mountain, error) {
	m, err := load(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrMountainNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return m, nil
}

func loadBooking(ctx context.Context, tx shared.Tx, id uuid.UUID) (*booking.Booking, error) {
	b, err := tx.Reads().BookingForUpdate(ctx, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrBookingNotFound
		}
		return nil, errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return b, nil
}

type bookingNotification struct {
	Type        string    `json:"type"`
	BookingID   uuid.UUID `json:"booking_id"`
	MountainID  uuid.UUID `json:"mountain_id"`
	UserID      uuid.UUID `json:"user_id"`
	Status      string    `json:"status"`
	StartDate   string    `json:"start_date"`
	EndDate     string    `json:"end_date"`
	BookingType string    `json:"booking_type"`
}

func (uc *bookingUseCaseImpl) enqueueNotification(ctx context.Context, tx shared.Tx, topic string, id uuid.UUID, b *booking.Booking) error {
	payload, err := json.Marshal(bookingNotification{
		Type:        topic,
		BookingID:   id,
		MountainID:  b.MountainID(),
		UserID:      b.UserID(),
		Status:      b.Status().String(),
		StartDate:   b.StartDate().String(),
		EndDate:     b.EndDate().String(),
		BookingType: b.Type().String(),
	})
	if err != nil {
		return errs.Wrap(err, "failed to encode notification payload")
	}
	if err := tx.Notifications().CreateJob(ctx, tx.DB(), notificationKindEmail, topic, payload, uc.clock.Now()); err != nil {
		return errs.Mark(err, errs.ErrDatabaseOperationFailed)
	}
	return nil
}

func calculateRequestHash(req reqdto.CreateBookingRequest) string {
	data, _ := json.Marshal(req)
	hash := sha256.Sum256(data)
	return hex.EncodeToString(hash[:])
}

func calculateIDHash(id uuid.UUID) string {
	hash := sha256.Sum256([]byte(id.String()))
	return hex.EncodeToString(hash[:])
}

// IsBookingConflict reports the 409 family of booking errors.
func IsBookingConflict(err error) bool {
	return errors.Is(err, booking.ErrAvailabilityConflict) ||
		errors.Is(err, booking.ErrDuplicateBooking) ||
		errors.Is(err, booking.ErrInvalidTransition)
}
