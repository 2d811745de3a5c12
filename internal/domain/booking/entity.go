package booking

import (
	"fmt"
	"time"

	"poorito-booking/internal/pkg/calendar"
	"poorito-booking/internal/pkg/money"

	"github.com/google/uuid"
)

type Booking struct {
	id           uuid.UUID
	mountainID   uuid.UUID
	userID       uuid.UUID
	dates        calendar.Range
	bookingType  Type
	participants int
	status       Status
	pricePerHead money.Money
	totalPrice   money.Money
	createdAt    time.Time
	updatedAt    time.Time
}

var transitions = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusRejected},
	StatusConfirmed: {StatusCancelled, StatusCompleted},
}

func newPendingBooking(mountainID, userID uuid.UUID, dates calendar.Range, t Type, participants int, pricing Pricing, now time.Time) *Booking {
	return &Booking{
		id:           uuid.New(),
		mountainID:   mountainID,
		userID:       userID,
		dates:        dates,
		bookingType:  t,
		participants: participants,
		status:       StatusPending,
		pricePerHead: pricing.JoinerPricePerHead,
		totalPrice:   pricing.TotalPrice,
		createdAt:    now,
		updatedAt:    now,
	}
}

type Attributes struct {
	ID           uuid.UUID
	MountainID   uuid.UUID
	UserID       uuid.UUID
	StartDate    calendar.Date
	EndDate      calendar.Date
	Type         Type
	Participants int
	Status       Status
	PricePerHead money.Money
	TotalPrice   money.Money
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func Reconstruct(a Attributes) (*Booking, error) {
	dates, err := calendar.NewRange(a.StartDate, a.EndDate)
	if err != nil {
		return nil, err
	}
	if !a.Type.IsValid() {
		return nil, fmt.Errorf("booking %s: unknown type %q", a.ID, a.Type)
	}
	if !a.Status.IsValid() {
		return nil, ErrInvalidStatus
	}
	return &Booking{
		id:           a.ID,
		mountainID:   a.MountainID,
		userID:       a.UserID,
		dates:        dates,
		bookingType:  a.Type,
		participants: a.Participants,
		status:       a.Status,
		pricePerHead: a.PricePerHead,
		totalPrice:   a.TotalPrice,
		createdAt:    a.CreatedAt,
		updatedAt:    a.UpdatedAt,
	}, nil
}

// TransitionTo moves the booking along the lifecycle. Prices are never
// touched here; they are fixed at creation.
func (b *Booking) TransitionTo(target Status, now time.Time) error {
	if !target.IsValid() {
		return ErrInvalidStatus
	}
	for _, allowed := range transitions[b.status] {
		if allowed == target {
			b.status = target
			b.updatedAt = now
			return nil
		}
	}
	return fmt.Errorf("%w: %s -> %s", ErrInvalidTransition, b.status, target)
}

// Cancel is the owner's action and is only allowed once the booking is confirmed.
func (b *Booking) Cancel(actorID uuid.UUID, now time.Time) error {
	if actorID != b.userID {
		return ErrNotOwner
	}
	return b.TransitionTo(StatusCancelled, now)
}

func (b *Booking) Occupancy() Occupancy {
	return Occupancy{
		BookingID:    b.id,
		UserID:       b.userID,
		Type:         b.bookingType,
		Status:       b.status,
		Participants: b.participants,
		Dates:        b.dates,
	}
}

func (b *Booking) ID() uuid.UUID             { return b.id }
func (b *Booking) MountainID() uuid.UUID     { return b.mountainID }
func (b *Booking) UserID() uuid.UUID         { return b.userID }
func (b *Booking) Dates() calendar.Range     { return b.dates }
func (b *Booking) StartDate() calendar.Date  { return b.dates.Start() }
func (b *Booking) EndDate() calendar.Date    { return b.dates.End() }
func (b *Booking) Type() Type                { return b.bookingType }
func (b *Booking) Participants() int         { return b.participants }
func (b *Booking) Status() Status            { return b.status }
func (b *Booking) PricePerHead() money.Money { return b.pricePerHead }
func (b *Booking) TotalPrice() money.Money   { return b.totalPrice }
func (b *Booking) CreatedAt() time.Time      { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time      { return b.updatedAt }
