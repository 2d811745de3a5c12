//go:build unit || e2e

package builder

import (
	"time"

	"poorito-booking/internal/domain/booking"
	"poorito-booking/internal/pkg/calendar"
	"poorito-booking/internal/pkg/money"
	"poorito-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type BookingBuilder struct {
	ID                uuid.UUID
	MountainID        uuid.UUID
	MountainName      string
	UserID            uuid.UUID
	UserEmail         string
	StartDate         string
	EndDate           string
	Type              string
	Participants      int
	Status            string
	PricePerHeadCents int64
	TotalPriceCents   int64
	CreatedAt         time.Time
}

func NewBookingBuilder() *BookingBuilder {
	return &BookingBuilder{
		ID:                uuid.New(),
		MountainID:        uuid.New(),
		MountainName:      "Mt. Batulao",
		UserID:            uuid.New(),
		UserEmail:         "hiker@example.com",
		StartDate:         "2025-10-10",
		EndDate:           "2025-10-11",
		Type:              "joiner",
		Participants:      3,
		Status:            "pending",
		PricePerHeadCents: 100000,
		TotalPriceCents:   300000,
		CreatedAt:         time.Date(2025, time.October, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (b *BookingBuilder) With(mutate func(*BookingBuilder)) *BookingBuilder {
	mutate(b)
	return b
}

// Build methods
func mustParseDate(s string) calendar.Date {
	d, err := calendar.Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (b *BookingBuilder) dates() calendar.Range {
	r, err := calendar.NewRange(mustParseDate(b.StartDate), mustParseDate(b.EndDate))
	if err != nil {
		panic(err)
	}
	return r
}

func (b *BookingBuilder) BuildDomain() (*booking.Booking, error) {
	return booking.Reconstruct(booking.Attributes{
		ID:           b.ID,
		MountainID:   b.MountainID,
		UserID:       b.UserID,
		StartDate:    mustParseDate(b.StartDate),
		EndDate:      mustParseDate(b.EndDate),
		Type:         booking.Type(b.Type),
		Participants: b.Participants,
		Status:       booking.Status(b.Status),
		PricePerHead: money.FromCents(b.PricePerHeadCents),
		TotalPrice:   money.FromCents(b.TotalPriceCents),
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.CreatedAt,
	})
}

func (b *BookingBuilder) MustBuildDomain() *booking.Booking {
	bk, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return bk
}

func (b *BookingBuilder) BuildOccupancy() booking.Occupancy {
	return booking.Occupancy{
		BookingID:    b.ID,
		UserID:       b.UserID,
		Type:         booking.Type(b.Type),
		Status:       booking.Status(b.Status),
		Participants: b.Participants,
		Dates:        b.dates(),
	}
}

func (b *BookingBuilder) BuildView() *queries.BookingView {
	dates := b.dates()
	return &queries.BookingView{
		ID:                   b.ID,
		MountainID:           b.MountainID,
		MountainName:         b.MountainName,
		UserID:               b.UserID,
		UserEmail:            b.UserEmail,
		StartDate:            dates.Start(),
		EndDate:              dates.End(),
		BookingType:          b.Type,
		NumberOfParticipants: b.Participants,
		Status:               b.Status,
		PricePerHead:         money.FromCents(b.PricePerHeadCents),
		TotalPrice:           money.FromCents(b.TotalPriceCents),
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.CreatedAt,
	}
}

// Fluent builder methods
func (b *BookingBuilder) WithMountainID(id uuid.UUID) *BookingBuilder {
	b.MountainID = id
	return b
}

func (b *BookingBuilder) WithUserID(id uuid.UUID) *BookingBuilder {
	b.UserID = id
	return b
}

func (b *BookingBuilder) WithDates(start, end string) *BookingBuilder {
	b.StartDate = start
	b.EndDate = end
	return b
}

func (b *BookingBuilder) AsJoiner(participants int) *BookingBuilder {
	b.Type = "joiner"
	b.Participants = participants
	return b
}

func (b *BookingBuilder) AsExclusive(participants int) *BookingBuilder {
	b.Type = "exclusive"
	b.Participants = participants
	return b
}

func (b *BookingBuilder) WithStatus(status string) *BookingBuilder {
	b.Status = status
	return b
}
