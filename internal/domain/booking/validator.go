package booking

import (
	"time"

	"poorito-booking/internal/domain/mountain"
	"poorito-booking/internal/pkg/calendar"
	"poorito-booking/internal/pkg/clock"

	"github.com/google/uuid"
)

const MaxJoinerParticipants = 20

// Request is a booking request as received at the boundary.
type Request struct {
	StartDate    calendar.Date
	EndDate      calendar.Date
	BookingType  string
	Participants int
}

// Prepared is a request that passed the input checks against one mountain.
type Prepared struct {
	Dates        calendar.Range
	Candidate    Candidate
	Participants int
}

type Validator struct {
	Clock           clock.Clock
	Location        *time.Location
	PriceCalculator PriceCalculator
}

func NewValidator(clk clock.Clock, loc *time.Location, calc PriceCalculator) *Validator {
	if loc == nil {
		loc = time.UTC
	}
	return &Validator{
		Clock:           clk,
		Location:        loc,
		PriceCalculator: calc,
	}
}

// Prepare runs the checks that need only the request and the mountain:
// dates present and consistent with the trip duration, party size, and no
// past start date. The first failing check wins.
func (v *Validator) Prepare(m *mountain.Mountain, req Request) (*Prepared, error) {
	if req.StartDate.IsZero() {
		return nil, &ValidationError{Field: "start_date", Reason: "is required"}
	}
	if req.EndDate.IsZero() {
		return nil, &ValidationError{Field: "end_date", Reason: "is required"}
	}
	expectedEnd := req.StartDate.AddDays(m.TripDuration())
	if !req.EndDate.Equal(expectedEnd) {
		return nil, &ValidationError{
			Field:  "end_date",
			Reason: "must be " + expectedEnd.String() + " (start_date plus trip duration)",
		}
	}

	candidate, err := NewCandidate(req.BookingType, req.Participants)
	if err != nil {
		return nil, err
	}
	participants := m.JoinerCapacity()
	switch c := candidate.(type) {
	case JoinerCandidate:
		if !m.OffersJoiner() {
			return nil, &ValidationError{Field: "booking_type", Reason: "joiner trips are not offered for this mountain"}
		}
		participants = c.Participants
	case ExclusiveCandidate:
		if !m.OffersExclusive() {
			return nil, &ValidationError{Field: "booking_type", Reason: "exclusive trips are not offered for this mountain"}
		}
	}

	today := calendar.Today(v.Clock.Now(), v.Location)
	if req.StartDate.Before(today) {
		return nil, &ValidationError{Field: "start_date", Reason: "must not be in the past"}
	}
	dates, err := calendar.NewRange(req.StartDate, req.EndDate)
	if err != nil {
		return nil, &ValidationError{Field: "end_date", Reason: "must not be before start_date"}
	}

	return &Prepared{
		Dates:        dates,
		Candidate:    candidate,
		Participants: participants,
	}, nil
}

// Accept checks the prepared request against the bookings currently holding
// the mountain, prices it and returns a new pending booking. existing must
// hold every active booking on the mountain overlapping p.Dates.
func (v *Validator) Accept(m *mountain.Mountain, userID uuid.UUID, p *Prepared, existing []Occupancy) (*Booking, error) {
	availability := ResolveAvailability(m.JoinerCapacity(), p.Dates, existing)

	switch p.Candidate.(type) {
	case JoinerCandidate:
		if dates := availability.JoinerConflicts(p.Participants); len(dates) > 0 {
			return nil, &AvailabilityConflictError{
				BookingType: TypeJoiner,
				Dates:       dates,
				Reason:      "not enough joiner slots",
			}
		}
	case ExclusiveCandidate:
		if dates := availability.ExclusiveConflicts(); len(dates) > 0 {
			return nil, &AvailabilityConflictError{
				BookingType: TypeExclusive,
				Dates:       dates,
				Reason:      "mountain already has bookings",
			}
		}
	}

	for _, o := range existing {
		if o.UserID == userID && o.Status.IsActive() && o.Dates.Overlaps(p.Dates) {
			return nil, &DuplicateBookingError{ExistingBookingID: o.BookingID}
		}
	}

	pricing := v.PriceCalculator.Calculate(m.Rates(), p.Candidate.Type(), p.Participants)
	return newPendingBooking(m.ID(), userID, p.Dates, p.Candidate.Type(), p.Participants, pricing, v.Clock.Now()), nil
}

// Quote prices a candidate without touching availability.
func (v *Validator) Quote(m *mountain.Mountain, c Candidate) Pricing {
	participants := m.JoinerCapacity()
	if j, ok := c.(JoinerCandidate); ok {
		participants = j.Participants
	}
	return v.PriceCalculator.Calculate(m.Rates(), c.Type(), participants)
}
