package request

import (
	"poorito-booking/internal/domain/booking"
	"poorito-booking/internal/pkg/calendar"

	"github.com/google/uuid"
)

// Dates are optional at the binding layer so the domain reports missing
// dates in its own fail-fast order.
type CreateBookingRequest struct {
	MountainID           uuid.UUID `json:"mountain_id" binding:"required"`
	StartDate            string    `json:"start_date" binding:"omitempty,isodate"`
	EndDate              string    `json:"end_date" binding:"omitempty,isodate"`
	NumberOfParticipants int       `json:"number_of_participants"`
	BookingType          string    `json:"booking_type" binding:"required,bookingtype"`
}

func (r CreateBookingRequest) ToDomain() (booking.Request, error) {
	req := booking.Request{
		BookingType:  r.BookingType,
		Participants: r.NumberOfParticipants,
	}
	if r.StartDate != "" {
		d, err := calendar.Parse(r.StartDate)
		if err != nil {
			return booking.Request{}, &booking.ValidationError{Field: "start_date", Reason: "must be YYYY-MM-DD"}
		}
		req.StartDate = d
	}
	if r.EndDate != "" {
		d, err := calendar.Parse(r.EndDate)
		if err != nil {
			return booking.Request{}, &booking.ValidationError{Field: "end_date", Reason: "must be YYYY-MM-DD"}
		}
		req.EndDate = d
	}
	return req, nil
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=confirmed rejected completed"`
}

type ListBookingsQuery struct {
	After string `form:"after"`
	Limit int    `form:"limit" binding:"omitempty,min=1,max=200"`
}
