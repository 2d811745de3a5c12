package response

import (
	"time"

	"poorito-booking/internal/pkg/calendar"
	"poorito-booking/internal/pkg/money"
	"poorito-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type BookingResponse struct {
	ID                   uuid.UUID     `json:"id"`
	MountainID           uuid.UUID     `json:"mountain_id"`
	MountainName         string        `json:"mountain_name"`
	UserID               uuid.UUID     `json:"user_id"`
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

type BookingListItemResponse struct {
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

type BookingListResponse struct {
	Items      []*BookingListItemResponse `json:"items"`
	NextCursor *string                    `json:"next_cursor,omitempty"`
}

type ReceiptResponse struct {
	ReceiptNumber    string           `json:"receipt_number"`
	IssuedAt         time.Time        `json:"issued_at"`
	MountainLocation string           `json:"mountain_location"`
	CustomerName     string           `json:"customer_name"`
	CustomerEmail    string           `json:"customer_email"`
	Booking          *BookingResponse `json:"booking"`
}

func FromBookingView(v *queries.BookingView) (*BookingResponse, error) {
	var res BookingResponse
	if err := copier.Copy(&res, v); err != nil {
		return nil, err
	}
	return &res, nil
}

func FromBookingList(items []*queries.BookingListItem, next *queries.Cursor) (*BookingListResponse, error) {
	res := &BookingListResponse{Items: make([]*BookingListItemResponse, 0, len(items))}
	for _, it := range items {
		var item BookingListItemResponse
		if err := copier.Copy(&item, it); err != nil {
			return nil, err
		}
		res.Items = append(res.Items, &item)
	}
	if next != nil {
		res.NextCursor = &next.After
	}
	return res, nil
}

func FromReceiptView(v *queries.ReceiptView) (*ReceiptResponse, error) {
	b, err := FromBookingView(v.Booking)
	if err != nil {
		return nil, err
	}
	return &ReceiptResponse{
		ReceiptNumber:    v.ReceiptNumber,
		IssuedAt:         v.IssuedAt,
		MountainLocation: v.Booking.MountainLocation,
		CustomerName:     v.Booking.UserDisplayName,
		CustomerEmail:    v.Booking.UserEmail,
		Booking:          b,
	}, nil
}
