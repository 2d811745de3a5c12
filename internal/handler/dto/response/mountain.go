package response

import (
	"time"

	"poorito-booking/internal/pkg/calendar"
	"poorito-booking/internal/pkg/money"
	"poorito-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type MountainResponse struct {
	ID                   uuid.UUID    `json:"id"`
	Name                 string       `json:"name"`
	Location             string       `json:"location"`
	Elevation            int          `json:"elevation"`
	Difficulty           string       `json:"difficulty"`
	TripDuration         int          `json:"trip_duration"`
	BasePricePerHead     money.Money  `json:"base_price_per_head"`
	JoinerCapacity       int          `json:"joiner_capacity"`
	ExclusivePrice       *money.Money `json:"exclusive_price,omitempty"`
	IsJoinerAvailable    bool         `json:"is_joiner_available"`
	IsExclusiveAvailable bool         `json:"is_exclusive_available"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

type PricingResponse struct {
	MountainID         uuid.UUID   `json:"mountain_id"`
	BookingType        string      `json:"booking_type"`
	Participants       int         `json:"number_of_participants"`
	TripDuration       int         `json:"trip_duration"`
	JoinerPricePerHead money.Money `json:"joiner_price_per_head"`
	ExclusivePrice     money.Money `json:"exclusive_price"`
	TotalPrice         money.Money `json:"total_price"`
}

type DayAvailabilityResponse struct {
	Date              calendar.Date `json:"date"`
	JoinerBooked      int           `json:"joiner_booked"`
	JoinerAvailable   int           `json:"joiner_available"`
	IsExclusiveBooked bool          `json:"is_exclusive_booked"`
}

type AvailabilityResponse struct {
	MountainID     uuid.UUID                 `json:"mountain_id"`
	StartDate      calendar.Date             `json:"start_date"`
	EndDate        calendar.Date             `json:"end_date"`
	JoinerCapacity int                       `json:"joiner_capacity"`
	Days           []DayAvailabilityResponse `json:"days"`
}

func FromMountainView(v *queries.MountainView) (*MountainResponse, error) {
	var res MountainResponse
	if err := copier.Copy(&res, v); err != nil {
		return nil, err
	}
	return &res, nil
}

func FromMountainList(views []*queries.MountainView) ([]*MountainResponse, error) {
	res := make([]*MountainResponse, 0, len(views))
	for _, v := range views {
		m, err := FromMountainView(v)
		if err != nil {
			return nil, err
		}
		res = append(res, m)
	}
	return res, nil
}

func FromPricingView(v *queries.PricingView) *PricingResponse {
	return &PricingResponse{
		MountainID:         v.MountainID,
		BookingType:        v.BookingType,
		Participants:       v.Participants,
		TripDuration:       v.TripDuration,
		JoinerPricePerHead: v.JoinerPricePerHead,
		ExclusivePrice:     v.ExclusivePrice,
		TotalPrice:         v.TotalPrice,
	}
}

func FromAvailabilityView(v *queries.AvailabilityView) *AvailabilityResponse {
	days := make([]DayAvailabilityResponse, len(v.Days))
	for i, d := range v.Days {
		days[i] = DayAvailabilityResponse(d)
	}
	return &AvailabilityResponse{
		MountainID:     v.MountainID,
		StartDate:      v.StartDate,
		EndDate:        v.EndDate,
		JoinerCapacity: v.JoinerCapacity,
		Days:           days,
	}
}
