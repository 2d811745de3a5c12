package queries

import (
	"context"
	"time"

	"poorito-booking/internal/domain/booking"
	"poorito-booking/internal/domain/mountain"
	"poorito-booking/internal/infra"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/pkg/errs"
	"poorito-booking/internal/pkg/money"
	"poorito-booking/internal/usecase/shared"

	"github.com/google/uuid"
)

type MountainView struct {
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
	CreatedAt            time.Time    `json:"created_at"`
	UpdatedAt            time.Time    `json:"updated_at"`
}

// ToDomain re-validates the catalog row so quotes never run on a broken mountain.
func (v *MountainView) ToDomain() (*mountain.Mountain, error) {
	return mountain.Reconstruct(mountain.Attributes{
		ID:                   v.ID,
		Name:                 v.Name,
		Location:             v.Location,
		Elevation:            v.Elevation,
		Difficulty:           mountain.Difficulty(v.Difficulty),
		TripDuration:         v.TripDuration,
		BasePricePerHead:     v.BasePricePerHead,
		JoinerCapacity:       v.JoinerCapacity,
		ExclusivePrice:       v.ExclusivePrice,
		IsJoinerAvailable:    v.IsJoinerAvailable,
		IsExclusiveAvailable: v.IsExclusiveAvailable,
		CreatedAt:            v.CreatedAt,
		UpdatedAt:            v.UpdatedAt,
	})
}

type PricingView struct {
	MountainID         uuid.UUID   `json:"mountain_id"`
	BookingType        string      `json:"booking_type"`
	Participants       int         `json:"number_of_participants"`
	TripDuration       int         `json:"trip_duration"`
	JoinerPricePerHead money.Money `json:"joiner_price_per_head"`
	ExclusivePrice     money.Money `json:"exclusive_price"`
	TotalPrice         money.Money `json:"total_price"`
}

type MountainFilters struct {
	Difficulty *string
}

type MountainReadStore interface {
	FindByID(ctx context.Context, db query.DBTX, id uuid.UUID) (*MountainView, error)
	List(ctx context.Context, db query.DBTX, difficulty *string) ([]*MountainView, error)
}

type MountainQueries interface {
	GetByID(ctx context.Context, id uuid.UUID) (*MountainView, error)
	List(ctx context.Context, filters MountainFilters) ([]*MountainView, error)
	Quote(ctx context.Context, id uuid.UUID, bookingType string, participants int) (*PricingView, error)
}

type mountainQueriesImpl struct {
	uow   shared.UnitOfWork
	store MountainReadStore
	calc  booking.PriceCalculator
}

func NewMountainQueries(uow shared.UnitOfWork, store MountainReadStore, calc booking.PriceCalculator) MountainQueries {
	return &mountainQueriesImpl{
		uow:   uow,
		store: store,
		calc:  calc,
	}
}

func (q *mountainQueriesImpl) GetByID(ctx context.Context, id uuid.UUID) (*MountainView, error) {
	var view *MountainView
	err := q.uow.WithDB(ctx, func(ctx context.Context, db query.DBTX) error {
		var err error
		view, err = q.store.FindByID(ctx, db, id)
		return err
	})
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrMountainNotFound
		}
		return nil, err
	}
	return view, nil
}

func (q *mountainQueriesImpl) List(ctx context.Context, filters MountainFilters) ([]*MountainView, error) {
	if filters.Difficulty != nil {
		if _, err := mountain.NewDifficulty(*filters.Difficulty); err != nil {
			return nil, &booking.ValidationError{Field: "difficulty", Reason: "must be one of Easy, Moderate, Hard, Expert"}
		}
	}

	var views []*MountainView
	err := q.uow.WithDB(ctx, func(ctx context.Context, db query.DBTX) error {
		var err error
		views, err = q.store.List(ctx, db, filters.Difficulty)
		return err
	})
	if err != nil {
		return nil, err
	}
	return views, nil
}

func (q *mountainQueriesImpl) Quote(ctx context.Context, id uuid.UUID, bookingType string, participants int) (*PricingView, error) {
	candidate, err := booking.NewCandidate(bookingType, participants)
	if err != nil {
		return nil, err
	}

	view, err := q.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	m, err := view.ToDomain()
	if err != nil {
		return nil, errs.Wrap(err, "mountain catalog row is invalid")
	}

	if j, ok := candidate.(booking.JoinerCandidate); ok {
		participants = j.Participants
	} else {
		participants = m.JoinerCapacity()
	}
	pricing := q.calc.Calculate(m.Rates(), candidate.Type(), participants)

	return &PricingView{
		MountainID:         m.ID(),
		BookingType:        candidate.Type().String(),
		Participants:       participants,
		TripDuration:       m.TripDuration(),
		JoinerPricePerHead: pricing.JoinerPricePerHead,
		ExclusivePrice:     pricing.ExclusivePrice,
		TotalPrice:         pricing.TotalPrice,
	}, nil
}
