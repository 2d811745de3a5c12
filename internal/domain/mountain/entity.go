package mountain

import (
	"errors"
	"strings"
	"time"

	"poorito-booking/internal/pkg/money"

	"github.com/google/uuid"
)

var (
	ErrInvalidDifficulty   = errors.New("invalid difficulty")
	ErrInvalidName         = errors.New("mountain name is required")
	ErrInvalidTripDuration = errors.New("trip duration must be at least 1 day")
	ErrInvalidCapacity     = errors.New("joiner capacity must be at least 1")
	ErrNegativePrice       = errors.New("price cannot be negative")
)

// Rates is the subset of a mountain the pricing engine needs.
type Rates struct {
	BasePricePerHead money.Money
	TripDuration     int
	JoinerCapacity   int
	ExclusivePrice   *money.Money
}

type Mountain struct {
	id                   uuid.UUID
	name                 string
	location             string
	elevation            int
	difficulty           Difficulty
	tripDuration         int
	basePricePerHead     money.Money
	joinerCapacity       int
	exclusivePrice       *money.Money
	isJoinerAvailable    bool
	isExclusiveAvailable bool
	createdAt            time.Time
	updatedAt            time.Time
}

type Attributes struct {
	ID                   uuid.UUID
	Name                 string
	Location             string
	Elevation            int
	Difficulty           Difficulty
	TripDuration         int
	BasePricePerHead     money.Money
	JoinerCapacity       int
	ExclusivePrice       *money.Money
	IsJoinerAvailable    bool
	IsExclusiveAvailable bool
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// Reconstruct rebuilds a mountain from persisted attributes and re-checks
// the catalog invariants, so a bad row never reaches the pricing engine.
func Reconstruct(a Attributes) (*Mountain, error) {
	if strings.TrimSpace(a.Name) == "" {
		return nil, ErrInvalidName
	}
	if !a.Difficulty.IsValid() {
		return nil, ErrInvalidDifficulty
	}
	if a.TripDuration < 1 {
		return nil, ErrInvalidTripDuration
	}
	if a.JoinerCapacity < 1 {
		return nil, ErrInvalidCapacity
	}
	if a.BasePricePerHead.Cents() < 0 {
		return nil, ErrNegativePrice
	}
	if a.ExclusivePrice != nil && a.ExclusivePrice.Cents() < 0 {
		return nil, ErrNegativePrice
	}

	return &Mountain{
		id:                   a.ID,
		name:                 a.Name,
		location:             a.Location,
		elevation:            a.Elevation,
		difficulty:           a.Difficulty,
		tripDuration:         a.TripDuration,
		basePricePerHead:     a.BasePricePerHead,
		joinerCapacity:       a.JoinerCapacity,
		exclusivePrice:       a.ExclusivePrice,
		isJoinerAvailable:    a.IsJoinerAvailable,
		isExclusiveAvailable: a.IsExclusiveAvailable,
		createdAt:            a.CreatedAt,
		updatedAt:            a.UpdatedAt,
	}, nil
}

func (m *Mountain) Rates() Rates {
	return Rates{
		BasePricePerHead: m.basePricePerHead,
		TripDuration:     m.tripDuration,
		JoinerCapacity:   m.joinerCapacity,
		ExclusivePrice:   m.exclusivePrice,
	}
}

func (m *Mountain) OffersJoiner() bool    { return m.isJoinerAvailable }
func (m *Mountain) OffersExclusive() bool { return m.isExclusiveAvailable }

func (m *Mountain) ID() uuid.UUID                 { return m.id }
func (m *Mountain) Name() string                  { return m.name }
func (m *Mountain) Location() string              { return m.location }
func (m *Mountain) Elevation() int                { return m.elevation }
func (m *Mountain) Difficulty() Difficulty        { return m.difficulty }
func (m *Mountain) TripDuration() int             { return m.tripDuration }
func (m *Mountain) BasePricePerHead() money.Money { return m.basePricePerHead }
func (m *Mountain) JoinerCapacity() int           { return m.joinerCapacity }
func (m *Mountain) ExclusivePrice() *money.Money  { return m.exclusivePrice }
func (m *Mountain) CreatedAt() time.Time          { return m.createdAt }
func (m *Mountain) UpdatedAt() time.Time          { return m.updatedAt }
