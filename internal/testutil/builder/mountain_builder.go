//go:build unit || e2e

package builder

import (
	"time"

	"poorito-booking/internal/domain/mountain"
	"poorito-booking/internal/pkg/money"
	"poorito-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type MountainBuilder struct {
	ID                   uuid.UUID
	Name                 string
	Location             string
	Elevation            int
	Difficulty           string
	TripDuration         int
	BasePriceCents       int64
	JoinerCapacity       int
	ExclusivePriceCents  *int64
	IsJoinerAvailable    bool
	IsExclusiveAvailable bool
	CreatedAt            time.Time
}

// Defaults match the single-day mountain used throughout the pricing examples.
func NewMountainBuilder() *MountainBuilder {
	return &MountainBuilder{
		ID:                   uuid.New(),
		Name:                 "Mt. Batulao",
		Location:             "Nasugbu, Batangas",
		Elevation:            811,
		Difficulty:           "Easy",
		TripDuration:         1,
		BasePriceCents:       100000,
		JoinerCapacity:       10,
		IsJoinerAvailable:    true,
		IsExclusiveAvailable: true,
		CreatedAt:            time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (b *MountainBuilder) With(mutate func(*MountainBuilder)) *MountainBuilder {
	mutate(b)
	return b
}

// Build methods
func (b *MountainBuilder) Attributes() mountain.Attributes {
	var exclusive *money.Money
	if b.ExclusivePriceCents != nil {
		m := money.FromCents(*b.ExclusivePriceCents)
		exclusive = &m
	}
	return mountain.Attributes{
		ID:                   b.ID,
		Name:                 b.Name,
		Location:             b.Location,
		Elevation:            b.Elevation,
		Difficulty:           mountain.Difficulty(b.Difficulty),
		TripDuration:         b.TripDuration,
		BasePricePerHead:     money.FromCents(b.BasePriceCents),
		JoinerCapacity:       b.JoinerCapacity,
		ExclusivePrice:       exclusive,
		IsJoinerAvailable:    b.IsJoinerAvailable,
		IsExclusiveAvailable: b.IsExclusiveAvailable,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.CreatedAt,
	}
}

func (b *MountainBuilder) BuildDomain() (*mountain.Mountain, error) {
	return mountain.Reconstruct(b.Attributes())
}

func (b *MountainBuilder) MustBuildDomain() *mountain.Mountain {
	m, err := b.BuildDomain()
	if err != nil {
		panic(err)
	}
	return m
}

func (b *MountainBuilder) BuildView() *queries.MountainView {
	var exclusive *money.Money
	if b.ExclusivePriceCents != nil {
		m := money.FromCents(*b.ExclusivePriceCents)
		exclusive = &m
	}
	return &queries.MountainView{
		ID:                   b.ID,
		Name:                 b.Name,
		Location:             b.Location,
		Elevation:            b.Elevation,
		Difficulty:           b.Difficulty,
		TripDuration:         b.TripDuration,
		BasePricePerHead:     money.FromCents(b.BasePriceCents),
		JoinerCapacity:       b.JoinerCapacity,
		ExclusivePrice:       exclusive,
		IsJoinerAvailable:    b.IsJoinerAvailable,
		IsExclusiveAvailable: b.IsExclusiveAvailable,
		CreatedAt:            b.CreatedAt,
		UpdatedAt:            b.CreatedAt,
	}
}

// Fluent builder methods
func (b *MountainBuilder) WithID(id uuid.UUID) *MountainBuilder {
	b.ID = id
	return b
}

func (b *MountainBuilder) WithTripDuration(days int) *MountainBuilder {
	b.TripDuration = days
	return b
}

func (b *MountainBuilder) WithBasePriceCents(cents int64) *MountainBuilder {
	b.BasePriceCents = cents
	return b
}

func (b *MountainBuilder) WithCapacity(capacity int) *MountainBuilder {
	b.JoinerCapacity = capacity
	return b
}

func (b *MountainBuilder) WithExclusivePriceCents(cents int64) *MountainBuilder {
	b.ExclusivePriceCents = &cents
	return b
}

func (b *MountainBuilder) WithoutJoiner() *MountainBuilder {
	b.IsJoinerAvailable = false
	return b
}

func (b *MountainBuilder) WithoutExclusive() *MountainBuilder {
	b.IsExclusiveAvailable = false
	return b
}
