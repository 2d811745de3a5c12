package converter

import (
	"poorito-booking/internal/domain/mountain"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/pkg/money"
	"poorito-booking/internal/pkg/pgconv"
)

func MountainToDomain(row query.Mountains) (*mountain.Mountain, error) {
	return mountain.Reconstruct(mountain.Attributes{
		ID:                   row.ID,
		Name:                 row.Name,
		Location:             row.Location,
		Elevation:            int(row.Elevation),
		Difficulty:           mountain.Difficulty(row.Difficulty),
		TripDuration:         int(row.TripDuration),
		BasePricePerHead:     money.FromCents(row.BasePricePerHeadCents),
		JoinerCapacity:       int(row.JoinerCapacity),
		ExclusivePrice:       pgconv.MoneyPtrFromPgtype(row.ExclusivePriceCents),
		IsJoinerAvailable:    row.IsJoinerAvailable,
		IsExclusiveAvailable: row.IsExclusiveAvailable,
		CreatedAt:            pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:            pgconv.TimeFromPgtype(row.UpdatedAt),
	})
}
