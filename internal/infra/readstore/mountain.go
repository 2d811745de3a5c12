package readstore

import (
	"context"

	"poorito-booking/internal/infra"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/pkg/money"
	"poorito-booking/internal/pkg/pgconv"
	"poorito-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type MountainReadQueries interface {
	GetMountainByID(ctx context.Context, db query.DBTX, id uuid.UUID) (query.Mountains, error)
	ListMountains(ctx context.Context, db query.DBTX, difficulty pgtype.Text) ([]query.Mountains, error)
}

type MountainReadStore struct {
	queries MountainReadQueries
}

func NewMountainReadStore(queries MountainReadQueries) *MountainReadStore {
	return &MountainReadStore{
		queries: queries,
	}
}

func (r *MountainReadStore) FindByID(ctx context.Context, db query.DBTX, id uuid.UUID) (*queries.MountainView, error) {
	row, err := r.queries.GetMountainByID(ctx, db, id)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("mountain not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find mountain by ID", err)
	}
	return toMountainView(row), nil
}

func (r *MountainReadStore) List(ctx context.Context, db query.DBTX, difficulty *string) ([]*queries.MountainView, error) {
	rows, err := r.queries.ListMountains(ctx, db, pgconv.StringPtrToPgtype(difficulty))
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list mountains", err)
	}

	views := make([]*queries.MountainView, 0, len(rows))
	for _, row := range rows {
		views = append(views, toMountainView(row))
	}
	return views, nil
}

func toMountainView(row query.Mountains) *queries.MountainView {
	return &queries.MountainView{
		ID:                   row.ID,
		Name:                 row.Name,
		Location:             row.Location,
		Elevation:            int(row.Elevation),
		Difficulty:           row.Difficulty,
		TripDuration:         int(row.TripDuration),
		BasePricePerHead:     money.FromCents(row.BasePricePerHeadCents),
		JoinerCapacity:       int(row.JoinerCapacity),
		ExclusivePrice:       pgconv.MoneyPtrFromPgtype(row.ExclusivePriceCents),
		IsJoinerAvailable:    row.IsJoinerAvailable,
		IsExclusiveAvailable: row.IsExclusiveAvailable,
		CreatedAt:            pgconv.TimeFromPgtype(row.CreatedAt),
		UpdatedAt:            pgconv.TimeFromPgtype(row.UpdatedAt),
	}
}
