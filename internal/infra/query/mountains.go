package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const mountainColumns = `id, name, location, elevation, difficulty, trip_duration,
       base_price_per_head_cents, joiner_capacity, exclusive_price_cents,
       is_joiner_available, is_exclusive_available, created_at, updated_at`

func scanMountain(row pgx.Row) (Mountains, error) {
	var m Mountains
	err := row.Scan(
		&m.ID,
		&m.Name,
		&m.Location,
		&m.Elevation,
		&m.Difficulty,
		&m.TripDuration,
		&m.BasePricePerHeadCents,
		&m.JoinerCapacity,
		&m.ExclusivePriceCents,
		&m.IsJoinerAvailable,
		&m.IsExclusiveAvailable,
		&m.CreatedAt,
		&m.UpdatedAt,
	)
	return m, err
}

const getMountainByID = `-- name: GetMountainByID :one
SELECT ` + mountainColumns + `
FROM mountains
WHERE id = $1`

func (q *Queries) GetMountainByID(ctx context.Context, db DBTX, id uuid.UUID) (Mountains, error) {
	return scanMountain(db.QueryRow(ctx, getMountainByID, id))
}

// Concurrent booking creates for the same mountain serialise on this lock.
const getMountainByIDForUpdate = `-- name: GetMountainByIDForUpdate :one
SELECT ` + mountainColumns + `
FROM mountains
WHERE id = $1
FOR UPDATE`

func (q *Queries) GetMountainByIDForUpdate(ctx context.Context, db DBTX, id uuid.UUID) (Mountains, error) {
	return scanMountain(db.QueryRow(ctx, getMountainByIDForUpdate, id))
}

const listMountains = `-- name: ListMountains :many
SELECT ` + mountainColumns + `
FROM mountains
WHERE ($1::text IS NULL OR difficulty = $1::text)
ORDER BY name ASC, id ASC`

func (q *Queries) ListMountains(ctx context.Context, db DBTX, difficulty pgtype.Text) ([]Mountains, error) {
	rows, err := db.Query(ctx, listMountains, difficulty)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []Mountains
	for rows.Next() {
		m, err := scanMountain(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
