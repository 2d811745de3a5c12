package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const userColumns = `id, email, password_hash, role, display_name, is_active,
       last_login, created_at, updated_at`

func scanUser(row pgx.Row) (Users, error) {
	var u Users
	err := row.Scan(
		&u.ID,
		&u.Email,
		&u.PasswordHash,
		&u.Role,
		&u.DisplayName,
		&u.IsActive,
		&u.LastLogin,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	return u, err
}

const findUserByID = `-- name: FindUserByID :one
SELECT ` + userColumns + `
FROM users
WHERE id = $1`

func (q *Queries) FindUserByID(ctx context.Context, db DBTX, id uuid.UUID) (Users, error) {
	return scanUser(db.QueryRow(ctx, findUserByID, id))
}

const findUserByEmail = `-- name: FindUserByEmail :one
SELECT ` + userColumns + `
FROM users
WHERE email = $1`

func (q *Queries) FindUserByEmail(ctx context.Context, db DBTX, email string) (Users, error) {
	return scanUser(db.QueryRow(ctx, findUserByEmail, email))
}

const createUser = `-- name: CreateUser :one
INSERT INTO users (id, email, password_hash, role, display_name, is_active)
VALUES ($1, $2, $3, $4, $5, $6)
RETURNING id`

type CreateUserParams struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	Role         string
	DisplayName  string
	IsActive     bool
}

func (q *Queries) CreateUser(ctx context.Context, db DBTX, arg CreateUserParams) (uuid.UUID, error) {
	var id uuid.UUID
	err := db.QueryRow(ctx, createUser,
		arg.ID,
		arg.Email,
		arg.PasswordHash,
		arg.Role,
		arg.DisplayName,
		arg.IsActive,
	).Scan(&id)
	return id, err
}

const updateUserLastLogin = `-- name: UpdateUserLastLogin :exec
UPDATE users
SET last_login = $2, updated_at = $2
WHERE id = $1`

func (q *Queries) UpdateUserLastLogin(ctx context.Context, db DBTX, id uuid.UUID, at pgtype.Timestamptz) error {
	_, err := db.Exec(ctx, updateUserLastLogin, id, at)
	return err
}
