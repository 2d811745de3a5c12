package query

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

const createNotificationJob = `-- name: CreateNotificationJob :exec
INSERT INTO notification_jobs (kind, topic, payload, run_at, status)
VALUES ($1, $2, $3, $4, $5)`

type CreateNotificationJobParams struct {
	Kind    string
	Topic   string
	Payload []byte
	RunAt   pgtype.Timestamptz
	Status  string
}

func (q *Queries) CreateNotificationJob(ctx context.Context, db DBTX, arg CreateNotificationJobParams) error {
	_, err := db.Exec(ctx, createNotificationJob,
		arg.Kind,
		arg.Topic,
		arg.Payload,
		arg.RunAt,
		arg.Status,
	)
	return err
}

// Rows stay locked until the relay transaction ends, so parallel relays never
// pick the same job.
const claimDueNotificationJobs = `-- name: ClaimDueNotificationJobs :many
SELECT id, kind, topic, payload, run_at, attempts, status, last_error, created_at, updated_at
FROM notification_jobs
WHERE status = 'queued' AND run_at <= $1
ORDER BY run_at, id
LIMIT $2
FOR UPDATE SKIP LOCKED`

type ClaimDueNotificationJobsParams struct {
	Now   pgtype.Timestamptz
	Limit int32
}

func (q *Queries) ClaimDueNotificationJobs(ctx context.Context, db DBTX, arg ClaimDueNotificationJobsParams) ([]NotificationJobs, error) {
	rows, err := db.Query(ctx, claimDueNotificationJobs, arg.Now, arg.Limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []NotificationJobs
	for rows.Next() {
		var j NotificationJobs
		if err := rows.Scan(
			&j.ID,
			&j.Kind,
			&j.Topic,
			&j.Payload,
			&j.RunAt,
			&j.Attempts,
			&j.Status,
			&j.LastError,
			&j.CreatedAt,
			&j.UpdatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, j)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}

const finishNotificationJob = `-- name: FinishNotificationJob :execrows
UPDATE notification_jobs
SET status = $2,
    attempts = attempts + 1,
    last_error = $3,
    run_at = $4,
    updated_at = $5
WHERE id = $1`

type FinishNotificationJobParams struct {
	ID        uuid.UUID
	Status    string
	LastError pgtype.Text
	RunAt     pgtype.Timestamptz
	UpdatedAt pgtype.Timestamptz
}

func (q *Queries) FinishNotificationJob(ctx context.Context, db DBTX, arg FinishNotificationJobParams) (int64, error) {
	result, err := db.Exec(ctx, finishNotificationJob,
		arg.ID,
		arg.Status,
		arg.LastError,
		arg.RunAt,
		arg.UpdatedAt,
	)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
