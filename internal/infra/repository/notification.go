package repository

import (
	"context"
	"time"

	"poorito-booking/internal/infra"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/pkg/pgconv"
	"poorito-booking/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
)

type NotificationWriteQueries interface {
	CreateNotificationJob(ctx context.Context, db query.DBTX, arg query.CreateNotificationJobParams) error
	FinishNotificationJob(ctx context.Context, db query.DBTX, arg query.FinishNotificationJobParams) (int64, error)
}

type NotificationRepository struct {
	queries NotificationWriteQueries
}

func NewNotificationRepository(queries NotificationWriteQueries) *NotificationRepository {
	return &NotificationRepository{
		queries: queries,
	}
}

func (r *NotificationRepository) CreateJob(ctx context.Context, tx query.DBTX, kind, topic string, payload []byte, runAt time.Time) error {
	params := query.CreateNotificationJobParams{
		Kind:    kind,
		Topic:   topic,
		Payload: payload,
		RunAt:   pgtype.Timestamptz{Time: runAt, Valid: true},
		Status:  shared.NotificationStatusQueued,
	}

	err := r.queries.CreateNotificationJob(ctx, tx, params)
	if err != nil {
		return infra.WrapRepoErr("failed to create notification job", err)
	}

	return nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, tx query.DBTX, id uuid.UUID, now time.Time) error {
	return r.finish(ctx, tx, query.FinishNotificationJobParams{
		ID:        id,
		Status:    shared.NotificationStatusSent,
		RunAt:     pgconv.TimeToPgtype(now),
		UpdatedAt: pgconv.TimeToPgtype(now),
	})
}

func (r *NotificationRepository) MarkFailed(ctx context.Context, tx query.DBTX, id uuid.UUID, reason string, retryAt *time.Time, now time.Time) error {
	params := query.FinishNotificationJobParams{
		ID:        id,
		Status:    shared.NotificationStatusFailed,
		LastError: pgconv.StringToPgtype(reason),
		RunAt:     pgconv.TimeToPgtype(now),
		UpdatedAt: pgconv.TimeToPgtype(now),
	}
	if retryAt != nil {
		params.Status = shared.NotificationStatusQueued
		params.RunAt = pgconv.TimeToPgtype(*retryAt)
	}
	return r.finish(ctx, tx, params)
}

func (r *NotificationRepository) finish(ctx context.Context, tx query.DBTX, params query.FinishNotificationJobParams) error {
	n, err := r.queries.FinishNotificationJob(ctx, tx, params)
	if err != nil {
		return infra.WrapRepoErr("failed to update notification job", err)
	}
	if n == 0 {
		return infra.WrapRepoErr("notification job not found", nil, infra.KindNotFound)
	}
	return nil
}
