package readstore

import (
	"context"
	"time"

	"poorito-booking/internal/infra"
	"poorito-booking/internal/infra/query"
	"poorito-booking/internal/pkg/pgconv"
	"poorito-booking/internal/usecase/shared"
)

type NotificationReadQueries interface {
	ClaimDueNotificationJobs(ctx context.Context, db query.DBTX, arg query.ClaimDueNotificationJobsParams) ([]query.NotificationJobs, error)
}

type NotificationReadStore struct {
	queries NotificationReadQueries
}

func NewNotificationReadStore(queries NotificationReadQueries) *NotificationReadStore {
	return &NotificationReadStore{
		queries: queries,
	}
}

// DueJobs must run inside a transaction; the returned rows stay locked until it ends.
func (s *NotificationReadStore) DueJobs(ctx context.Context, db query.DBTX, now time.Time, limit int) ([]*shared.NotificationJob, error) {
	rows, err := s.queries.ClaimDueNotificationJobs(ctx, db, query.ClaimDueNotificationJobsParams{
		Now:   pgconv.TimeToPgtype(now),
		Limit: int32(limit), // #nosec G115 -- batch size comes from config
	})
	if err != nil {
		return nil, infra.WrapRepoErr("failed to get due notification jobs", err)
	}

	result := make([]*shared.NotificationJob, len(rows))
	for i, row := range rows {
		result[i] = toNotificationJob(row)
	}

	return result, nil
}

func toNotificationJob(row query.NotificationJobs) *shared.NotificationJob {
	return &shared.NotificationJob{
		ID:       row.ID,
		Kind:     row.Kind,
		Topic:    row.Topic,
		Payload:  row.Payload,
		RunAt:    pgconv.TimeFromPgtype(row.RunAt),
		Attempts: int(row.Attempts),
	}
}
