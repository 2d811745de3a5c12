package commands

import (
	"context"
	"log/slog"
	"time"

	"poorito-booking/internal/pkg/clock"
	"poorito-booking/internal/pkg/errs"
	"poorito-booking/internal/usecase/shared"
)

type JobSettings struct {
	BatchSize   int
	MaxAttempts int
	RetryBase   time.Duration
}

// JobCommands are run periodically by the background worker.
type JobCommands interface {
	RelayNotifications(ctx context.Context) (sent int, err error)
	PurgeExpiredIdempotencyKeys(ctx context.Context) (int64, error)
}

type jobUseCaseImpl struct {
	uow      shared.UnitOfWork
	notifier Notifier
	clock    clock.Clock
	settings JobSettings
}

func NewJobCommands(uow shared.UnitOfWork, notifier Notifier, clk clock.Clock, settings JobSettings) JobCommands {
	return &jobUseCaseImpl{
		uow:      uow,
		notifier: notifier,
		clock:    clk,
		settings: settings,
	}
}

// RelayNotifications delivers one batch of due outbox jobs. A failed delivery
// is retried with exponential backoff until MaxAttempts is reached.
func (uc *jobUseCaseImpl) RelayNotifications(ctx context.Context) (int, error) {
	sent := 0
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		sent = 0
		now := uc.clock.Now()
		jobs, err := tx.Reads().DueNotifications(ctx, now, uc.settings.BatchSize)
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}

		for _, job := range jobs {
			if notifyErr := uc.notifier.Notify(ctx, *job); notifyErr != nil {
				retryAt := uc.nextAttempt(job.Attempts, now)
				if retryAt == nil {
					slog.Error("giving up on notification job", "job_id", job.ID, "topic", job.Topic, "error", notifyErr.Error())
				} else {
					slog.Warn("notification delivery failed", "job_id", job.ID, "topic", job.Topic, "retry_at", *retryAt, "error", notifyErr.Error())
				}
				if err := tx.Notifications().MarkFailed(ctx, tx.DB(), job.ID, notifyErr.Error(), retryAt, now); err != nil {
					return errs.Mark(err, errs.ErrDatabaseOperationFailed)
				}
				continue
			}
			if err := tx.Notifications().MarkSent(ctx, tx.DB(), job.ID, now); err != nil {
				return errs.Mark(err, errs.ErrDatabaseOperationFailed)
			}
			sent++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return sent, nil
}

func (uc *jobUseCaseImpl) nextAttempt(attempts int, now time.Time) *time.Time {
	attempts++
	if attempts >= uc.settings.MaxAttempts {
		return nil
	}
	at := now.Add(time.Duration(1<<(attempts-1)) * uc.settings.RetryBase)
	return &at
}

func (uc *jobUseCaseImpl) PurgeExpiredIdempotencyKeys(ctx context.Context) (int64, error) {
	var n int64
	err := uc.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		var err error
		n, err = tx.Idempotency().DeleteExpired(ctx, tx.DB(), uc.clock.Now())
		if err != nil {
			return errs.Mark(err, errs.ErrDatabaseOperationFailed)
		}
		return nil
	})
	return n, err
}
