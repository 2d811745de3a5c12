// Package worker runs the periodic outbox relay and idempotency key purge.
package worker

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"poorito-booking/internal/pkg/config"
	"poorito-booking/internal/usecase/commands"
)

const runTimeout = 30 * time.Second

type Worker struct {
	jobs   commands.JobCommands
	cfg    config.WorkerConfig
	logger *slog.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func New(jobs commands.JobCommands, cfg config.WorkerConfig, logger *slog.Logger) *Worker {
	return &Worker{jobs: jobs, cfg: cfg, logger: logger}
}

// Start launches both loops. Each runs once immediately.
func (w *Worker) Start() {
	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel

	w.wg.Add(2)
	go w.loop(ctx, "notification relay", w.cfg.NotifyInterval, w.relay)
	go w.loop(ctx, "idempotency purge", w.cfg.IdempotencyPurgeEvery, w.purge)
	w.logger.Info("worker started",
		"notify_interval", w.cfg.NotifyInterval,
		"purge_interval", w.cfg.IdempotencyPurgeEvery,
	)
}

// Stop cancels the loops and waits for an in-flight run to return.
func (w *Worker) Stop() {
	if w.cancel == nil {
		return
	}
	w.cancel()
	w.wg.Wait()
	w.logger.Info("worker stopped")
}

func (w *Worker) loop(ctx context.Context, name string, interval time.Duration, run func(context.Context)) {
	defer w.wg.Done()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.runOnce(ctx, run)
	for {
		select {
		case <-ctx.Done():
			w.logger.Debug("worker loop exited", "loop", name)
			return
		case <-ticker.C:
			w.runOnce(ctx, run)
		}
	}
}

func (w *Worker) runOnce(ctx context.Context, run func(context.Context)) {
	runCtx, cancel := context.WithTimeout(ctx, runTimeout)
	defer cancel()
	run(runCtx)
}

func (w *Worker) relay(ctx context.Context) {
	sent, err := w.jobs.RelayNotifications(ctx)
	if err != nil {
		w.logger.Error("notification relay failed", "error", err)
		return
	}
	if sent > 0 {
		w.logger.Info("notifications relayed", "sent", sent)
	}
}

func (w *Worker) purge(ctx context.Context) {
	deleted, err := w.jobs.PurgeExpiredIdempotencyKeys(ctx)
	if err != nil {
		w.logger.Error("idempotency purge failed", "error", err)
		return
	}
	if deleted > 0 {
		w.logger.Info("expired idempotency keys purged", "deleted", deleted)
	}
}
