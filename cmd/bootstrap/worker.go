package bootstrap

import (
	"context"
	"log/slog"

	"poorito-booking/internal/pkg/config"
	"poorito-booking/internal/usecase/commands"
	"poorito-booking/internal/worker"

	"go.uber.org/fx"
)

var WorkerModule = fx.Module("worker",
	fx.Provide(
		NewWorker,
	),
	fx.Invoke(startWorker),
)

func NewWorker(jobs commands.JobCommands, cfg config.Config, logger *slog.Logger) *worker.Worker {
	return worker.New(jobs, cfg.Worker, logger)
}

func startWorker(lc fx.Lifecycle, w *worker.Worker, cfg config.Config, logger *slog.Logger) {
	if !cfg.Worker.Enabled {
		logger.Info("background worker disabled")
		return
	}
	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			w.Start()
			return nil
		},
		OnStop: func(_ context.Context) error {
			w.Stop()
			return nil
		},
	})
}
