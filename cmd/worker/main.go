package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/fulfilment-platform/fulfilment/internal/app"
	"github.com/fulfilment-platform/fulfilment/internal/legacy"
	"github.com/fulfilment-platform/fulfilment/internal/platform/db"
	"github.com/fulfilment-platform/fulfilment/internal/store"
	"github.com/fulfilment-platform/fulfilment/jobs"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	pool, err := db.New(ctx, cfg.PGDSN)
	if err != nil {
		logger.Error("connect database", slog.Any("error", err))
		os.Exit(1)
	}
	defer pool.Close()

	legacyClient := legacy.NewClient(cfg.LegacyStoreURL)
	if err := legacyClient.Ping(ctx); err != nil {
		logger.Warn("legacy system unreachable at startup", slog.Any("error", err))
	}

	storeRepo := store.NewRepository(pool)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: asynq.RedisClientOpt{Addr: cfg.RedisAddr},
		Logger:    logger,
		Handlers: []jobs.TaskHandler{
			{Type: jobs.TaskStoreLegacySync, Handler: jobs.NewStoreLegacySyncHandler(legacyClient, logger)},
			{Type: jobs.TaskStoreLegacyReconcile, Handler: jobs.NewStoreLegacyReconcileHandler(storeRepo, legacyClient, logger)},
		},
		Cron: []jobs.CronRegistration{
			{Spec: "30 2 * * *", Task: jobs.NewStoreLegacyReconcileTask(), Options: []asynq.Option{asynq.MaxRetry(3)}},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && err != context.Canceled {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
