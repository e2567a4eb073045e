package main

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/SscSPs/general_ledger/internal/jobs"
	"github.com/SscSPs/general_ledger/internal/platform/bootstrap"
	"github.com/SscSPs/general_ledger/internal/platform/config"
)

// verifyOpenSchedule runs the nightly projection check over every open period.
const verifyOpenSchedule = "0 3 * * *"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := config.NewLogger(cfg)
	slog.SetDefault(logger)

	if cfg.RedisAddr == "" {
		logger.Error("REDIS_ADDR is required for the worker")
		os.Exit(1)
	}
	if cfg.Storage != config.StoragePgsql {
		logger.Error("worker needs shared storage", slog.String("storage", cfg.Storage))
		os.Exit(1)
	}

	rt, err := bootstrap.Build(ctx, cfg, logger, bootstrap.Options{})
	if err != nil {
		logger.Error("init runtime", slog.Any("error", err))
		os.Exit(1)
	}
	defer rt.Close()

	projection := jobs.NewProjectionHandlers(rt.Services.Ledger, rt.Repos.PeriodRepo, logger)

	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts:   bootstrap.RedisConnOpt(cfg),
		Logger:      logger,
		Concurrency: cfg.WorkerConcurrency,
		Handlers:    projection.Handlers(),
		Cron: []jobs.CronRegistration{
			{Spec: verifyOpenSchedule, Task: jobs.NewProjectionVerifyOpenTask()},
		},
	})
	if err != nil {
		logger.Error("init worker", slog.Any("error", err))
		os.Exit(1)
	}

	if err := worker.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		logger.Error("worker run", slog.Any("error", err))
		os.Exit(1)
	}
}
