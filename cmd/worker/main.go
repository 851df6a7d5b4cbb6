package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/hibiken/asynq"

	"github.com/tillstack/tillstack/internal/app"
	"github.com/tillstack/tillstack/internal/income"
	jobmetrics "github.com/tillstack/tillstack/internal/jobs"
	"github.com/tillstack/tillstack/internal/platform/kv"
	"github.com/tillstack/tillstack/jobs"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping worker startup")
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := app.LoadConfig()
	if err != nil {
		slog.Default().Error("load config", slog.Any("error", err))
		os.Exit(1)
	}

	logger := app.NewLogger(cfg)

	redisClient, err := kv.NewClient(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Error("connect redis", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Warn("redis close", slog.Any("error", err))
		}
	}()

	store := kv.NewRedisStore(redisClient)
	cache := income.NewCache(redisClient, cfg.CacheTTL)
	incomeService := income.NewService(store, cache, logger, cfg.DefaultWorkspace, cfg.BusinessName)

	jm := jobmetrics.NewMetrics(nil)
	refreshJob := jobs.NewIncomeRefreshJob(incomeService, logger, jm)
	warmupJob := jobs.NewIncomeWarmupJob(incomeService, store, logger, jm, cfg.DefaultWorkspace)

	warmupTask, err := jobs.NewIncomeWarmupTask(jobs.IncomeWarmupPayload{})
	if err != nil {
		logger.Error("build warmup task", slog.Any("error", err))
		os.Exit(1)
	}

	redisOpts := asynq.RedisClientOpt{Addr: cfg.RedisAddr}
	worker, err := jobs.NewWorker(jobs.WorkerConfig{
		RedisOpts: redisOpts,
		Logger:    logger,
		Refresh:   refreshJob,
		Warmup:    warmupJob,
		Cron: []jobs.CronRegistration{
			{Spec: cfg.WarmupCron, Task: warmupTask},
		},
	})
	if err != nil {
		logger.Error("build worker", slog.Any("error", err))
		os.Exit(1)
	}

	jobClient := jobs.NewClient(redisOpts)
	defer func() {
		if err := jobClient.Close(); err != nil {
			logger.Warn("job client close", slog.Any("error", err))
		}
	}()

	listener := &jobs.InvalidationListener{
		Redis:   redisClient,
		Service: incomeService,
		Client:  jobClient,
		Logger:  logger,
	}
	go func() {
		if err := listener.Run(ctx); err != nil && ctx.Err() == nil {
			logger.Error("invalidation listener stopped", slog.Any("error", err))
		}
	}()

	logger.Info("starting worker")
	if err := worker.Run(ctx); err != nil && ctx.Err() == nil {
		logger.Error("worker stopped", slog.Any("error", err))
		os.Exit(1)
	}
}
