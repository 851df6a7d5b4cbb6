package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/tillstack/tillstack/internal/app"
	"github.com/tillstack/tillstack/internal/feedback"
	"github.com/tillstack/tillstack/internal/income"
	incomehttp "github.com/tillstack/tillstack/internal/income/http"
	"github.com/tillstack/tillstack/internal/observability"
	"github.com/tillstack/tillstack/internal/platform/kv"
)

func main() {
	if app.InTestMode() {
		slog.Default().Info("test mode detected, skipping runtime startup")
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

	metrics := observability.NewMetrics()
	incomeHandler := incomehttp.NewHandler(logger, incomeService, metrics)

	feedbackService := feedback.NewService(store, logger)
	feedbackHandler := feedback.NewHandler(logger, feedbackService)

	router := app.NewRouter(app.RouterParams{
		Logger:          logger,
		Config:          cfg,
		IncomeHandler:   incomeHandler,
		FeedbackHandler: feedbackHandler,
		Metrics:         metrics,
	})

	server := &http.Server{
		Addr:         cfg.AppAddr,
		Handler:      router,
		ReadTimeout:  cfg.AppReadTimeout,
		WriteTimeout: cfg.AppWriteTimeout,
	}

	go func() {
		logger.Info("starting http server", slog.String("addr", cfg.AppAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("http server", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown", slog.Any("error", err))
	}
}
