package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/hibiken/asynq"
	"golang.org/x/sync/errgroup"

	"github.com/tillstack/tillstack/internal/income"
	jobmetrics "github.com/tillstack/tillstack/internal/jobs"
	"github.com/tillstack/tillstack/internal/platform/kv"
)

const defaultWarmupConcurrency = 4

// IncomeWarmupJob pre-populates dashboard caches for every known workspace.
type IncomeWarmupJob struct {
	Service   *income.Service
	Store     kv.Store
	Logger    *slog.Logger
	Metrics   *jobmetrics.Metrics
	Fallback  string
	refresher *IncomeRefreshJob
}

// NewIncomeWarmupJob wires dependencies for the warmup handler. fallback is
// the workspace used when the store lists none.
func NewIncomeWarmupJob(service *income.Service, store kv.Store, logger *slog.Logger, metrics *jobmetrics.Metrics, fallback string) *IncomeWarmupJob {
	return &IncomeWarmupJob{
		Service:   service,
		Store:     store,
		Logger:    logger,
		Metrics:   metrics,
		Fallback:  fallback,
		refresher: NewIncomeRefreshJob(service, logger, metrics),
	}
}

func (j *IncomeWarmupJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *IncomeWarmupJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

// workspaces resolves the workspace list from the store, falling back to the
// configured default.
func (j *IncomeWarmupJob) workspaces(ctx context.Context) []string {
	raw, err := j.Store.Get(ctx, kv.KeyWorkspaces)
	if err == nil {
		var list []string
		if jsonErr := json.Unmarshal([]byte(raw), &list); jsonErr == nil && len(list) > 0 {
			return list
		}
	} else if !errors.Is(err, kv.ErrNotFound) {
		j.logger().Warn("warmup: read workspaces", slog.Any("error", err))
	}
	return []string{j.Fallback}
}

// Handle processes warmup tasks, fanning refreshes out across workspaces.
func (j *IncomeWarmupJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil || j.Store == nil {
		return errors.New("income warmup: handler not configured")
	}
	var payload IncomeWarmupPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}
	if payload.Concurrency <= 0 {
		payload.Concurrency = defaultWarmupConcurrency
	}

	tracker := j.metrics().Track(TaskIncomeWarmup)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	workspaces := j.workspaces(ctx)
	j.logger().Info("starting income warmup", slog.Int("workspaces", len(workspaces)))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(payload.Concurrency)
	for _, ws := range workspaces {
		ws := ws
		g.Go(func() error {
			task, err := NewIncomeRefreshTask(IncomeRefreshPayload{Workspace: ws})
			if err != nil {
				return err
			}
			return j.refresher.Handle(gctx, task)
		})
	}
	resultErr = g.Wait()
	return resultErr
}
