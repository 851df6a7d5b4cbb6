package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/hibiken/asynq"

	"github.com/tillstack/tillstack/internal/income"
	jobmetrics "github.com/tillstack/tillstack/internal/jobs"
)

var defaultJobMetrics = jobmetrics.NewMetrics(nil)

// warmFilters are the dashboard shapes rebuilt ahead of demand: one per
// standard date range, all sources, all methods.
var warmFilters = []income.Filter{
	{Range: income.DateRange{Kind: income.RangeToday}},
	{Range: income.DateRange{Kind: income.RangeWeek}},
	{Range: income.DateRange{Kind: income.RangeMonth}},
	{Range: income.DateRange{Kind: income.RangeYear}},
}

// IncomeRefreshJob rebuilds the cached dashboard aggregates for a workspace
// after the underlying store changed.
type IncomeRefreshJob struct {
	Service *income.Service
	Logger  *slog.Logger
	Metrics *jobmetrics.Metrics
	clock   func() time.Time
}

// NewIncomeRefreshJob wires dependencies for the refresh handler.
func NewIncomeRefreshJob(service *income.Service, logger *slog.Logger, metrics *jobmetrics.Metrics) *IncomeRefreshJob {
	return &IncomeRefreshJob{
		Service: service,
		Logger:  logger,
		Metrics: metrics,
		clock: func() time.Time {
			return time.Now().UTC()
		},
	}
}

func (j *IncomeRefreshJob) metrics() *jobmetrics.Metrics {
	if j.Metrics != nil {
		return j.Metrics
	}
	return defaultJobMetrics
}

func (j *IncomeRefreshJob) logger() *slog.Logger {
	if j.Logger != nil {
		return j.Logger
	}
	return slog.Default()
}

// Handle processes income refresh tasks. Each warm filter is computed once so
// the next dashboard request hits a fresh cache entry.
func (j *IncomeRefreshJob) Handle(ctx context.Context, t *asynq.Task) error {
	if j == nil || j.Service == nil {
		return errors.New("income refresh: handler not configured")
	}
	var payload IncomeRefreshPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return asynq.SkipRetry
	}

	tracker := j.metrics().Track(TaskIncomeRefresh)
	var resultErr error
	defer func() {
		resultErr = tracker.End(resultErr)
	}()

	logger := j.logger().With(slog.String("workspace", payload.Workspace))
	logger.Info("starting income refresh")

	for _, filter := range warmFilters {
		if _, err := j.Service.GetDashboardFor(ctx, payload.Workspace, filter); err != nil {
			resultErr = err
			logger.Error("refresh dashboard",
				slog.String("range", string(filter.Range.Kind)), slog.Any("error", err))
			return resultErr
		}
	}

	logger.Info("income refresh complete", slog.Int("shapes", len(warmFilters)))
	return resultErr
}
