package jobs

import (
	"context"
	"encoding/json"

	"github.com/hibiken/asynq"
)

const (
	// QueueDefault is the default queue name for background jobs.
	QueueDefault = "default"
	// TaskIncomeRefresh rebuilds the cached income dashboard for a workspace.
	TaskIncomeRefresh = "income:refresh"
	// TaskIncomeWarmup fans out refresh tasks across all known workspaces.
	TaskIncomeWarmup = "income:warmup"
)

// IncomeRefreshPayload identifies which workspace to rebuild.
type IncomeRefreshPayload struct {
	Workspace string `json:"workspace"`
}

// NewIncomeRefreshTask constructs an Asynq task for one workspace rebuild.
func NewIncomeRefreshTask(payload IncomeRefreshPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIncomeRefresh, data), nil
}

// IncomeWarmupPayload configures the warmup fan-out.
type IncomeWarmupPayload struct {
	Concurrency int `json:"concurrency"`
}

// NewIncomeWarmupTask constructs an Asynq warmup task.
func NewIncomeWarmupTask(payload IncomeWarmupPayload) (*asynq.Task, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskIncomeWarmup, data), nil
}

// Client submits jobs to the queue.
type Client struct {
	client *asynq.Client
}

// NewClient constructs an Asynq client.
func NewClient(redisOpts asynq.RedisClientOpt) *Client {
	return &Client{client: asynq.NewClient(redisOpts)}
}

// EnqueueIncomeRefresh enqueues a refresh task for one workspace.
func (c *Client) EnqueueIncomeRefresh(ctx context.Context, payload IncomeRefreshPayload) (*asynq.TaskInfo, error) {
	task, err := NewIncomeRefreshTask(payload)
	if err != nil {
		return nil, err
	}
	return c.client.EnqueueContext(ctx, task, asynq.Queue(QueueDefault))
}

// Close releases the underlying client.
func (c *Client) Close() error {
	return c.client.Close()
}
