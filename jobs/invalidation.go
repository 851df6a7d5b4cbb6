package jobs

import (
	"context"
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/tillstack/tillstack/internal/income"
	"github.com/tillstack/tillstack/internal/platform/kv"
)

// InvalidationListener reacts to store-change notifications: every message
// bumps the dashboard cache version and enqueues a refresh for the active
// workspace. A workspace switch arrives on the same channel and is handled
// identically, which realises the wholesale-reload contract.
type InvalidationListener struct {
	Redis   *redis.Client
	Service *income.Service
	Client  *Client
	Logger  *slog.Logger
}

// Run blocks listening for change notifications until ctx is cancelled.
func (l *InvalidationListener) Run(ctx context.Context) error {
	if l == nil || l.Redis == nil || l.Service == nil {
		return errors.New("invalidation listener: not configured")
	}
	return kv.Subscribe(ctx, l.Redis, func(key string) {
		l.Service.Invalidate(ctx)
		if l.Client == nil {
			return
		}
		workspace := l.Service.ActiveWorkspace(ctx)
		if _, err := l.Client.EnqueueIncomeRefresh(ctx, IncomeRefreshPayload{Workspace: workspace}); err != nil {
			l.Logger.Warn("invalidation: enqueue refresh",
				slog.String("key", key), slog.Any("error", err))
		}
	})
}
