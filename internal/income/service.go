package income

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/tillstack/tillstack/internal/platform/kv"
)

// Dashboard is the aggregated payload the income page renders: the filtered,
// newest-first records plus their stats and the resolved period label.
type Dashboard struct {
	Workspace   string   `json:"workspace"`
	PeriodLabel string   `json:"periodLabel"`
	Stats       Stats    `json:"stats"`
	Records     []Record `json:"records"`
}

// Service coordinates loading, filtering, aggregation and report assembly
// against the store, with cache-aware dashboard lookups.
type Service struct {
	store            kv.Store
	loader           *Loader
	cache            *Cache
	logger           *slog.Logger
	defaultWorkspace string
	defaultBusiness  string
	now              func() time.Time
}

// NewService wires the engine together. cache may be nil, disabling caching.
func NewService(store kv.Store, cache *Cache, logger *slog.Logger, defaultWorkspace, defaultBusiness string) *Service {
	return &Service{
		store:            store,
		loader:           NewLoader(store, logger),
		cache:            cache,
		logger:           logger,
		defaultWorkspace: defaultWorkspace,
		defaultBusiness:  defaultBusiness,
		now:              time.Now,
	}
}

// WithNow overrides the service clock for testing. The same instant drives
// date-window resolution and report timestamps.
func (s *Service) WithNow(fn func() time.Time) *Service {
	if fn != nil {
		s.now = fn
		s.loader.WithNow(fn)
	}
	return s
}

// ActiveWorkspace resolves the selected workspace, falling back to the
// configured default.
func (s *Service) ActiveWorkspace(ctx context.Context) string {
	ws, err := s.store.Get(ctx, kv.KeyActiveWorkspace)
	if err != nil || ws == "" {
		if err != nil && !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn("income: read active workspace", slog.Any("error", err))
		}
		return s.defaultWorkspace
	}
	return ws
}

// BusinessName resolves the display name used in export filenames and
// headers.
func (s *Service) BusinessName(ctx context.Context) string {
	name, err := s.store.Get(ctx, kv.KeyBusinessName)
	if err != nil || name == "" {
		if err != nil && !errors.Is(err, kv.ErrNotFound) {
			s.logger.Warn("income: read business name", slog.Any("error", err))
		}
		return s.defaultBusiness
	}
	return name
}

// Records loads and merges all five sources for the active workspace.
func (s *Service) Records(ctx context.Context, workspaceID string) []Record {
	return s.loader.Load(ctx, workspaceID)
}

// GetDashboard computes (or fetches from cache) the dashboard payload for
// the active workspace and the given filter.
func (s *Service) GetDashboard(ctx context.Context, f Filter) (Dashboard, error) {
	return s.GetDashboardFor(ctx, s.ActiveWorkspace(ctx), f)
}

// GetDashboardFor computes (or fetches from cache) the dashboard payload for
// an explicit workspace. Background warmers use this to rebuild workspaces
// other than the active one.
func (s *Service) GetDashboardFor(ctx context.Context, workspace string, f Filter) (Dashboard, error) {
	if workspace == "" {
		workspace = s.ActiveWorkspace(ctx)
	}

	loader := func(ctx context.Context) (interface{}, error) {
		return s.buildDashboard(ctx, workspace, f), nil
	}

	if s.cache == nil {
		return s.buildDashboard(ctx, workspace, f), nil
	}

	key, err := s.cache.BuildKey(ctx, keyDashboard(workspace, f))
	if err != nil {
		return Dashboard{}, err
	}
	var dash Dashboard
	if err := s.cache.FetchJSON(ctx, key, &dash, loader); err != nil {
		return Dashboard{}, err
	}
	return dash, nil
}

func (s *Service) buildDashboard(ctx context.Context, workspace string, f Filter) Dashboard {
	records := s.loader.Load(ctx, workspace)
	filtered := Apply(records, f, s.now())
	return Dashboard{
		Workspace:   workspace,
		PeriodLabel: f.Range.Label(),
		Stats:       Compute(filtered),
		Records:     filtered,
	}
}

// GetReport builds the ephemeral report for the selector and filter. It is
// computed fresh on every call and never cached.
func (s *Service) GetReport(ctx context.Context, sel Selector, f Filter) Report {
	workspace := s.ActiveWorkspace(ctx)
	now := s.now()
	records := s.loader.Load(ctx, workspace)
	filtered := Apply(records, f, now)
	stats := Compute(filtered)
	return BuildReport(sel, filtered, stats, f.Range.Label(), now)
}

// Invalidate bumps the cache version after a store change. Safe with a nil
// cache.
func (s *Service) Invalidate(ctx context.Context) {
	if err := s.cache.Bump(ctx); err != nil {
		s.logger.Warn("income: cache bump", slog.Any("error", err))
	}
}
