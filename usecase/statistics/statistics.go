// Package statistics serves the user-statistic table, its KPIs and the caller's own counters.
package statistics

import (
	"context"
	"time"

	lru "github.com/hashicorp/golang-lru/v2"
	"go.uber.org/zap"
	"golang.org/x/text/language"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/locale"
	"github.com/fastygo/taskboard/repository"
	"github.com/fastygo/taskboard/usecase/pipeline"
)

const globalKey = "global"

type Config struct {
	Location      *time.Location
	SnapshotSlots int
	MemoSize      int
	KpiCacheSize  int
}

// Row is a user-statistic line with its absolute position in the sorted table.
type Row struct {
	Rank int `json:"rank"`
	domain.UserStatistic
	CompletionRate int `json:"done_rate"`
	OverdueRate    int `json:"overdue_rate"`
}

// Dashboard is one page of the statistic table plus the KPIs of the whole collection.
type Dashboard struct {
	Page pipeline.Page[Row] `json:"page"`
	KPI  domain.KpiSnapshot `json:"kpi"`
}

type kpiKey struct {
	version uint64
	tag     language.Tag
}

type UseCase struct {
	stats  repository.StatisticRepository
	cache  repository.StatisticCache
	views  *pipeline.Views[domain.UserStatistic]
	kpis   *lru.Cache[kpiKey, domain.KpiSnapshot]
	cfg    Config
	clock  func() time.Time
	logger *zap.Logger
}

// New wires the use case. cache may be nil.
func New(stats repository.StatisticRepository, cache repository.StatisticCache, cfg Config, logger *zap.Logger) (*UseCase, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.KpiCacheSize <= 0 {
		cfg.KpiCacheSize = 16
	}
	kpis, err := lru.New[kpiKey, domain.KpiSnapshot](cfg.KpiCacheSize)
	if err != nil {
		return nil, err
	}
	uc := &UseCase{
		stats:  stats,
		cache:  cache,
		kpis:   kpis,
		cfg:    cfg,
		clock:  time.Now,
		logger: logger,
	}
	views, err := pipeline.NewViews(pipeline.StatisticSchema, cfg.SnapshotSlots, cfg.MemoSize, uc.forgetKpis)
	if err != nil {
		return nil, err
	}
	uc.views = views
	return uc, nil
}

// WithClock replaces the wall clock, mainly for tests.
func (uc *UseCase) WithClock(clock func() time.Time) *UseCase {
	uc.clock = clock
	return uc
}

// Dashboard returns the requested page of the statistic table and the global KPIs.
// KPIs always cover the unfiltered collection.
func (uc *UseCase) Dashboard(ctx context.Context, params pipeline.Params, loc locale.Locale) (*Dashboard, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	today := uc.today()
	snap, err := uc.snapshot(ctx, today)
	if err != nil {
		return nil, err
	}

	page := uc.views.Derive(snap, params, today, loc)
	rows := make([]Row, len(page.Items))
	for i, s := range page.Items {
		rows[i] = Row{
			Rank:           page.Offset() + i + 1,
			UserStatistic:  s,
			CompletionRate: s.CompletionRate(),
			OverdueRate:    s.OverdueRate(),
		}
	}

	return &Dashboard{
		Page: pipeline.Page[Row]{
			Items:         rows,
			Total:         page.Total,
			TotalPages:    page.TotalPages,
			EffectivePage: page.EffectivePage,
			PageSize:      page.PageSize,
		},
		KPI: uc.kpi(snap, loc),
	}, nil
}

// My returns the caller's own counters, or nil for anonymous callers.
func (uc *UseCase) My(ctx context.Context, userID string) (*domain.MyStatistic, error) {
	if userID == "" {
		return nil, nil
	}
	return uc.stats.GetMyStatistic(ctx, userID, uc.today())
}

// Refresh drops cached deliveries so the next read goes to storage.
func (uc *UseCase) Refresh(ctx context.Context) {
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			uc.logger.Warn("statistic cache invalidation failed", zap.Error(err))
		}
	}
	uc.views.Invalidate(globalKey)
}

// Warm fetches the collection from storage and republishes it.
func (uc *UseCase) Warm(ctx context.Context) error {
	today := uc.today()
	ticket := uc.views.Ticket()
	stats, err := uc.stats.ListUserStatistics(ctx, today)
	if err != nil {
		return err
	}
	uc.store(ctx, today, stats)
	_, err = uc.views.Publish(globalKey, ticket, stats)
	return err
}

func (uc *UseCase) MemoStats() pipeline.MemoStats {
	return uc.views.Stats()
}

func (uc *UseCase) snapshot(ctx context.Context, today domain.Date) (*pipeline.Snapshot[domain.UserStatistic], error) {
	ticket := uc.views.Ticket()
	stats, err := uc.load(ctx, today)
	if err != nil {
		if snap, ok := uc.views.Current(globalKey); ok {
			uc.logger.Warn("serving cached statistic snapshot", zap.Error(err))
			return snap, nil
		}
		return nil, err
	}
	return uc.views.Publish(globalKey, ticket, stats)
}

func (uc *UseCase) load(ctx context.Context, today domain.Date) ([]domain.UserStatistic, error) {
	if uc.cache != nil {
		stats, err := uc.cache.Get(ctx, today)
		if err != nil {
			uc.logger.Warn("statistic cache read failed", zap.Error(err))
		} else if stats != nil {
			return stats, nil
		}
	}
	stats, err := uc.stats.ListUserStatistics(ctx, today)
	if err != nil {
		return nil, err
	}
	uc.store(ctx, today, stats)
	return stats, nil
}

func (uc *UseCase) store(ctx context.Context, today domain.Date, stats []domain.UserStatistic) {
	if uc.cache == nil {
		return
	}
	if err := uc.cache.Set(ctx, today, stats); err != nil {
		uc.logger.Warn("statistic cache write failed", zap.Error(err))
	}
}

func (uc *UseCase) kpi(snap *pipeline.Snapshot[domain.UserStatistic], loc locale.Locale) domain.KpiSnapshot {
	key := kpiKey{version: snap.Version, tag: loc.Tag}
	if kpi, ok := uc.kpis.Get(key); ok {
		return kpi
	}
	kpi := pipeline.Aggregate(snap.Items, loc)
	uc.kpis.Add(key, kpi)
	return kpi
}

func (uc *UseCase) forgetKpis(version uint64) {
	for _, key := range uc.kpis.Keys() {
		if key.version == version {
			uc.kpis.Remove(key)
		}
	}
}

func (uc *UseCase) today() domain.Date {
	return domain.DateOf(uc.clock().In(uc.cfg.Location))
}
