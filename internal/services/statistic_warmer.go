package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Warmer refreshes a cached collection ahead of reads.
type Warmer interface {
	Warm(ctx context.Context) error
}

// StatisticWarmer keeps the statistic snapshot and its Redis copy hot so the
// first dashboard read after expiry does not pay for the aggregate query.
type StatisticWarmer struct {
	target   Warmer
	monitor  ConnectionHealth
	interval time.Duration
	cron     *cron.Cron
	logger   *zap.Logger
}

func NewStatisticWarmer(target Warmer, monitor ConnectionHealth, interval time.Duration, logger *zap.Logger) *StatisticWarmer {
	if interval <= 0 {
		interval = time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &StatisticWarmer{
		target:   target,
		monitor:  monitor,
		interval: interval,
		cron:     cron.New(cron.WithSeconds(), cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger))),
		logger:   logger,
	}
	schedule := fmt.Sprintf("@every %ds", max(1, int(interval.Seconds())))
	_, _ = w.cron.AddFunc(schedule, w.run)
	return w
}

func (w *StatisticWarmer) Start() {
	w.cron.Start()
	w.logger.Info("statistic warmer started", zap.Duration("interval", w.interval))
}

func (w *StatisticWarmer) Stop(ctx context.Context) {
	stopCtx := w.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
}

func (w *StatisticWarmer) run() {
	if w.monitor != nil && !w.monitor.IsOnline() {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), w.interval)
	defer cancel()
	if err := w.target.Warm(ctx); err != nil {
		w.logger.Warn("statistic warmup failed", zap.Error(err))
	}
}
