package repository

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

// StatisticRepository aggregates task counters per user. In-work tasks whose
// deadline is before today are counted as failed.
type StatisticRepository interface {
	ListUserStatistics(ctx context.Context, today domain.Date) ([]domain.UserStatistic, error)
	GetMyStatistic(ctx context.Context, userID string, today domain.Date) (*domain.MyStatistic, error)
}

// StatisticCache keeps the last global statistic delivery for a short time.
type StatisticCache interface {
	Get(ctx context.Context, today domain.Date) ([]domain.UserStatistic, error)
	Set(ctx context.Context, today domain.Date, stats []domain.UserStatistic) error
	Invalidate(ctx context.Context) error
}
