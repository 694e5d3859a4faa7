package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

type statisticRepository struct {
	pool *pgxpool.Pool
}

// NewStatisticRepository returns a Postgres-backed StatisticRepository.
func NewStatisticRepository(pool *pgxpool.Pool) repository.StatisticRepository {
	return &statisticRepository{pool: pool}
}

func (r *statisticRepository) ListUserStatistics(ctx context.Context, today domain.Date) ([]domain.UserStatistic, error) {
	const query = `
	SELECT u.id, u.name, u.avatar,
		COUNT(t.id) FILTER (WHERE t.status = 'completed'),
		COUNT(t.id) FILTER (WHERE t.status = 'in-work' AND t.deadline >= $1),
		COUNT(t.id) FILTER (WHERE t.status = 'in-work' AND t.deadline < $1)
	FROM users u
	LEFT JOIN tasks t ON t.performer_id = u.id
	GROUP BY u.id, u.name, u.avatar
	ORDER BY u.id
	`
	rows, err := r.pool.Query(ctx, query, today.Time())
	if err != nil {
		return nil, fmt.Errorf("list user statistics: %w", err)
	}
	defer rows.Close()

	stats := []domain.UserStatistic{}
	for rows.Next() {
		var s domain.UserStatistic
		if err := rows.Scan(&s.ID, &s.Name, &s.Avatar, &s.Completed, &s.InWork, &s.Failed); err != nil {
			return nil, err
		}
		stats = append(stats, s)
	}
	return stats, rows.Err()
}

func (r *statisticRepository) GetMyStatistic(ctx context.Context, userID string, today domain.Date) (*domain.MyStatistic, error) {
	const query = `
	SELECT
		COUNT(*) FILTER (WHERE status = 'completed'),
		COUNT(*) FILTER (WHERE status = 'in-work' AND deadline >= $2),
		COUNT(*) FILTER (WHERE status = 'in-work' AND deadline < $2)
	FROM tasks
	WHERE performer_id = $1
	`
	var s domain.MyStatistic
	if err := r.pool.QueryRow(ctx, query, userID, today.Time()).Scan(&s.Completed, &s.InWork, &s.Failed); err != nil {
		return nil, fmt.Errorf("get statistic of %s: %w", userID, err)
	}
	return &s, nil
}
