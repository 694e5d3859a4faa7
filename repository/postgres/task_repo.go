package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/repository"
)

const taskColumns = `id, title, description, deadline, status, author_id, performer_id, result, created_at, updated_at`

type taskRepository struct {
	pool *pgxpool.Pool
}

// NewTaskRepository returns a Postgres-backed implementation of TaskRepository.
func NewTaskRepository(pool *pgxpool.Pool) repository.TaskRepository {
	return &taskRepository{pool: pool}
}

func (r *taskRepository) GetByID(ctx context.Context, id string) (*domain.Task, error) {
	query := `SELECT ` + taskColumns + ` FROM tasks WHERE id = $1`
	row := r.pool.QueryRow(ctx, query, id)
	return scanTask(row)
}

func (r *taskRepository) List(ctx context.Context, filter repository.TaskFilter) ([]domain.Task, error) {
	column := "performer_id"
	if filter.Scope == domain.ScopeDelegated {
		column = "author_id"
	}
	query := `SELECT ` + taskColumns + ` FROM tasks
	WHERE ` + column + ` = $1
	ORDER BY deadline ASC, id ASC
	LIMIT $2 OFFSET $3`

	start := filter.Start
	if start < 0 {
		start = 0
	}
	rows, err := r.pool.Query(ctx, query, filter.UserID, clampLimit(filter.Limit), start)
	if err != nil {
		return nil, fmt.Errorf("list %s tasks: %w", filter.Scope, err)
	}
	defer rows.Close()

	tasks := []domain.Task{}
	for rows.Next() {
		task, err := scanTask(rows)
		if err != nil {
			return nil, err
		}
		tasks = append(tasks, *task)
	}
	return tasks, rows.Err()
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	if task.ID == "" {
		task.ID = uuid.NewString()
	}
	if task.Status == "" {
		task.Status = domain.StatusInWork
	}

	const query = `
	INSERT INTO tasks (id, title, description, deadline, status, author_id, performer_id, result)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	RETURNING created_at, updated_at
	`

	if err := r.pool.QueryRow(ctx, query,
		task.ID,
		task.Title,
		task.Description,
		dateArg(task.Deadline),
		string(task.Status),
		task.AuthorID,
		task.PerformerID,
		task.Result,
	).Scan(&task.CreatedAt, &task.UpdatedAt); err != nil {
		return nil, storageError("create task", err)
	}

	return task, nil
}

// Complete moves an in-work task to completed and attaches the result text.
func (r *taskRepository) Complete(ctx context.Context, id, result string) (*domain.Task, error) {
	query := `
	UPDATE tasks
	SET status = 'completed',
		result = $2,
		updated_at = NOW()
	WHERE id = $1 AND status = 'in-work'
	RETURNING ` + taskColumns

	task, err := scanTask(r.pool.QueryRow(ctx, query, id, result))
	if err == nil {
		return task, nil
	}
	if !errors.Is(err, domain.ErrTaskNotFound) {
		return nil, storageError("complete task", err)
	}

	current, getErr := r.GetByID(ctx, id)
	if getErr != nil {
		return nil, getErr
	}
	if current.IsCompleted() {
		return nil, domain.ErrAlreadyCompleted
	}
	return nil, domain.ErrTaskNotFound
}

func scanTask(row interface {
	Scan(dest ...interface{}) error
}) (*domain.Task, error) {
	var (
		task     domain.Task
		deadline *time.Time
		status   string
	)

	if err := row.Scan(
		&task.ID,
		&task.Title,
		&task.Description,
		&deadline,
		&status,
		&task.AuthorID,
		&task.PerformerID,
		&task.Result,
		&task.CreatedAt,
		&task.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}

	task.Deadline = toDate(deadline)
	task.Status = domain.StoredStatus(status)
	return &task, nil
}
