package repository

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

// MaxTaskBatch is the largest Limit a TaskRepository honours.
const MaxTaskBatch = 1000

// TaskFilter selects the tasks of one user on one side of the assignment.
// Start/Limit are a page hint for the data layer, not the view page.
type TaskFilter struct {
	UserID string
	Scope  domain.TaskScope
	Start  int
	Limit  int
}

type TaskRepository interface {
	GetByID(ctx context.Context, id string) (*domain.Task, error)
	List(ctx context.Context, filter TaskFilter) ([]domain.Task, error)
	Create(ctx context.Context, task *domain.Task) (*domain.Task, error)
	Complete(ctx context.Context, id, result string) (*domain.Task, error)
}
