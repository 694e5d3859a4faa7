package usecase

import (
	"context"

	"github.com/fastygo/taskboard/domain"
)

// OperationBuffer takes task writes that Postgres refused so they can be replayed later.
type OperationBuffer interface {
	BufferTaskCreate(ctx context.Context, task *domain.Task) error
	BufferTaskCompletion(ctx context.Context, userID, taskID, result string) error
	BufferProfile(ctx context.Context, userID string, profile domain.Profile) error
}
