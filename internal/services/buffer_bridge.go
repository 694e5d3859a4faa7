package services

import (
	"context"
	"encoding/json"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/internal/infrastructure/buffer"
	"github.com/fastygo/taskboard/usecase"
)

// BufferBridge turns use case writes into buffer items.
type BufferBridge struct {
	processor *BufferProcessor
}

func NewBufferBridge(processor *BufferProcessor) *BufferBridge {
	return &BufferBridge{processor: processor}
}

func (b *BufferBridge) BufferTaskCreate(ctx context.Context, task *domain.Task) error {
	if b.processor == nil || task == nil {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(task)
	if err != nil {
		return err
	}
	return b.processor.BufferOperation(ctx, buffer.Item{
		ID:        task.ID,
		UserID:    task.AuthorID,
		Entity:    buffer.EntityTask,
		Operation: buffer.OperationCreate,
		Data:      payload,
		Priority:  3,
	})
}

// BufferTaskCompletion uses a larger priority number than creation, so a buffered
// create of the same task is always replayed first.
func (b *BufferBridge) BufferTaskCompletion(ctx context.Context, userID, taskID, result string) error {
	if b.processor == nil || taskID == "" {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(buffer.Completion{TaskID: taskID, Result: result})
	if err != nil {
		return err
	}
	return b.processor.BufferOperation(ctx, buffer.Item{
		UserID:    userID,
		Entity:    buffer.EntityTask,
		Operation: buffer.OperationComplete,
		Data:      payload,
		Priority:  4,
	})
}

func (b *BufferBridge) BufferProfile(ctx context.Context, userID string, profile domain.Profile) error {
	if b.processor == nil || userID == "" {
		return domain.ErrInvalidPayload
	}
	payload, err := json.Marshal(profile)
	if err != nil {
		return err
	}
	return b.processor.BufferOperation(ctx, buffer.Item{
		UserID:    userID,
		Entity:    buffer.EntityProfile,
		Operation: buffer.OperationUpdate,
		Data:      payload,
		Priority:  2,
	})
}

var _ usecase.OperationBuffer = (*BufferBridge)(nil)
