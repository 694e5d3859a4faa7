package task

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/locale"
	"github.com/fastygo/taskboard/repository"
	"github.com/fastygo/taskboard/usecase"
	"github.com/fastygo/taskboard/usecase/pipeline"
)

// Config tunes the task views.
type Config struct {
	Location      *time.Location
	FetchLimit    int
	SnapshotSlots int
	MemoSize      int
}

// View is a task together with its effective status on the day it was derived.
type View struct {
	domain.Task
	Effective    domain.EffectiveStatus `json:"effective_status"`
	OverdueDays  int                    `json:"overdue_days,omitempty"`
	OverdueLabel string                 `json:"overdue_label,omitempty"`
}

// CreateInput is what an author supplies for a new task.
type CreateInput struct {
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Deadline    domain.Date `json:"deadline"`
	PerformerID string      `json:"performer_id"`
}

type UseCase struct {
	tasks    repository.TaskRepository
	users    repository.UserRepository
	buffer   usecase.OperationBuffer
	views    *pipeline.Views[domain.Task]
	cfg      Config
	clock    func() time.Time
	onChange []func(ctx context.Context)
	logger   *zap.Logger
}

func New(
	tasks repository.TaskRepository,
	users repository.UserRepository,
	buffer usecase.OperationBuffer,
	cfg Config,
	logger *zap.Logger,
) (*UseCase, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.FetchLimit <= 0 || cfg.FetchLimit > repository.MaxTaskBatch {
		cfg.FetchLimit = repository.MaxTaskBatch
	}
	views, err := pipeline.NewViews(pipeline.TaskSchema, cfg.SnapshotSlots, cfg.MemoSize)
	if err != nil {
		return nil, err
	}
	return &UseCase{
		tasks:  tasks,
		users:  users,
		buffer: buffer,
		views:  views,
		cfg:    cfg,
		clock:  time.Now,
		logger: logger,
	}, nil
}

// WithClock replaces the wall clock, mainly for tests.
func (uc *UseCase) WithClock(clock func() time.Time) *UseCase {
	uc.clock = clock
	return uc
}

// OnChange registers a callback run after a task was created or completed.
func (uc *UseCase) OnChange(fn func(ctx context.Context)) {
	uc.onChange = append(uc.onChange, fn)
}

// List returns one page of the caller's tasks in scope.
func (uc *UseCase) List(ctx context.Context, userID string, scope domain.TaskScope, params pipeline.Params, loc locale.Locale) (pipeline.Page[View], error) {
	if userID == "" {
		return pipeline.Page[View]{}, domain.ErrUnauthorized
	}
	if scope != domain.ScopeMy && scope != domain.ScopeDelegated {
		return pipeline.Page[View]{}, domain.NewError(domain.ErrCodeInvalid, "unknown task scope "+string(scope))
	}
	if err := params.Validate(); err != nil {
		return pipeline.Page[View]{}, err
	}

	key := snapshotKey(scope, userID)
	ticket := uc.views.Ticket()
	items, err := uc.fetchAll(ctx, userID, scope)
	if err != nil {
		snap, ok := uc.views.Current(key)
		if !ok {
			return pipeline.Page[View]{}, err
		}
		uc.logger.Warn("serving cached task snapshot", zap.String("scope", string(scope)), zap.Error(err))
		return uc.derive(snap, params, loc), nil
	}

	snap, err := uc.views.Publish(key, ticket, items)
	if err != nil {
		return pipeline.Page[View]{}, err
	}
	return uc.derive(snap, params, loc), nil
}

// fetchAll reads the whole scope in FetchLimit-sized batches so views are
// derived from the complete collection.
func (uc *UseCase) fetchAll(ctx context.Context, userID string, scope domain.TaskScope) ([]domain.Task, error) {
	var all []domain.Task
	for {
		batch, err := uc.tasks.List(ctx, repository.TaskFilter{
			UserID: userID,
			Scope:  scope,
			Start:  len(all),
			Limit:  uc.cfg.FetchLimit,
		})
		if err != nil {
			return nil, err
		}
		all = append(all, batch...)
		if len(batch) < uc.cfg.FetchLimit {
			return all, nil
		}
	}
}

func (uc *UseCase) derive(snap *pipeline.Snapshot[domain.Task], params pipeline.Params, loc locale.Locale) pipeline.Page[View] {
	now := uc.now()
	page := uc.views.Derive(snap, params, domain.DateOf(now), loc)

	views := make([]View, len(page.Items))
	for i, t := range page.Items {
		res := pipeline.ResolveStatus(t, now, loc)
		views[i] = View{
			Task:         t,
			Effective:    res.Status,
			OverdueDays:  res.OverdueDays,
			OverdueLabel: res.OverdueLabel,
		}
	}
	return pipeline.Page[View]{
		Items:         views,
		Total:         page.Total,
		TotalPages:    page.TotalPages,
		EffectivePage: page.EffectivePage,
		PageSize:      page.PageSize,
	}
}

// Create stores a new in-work task authored by authorID.
func (uc *UseCase) Create(ctx context.Context, authorID string, in CreateInput) (*domain.Task, error) {
	if authorID == "" {
		return nil, domain.ErrUnauthorized
	}
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "title is required")
	}
	if in.PerformerID == "" {
		return nil, domain.NewError(domain.ErrCodeInvalid, "performer is required")
	}
	if in.Deadline.IsZero() {
		return nil, domain.NewError(domain.ErrCodeInvalid, "deadline is required")
	}
	if _, err := uc.users.GetByID(ctx, in.PerformerID); err != nil {
		return nil, err
	}

	now := uc.clock().UTC()
	task := &domain.Task{
		ID:          uuid.NewString(),
		Title:       title,
		Description: strings.TrimSpace(in.Description),
		Deadline:    in.Deadline,
		Status:      domain.StatusInWork,
		AuthorID:    authorID,
		PerformerID: in.PerformerID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := uc.tasks.Create(ctx, task)
	if err != nil {
		if !uc.bufferCreate(ctx, task, err) {
			return nil, err
		}
		created = task
	}
	uc.changed(ctx, created)
	return created, nil
}

// Complete marks the caller's task completed, storing the comment with a
// completion stamp and, for overdue tasks, how late it was.
func (uc *UseCase) Complete(ctx context.Context, userID, taskID, comment string, loc locale.Locale) (*domain.Task, error) {
	if userID == "" {
		return nil, domain.ErrUnauthorized
	}
	if strings.TrimSpace(comment) == "" {
		return nil, domain.ErrEmptyComment
	}

	task, err := uc.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.PerformerID != userID {
		return nil, domain.ErrNotPerformer
	}
	if task.IsCompleted() {
		return nil, domain.ErrAlreadyCompleted
	}

	result := pipeline.ComposeCompletionResult(comment, *task, uc.now(), loc)
	completed, err := uc.tasks.Complete(ctx, task.ID, result)
	if err != nil {
		if !uc.bufferCompletion(ctx, userID, task.ID, result, err) {
			return nil, err
		}
		optimistic := *task
		optimistic.Status = domain.StatusCompleted
		optimistic.Result = result
		optimistic.UpdatedAt = uc.clock().UTC()
		completed = &optimistic
	}
	uc.changed(ctx, completed)
	return completed, nil
}

// Invalidate drops every cached task snapshot.
func (uc *UseCase) Invalidate() {
	uc.views.InvalidateAll()
}

// MemoStats exposes how often the view stages really ran.
func (uc *UseCase) MemoStats() pipeline.MemoStats {
	return uc.views.Stats()
}

func (uc *UseCase) now() time.Time {
	return uc.clock().In(uc.cfg.Location)
}

func (uc *UseCase) changed(ctx context.Context, task *domain.Task) {
	uc.views.Invalidate(
		snapshotKey(domain.ScopeMy, task.PerformerID),
		snapshotKey(domain.ScopeDelegated, task.AuthorID),
	)
	for _, fn := range uc.onChange {
		fn(ctx)
	}
}

func (uc *UseCase) bufferCreate(ctx context.Context, task *domain.Task, cause error) bool {
	if uc.buffer == nil || isDomain(cause) {
		return false
	}
	if err := uc.buffer.BufferTaskCreate(ctx, task); err != nil {
		uc.logger.Error("failed to buffer task creation", zap.Error(err))
		return false
	}
	uc.logger.Warn("task creation buffered", zap.String("task_id", task.ID), zap.Error(cause))
	return true
}

func (uc *UseCase) bufferCompletion(ctx context.Context, userID, taskID, result string, cause error) bool {
	if uc.buffer == nil || isDomain(cause) {
		return false
	}
	if err := uc.buffer.BufferTaskCompletion(ctx, userID, taskID, result); err != nil {
		uc.logger.Error("failed to buffer task completion", zap.Error(err))
		return false
	}
	uc.logger.Warn("task completion buffered", zap.String("task_id", taskID), zap.Error(cause))
	return true
}

func snapshotKey(scope domain.TaskScope, userID string) string {
	return string(scope) + ":" + userID
}

func isDomain(err error) bool {
	var dErr *domain.Error
	return errors.As(err, &dErr)
}
