package domain

import "time"

// StoredStatus is the status persisted on a task. Only two values are ever stored.
type StoredStatus string

const (
	StatusInWork    StoredStatus = "in-work"
	StatusCompleted StoredStatus = "completed"
)

func (s StoredStatus) Valid() bool {
	return s == StatusInWork || s == StatusCompleted
}

// EffectiveStatus is what users see. Overdue is derived on read and never stored.
type EffectiveStatus string

const (
	EffectiveInWork    EffectiveStatus = "in-work"
	EffectiveCompleted EffectiveStatus = "completed"
	EffectiveOverdue   EffectiveStatus = "overdue"
)

// ParseEffectiveStatus accepts the three effective statuses plus "failed" as an alias of overdue.
func ParseEffectiveStatus(value string) (EffectiveStatus, error) {
	switch value {
	case "":
		return "", nil
	case string(EffectiveInWork), "in work", "in_work":
		return EffectiveInWork, nil
	case string(EffectiveCompleted):
		return EffectiveCompleted, nil
	case string(EffectiveOverdue), "failed":
		return EffectiveOverdue, nil
	default:
		return "", NewError(ErrCodeInvalid, "unknown status "+value)
	}
}

// TaskScope selects which side of the assignment the caller is on.
type TaskScope string

const (
	ScopeMy        TaskScope = "my"
	ScopeDelegated TaskScope = "delegated"
)

// Task is an assignment from an author to a performer with a deadline.
type Task struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	Deadline    Date         `json:"deadline"`
	Status      StoredStatus `json:"status"`
	AuthorID    string       `json:"author_id"`
	PerformerID string       `json:"performer_id"`
	Result      string       `json:"result,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}

func (t *Task) IsCompleted() bool {
	return t != nil && t.Status == StatusCompleted
}
