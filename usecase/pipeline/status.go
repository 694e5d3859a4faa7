package pipeline

import (
	"time"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/locale"
)

// Resolution is the effective status of a task at a given moment.
type Resolution struct {
	Status       domain.EffectiveStatus `json:"status"`
	OverdueDays  int                    `json:"overdue_days,omitempty"`
	OverdueLabel string                 `json:"overdue_label,omitempty"`
}

func (r Resolution) Overdue() bool {
	return r.Status == domain.EffectiveOverdue
}

// ResolveStatus derives the effective status of task on the calendar day of now
// (in now's location). It never mutates the task.
func ResolveStatus(task domain.Task, now time.Time, loc locale.Locale) Resolution {
	status, days := effectiveStatus(task.Status, task.Deadline, domain.DateOf(now))
	res := Resolution{Status: status}
	if status == domain.EffectiveOverdue {
		res.OverdueDays = days
		res.OverdueLabel = loc.DaysPhrase(days)
	}
	return res
}

func effectiveStatus(stored domain.StoredStatus, deadline, today domain.Date) (domain.EffectiveStatus, int) {
	if stored == domain.StatusCompleted {
		return domain.EffectiveCompleted, 0
	}
	if !deadline.IsZero() && deadline.Before(today) {
		return domain.EffectiveOverdue, today.DaysSince(deadline)
	}
	return domain.EffectiveInWork, 0
}
