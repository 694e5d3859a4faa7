package pipeline

import "github.com/fastygo/taskboard/domain"

// Schema tells the generic stages how to read a record type.
// Nil accessors mean the corresponding predicate does not apply to the collection.
type Schema[T any] struct {
	Name     func(T) string
	ID       func(T) string
	Keys     map[SortMode]func(T) int64
	Status   func(T, domain.Date) domain.EffectiveStatus
	Deadline func(T) domain.Date
}

// TaskSchema describes task collections: title is the name, deadline is the only count-free key.
var TaskSchema = Schema[domain.Task]{
	Name: func(t domain.Task) string { return t.Title },
	ID:   func(t domain.Task) string { return t.ID },
	Keys: map[SortMode]func(domain.Task) int64{
		SortDeadlineAsc:  deadlineKey,
		SortDeadlineDesc: deadlineKey,
	},
	Status: func(t domain.Task, today domain.Date) domain.EffectiveStatus {
		status, _ := effectiveStatus(t.Status, t.Deadline, today)
		return status
	},
	Deadline: func(t domain.Task) domain.Date { return t.Deadline },
}

// StatisticSchema describes user-statistic collections.
var StatisticSchema = Schema[domain.UserStatistic]{
	Name: func(s domain.UserStatistic) string { return s.Name },
	ID:   func(s domain.UserStatistic) string { return s.ID },
	Keys: map[SortMode]func(domain.UserStatistic) int64{
		SortCompletedDesc: func(s domain.UserStatistic) int64 { return int64(s.Completed) },
		SortFailedDesc:    func(s domain.UserStatistic) int64 { return int64(s.Failed) },
		SortInWorkDesc:    func(s domain.UserStatistic) int64 { return int64(s.InWork) },
	},
}

func deadlineKey(t domain.Task) int64 {
	return t.Deadline.Ordinal()
}
