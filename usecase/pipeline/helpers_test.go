package pipeline

import (
	"time"

	"github.com/fastygo/taskboard/domain"
)

var today = time.Date(2025, time.January, 10, 14, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) domain.Date {
	return domain.Date{Year: y, Month: m, Day: d}
}

func task(id, title string, status domain.StoredStatus, deadline domain.Date) domain.Task {
	return domain.Task{ID: id, Title: title, Status: status, Deadline: deadline}
}

func stat(id, name string, completed, inWork, failed int) domain.UserStatistic {
	return domain.UserStatistic{ID: id, Name: name, Completed: completed, InWork: inWork, Failed: failed}
}

func ids[T any](items []T, id func(T) string) []string {
	out := make([]string, len(items))
	for i, item := range items {
		out[i] = id(item)
	}
	return out
}

func taskIDs(items []domain.Task) []string {
	return ids(items, func(t domain.Task) string { return t.ID })
}

func statIDs(items []domain.UserStatistic) []string {
	return ids(items, func(s domain.UserStatistic) string { return s.ID })
}
