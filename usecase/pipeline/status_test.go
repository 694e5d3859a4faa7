package pipeline

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/locale"
)

func TestResolveStatusCompletedIgnoresDeadline(t *testing.T) {
	tk := task("1", "old", domain.StatusCompleted, day(2000, time.January, 1))

	res := ResolveStatus(tk, today, locale.English)

	assert.Equal(t, domain.EffectiveCompleted, res.Status)
	assert.Zero(t, res.OverdueDays)
	assert.Empty(t, res.OverdueLabel)
}

func TestResolveStatusOverdueCountsWholeDays(t *testing.T) {
	tk := task("1", "late", domain.StatusInWork, day(2025, time.January, 5))

	res := ResolveStatus(tk, today, locale.English)

	assert.Equal(t, domain.EffectiveOverdue, res.Status)
	assert.Equal(t, 5, res.OverdueDays)
	assert.Equal(t, "5 days", res.OverdueLabel)
}

func TestResolveStatusDeadlineTodayIsInWork(t *testing.T) {
	late := time.Date(2025, time.January, 10, 23, 59, 0, 0, time.UTC)
	tk := task("1", "due", domain.StatusInWork, day(2025, time.January, 10))

	assert.Equal(t, domain.EffectiveInWork, ResolveStatus(tk, late, locale.English).Status)
	assert.Equal(t, domain.EffectiveInWork, ResolveStatus(tk, today.AddDate(0, 0, -3), locale.English).Status)
}

func TestResolveStatusCrossesMidnight(t *testing.T) {
	tk := task("1", "due", domain.StatusInWork, day(2025, time.January, 10))
	beforeMidnight := time.Date(2025, time.January, 10, 23, 59, 59, 0, time.UTC)

	assert.Equal(t, domain.EffectiveInWork, ResolveStatus(tk, beforeMidnight, locale.English).Status)
	assert.Equal(t, domain.EffectiveOverdue, ResolveStatus(tk, beforeMidnight.Add(2*time.Second), locale.English).Status)
}

func TestResolveStatusUsesCallerLocation(t *testing.T) {
	tk := task("1", "due", domain.StatusInWork, day(2025, time.January, 10))
	utcLate := time.Date(2025, time.January, 10, 22, 0, 0, 0, time.UTC)
	moscow := time.FixedZone("MSK", 3*60*60)

	assert.Equal(t, domain.EffectiveInWork, ResolveStatus(tk, utcLate, locale.English).Status)
	assert.Equal(t, domain.EffectiveOverdue, ResolveStatus(tk, utcLate.In(moscow), locale.English).Status)
}

func TestResolveStatusPluralBranches(t *testing.T) {
	cases := []struct {
		days int
		want string
	}{
		{1, "1 день"},
		{2, "2 дня"},
		{5, "5 дней"},
		{11, "11 дней"},
		{21, "21 день"},
		{25, "25 дней"},
	}
	for _, tc := range cases {
		deadline := domain.DateOf(today.AddDate(0, 0, -tc.days))
		res := ResolveStatus(task("1", "x", domain.StatusInWork, deadline), today, locale.Russian)
		assert.Equal(t, tc.days, res.OverdueDays)
		assert.Equal(t, tc.want, res.OverdueLabel)
	}
}

func TestResolveStatusDoesNotMutate(t *testing.T) {
	tk := task("1", "late", domain.StatusInWork, day(2024, time.December, 1))
	before := tk

	_ = ResolveStatus(tk, today, locale.English)

	assert.Equal(t, before, tk)
}
