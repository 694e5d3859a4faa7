package pipeline

import (
	"math"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/locale"
)

// LeaderboardSize is the number of ranked rows in a KPI snapshot.
const LeaderboardSize = 5

// Aggregate reduces the whole user-statistic collection to global KPIs.
// It must be given the unfiltered collection.
func Aggregate(stats []domain.UserStatistic, loc locale.Locale) domain.KpiSnapshot {
	kpi := domain.KpiSnapshot{
		Users:       len(stats),
		Leaderboard: []domain.LeaderboardEntry{},
	}
	for _, s := range stats {
		kpi.Completed += s.Completed
		kpi.InWork += s.InWork
		kpi.Failed += s.Failed
	}
	kpi.Total = kpi.Completed + kpi.InWork + kpi.Failed
	kpi.CompletionRate = domain.Percent(kpi.Completed, kpi.Total)
	if kpi.Users > 0 {
		kpi.AvgCompletedPerUser = math.Round(float64(kpi.Completed)/float64(kpi.Users)*100) / 100
	}

	byCompleted := Sort(stats, StatisticSchema, SortCompletedDesc, DirectionDefault, loc)
	if len(byCompleted) > 0 && byCompleted[0].Completed > 0 {
		top := byCompleted[0]
		kpi.Top = &top
	}

	byFailed := Sort(stats, StatisticSchema, SortFailedDesc, DirectionDefault, loc)
	for _, s := range byFailed {
		if s.Failed == 0 {
			break
		}
		if kpi.Top != nil && s.ID == kpi.Top.ID {
			continue
		}
		anti := s
		kpi.Anti = &anti
		break
	}

	for _, s := range byCompleted {
		if s.Completed == 0 || len(kpi.Leaderboard) == LeaderboardSize {
			break
		}
		kpi.Leaderboard = append(kpi.Leaderboard, domain.LeaderboardEntry{
			Place:     len(kpi.Leaderboard) + 1,
			ID:        s.ID,
			Name:      s.Name,
			Completed: s.Completed,
		})
	}
	return kpi
}
