package domain

// UserStatistic holds per-user task counts aggregated by the data layer.
type UserStatistic struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Avatar    *string `json:"ava"`
	Completed int     `json:"completed_tasks"`
	InWork    int     `json:"in_work_tasks"`
	Failed    int     `json:"failed_tasks"`
}

func (s UserStatistic) Total() int {
	return s.Completed + s.InWork + s.Failed
}

// CompletionRate is the share of completed tasks as a rounded percentage.
func (s UserStatistic) CompletionRate() int {
	return Percent(s.Completed, s.Total())
}

// OverdueRate is the share of failed tasks as a rounded percentage.
func (s UserStatistic) OverdueRate() int {
	return Percent(s.Failed, s.Total())
}

// MyStatistic is the caller's own counters.
type MyStatistic struct {
	Completed int `json:"completed_tasks"`
	InWork    int `json:"in_work_tasks"`
	Failed    int `json:"failed_tasks"`
}

func (s MyStatistic) Total() int {
	return s.Completed + s.InWork + s.Failed
}

// LeaderboardEntry is one ranked row of the leaderboard.
type LeaderboardEntry struct {
	Place     int    `json:"place"`
	ID        string `json:"id"`
	Name      string `json:"name"`
	Completed int    `json:"completed"`
}

// KpiSnapshot summarizes the whole user-statistic collection.
type KpiSnapshot struct {
	Users               int                `json:"users"`
	Total               int                `json:"total"`
	Completed           int                `json:"completed"`
	InWork              int                `json:"in_work"`
	Failed              int                `json:"failed"`
	CompletionRate      int                `json:"done_rate"`
	AvgCompletedPerUser float64            `json:"avg_completed_per_user"`
	Top                 *UserStatistic     `json:"top"`
	Anti                *UserStatistic     `json:"anti"`
	Leaderboard         []LeaderboardEntry `json:"leaderboard"`
}

// Percent returns round(part/total*100), or 0 when total is 0.
func Percent(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (part*200 + total) / (total * 2)
}
