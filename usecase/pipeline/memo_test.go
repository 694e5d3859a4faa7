package pipeline

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/locale"
)

func newStatMemo(t *testing.T) (*Memo[domain.UserStatistic], *SnapshotStore[domain.UserStatistic]) {
	t.Helper()
	memo, err := NewMemo(StatisticSchema, locale.Russian, 64)
	require.NoError(t, err)
	store, err := NewSnapshotStore[domain.UserStatistic](8, memo.Forget)
	require.NoError(t, err)
	return memo, store
}

func sampleStats() []domain.UserStatistic {
	return []domain.UserStatistic{
		stat("1", "Анна", 5, 2, 1),
		stat("2", "Борис", 3, 0, 4),
		stat("3", "Вера", 0, 1, 0),
		stat("4", "Галина", 7, 1, 0),
		stat("5", "Дмитрий", 2, 2, 2),
		stat("6", "Елена", 1, 0, 0),
		stat("7", "Жанна", 4, 0, 1),
	}
}

func TestMemoDeriveIsIdempotent(t *testing.T) {
	memo, store := newStatMemo(t)
	snap, err := store.Publish("global", store.Ticket(), sampleStats())
	require.NoError(t, err)
	params := Params{Sort: SortCompletedDesc, Page: 1, PageSize: 5}

	first := memo.Derive(snap, params, domain.DateOf(today))
	second := memo.Derive(snap, params, domain.DateOf(today))

	if diff := cmp.Diff(first, second); diff != "" {
		t.Fatalf("derivations differ (-first +second):\n%s", diff)
	}
	assert.Equal(t, MemoStats{Filters: 1, Sorts: 1, Pages: 1}, memo.Stats())
}

func TestMemoMatchesUncachedDerivation(t *testing.T) {
	memo, store := newStatMemo(t)
	snap, err := store.Publish("global", store.Ticket(), sampleStats())
	require.NoError(t, err)
	params := Params{Query: "а", Sort: SortFailedDesc, Page: 2, PageSize: 2}

	got := memo.Derive(snap, params, domain.DateOf(today))
	want := DeriveView(sampleStats(), StatisticSchema, params, domain.DateOf(today), locale.Russian)

	assert.Equal(t, want, got)
}

func TestMemoPageChangeReusesSortedStage(t *testing.T) {
	memo, store := newStatMemo(t)
	snap, err := store.Publish("global", store.Ticket(), sampleStats())
	require.NoError(t, err)

	params := Params{Sort: SortCompletedDesc, Page: 1, PageSize: 5}
	memo.Derive(snap, params, domain.DateOf(today))
	params.Page = 2
	page := memo.Derive(snap, params, domain.DateOf(today))

	assert.Equal(t, MemoStats{Filters: 1, Sorts: 1, Pages: 2}, memo.Stats())
	assert.Equal(t, []string{"6", "3"}, statIDs(page.Items))
}

func TestMemoSortChangeReusesFilteredStage(t *testing.T) {
	memo, store := newStatMemo(t)
	snap, err := store.Publish("global", store.Ticket(), sampleStats())
	require.NoError(t, err)

	params := Params{Query: "н", Sort: SortCompletedDesc, Page: 1, PageSize: 5}
	memo.Derive(snap, params, domain.DateOf(today))
	params.Sort = SortNameAsc
	memo.Derive(snap, params, domain.DateOf(today))

	assert.Equal(t, MemoStats{Filters: 1, Sorts: 2, Pages: 2}, memo.Stats())
}

func TestMemoFilterChangeInvalidatesDownstream(t *testing.T) {
	memo, store := newStatMemo(t)
	snap, err := store.Publish("global", store.Ticket(), sampleStats())
	require.NoError(t, err)

	params := Params{Sort: SortCompletedDesc, Page: 1, PageSize: 5}
	memo.Derive(snap, params, domain.DateOf(today))
	params.Query = "борис"
	page := memo.Derive(snap, params, domain.DateOf(today))

	assert.Equal(t, MemoStats{Filters: 2, Sorts: 2, Pages: 2}, memo.Stats())
	assert.Equal(t, []string{"2"}, statIDs(page.Items))
}

func TestMemoTodayOnlyMattersForStatusFilter(t *testing.T) {
	memo, err := NewMemo(TaskSchema, locale.English, 16)
	require.NoError(t, err)
	store, err := NewSnapshotStore[domain.Task](4, memo.Forget)
	require.NoError(t, err)
	snap, err := store.Publish("u1/my", store.Ticket(), sampleTasks())
	require.NoError(t, err)

	tomorrow := domain.DateOf(today.AddDate(0, 0, 1))
	params := Params{Sort: SortDeadlineAsc, Page: 1, PageSize: 10}
	memo.Derive(snap, params, domain.DateOf(today))
	memo.Derive(snap, params, tomorrow)
	assert.Equal(t, int64(1), memo.Stats().Filters)

	params.Status = domain.EffectiveOverdue
	before := memo.Derive(snap, params, domain.DateOf(today))
	after := memo.Derive(snap, params, domain.DateOf(time.Date(2025, time.January, 21, 0, 0, 0, 0, time.UTC)))
	assert.Equal(t, int64(3), memo.Stats().Filters)
	assert.Equal(t, []string{"5", "1"}, taskIDs(before.Items))
	assert.Equal(t, []string{"5", "1", "3", "4"}, taskIDs(after.Items))
}

func TestMemoNewSnapshotInvalidates(t *testing.T) {
	memo, store := newStatMemo(t)
	first, err := store.Publish("global", store.Ticket(), sampleStats())
	require.NoError(t, err)
	params := Params{Sort: SortNameAsc, Page: 1, PageSize: 3}
	memo.Derive(first, params, domain.DateOf(today))

	changed := append(sampleStats(), stat("8", "Алла", 0, 0, 0))
	second, err := store.Publish("global", store.Ticket(), changed)
	require.NoError(t, err)
	require.NotEqual(t, first.Version, second.Version)

	page := memo.Derive(second, params, domain.DateOf(today))

	assert.Equal(t, 8, page.Total)
	assert.Equal(t, "8", page.Items[0].ID)
	assert.Equal(t, int64(2), memo.Stats().Sorts)
	assert.Equal(t, 1, memo.filtered.Len(), "entries of the retired version must be dropped")
}

func TestSnapshotStoreKeepsIdentityForEqualContent(t *testing.T) {
	_, store := newStatMemo(t)

	first, err := store.Publish("global", store.Ticket(), sampleStats())
	require.NoError(t, err)
	second, err := store.Publish("global", store.Ticket(), sampleStats())
	require.NoError(t, err)

	assert.Same(t, first, second)
}

func TestSnapshotStorePrefersLatestTicket(t *testing.T) {
	_, store := newStatMemo(t)

	stale := store.Ticket()
	fresh := store.Ticket()

	latest, err := store.Publish("global", fresh, sampleStats())
	require.NoError(t, err)
	got, err := store.Publish("global", stale, sampleStats()[:2])
	require.NoError(t, err)

	assert.Same(t, latest, got)
	current, ok := store.Current("global")
	require.True(t, ok)
	assert.Len(t, current.Items, 7)
}

func TestSnapshotStoreInvalidate(t *testing.T) {
	_, store := newStatMemo(t)
	first, err := store.Publish("global", store.Ticket(), sampleStats())
	require.NoError(t, err)

	store.Invalidate("global")
	_, ok := store.Current("global")
	assert.False(t, ok)

	second, err := store.Publish("global", store.Ticket(), sampleStats())
	require.NoError(t, err)
	assert.NotEqual(t, first.Version, second.Version)
}

func TestParamsValidate(t *testing.T) {
	assert.NoError(t, Params{PageSize: 10}.Validate())

	for _, p := range []Params{
		{PageSize: 0},
		{PageSize: -1},
		{PageSize: 10, Sort: "bogus"},
		{PageSize: 10, Direction: "sideways"},
		{PageSize: 10, Status: "failed"},
	} {
		err := p.Validate()
		require.Error(t, err)
		assert.True(t, domain.IsDomainError(err, domain.ErrCodeInvalid))
	}
}
