package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func numbers(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i + 1
	}
	return out
}

func TestPaginateClampsPastLastPage(t *testing.T) {
	page := Paginate(numbers(7), 10, 5)

	assert.Equal(t, 2, page.EffectivePage)
	assert.Equal(t, 2, page.TotalPages)
	assert.Equal(t, 7, page.Total)
	assert.Equal(t, []int{6, 7}, page.Items)
	assert.Equal(t, 5, page.Offset())
}

func TestPaginate(t *testing.T) {
	cases := []struct {
		name      string
		total     int
		page      int
		size      int
		wantPage  int
		wantPages int
		wantItems []int
	}{
		{"first page", 7, 1, 5, 1, 2, []int{1, 2, 3, 4, 5}},
		{"zero page clamps up", 7, 0, 5, 1, 2, []int{1, 2, 3, 4, 5}},
		{"negative page clamps up", 7, -3, 5, 1, 2, []int{1, 2, 3, 4, 5}},
		{"exact fit", 10, 2, 5, 2, 2, []int{6, 7, 8, 9, 10}},
		{"empty collection", 0, 3, 5, 1, 1, []int{}},
		{"zero size treated as one", 3, 2, 0, 2, 3, []int{2}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			page := Paginate(numbers(tc.total), tc.page, tc.size)
			assert.Equal(t, tc.wantPage, page.EffectivePage)
			assert.Equal(t, tc.wantPages, page.TotalPages)
			assert.Equal(t, tc.wantItems, page.Items)
		})
	}
}

func TestPaginateItemsCannotGrowIntoSource(t *testing.T) {
	src := numbers(7)
	page := Paginate(src, 1, 5)

	_ = append(page.Items, 100)

	assert.Equal(t, 6, src[5])
}
