package pipeline

// Page is one bounded slice of a sorted collection.
type Page[T any] struct {
	Items         []T `json:"items"`
	Total         int `json:"total"`
	TotalPages    int `json:"total_pages"`
	EffectivePage int `json:"page"`
	PageSize      int `json:"page_size"`
}

// Offset is the zero-based position of the first item of the page in the collection.
func (p Page[T]) Offset() int {
	return (p.EffectivePage - 1) * p.PageSize
}

// Paginate slices items into the requested page. The page index is clamped to
// [1, totalPages] and a non-positive size is treated as 1, so the result is
// never an out-of-range empty page.
func Paginate[T any](items []T, page, size int) Page[T] {
	if size < 1 {
		size = 1
	}
	total := len(items)
	totalPages := (total + size - 1) / size
	if totalPages < 1 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * size
	end := min(start+size, total)
	pageItems := items[start:end:end]
	if pageItems == nil {
		pageItems = []T{}
	}
	return Page[T]{
		Items:         pageItems,
		Total:         total,
		TotalPages:    totalPages,
		EffectivePage: page,
		PageSize:      size,
	}
}
