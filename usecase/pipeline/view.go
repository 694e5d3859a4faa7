package pipeline

import (
	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/locale"
)

// DeriveView runs the full filter, sort and paginate chain without caching.
func DeriveView[T any](items []T, schema Schema[T], p Params, today domain.Date, loc locale.Locale) Page[T] {
	filtered := Filter(items, schema, p.Filter(), today, loc)
	sorted := Sort(filtered, schema, p.Sort, p.Direction, loc)
	return Paginate(sorted, p.Page, p.PageSize)
}
