package pipeline

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/locale"
)

type filterKey struct {
	version uint64
	today   domain.Date
	filter  FilterParams
}

type sortKey struct {
	filterKey
	mode SortMode
	dir  Direction
}

type pageKey struct {
	sortKey
	page int
	size int
}

// MemoStats counts how many times each stage actually ran.
type MemoStats struct {
	Filters int64
	Sorts   int64
	Pages   int64
}

// Memo caches the filter, sort and page stages of a view.
//
// Each stage is keyed only by the inputs it depends on: changing the page
// reuses the sorted slice, changing the sort reuses the filtered slice, and a
// new snapshot version misses every stage. Returned slices are shared between
// callers and must be treated as read-only.
type Memo[T any] struct {
	schema Schema[T]
	loc    locale.Locale

	filtered *lru.Cache[filterKey, []T]
	sorted   *lru.Cache[sortKey, []T]
	pages    *lru.Cache[pageKey, Page[T]]

	filters atomic.Int64
	sorts   atomic.Int64
	runs    atomic.Int64
}

// NewMemo builds a memo holding up to size entries per stage.
func NewMemo[T any](schema Schema[T], loc locale.Locale, size int) (*Memo[T], error) {
	if size <= 0 {
		size = 512
	}
	filtered, err := lru.New[filterKey, []T](size)
	if err != nil {
		return nil, err
	}
	sorted, err := lru.New[sortKey, []T](size)
	if err != nil {
		return nil, err
	}
	pages, err := lru.New[pageKey, Page[T]](size)
	if err != nil {
		return nil, err
	}
	return &Memo[T]{
		schema:   schema,
		loc:      loc,
		filtered: filtered,
		sorted:   sorted,
		pages:    pages,
	}, nil
}

// Derive runs filter, sort and paginate over snap, reusing cached stages.
// today only takes part in the key when a status predicate is active.
func (m *Memo[T]) Derive(snap *Snapshot[T], p Params, today domain.Date) Page[T] {
	fk := filterKey{version: snap.Version, filter: p.Filter()}
	if fk.filter.Status != "" {
		fk.today = today
	}
	sk := sortKey{filterKey: fk, mode: p.Sort, dir: p.Direction}
	pk := pageKey{sortKey: sk, page: p.Page, size: p.PageSize}

	if page, ok := m.pages.Get(pk); ok {
		return page
	}

	sorted, ok := m.sorted.Get(sk)
	if !ok {
		filtered, ok := m.filtered.Get(fk)
		if !ok {
			m.filters.Add(1)
			filtered = Filter(snap.Items, m.schema, fk.filter, today, m.loc)
			m.filtered.Add(fk, filtered)
		}
		m.sorts.Add(1)
		sorted = Sort(filtered, m.schema, p.Sort, p.Direction, m.loc)
		m.sorted.Add(sk, sorted)
	}

	m.runs.Add(1)
	page := Paginate(sorted, p.Page, p.PageSize)
	m.pages.Add(pk, page)
	return page
}

// Forget drops every cached stage derived from the given snapshot version.
func (m *Memo[T]) Forget(version uint64) {
	for _, k := range m.pages.Keys() {
		if k.version == version {
			m.pages.Remove(k)
		}
	}
	for _, k := range m.sorted.Keys() {
		if k.version == version {
			m.sorted.Remove(k)
		}
	}
	for _, k := range m.filtered.Keys() {
		if k.version == version {
			m.filtered.Remove(k)
		}
	}
}

// Stats reports how often each stage was computed rather than served from cache.
func (m *Memo[T]) Stats() MemoStats {
	return MemoStats{
		Filters: m.filters.Load(),
		Sorts:   m.sorts.Load(),
		Pages:   m.runs.Load(),
	}
}
