package pipeline

import (
	"golang.org/x/text/language"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/locale"
)

// Views couples a snapshot store with one memo per supported locale.
// Collation depends on the locale, so memos are never shared across locales.
type Views[T any] struct {
	schema    Schema[T]
	snapshots *SnapshotStore[T]
	memos     map[language.Tag]*Memo[T]
}

// NewViews builds the store and memos. retired hooks run after the memos have
// forgotten a replaced or evicted snapshot version.
func NewViews[T any](schema Schema[T], slots, memoSize int, retired ...func(version uint64)) (*Views[T], error) {
	v := &Views[T]{
		schema: schema,
		memos:  make(map[language.Tag]*Memo[T]),
	}
	for _, loc := range locale.Supported() {
		memo, err := NewMemo(schema, loc, memoSize)
		if err != nil {
			return nil, err
		}
		v.memos[loc.Tag] = memo
	}
	snapshots, err := NewSnapshotStore[T](slots, func(version uint64) {
		for _, memo := range v.memos {
			memo.Forget(version)
		}
		for _, fn := range retired {
			fn(version)
		}
	})
	if err != nil {
		return nil, err
	}
	v.snapshots = snapshots
	return v, nil
}

func (v *Views[T]) Ticket() uint64 {
	return v.snapshots.Ticket()
}

func (v *Views[T]) Publish(key string, ticket uint64, items []T) (*Snapshot[T], error) {
	return v.snapshots.Publish(key, ticket, items)
}

func (v *Views[T]) Current(key string) (*Snapshot[T], bool) {
	return v.snapshots.Current(key)
}

func (v *Views[T]) Invalidate(keys ...string) {
	for _, key := range keys {
		v.snapshots.Invalidate(key)
	}
}

func (v *Views[T]) InvalidateAll() {
	v.snapshots.InvalidateAll()
}

// Derive returns the requested page of snap. Locales without a memo are derived uncached.
func (v *Views[T]) Derive(snap *Snapshot[T], p Params, today domain.Date, loc locale.Locale) Page[T] {
	if memo, ok := v.memos[loc.Tag]; ok {
		return memo.Derive(snap, p, today)
	}
	return DeriveView(snap.Items, v.schema, p, today, loc)
}

// Stats sums the stage counters of every memo.
func (v *Views[T]) Stats() MemoStats {
	var total MemoStats
	for _, memo := range v.memos {
		s := memo.Stats()
		total.Filters += s.Filters
		total.Sorts += s.Sorts
		total.Pages += s.Pages
	}
	return total
}
