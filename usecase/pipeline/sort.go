package pipeline

import (
	"bytes"
	"cmp"
	"slices"

	"golang.org/x/text/collate"

	"github.com/fastygo/taskboard/pkg/locale"
)

type sortEntry[T any] struct {
	item T
	key  int64
	name []byte
	id   string
}

// Sort returns a new slice ordered by mode. Ties on the primary key fall back to
// the collated name and then to the identifier, so the order is total.
// A mode the schema has no key for orders by name.
func Sort[T any](items []T, schema Schema[T], mode SortMode, dir Direction, loc locale.Locale) []T {
	keyOf, ok := schema.Keys[mode]
	desc := ok && mode.descending()
	switch dir {
	case DirectionAsc:
		desc = false
	case DirectionDesc:
		desc = true
	}

	var (
		coll    = loc.Collator()
		buf     collate.Buffer
		entries = make([]sortEntry[T], len(items))
	)
	for i, item := range items {
		e := sortEntry[T]{item: item}
		if ok {
			e.key = keyOf(item)
		}
		if schema.Name != nil {
			e.name = bytes.Clone(coll.KeyFromString(&buf, schema.Name(item)))
			buf.Reset()
		}
		if schema.ID != nil {
			e.id = schema.ID(item)
		}
		entries[i] = e
	}

	nameDesc := !ok && desc
	slices.SortStableFunc(entries, func(a, b sortEntry[T]) int {
		if ok && a.key != b.key {
			if desc {
				return cmp.Compare(b.key, a.key)
			}
			return cmp.Compare(a.key, b.key)
		}
		if c := bytes.Compare(a.name, b.name); c != 0 {
			if nameDesc {
				return -c
			}
			return c
		}
		return cmp.Compare(a.id, b.id)
	})

	out := make([]T, len(entries))
	for i, e := range entries {
		out[i] = e.item
	}
	return out
}
