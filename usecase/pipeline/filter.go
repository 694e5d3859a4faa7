package pipeline

import (
	"strings"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/locale"
)

// Filter returns the items matching every active predicate of f. The input is
// never modified; when no predicate is active the input slice itself is returned.
func Filter[T any](items []T, schema Schema[T], f FilterParams, today domain.Date, loc locale.Locale) []T {
	var (
		byStatus   = f.Status != "" && schema.Status != nil
		byDeadline = !f.DeadlineOnOrBefore.IsZero() && schema.Deadline != nil
		query      = loc.Fold(strings.TrimSpace(f.Query))
		byName     = query != "" && schema.Name != nil
	)
	if !byStatus && !byDeadline && !byName {
		return items
	}

	out := make([]T, 0, len(items))
	for _, item := range items {
		if byStatus && schema.Status(item, today) != f.Status {
			continue
		}
		if byDeadline {
			// a row without a deadline has none to fall on or before the ceiling
			if d := schema.Deadline(item); d.IsZero() || d.After(f.DeadlineOnOrBefore) {
				continue
			}
		}
		if byName && !strings.Contains(loc.Fold(schema.Name(item)), query) {
			continue
		}
		out = append(out, item)
	}
	return out
}
