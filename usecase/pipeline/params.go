package pipeline

import (
	"strings"

	"github.com/fastygo/taskboard/domain"
)

// SortMode names the primary ordering key of a view.
type SortMode string

const (
	SortNameAsc       SortMode = "nameAsc"
	SortCompletedDesc SortMode = "completedDesc"
	SortFailedDesc    SortMode = "failedDesc"
	SortInWorkDesc    SortMode = "inWorkDesc"
	SortDeadlineAsc   SortMode = "deadlineAsc"
	SortDeadlineDesc  SortMode = "deadlineDesc"
)

func (m SortMode) Valid() bool {
	switch m {
	case SortNameAsc, SortCompletedDesc, SortFailedDesc, SortInWorkDesc, SortDeadlineAsc, SortDeadlineDesc:
		return true
	}
	return false
}

func (m SortMode) descending() bool {
	switch m {
	case SortCompletedDesc, SortFailedDesc, SortInWorkDesc, SortDeadlineDesc:
		return true
	}
	return false
}

// Direction optionally overrides the natural direction of the primary key.
type Direction string

const (
	DirectionDefault Direction = ""
	DirectionAsc     Direction = "asc"
	DirectionDesc    Direction = "desc"
)

func (d Direction) Valid() bool {
	return d == DirectionDefault || d == DirectionAsc || d == DirectionDesc
}

// Params is the full set of view parameters. It is comparable and is the
// only input, besides the snapshot, that memoized derivations are keyed by.
type Params struct {
	Status             domain.EffectiveStatus
	DeadlineOnOrBefore domain.Date
	Query              string
	Sort               SortMode
	Direction          Direction
	Page               int
	PageSize           int
}

// Validate rejects parameter sets that are programming errors at the API boundary.
func (p Params) Validate() error {
	if p.PageSize <= 0 {
		return domain.NewError(domain.ErrCodeInvalid, "page size must be positive")
	}
	if p.Sort != "" && !p.Sort.Valid() {
		return domain.NewError(domain.ErrCodeInvalid, "unknown sort mode "+string(p.Sort))
	}
	if !p.Direction.Valid() {
		return domain.NewError(domain.ErrCodeInvalid, "unknown sort direction "+string(p.Direction))
	}
	switch p.Status {
	case "", domain.EffectiveInWork, domain.EffectiveCompleted, domain.EffectiveOverdue:
	default:
		return domain.NewError(domain.ErrCodeInvalid, "unknown status "+string(p.Status))
	}
	return nil
}

// Filter returns the filter-stage part of the parameters.
func (p Params) Filter() FilterParams {
	return FilterParams{
		Status:             p.Status,
		DeadlineOnOrBefore: p.DeadlineOnOrBefore,
		Query:              strings.TrimSpace(p.Query),
	}
}

// FilterParams are the conjunctive predicates of the filter stage.
type FilterParams struct {
	Status             domain.EffectiveStatus
	DeadlineOnOrBefore domain.Date
	Query              string
}
