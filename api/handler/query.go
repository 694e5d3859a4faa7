package handler

import (
	"strconv"
	"strings"

	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/usecase/pipeline"
)

const maxPageSize = 100

// parseView reads the view parameters shared by every list endpoint:
// status, deadline, q, sort, direction, page and page_size.
func parseView(args *fasthttp.Args, defaultPageSize int) (pipeline.Params, error) {
	params := pipeline.Params{
		Query:     string(args.Peek("q")),
		Sort:      pipeline.SortMode(strings.TrimSpace(string(args.Peek("sort")))),
		Direction: pipeline.Direction(strings.ToLower(strings.TrimSpace(string(args.Peek("direction"))))),
		Page:      1,
		PageSize:  defaultPageSize,
	}

	if raw := strings.TrimSpace(string(args.Peek("status"))); raw != "" {
		status, err := domain.ParseEffectiveStatus(raw)
		if err != nil {
			return pipeline.Params{}, err
		}
		params.Status = status
	}

	if raw := strings.TrimSpace(string(args.Peek("deadline"))); raw != "" {
		deadline, err := domain.ParseDate(raw)
		if err != nil {
			return pipeline.Params{}, domain.WrapError(domain.ErrCodeInvalid, "invalid deadline", err)
		}
		params.DeadlineOnOrBefore = deadline
	}

	if raw := strings.TrimSpace(string(args.Peek("page"))); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil {
			return pipeline.Params{}, domain.NewError(domain.ErrCodeInvalid, "page must be a number")
		}
		params.Page = page
	}

	if raw := strings.TrimSpace(string(args.Peek("page_size"))); raw != "" {
		size, err := strconv.Atoi(raw)
		if err != nil {
			return pipeline.Params{}, domain.NewError(domain.ErrCodeInvalid, "page_size must be a number")
		}
		params.PageSize = min(size, maxPageSize)
	}

	return params, params.Validate()
}
