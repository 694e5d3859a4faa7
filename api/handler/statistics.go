package handler

import (
	"encoding/json"
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	"github.com/fastygo/taskboard/pkg/locale"
	statisticsUC "github.com/fastygo/taskboard/usecase/statistics"
)

type StatisticsHandler struct {
	baseHandler
	uc       *statisticsUC.UseCase
	pageSize int
}

func NewStatisticsHandler(uc *statisticsUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger, fallback locale.Locale, pageSize int) *StatisticsHandler {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &StatisticsHandler{
		baseHandler: newBaseHandler(adapter, logger, fallback),
		uc:          uc,
		pageSize:    pageSize,
	}
}

// @Summary Statistic table page and global KPIs
// @Tags statistics
// @Router /api/v1/statistics [get]
func (h *StatisticsHandler) Dashboard(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	params, err := parseView(ctx.QueryArgs(), h.pageSize)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	dash, err := h.uc.Dashboard(stdCtx, params, h.localeOf(stdCtx))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(map[string]interface{}{
		"items": dash.Page.Items,
		"kpi":   dash.KPI,
	}, transport.PageMeta{
		Page:       dash.Page.EffectivePage,
		PageSize:   dash.Page.PageSize,
		Total:      dash.Page.Total,
		TotalPages: dash.Page.TotalPages,
	}))
}

// @Summary Counters of the caller, null when anonymous
// @Tags statistics
// @Router /api/v1/statistics/my [get]
func (h *StatisticsHandler) My(ctx *fasthttp.RequestCtx) {
	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	mine, err := h.uc.My(stdCtx, httpcontext.UserID(ctx))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	if mine == nil {
		// a nil interface would be dropped by omitempty
		h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(json.RawMessage("null"), nil))
		return
	}
	h.respondSuccess(ctx, http.StatusOK, mine)
}
