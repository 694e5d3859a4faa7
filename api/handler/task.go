package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	"github.com/fastygo/taskboard/pkg/locale"
	taskUC "github.com/fastygo/taskboard/usecase/task"
)

type TaskHandler struct {
	baseHandler
	uc       *taskUC.UseCase
	pageSize int
}

func NewTaskHandler(uc *taskUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger, fallback locale.Locale, pageSize int) *TaskHandler {
	if pageSize <= 0 {
		pageSize = 10
	}
	return &TaskHandler{
		baseHandler: newBaseHandler(adapter, logger, fallback),
		uc:          uc,
		pageSize:    pageSize,
	}
}

// @Summary Tasks the caller performs
// @Tags tasks
// @Router /api/v1/tasks/my [get]
func (h *TaskHandler) ListMy(ctx *fasthttp.RequestCtx) {
	h.list(ctx, domain.ScopeMy)
}

// @Summary Tasks the caller authored
// @Tags tasks
// @Router /api/v1/tasks/delegated [get]
func (h *TaskHandler) ListDelegated(ctx *fasthttp.RequestCtx) {
	h.list(ctx, domain.ScopeDelegated)
}

func (h *TaskHandler) list(ctx *fasthttp.RequestCtx, scope domain.TaskScope) {
	userID := h.requireUser(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	params, err := parseView(ctx.QueryArgs(), h.pageSize)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}

	page, err := h.uc.List(stdCtx, userID, scope, params, h.localeOf(stdCtx))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondJSON(ctx, http.StatusOK, transport.NewSuccess(page.Items, transport.PageMeta{
		Page:       page.EffectivePage,
		PageSize:   page.PageSize,
		Total:      page.Total,
		TotalPages: page.TotalPages,
	}))
}

// @Summary Create task
// @Tags tasks
// @Router /api/v1/tasks [post]
func (h *TaskHandler) Create(ctx *fasthttp.RequestCtx) {
	userID := h.requireUser(ctx)
	if userID == "" {
		return
	}

	var req transport.TaskCreateRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	deadline, err := domain.ParseDate(req.Deadline)
	if err != nil {
		h.respondError(ctx, stdCtx, domain.WrapError(domain.ErrCodeInvalid, "invalid deadline", err))
		return
	}

	created, err := h.uc.Create(stdCtx, userID, taskUC.CreateInput{
		Title:       req.Title,
		Description: req.Description,
		Deadline:    deadline,
		PerformerID: req.PerformerID,
	})
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusCreated, created)
}

// @Summary Complete task with a comment
// @Tags tasks
// @Router /api/v1/tasks/{id}/complete [post]
func (h *TaskHandler) Complete(ctx *fasthttp.RequestCtx) {
	userID := h.requireUser(ctx)
	if userID == "" {
		return
	}

	id, _ := ctx.UserValue("id").(string)
	if id == "" {
		h.respondJSON(ctx, http.StatusBadRequest, transport.NewError(string(domain.ErrCodeInvalid), "missing task id", nil))
		return
	}

	var req transport.TaskCompleteRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	completed, err := h.uc.Complete(stdCtx, userID, id, req.Comment, h.localeOf(stdCtx))
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, completed)
}
