package handler

import (
	"net/http"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	"github.com/fastygo/taskboard/pkg/locale"
	preferenceUC "github.com/fastygo/taskboard/usecase/preference"
)

type PreferenceHandler struct {
	baseHandler
	uc *preferenceUC.UseCase
}

func NewPreferenceHandler(uc *preferenceUC.UseCase, adapter *httpcontext.Adapter, logger *zap.Logger, fallback locale.Locale) *PreferenceHandler {
	return &PreferenceHandler{
		baseHandler: newBaseHandler(adapter, logger, fallback),
		uc:          uc,
	}
}

// @Summary List the caller's preferences
// @Tags preferences
// @Router /api/v1/preferences [get]
func (h *PreferenceHandler) List(ctx *fasthttp.RequestCtx) {
	userID := h.requireUser(ctx)
	if userID == "" {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	prefs, err := h.uc.List(stdCtx, userID)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, prefs)
}

// @Summary Read one preference
// @Tags preferences
// @Router /api/v1/preferences/{key} [get]
func (h *PreferenceHandler) Get(ctx *fasthttp.RequestCtx) {
	userID := h.requireUser(ctx)
	if userID == "" {
		return
	}
	key, _ := ctx.UserValue("key").(string)

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	pref, err := h.uc.Get(stdCtx, userID, key)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, pref)
}

// @Summary Store one preference
// @Tags preferences
// @Router /api/v1/preferences/{key} [put]
func (h *PreferenceHandler) Put(ctx *fasthttp.RequestCtx) {
	userID := h.requireUser(ctx)
	if userID == "" {
		return
	}
	key, _ := ctx.UserValue("key").(string)

	var req transport.PreferenceRequest
	if !h.decode(ctx, &req) {
		return
	}

	stdCtx, cancel := h.requestContext(ctx)
	defer cancel()

	pref, err := h.uc.Put(stdCtx, userID, key, req.Value)
	if err != nil {
		h.respondError(ctx, stdCtx, err)
		return
	}
	h.respondSuccess(ctx, http.StatusOK, pref)
}
