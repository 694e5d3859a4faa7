package handler

import (
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/api/transport"
	"github.com/fastygo/taskboard/internal/infrastructure/monitor"
	"github.com/fastygo/taskboard/pkg/httpcontext"
	"github.com/fastygo/taskboard/pkg/locale"
	"github.com/fastygo/taskboard/usecase/pipeline"
)

// StatusSource is the part of the connection monitor the health check reads.
type StatusSource interface {
	GetStatus() monitor.Status
}

// MemoSource reports view-derivation counters.
type MemoSource interface {
	MemoStats() pipeline.MemoStats
}

type HealthHandler struct {
	baseHandler
	monitor StatusSource
	memos   map[string]MemoSource
}

func NewHealthHandler(mon StatusSource, memos map[string]MemoSource, adapter *httpcontext.Adapter, logger *zap.Logger) *HealthHandler {
	return &HealthHandler{
		baseHandler: newBaseHandler(adapter, logger, locale.English),
		monitor:     mon,
		memos:       memos,
	}
}

// @Summary Health check
// @Tags health
// @Router /health [get]
func (h *HealthHandler) Check(ctx *fasthttp.RequestCtx) {
	status := h.monitor.GetStatus()
	views := make(map[string]pipeline.MemoStats, len(h.memos))
	for name, src := range h.memos {
		views[name] = src.MemoStats()
	}
	payload := map[string]interface{}{
		"timestamp": time.Now().UTC(),
		"services": map[string]interface{}{
			"postgresql": status.PostgreSQL,
			"redis":      status.Redis,
			"buffer": map[string]interface{}{
				"online": status.Buffer,
				"size":   status.BufferSize,
			},
		},
		"views": views,
	}

	// Writes fall back to the buffer while Postgres is away, so only a dead
	// buffer together with Postgres makes the service unavailable.
	if status.PostgreSQL || status.Buffer {
		h.respondSuccess(ctx, http.StatusOK, payload)
		return
	}
	h.respondJSON(ctx, http.StatusServiceUnavailable, transport.NewError("DEGRADED", "dependencies unhealthy", payload))
}
