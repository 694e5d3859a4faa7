package httpcontext

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskboard/pkg/locale"
)

func TestAttachCarriesRequestMetadata(t *testing.T) {
	var rc fasthttp.RequestCtx
	rc.Request.Header.Set("X-Request-ID", "abc")
	rc.Request.Header.Set("Accept-Language", "ru-RU,ru;q=0.9")
	rc.SetUserValue(UserValueUserID, "u1")

	ctx, cancel := NewAdapter(time.Second, locale.English).Attach(&rc)
	defer cancel()

	assert.Equal(t, "abc", string(rc.Response.Header.Peek("X-Request-ID")))
	assert.Equal(t, "u1", UserID(&rc))
	assert.Equal(t, locale.Russian.Tag, Locale(ctx, locale.English).Tag)

	deadline, ok := ctx.Deadline()
	assert.True(t, ok)
	assert.WithinDuration(t, time.Now().Add(time.Second), deadline, time.Second)
}

func TestAttachGeneratesRequestID(t *testing.T) {
	var rc fasthttp.RequestCtx
	ctx, cancel := NewAdapter(0, locale.Russian).Attach(&rc)
	defer cancel()

	assert.Len(t, string(rc.Response.Header.Peek("X-Request-ID")), 36)
	assert.Empty(t, UserID(&rc))
	assert.Equal(t, locale.Russian.Tag, Locale(ctx, locale.English).Tag)
}

func TestLocaleFallback(t *testing.T) {
	assert.Equal(t, locale.English.Tag, Locale(context.Background(), locale.English).Tag)
}
