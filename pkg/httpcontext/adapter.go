package httpcontext

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"

	"github.com/fastygo/taskboard/pkg/locale"
	appLogger "github.com/fastygo/taskboard/pkg/logger"
)

// Key represents a context value key exported for reuse.
type Key string

const (
	KeyRemoteAddr Key = "remote_addr"
	KeyUserAgent  Key = "user_agent"
	KeyLocale     Key = "locale"
)

// UserValueUserID is the fasthttp user value the auth middleware stores the caller under.
const UserValueUserID = "user_id"

// Adapter converts fasthttp.RequestCtx into a stdlib context with deadlines and metadata.
type Adapter struct {
	timeout time.Duration
	locale  locale.Locale
}

// NewAdapter constructs an Adapter. fallback is used when Accept-Language matches nothing.
func NewAdapter(timeout time.Duration, fallback locale.Locale) *Adapter {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	if fallback.DateLayout == "" {
		fallback = locale.English
	}
	return &Adapter{
		timeout: timeout,
		locale:  fallback,
	}
}

// Attach creates a context with timeout derived from the adapter and enriches it with request metadata.
func (a *Adapter) Attach(ctx *fasthttp.RequestCtx) (context.Context, context.CancelFunc) {
	stdCtx, cancel := context.WithTimeout(context.Background(), a.timeout)

	reqID := getRequestID(ctx)
	stdCtx = appLogger.ContextWithRequestID(stdCtx, reqID)
	ctx.Response.Header.Set("X-Request-ID", reqID)

	if userID := UserID(ctx); userID != "" {
		stdCtx = appLogger.ContextWithUserID(stdCtx, userID)
	}
	if remoteAddr := ctx.RemoteAddr(); remoteAddr != nil {
		stdCtx = context.WithValue(stdCtx, KeyRemoteAddr, remoteAddr.String())
	}
	if ua := string(ctx.Request.Header.UserAgent()); ua != "" {
		stdCtx = context.WithValue(stdCtx, KeyUserAgent, ua)
	}
	loc := locale.Negotiate(string(ctx.Request.Header.Peek("Accept-Language")), a.locale)
	stdCtx = context.WithValue(stdCtx, KeyLocale, loc)

	return stdCtx, cancel
}

// UserID returns the authenticated caller, or "" for anonymous requests.
func UserID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.UserValue(UserValueUserID).(string)
	return id
}

// Locale returns the negotiated locale stored by Attach, or fallback.
func Locale(ctx context.Context, fallback locale.Locale) locale.Locale {
	if ctx == nil {
		return fallback
	}
	if loc, ok := ctx.Value(KeyLocale).(locale.Locale); ok {
		return loc
	}
	return fallback
}

func getRequestID(ctx *fasthttp.RequestCtx) string {
	if ctx == nil {
		return uuid.NewString()
	}
	if header := string(ctx.Request.Header.Peek("X-Request-ID")); strings.TrimSpace(header) != "" {
		return header
	}
	return uuid.NewString()
}
