package middleware

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/httpcontext"
)

type tokenTable map[string]string

func (t tokenTable) Verify(_ context.Context, token string) (*domain.Session, error) {
	if userID, ok := t[token]; ok {
		return &domain.Session{ID: "s-" + userID, UserID: userID}, nil
	}
	return nil, domain.ErrUnauthorized
}

func serve(mw func(fasthttp.RequestHandler) fasthttp.RequestHandler, auth string) (*fasthttp.RequestCtx, string, bool) {
	var rc fasthttp.RequestCtx
	if auth != "" {
		rc.Request.Header.Set("Authorization", auth)
	}
	var seen string
	called := false
	mw(func(ctx *fasthttp.RequestCtx) {
		called = true
		seen = httpcontext.UserID(ctx)
	})(&rc)
	return &rc, seen, called
}

func TestJWTAuth(t *testing.T) {
	mw := JWTAuth(tokenTable{"good": "u1"}, nil)

	tests := []struct {
		name   string
		header string
		user   string
		called bool
	}{
		{"bearer", "Bearer good", "u1", true},
		{"lowercase scheme", "bearer good", "u1", true},
		{"raw token", "good", "u1", true},
		{"missing", "", "", false},
		{"invalid", "Bearer bad", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rc, user, called := serve(mw, tt.header)
			assert.Equal(t, tt.called, called)
			assert.Equal(t, tt.user, user)
			if !tt.called {
				assert.Equal(t, fasthttp.StatusUnauthorized, rc.Response.StatusCode())
			}
		})
	}
}

func TestOptionalJWTAuth(t *testing.T) {
	mw := OptionalJWTAuth(tokenTable{"good": "u1"}, nil)

	_, user, called := serve(mw, "Bearer good")
	assert.True(t, called)
	assert.Equal(t, "u1", user)

	_, user, called = serve(mw, "")
	assert.True(t, called)
	assert.Empty(t, user)

	_, user, called = serve(mw, "Bearer expired")
	assert.True(t, called)
	assert.Empty(t, user)
}

func TestAccessLogRecoversPanics(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	var rc fasthttp.RequestCtx
	rc.Request.SetRequestURI("/api/v1/statistics")

	AccessLog(zap.New(core))(func(*fasthttp.RequestCtx) { panic("boom") })(&rc)

	assert.Equal(t, fasthttp.StatusInternalServerError, rc.Response.StatusCode())
	assert.Equal(t, 2, logs.Len())
	assert.Equal(t, "request", logs.All()[1].Message)
}
