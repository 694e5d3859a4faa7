package middleware

import (
	"context"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskboard/domain"
	"github.com/fastygo/taskboard/pkg/httpcontext"
)

// SessionVerifier resolves an access token to its live session.
type SessionVerifier interface {
	Verify(ctx context.Context, token string) (*domain.Session, error)
}

const verifyTimeout = 2 * time.Second

// JWTAuth rejects requests without a valid access token.
func JWTAuth(verifier SessionVerifier, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return authenticate(verifier, logger, true)
}

// OptionalJWTAuth identifies the caller when a token is present and lets anonymous requests through.
// A token that fails verification is treated as absent.
func OptionalJWTAuth(verifier SessionVerifier, logger *zap.Logger) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	return authenticate(verifier, logger, false)
}

func authenticate(verifier SessionVerifier, logger *zap.Logger, required bool) func(fasthttp.RequestHandler) fasthttp.RequestHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				if required {
					ctx.SetStatusCode(fasthttp.StatusUnauthorized)
					return
				}
				next(ctx)
				return
			}

			verifyCtx, cancel := context.WithTimeout(context.Background(), verifyTimeout)
			session, err := verifier.Verify(verifyCtx, tokenString)
			cancel()
			if err != nil {
				if required {
					logger.Warn("invalid jwt token", zap.Error(err))
					ctx.SetStatusCode(fasthttp.StatusUnauthorized)
					return
				}
				next(ctx)
				return
			}

			ctx.SetUserValue(httpcontext.UserValueUserID, session.UserID)
			next(ctx)
		}
	}
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
	if header == "" {
		return ""
	}
	if len(header) > 7 && strings.EqualFold(header[:7], "Bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
