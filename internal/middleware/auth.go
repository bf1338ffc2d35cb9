package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/fastygo/taskwise/api/transport"
	"github.com/fastygo/taskwise/domain"
	"github.com/fastygo/taskwise/pkg/httpcontext"
)

// TokenVerifier resolves a bearer token to the identity of a live account.
type TokenVerifier interface {
	Authenticate(ctx context.Context, token string) (domain.Identity, error)
}

type Middleware func(fasthttp.RequestHandler) fasthttp.RequestHandler

// JWTAuth requires a valid bearer token.
func JWTAuth(verifier TokenVerifier, logger *zap.Logger) Middleware {
	return auth(verifier, false, logger)
}

// OptionalJWTAuth accepts a valid bearer token and falls back to the guest
// identity when no token is sent. A token that fails verification is still
// rejected.
func OptionalJWTAuth(verifier TokenVerifier, logger *zap.Logger) Middleware {
	return auth(verifier, true, logger)
}

func auth(verifier TokenVerifier, allowGuest bool, logger *zap.Logger) Middleware {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(next fasthttp.RequestHandler) fasthttp.RequestHandler {
		return func(ctx *fasthttp.RequestCtx) {
			tokenString := extractToken(ctx)
			if tokenString == "" {
				if !allowGuest {
					unauthorized(ctx, "missing bearer token")
					return
				}
				httpcontext.SetIdentity(ctx, domain.GuestIdentity)
				next(ctx)
				return
			}

			identity, err := verifier.Authenticate(ctx, tokenString)
			if err != nil {
				if !domain.IsDomainError(err, domain.ErrCodeUnauthorized) {
					logger.Error("token check failed", zap.Error(err))
					ctx.Response.Header.SetContentType("application/json")
					ctx.SetStatusCode(http.StatusInternalServerError)
					ctx.SetBodyString(transport.NewError(string(domain.ErrCodeInternal), "token check failed", nil).String())
					return
				}
				logger.Warn("invalid jwt token", zap.Error(err))
				unauthorized(ctx, "invalid token")
				return
			}

			httpcontext.SetIdentity(ctx, identity)
			next(ctx)
		}
	}
}

func unauthorized(ctx *fasthttp.RequestCtx, msg string) {
	ctx.Response.Header.SetContentType("application/json")
	ctx.SetStatusCode(http.StatusUnauthorized)
	ctx.SetBodyString(transport.NewError(string(domain.ErrCodeUnauthorized), msg, nil).String())
}

func extractToken(ctx *fasthttp.RequestCtx) string {
	header := strings.TrimSpace(string(ctx.Request.Header.Peek("Authorization")))
	if header == "" {
		return ""
	}
	if strings.HasPrefix(header, "Bearer ") {
		return strings.TrimSpace(strings.TrimPrefix(header, "Bearer "))
	}
	return header
}
