// Copyright (c) 2026 Editaliza. All rights reserved.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/editaliza/editaliza/internal/platform/apperr"
	"github.com/editaliza/editaliza/internal/platform/cookie"
	"github.com/editaliza/editaliza/internal/platform/ctxutil"
	"github.com/editaliza/editaliza/internal/platform/respond"
	"github.com/editaliza/editaliza/internal/platform/sec"
)

// TokenVerifier validates an auth token; the auth service implements it.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (*sec.AuthClaims, error)
}

// Authenticate reads the auth-token cookie and, when it verifies, attaches
// the claims to the request context.
//
// A missing or invalid token leaves the request anonymous; mount
// [RequireAuth] after it to reject those.
func Authenticate(verifier TokenVerifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token := cookie.Token(request)
			if token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			ctx := request.Context()
			claims, err := verifier.Verify(ctx, token)
			if err != nil {
				ctxutil.GetLogger(ctx).DebugContext(ctx, "api_token_rejected", slog.String("error", err.Error()))
				next.ServeHTTP(writer, request)
				return
			}

			ctx = ctxutil.WithAuthUser(ctx, claims)
			ctx = ctxutil.WithLogger(ctx, ctxutil.GetLogger(ctx).With(slog.String("user_id", claims.UserID)))
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth rejects anonymous requests with 401.
//
// Must be registered AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetAuthUser(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
