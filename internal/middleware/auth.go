// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"lancasterhub/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

const (
	// SessionKey is the context key for the admin token data.
	SessionKey contextKey = "session"

	// TokenKey is the context key for the raw bearer token.
	TokenKey contextKey = "token"
)

// RequireAdmin resolves the bearer token and rejects the request with 401
// unless it belongs to a live admin session that has passed two-factor
// verification (when enabled). The session is stored in the request
// context for downstream handlers.
func RequireAdmin(tokens session.Tokens) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := session.BearerToken(r)
			if token == "" {
				writeError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			data, err := tokens.Get(r.Context(), token)
			if err != nil {
				slog.Error("resolve admin token", "error", err)
				writeError(w, http.StatusInternalServerError, "internal server error")
				return
			}
			if data == nil || !data.TwoFADone {
				writeError(w, http.StatusUnauthorized, "invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), SessionKey, data)
			ctx = context.WithValue(ctx, TokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if the request did not pass RequireAdmin.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}

// TokenFromCtx returns the bearer token accepted by RequireAdmin.
func TokenFromCtx(ctx context.Context) string {
	token, _ := ctx.Value(TokenKey).(string)
	return token
}
