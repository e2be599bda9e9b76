package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"lancasterhub/internal/session"
)

// okHandler is a simple handler that records whether it was invoked.
func okHandler() (http.Handler, *bool) {
	var called bool
	h := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		w.WriteHeader(http.StatusOK)
	})
	return h, &called
}

// failingTokens is a session.Tokens whose lookups always fail.
type failingTokens struct{ session.Tokens }

func (failingTokens) Get(context.Context, string) (*session.Data, error) {
	return nil, errors.New("valkey down")
}

func issue(t *testing.T, tokens session.Tokens, twoFADone bool) string {
	t.Helper()
	token, err := tokens.Create(context.Background(), &session.Data{Subject: "admin", TwoFADone: twoFADone})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	return token
}

func TestSessionFromCtx(t *testing.T) {
	t.Run("returns session when present", func(t *testing.T) {
		sess := &session.Data{Subject: "admin", TwoFADone: true}
		ctx := context.WithValue(context.Background(), SessionKey, sess)

		got := SessionFromCtx(ctx)
		if got == nil || got.Subject != "admin" {
			t.Fatalf("got %+v", got)
		}
	})

	t.Run("returns nil when not present", func(t *testing.T) {
		if got := SessionFromCtx(context.Background()); got != nil {
			t.Errorf("expected nil session, got %+v", got)
		}
	})

	t.Run("returns nil for wrong type in context", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), SessionKey, "not-a-session")
		if got := SessionFromCtx(ctx); got != nil {
			t.Errorf("expected nil for wrong type, got %+v", got)
		}
	})
}

func TestRequireAdmin(t *testing.T) {
	tokens := session.NewMemoryStore()
	valid := issue(t, tokens, true)
	halfway := issue(t, tokens, false)

	tests := []struct {
		name     string
		tokens   session.Tokens
		header   string
		wantCode int
	}{
		{name: "missing header", tokens: tokens, wantCode: http.StatusUnauthorized},
		{name: "wrong scheme", tokens: tokens, header: "Basic " + valid, wantCode: http.StatusUnauthorized},
		{name: "unknown token", tokens: tokens, header: "Bearer nope", wantCode: http.StatusUnauthorized},
		{name: "two-factor pending", tokens: tokens, header: "Bearer " + halfway, wantCode: http.StatusUnauthorized},
		{name: "store failure", tokens: failingTokens{}, header: "Bearer " + valid, wantCode: http.StatusInternalServerError},
		{name: "valid token", tokens: tokens, header: "Bearer " + valid, wantCode: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotSession *session.Data
			var gotToken string
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				gotSession = SessionFromCtx(r.Context())
				gotToken = TokenFromCtx(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/api/admin/posts", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rr := httptest.NewRecorder()
			RequireAdmin(tt.tokens)(next).ServeHTTP(rr, req)

			if rr.Code != tt.wantCode {
				t.Fatalf("status: got %d, want %d", rr.Code, tt.wantCode)
			}
			if tt.wantCode != http.StatusOK {
				if gotSession != nil {
					t.Error("next handler should not run")
				}
				if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
					t.Errorf("Content-Type: got %q", ct)
				}
				return
			}
			if gotSession == nil || gotSession.Subject != "admin" {
				t.Errorf("session not in context: %+v", gotSession)
			}
			if gotToken != valid {
				t.Errorf("token in context: got %q", gotToken)
			}
		})
	}
}
