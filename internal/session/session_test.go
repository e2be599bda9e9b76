package session

import (
	"context"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
)

// testValkeyClient returns a Redis client connected to the test Valkey.
// Skips the test if Valkey is unavailable.
func testValkeyClient(t *testing.T) *redis.Client {
	t.Helper()

	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")
	password := os.Getenv("VALKEY_PASSWORD")

	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + port,
		Password: password,
		DB:       15, // Use DB 15 for tests to isolate from dev data.
	})

	ctx := context.Background()
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		t.Skipf("skipping integration test: Valkey not reachable: %v", err)
	}

	t.Cleanup(func() {
		keys, _ := client.Keys(ctx, keyPrefix+"*").Result()
		if len(keys) > 0 {
			client.Del(ctx, keys...)
		}
		client.Close()
	})

	return client
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// exerciseTokens runs the same lifecycle checks against any Tokens
// implementation.
func exerciseTokens(t *testing.T, tokens Tokens) {
	t.Helper()
	ctx := context.Background()

	data := &Data{Subject: "admin", TwoFADone: true}
	token, err := tokens.Create(ctx, data)
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if len(token) != idLength*2 {
		t.Errorf("token length: got %d, want %d", len(token), idLength*2)
	}
	if got := data.ExpiresAt.Sub(data.CreatedAt); got != DefaultTTL {
		t.Errorf("expiry window: got %v, want %v", got, DefaultTTL)
	}

	retrieved, err := tokens.Get(ctx, token)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if retrieved == nil {
		t.Fatal("expected token data, got nil")
	}
	if retrieved.Subject != "admin" || !retrieved.TwoFADone {
		t.Errorf("unexpected payload: %+v", retrieved)
	}

	unknown, err := tokens.Get(ctx, "nonexistent-token")
	if err != nil {
		t.Fatalf("Get (unknown): %v", err)
	}
	if unknown != nil {
		t.Error("expected nil for unknown token")
	}

	if err := tokens.Destroy(ctx, token); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if got, _ := tokens.Get(ctx, token); got != nil {
		t.Error("expected nil after destroy")
	}
	if err := tokens.Destroy(ctx, token); err != nil {
		t.Errorf("Destroy (twice): %v", err)
	}
}

func TestValkeyStoreLifecycle(t *testing.T) {
	client := testValkeyClient(t)
	exerciseTokens(t, NewStore(client))
}

func TestValkeyStoreEmptyToken(t *testing.T) {
	client := testValkeyClient(t)
	store := NewStore(client)

	data, err := store.Get(context.Background(), "")
	if err != nil || data != nil {
		t.Errorf("Get(\"\"): got %v, %v", data, err)
	}
}

func TestMemoryStoreLifecycle(t *testing.T) {
	exerciseTokens(t, NewMemoryStore())
}

func TestMemoryStoreExpiry(t *testing.T) {
	m := NewMemoryStore()
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	token, err := m.Create(context.Background(), &Data{Subject: "admin"})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	now = now.Add(DefaultTTL - time.Second)
	if got, _ := m.Get(context.Background(), token); got == nil {
		t.Fatal("token should still be valid")
	}

	now = now.Add(time.Second)
	if got, _ := m.Get(context.Background(), token); got != nil {
		t.Error("token should have expired")
	}
}

func TestBearerToken(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer abc123", "abc123"},
		{"bearer abc123", "abc123"},
		{"Bearer  abc123 ", "abc123"},
		{"Basic dXNlcjpwYXNz", ""},
		{"abc123", ""},
		{"", ""},
	}

	for _, tc := range tests {
		req := httptest.NewRequest("GET", "/", nil)
		if tc.header != "" {
			req.Header.Set("Authorization", tc.header)
		}
		if got := BearerToken(req); got != tc.want {
			t.Errorf("BearerToken(%q): got %q, want %q", tc.header, got, tc.want)
		}
	}
}
