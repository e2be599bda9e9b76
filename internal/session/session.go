// Package session provides admin bearer tokens. Tokens are random
// 32-byte hex strings mapped to a small JSON payload with a fixed TTL,
// stored in Valkey or, when Valkey is not available, in process memory.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// DefaultTTL is how long an admin token stays valid.
	DefaultTTL = 24 * time.Hour

	// keyPrefix namespaces token keys in Valkey to avoid collisions.
	keyPrefix = "admintoken:"

	// idLength is the byte length of the random token (32 bytes = 64 hex chars).
	idLength = 32
)

// Data is the payload stored for an issued token.
type Data struct {
	Subject   string    `json:"subject"`
	TwoFADone bool      `json:"two_fa_done"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Tokens issues, resolves and revokes admin tokens.
type Tokens interface {
	// Create stores data under a fresh token and returns the token.
	Create(ctx context.Context, data *Data) (string, error)
	// Get returns the payload for token, or nil if it is unknown or expired.
	Get(ctx context.Context, token string) (*Data, error)
	// Destroy revokes token. Revoking an unknown token is not an error.
	Destroy(ctx context.Context, token string) error
}

// Store manages tokens in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a token store backed by the given Valkey client.
func NewStore(client *redis.Client) *Store {
	return &Store{
		client: client,
		ttl:    DefaultTTL,
	}
}

func (s *Store) Create(ctx context.Context, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}

	data.CreatedAt = time.Now().UTC()
	data.ExpiresAt = data.CreatedAt.Add(s.ttl)

	payload, err := json.Marshal(data)
	if err != nil {
		return "", fmt.Errorf("session marshal: %w", err)
	}

	if err := s.client.Set(ctx, keyPrefix+id, payload, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("session store: %w", err)
	}
	return id, nil
}

func (s *Store) Get(ctx context.Context, token string) (*Data, error) {
	if token == "" {
		return nil, nil
	}

	payload, err := s.client.Get(ctx, keyPrefix+token).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil // expired or never issued
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}
	return &data, nil
}

func (s *Store) Destroy(ctx context.Context, token string) error {
	if token == "" {
		return nil
	}
	if err := s.client.Del(ctx, keyPrefix+token).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}
	return nil
}

// MemoryStore keeps tokens in process memory. Tokens do not survive a
// restart and are not shared between instances.
type MemoryStore struct {
	mu     sync.Mutex
	tokens map[string]Data
	ttl    time.Duration
	now    func() time.Time
}

// NewMemoryStore creates an empty in-memory token store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{tokens: map[string]Data{}, ttl: DefaultTTL, now: time.Now}
}

func (m *MemoryStore) Create(_ context.Context, data *Data) (string, error) {
	id, err := generateID()
	if err != nil {
		return "", fmt.Errorf("session create: %w", err)
	}
	data.CreatedAt = m.now().UTC()
	data.ExpiresAt = data.CreatedAt.Add(m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.tokens[id] = *data
	return id, nil
}

func (m *MemoryStore) Get(_ context.Context, token string) (*Data, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.tokens[token]
	if !ok {
		return nil, nil
	}
	if !m.now().Before(data.ExpiresAt) {
		delete(m.tokens, token)
		return nil, nil
	}
	return &data, nil
}

func (m *MemoryStore) Destroy(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.tokens, token)
	return nil
}

// BearerToken extracts the token from an "Authorization: Bearer <token>"
// header. Returns "" when the header is absent or malformed.
func BearerToken(r *http.Request) string {
	auth := r.Header.Get("Authorization")
	scheme, token, ok := strings.Cut(auth, " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}

// generateID creates a cryptographically random token.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
