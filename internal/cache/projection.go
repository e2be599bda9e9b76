// Copyright (c) 2026 Lancaster Community Hub contributors
// All rights reserved. See LICENSE for details.

// projection.go caches projected reader pages (listings and details) as
// JSON in Valkey. Entries are keyed per content kind and language so a
// publish, delete, or finished fan-out can drop every view of one kind.
// A nil *ProjectionCache is valid and caches nothing.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"lancasterhub/internal/models"
)

const (
	// projectionKeyPrefix is the Valkey key prefix for cached projections.
	projectionKeyPrefix = "proj:"

	// DefaultProjectionTTL bounds how stale a reader view can get when an
	// invalidation is missed.
	DefaultProjectionTTL = 2 * time.Minute
)

// ProjectionCache stores projected pages in Valkey.
type ProjectionCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewProjectionCache creates a projection cache backed by the given Valkey
// client. A zero ttl uses DefaultProjectionTTL.
func NewProjectionCache(client *redis.Client, ttl time.Duration) *ProjectionCache {
	if ttl <= 0 {
		ttl = DefaultProjectionTTL
	}
	return &ProjectionCache{client: client, ttl: ttl}
}

// Key builds the cache key for one view. parts identify the view within
// its kind and language (filters, page, item id) and are hashed.
func Key(kind models.Kind, lang string, parts ...any) string {
	h := sha256.New()
	for _, p := range parts {
		fmt.Fprintf(h, "%v\x00", p)
	}
	return projectionKeyPrefix + string(kind) + ":" + strings.ToLower(lang) + ":" + hex.EncodeToString(h.Sum(nil))[:24]
}

func kindPattern(kind models.Kind) string {
	return projectionKeyPrefix + string(kind) + ":*"
}

// Get decodes the cached value for key into dst. It reports false on a
// miss, on any Valkey error, and on undecodable data.
func (pc *ProjectionCache) Get(ctx context.Context, key string, dst any) bool {
	if pc == nil {
		return false
	}
	val, err := pc.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false
	}
	if err != nil {
		slog.Warn("projection cache get error", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(val, dst); err != nil {
		slog.Warn("projection cache decode error", "key", key, "error", err)
		return false
	}
	slog.Debug("projection cache hit", "key", key)
	return true
}

// Set stores v as JSON under key with the configured TTL.
func (pc *ProjectionCache) Set(ctx context.Context, key string, v any) {
	if pc == nil {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		slog.Warn("projection cache encode error", "key", key, "error", err)
		return
	}
	if err := pc.client.Set(ctx, key, data, pc.ttl).Err(); err != nil {
		slog.Warn("projection cache set error", "key", key, "error", err)
	}
}

// InvalidateKind removes every cached view of one content kind, in all
// languages, by scanning for its prefix.
func (pc *ProjectionCache) InvalidateKind(ctx context.Context, kind models.Kind) {
	if pc == nil {
		return
	}
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := pc.client.Scan(ctx, cursor, kindPattern(kind), 100).Result()
		if err != nil {
			slog.Warn("projection cache scan error", "kind", string(kind), "error", err)
			return
		}
		if len(keys) > 0 {
			if err := pc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("projection cache bulk delete error", "kind", string(kind), "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Debug("projection cache invalidated", "kind", string(kind), "deleted", deleted)
	}
}
