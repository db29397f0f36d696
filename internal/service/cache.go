package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ahmednasr/namastebot/internal/dialogue"
)

const cacheKeyPrefix = "namastebot:retrieval:"

// CachedRetriever memoizes guide answers in Redis. Cache errors are logged
// and the call goes to the wrapped retriever.
type CachedRetriever struct {
	next   dialogue.Retriever
	client redis.UniversalClient
	ttl    time.Duration
}

// NewCachedRetriever wraps next. A zero ttl keeps entries until evicted.
func NewCachedRetriever(next dialogue.Retriever, client redis.UniversalClient, ttl time.Duration) *CachedRetriever {
	return &CachedRetriever{next: next, client: client, ttl: ttl}
}

// Retrieve serves from the cache when possible. Empty answers and errors
// are never stored.
func (c *CachedRetriever) Retrieve(ctx context.Context, query string) (string, error) {
	key := cacheKey(query)

	cached, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		slog.DebugContext(ctx, "Retrieval cache hit", "key", key)
		return cached, nil
	case !errors.Is(err, redis.Nil):
		slog.WarnContext(ctx, "Retrieval cache read failed", "error", err)
	}

	answer, err := c.next.Retrieve(ctx, query)
	if err != nil || strings.TrimSpace(answer) == "" {
		return answer, err
	}

	if err := c.client.Set(ctx, key, answer, c.ttl).Err(); err != nil {
		slog.WarnContext(ctx, "Retrieval cache write failed", "error", err)
	}
	return answer, nil
}

// cacheKey hashes the case- and whitespace-normalized query.
func cacheKey(query string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(query)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
