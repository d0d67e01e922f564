package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how long a derived artifact stays cached. Artifacts are
// pure functions of their inputs, so the TTL exists only to cap memory.
const DefaultTTL = 24 * time.Hour

// ArtifactCache memoizes derived artifacts (quiz, plan, image sets) in
// Redis, keyed by the content that produced them. A nil client disables
// caching entirely; every lookup misses and every store is a no-op.
type ArtifactCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewArtifactCache(client *redis.Client) *ArtifactCache {
	return &ArtifactCache{client: client, ttl: DefaultTTL}
}

// Key derives a stable cache key from an operation name, the source content
// and any extra parameters.
func Key(op, content string, params ...string) string {
	h := sha256.New()
	h.Write([]byte(content))
	for _, p := range params {
		h.Write([]byte{0})
		h.Write([]byte(p))
	}
	return fmt.Sprintf("artifact:%s:%s", op, hex.EncodeToString(h.Sum(nil))[:32])
}

// Get loads a cached artifact into dest, reporting whether it was present.
func (c *ArtifactCache) Get(ctx context.Context, key string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	val, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(val), dest) == nil
}

// Set stores an artifact. Failures are swallowed: the cache is an
// optimization, never a dependency.
func (c *ArtifactCache) Set(ctx context.Context, key string, value interface{}) {
	if c == nil || c.client == nil {
		return
	}
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, key, data, c.ttl)
}

// Invalidate removes cached artifacts.
func (c *ArtifactCache) Invalidate(ctx context.Context, keys ...string) {
	if c == nil || c.client == nil || len(keys) == 0 {
		return
	}
	c.client.Del(ctx, keys...)
}
