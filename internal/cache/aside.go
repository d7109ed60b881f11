package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"alcove/internal/observability"

	"github.com/redis/go-redis/v9"
)

// keyFamily reduces a cache key to its leading segment for metrics, so
// "post:17" and "post:94" land in the same series.
func keyFamily(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}

// Aside implements the cache-aside pattern: on a hit the cached JSON is
// unmarshalled into dest; on a miss load is called to fill dest and the
// result is stored with the given TTL. A nil or unreachable Redis
// degrades to calling load directly.
func Aside(ctx context.Context, key string, dest interface{}, ttl time.Duration, load func() error) error {
	family := keyFamily(key)

	if client == nil {
		observability.RecordCacheOperation(family, "bypass")
		return load()
	}

	raw, err := client.Get(ctx, key).Result()
	switch {
	case err == nil:
		if jsonErr := json.Unmarshal([]byte(raw), dest); jsonErr == nil {
			observability.RecordCacheOperation(family, "hit")
			return nil
		}
		// Stale or corrupt payload, fall through to reload.
		client.Del(ctx, key)
	case !errors.Is(err, redis.Nil):
		// Redis trouble is not the caller's problem.
		observability.RecordCacheOperation(family, "error")
		return load()
	}

	observability.RecordCacheOperation(family, "miss")
	if err := load(); err != nil {
		return err
	}

	if payload, jsonErr := json.Marshal(dest); jsonErr == nil {
		client.Set(ctx, key, payload, ttl)
	}
	return nil
}
