package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// UserTTL bounds staleness of cached user records.
	UserTTL = 5 * time.Minute
)

// UserKey returns the cache key for a user record.
func UserKey(userID uint) string {
	return fmt.Sprintf("user:%d", userID)
}

// Aside tries Redis first; on miss it calls fill (which must populate
// dest) and stores the result with the given TTL. With no Redis client the
// fill function runs directly.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, fill func() error) error {
	if client != nil {
		s, err := client.Get(ctx, key).Result()
		if err == nil {
			if jsonErr := json.Unmarshal([]byte(s), dest); jsonErr == nil {
				return nil
			}
			// Corrupt entry; drop it and fall through to the source.
			client.Del(ctx, key)
		} else if err != redis.Nil {
			// Redis failure is non-fatal; serve from the source.
		}
	}

	if err := fill(); err != nil {
		return err
	}

	if client != nil {
		if b, err := json.Marshal(dest); err == nil {
			client.Set(ctx, key, b, ttl)
		}
	}
	return nil
}

// Invalidate removes a key, best effort.
func Invalidate(ctx context.Context, key string) {
	if client != nil {
		client.Del(ctx, key)
	}
}

// InvalidateUser removes the cached record for a user.
func InvalidateUser(ctx context.Context, userID uint) {
	Invalidate(ctx, UserKey(userID))
}
