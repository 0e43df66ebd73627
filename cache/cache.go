// Package cache memoizes rendered feed pages for a fixed time window.
// Only the global feed is ever cached; staleness is bounded by the TTL alone,
// post writes do not invalidate entries.
package cache

import (
	"context"
	"log"
	"strconv"
	"time"

	"server/config"
)

type FeedCache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte)
	// Clear purges all cached entries immediately. Used for operational
	// recovery and for deterministic testing.
	Clear(ctx context.Context)
}

// GlobalFeedKey is the cache key for one page of the global feed.
func GlobalFeedKey(page int) string {
	return "global:" + strconv.Itoa(page)
}

// Init selects the feed cache backend: Redis when configured, in-process otherwise.
func Init() FeedCache {
	if config.REDIS_ADDR != "" {
		log.Printf("Feed cache: redis at %s, TTL %s", config.REDIS_ADDR, config.FEED_CACHE_TTL)
		return NewRedisCache(config.REDIS_ADDR, config.FEED_CACHE_TTL)
	}
	log.Printf("Feed cache: in-memory, TTL %s", config.FEED_CACHE_TTL)
	return NewMemoryCache(config.FEED_CACHE_TTL, time.Now)
}
