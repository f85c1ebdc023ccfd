package leetcode

import (
	"context"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/leetloop/leetloop/internal/logger"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultCacheTTL  = 15 * time.Minute
	DefaultCacheSize = 256
)

// CachedClient memoises complete UserData per username for a fixed TTL.
// Concurrent fetches for the same username share one upstream call.
type CachedClient struct {
	inner ClientInterface
	cache *expirable.LRU[string, *UserData]
	group singleflight.Group
}

// NewCachedClient wraps inner with an expiring LRU of at most size entries.
func NewCachedClient(inner ClientInterface, ttl time.Duration, size int) *CachedClient {
	if ttl <= 0 {
		ttl = DefaultCacheTTL
	}
	if size <= 0 {
		size = DefaultCacheSize
	}
	return &CachedClient{
		inner: inner,
		cache: expirable.NewLRU[string, *UserData](size, nil, ttl),
	}
}

// CacheKey is the cache key used for username.
func CacheKey(username string) string {
	return "leetcode:" + strings.ToLower(strings.TrimSpace(username))
}

func (c *CachedClient) FetchUserData(ctx context.Context, username string) (*UserData, error) {
	log := logger.FromContext(ctx).WithPrefix("leetcode_cache")
	key := CacheKey(username)

	if data, ok := c.cache.Get(key); ok {
		log.Debug("cache hit: %s", key)
		return data, nil
	}

	v, err, shared := c.group.Do(key, func() (any, error) {
		data, err := c.inner.FetchUserData(ctx, username)
		if err != nil {
			return nil, err
		}
		// Partial results are served but not cached so the next call retries.
		if data.Complete() {
			c.cache.Add(key, data)
		}
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	log.Debug("cache miss: %s (shared=%t)", key, shared)
	return v.(*UserData), nil
}

func (c *CachedClient) QuestionDifficulties(ctx context.Context, slugs []string) (map[string]string, error) {
	return c.inner.QuestionDifficulties(ctx, slugs)
}

// Invalidate drops the cached entry for username.
func (c *CachedClient) Invalidate(username string) {
	c.cache.Remove(CacheKey(username))
}

// Len returns the number of cached entries.
func (c *CachedClient) Len() int {
	return c.cache.Len()
}
