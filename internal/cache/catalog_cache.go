package cache

import (
	"fmt"
	"strings"
	"time"

	"github.com/hh727w/portfolio-api/pkg/logger"
	"github.com/hh727w/portfolio-api/pkg/metrics"
	gocache "github.com/patrickmn/go-cache"
	"go.uber.org/zap"
)

const (
	catalogCacheName       = "catalog"
	defaultCatalogCacheTTL = 5 * time.Minute
)

// CatalogCache memoizes catalog query results in memory
type CatalogCache struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewCatalogCache creates a new catalog cache. A non-positive ttl falls back to five minutes.
func NewCatalogCache(ttl time.Duration) *CatalogCache {
	if ttl <= 0 {
		ttl = defaultCatalogCacheTTL
	}

	return &CatalogCache{
		cache: gocache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

// Key builds the cache key for a catalog query. Query text is case-folded so
// "Go" and "go" share an entry.
func Key(kind, query, tag string) string {
	return fmt.Sprintf("%s|%s|%s", kind, strings.ToLower(strings.TrimSpace(query)), strings.TrimSpace(tag))
}

// Get returns the cached value for key
func (c *CatalogCache) Get(key string) (interface{}, bool) {
	data, found := c.cache.Get(key)
	if found {
		metrics.CacheHits.WithLabelValues(catalogCacheName).Inc()
		logger.Debug("Catalog cache hit", zap.String("key", key))
		return data, true
	}

	metrics.CacheMisses.WithLabelValues(catalogCacheName).Inc()
	logger.Debug("Catalog cache miss", zap.String("key", key))
	return nil, false
}

// Set stores value under key using the cache TTL
func (c *CatalogCache) Set(key string, value interface{}) {
	c.cache.Set(key, value, c.ttl)
}

// Flush drops every cached entry
func (c *CatalogCache) Flush() {
	c.cache.Flush()
	logger.Info("Catalog cache flushed")
}

// ItemCount returns the number of cached entries, including expired ones not yet evicted
func (c *CatalogCache) ItemCount() int {
	return c.cache.ItemCount()
}

// GetOrLoad returns the cached value for key, calling load and caching its
// result on a miss. Load errors are not cached. An entry of the wrong type is
// evicted and reloaded.
func GetOrLoad[T any](c *CatalogCache, key string, load func() (T, error)) (T, error) {
	if data, found := c.Get(key); found {
		if v, ok := data.(T); ok {
			return v, nil
		}
		logger.Error("Invalid catalog cache data type", zap.String("key", key))
		c.cache.Delete(key)
	}

	v, err := load()
	if err != nil {
		var zero T
		return zero, err
	}

	c.Set(key, v)
	return v, nil
}
