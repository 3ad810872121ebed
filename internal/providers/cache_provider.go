package providers

import (
	"mediawall/internal/structures"
	"sync"

	"github.com/coocood/freecache"
)

type CacheProviderInterface interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte)
}

// CacheProvider holds rendered responses keyed "namespace:version", where
// the version changes whenever the source file is reloaded. Only the newest
// version of a namespace is kept.
type CacheProvider struct {
	cache   *freecache.Cache
	ttl     int
	mu      sync.Mutex
	current map[string]string
}

func NewCacheProvider(conf *structures.Config, logger Logger) CacheProviderInterface {
	if !conf.Cache.Enabled || conf.Cache.Size <= 0 {
		logger.Infof(TypeApp, "Response cache disabled")
		return &noopCache{}
	}

	// 0 keeps entries until a newer version replaces them
	ttl := 0
	if conf.Cache.TTL > 0 {
		ttl = max(int(conf.Cache.TTL.Seconds()), 1)
	}
	logger.Infof(TypeApp, "Response cache: %dMB, TTL=%ds", conf.Cache.Size, ttl)

	return &CacheProvider{
		cache:   freecache.NewCache(conf.Cache.Size * 1024 * 1024),
		ttl:     ttl,
		current: make(map[string]string),
	}
}

func (c *CacheProvider) Get(key string) ([]byte, bool) {
	val, err := c.cache.Get([]byte(key))
	if err != nil {
		return nil, false
	}
	return val, true
}

// Set stores value and evicts the previous version of the key's namespace.
func (c *CacheProvider) Set(key string, value []byte) {
	ns := cacheNamespace(key)

	c.mu.Lock()
	prev := c.current[ns]
	c.current[ns] = key
	c.mu.Unlock()

	if prev != "" && prev != key {
		c.cache.Del([]byte(prev))
	}
	_ = c.cache.Set([]byte(key), value, c.ttl)
}

type noopCache struct{}

func (n *noopCache) Get(_ string) ([]byte, bool) { return nil, false }
func (n *noopCache) Set(_ string, _ []byte)      {}
