package cache

import "time"

// Cache keys shared by the catalog.
const (
	KeyTopSelling = "products:top_selling"
	KeyAnimeNames = "products:anime_names"
	PrefixProduct = "products:id:"
	KeySitemap    = "sitemap:items"
	PrefixStats   = "stats:"
)

// CacheService defines the behavior for caching mechanisms
type CacheService interface {
	// Get returns the value and true if found and not expired.
	Get(key string) (interface{}, bool)

	// Set adds a value to the cache with a duration
	Set(key string, value interface{}, duration time.Duration)

	Delete(key string)

	// DeletePrefix removes every key starting with prefix.
	DeletePrefix(prefix string)

	Flush()
}

// Remember returns the cached value for key, or calls load and caches its
// result for ttl. Errors are not cached.
func Remember[T any](c CacheService, key string, ttl time.Duration, load func() (T, error)) (T, error) {
	if c != nil {
		if v, ok := c.Get(key); ok {
			if typed, ok := v.(T); ok {
				return typed, nil
			}
		}
	}
	v, err := load()
	if err != nil {
		return v, err
	}
	if c != nil {
		c.Set(key, v, ttl)
	}
	return v, nil
}
