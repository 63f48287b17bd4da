package mem

import "github.com/lthibault/log"

// cache is a bounded, insert-only map.  Once it holds limit entries, it
// admits nothing further.  Callers must hold the pool's lock.
type cache[K comparable, V any] struct {
	name    string
	limit   int
	entries map[K]V
	full    bool

	log     log.Logger
	metrics Metrics
}

func newCache[K comparable, V any](p *Pool, name string) *cache[K, V] {
	return &cache[K, V]{
		name:    name,
		limit:   p.limits.MaxCacheEntries,
		entries: make(map[K]V),
		log:     p.log,
		metrics: p.metrics,
	}
}

func (c *cache[K, V]) lookup(k K) (v V, ok bool) {
	if v, ok = c.entries[k]; ok {
		c.metrics.Incr(c.name + ".hit")
	} else {
		c.metrics.Incr(c.name + ".miss")
	}
	return
}

// admit reports whether v was inserted.
func (c *cache[K, V]) admit(k K, v V) bool {
	if len(c.entries) >= c.limit {
		if !c.full {
			c.full = true
			c.log.
				WithField("cache", c.name).
				WithField("limit", c.limit).
				Debug("cache full")
		}
		c.metrics.Incr(c.name + ".bypass")
		return false
	}

	c.entries[k] = v
	c.metrics.Gauge(c.name+".size", len(c.entries))
	return true
}

func (c *cache[K, V]) len() int { return len(c.entries) }
