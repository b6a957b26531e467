package checker

import (
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/lukemcguire/zombiecheck/result"
)

// Cache maps normalized links to their resolved Status. Entries are never
// overwritten, and concurrent misses on one key share a single check.
type Cache struct {
	entries sync.Map // string -> result.Status
	flights singleflight.Group
}

// Load returns the cached Status for key.
func (c *Cache) Load(key string) (result.Status, bool) {
	v, ok := c.entries.Load(key)
	if !ok {
		return result.Status{}, false
	}
	return v.(result.Status), true
}

// Store records status for key unless key is already present, and returns
// the Status that ends up cached.
func (c *Cache) Store(key string, status result.Status) result.Status {
	actual, _ := c.entries.LoadOrStore(key, status)
	return actual.(result.Status)
}

// Resolve returns the cached Status for key, running check on a miss.
// Callers that miss concurrently on the same key wait for one check.
// The boolean reports whether the Status came from the cache or another
// caller's check.
func (c *Cache) Resolve(key string, check func() result.Status) (result.Status, bool) {
	if status, ok := c.Load(key); ok {
		return status, true
	}
	ran := false
	v, _, _ := c.flights.Do(key, func() (any, error) {
		if status, ok := c.Load(key); ok {
			return status, nil
		}
		ran = true
		return c.Store(key, check()), nil
	})
	return v.(result.Status), !ran
}
