package services

import (
	"time"

	"github.com/patrickmn/go-cache"
)

// InFlightGuard rejects a second attempt of the same (action, target) while
// the first is unresolved. Entries expire after ttl so a crashed attempt
// cannot hold the key forever. A nil or disabled guard admits everything.
type InFlightGuard struct {
	enabled bool
	entries *cache.Cache
}

// NewInFlightGuard creates a guard
func NewInFlightGuard(enabled bool, ttl time.Duration) *InFlightGuard {
	if ttl <= 0 {
		ttl = 2 * time.Minute
	}
	return &InFlightGuard{
		enabled: enabled,
		entries: cache.New(ttl, 2*ttl),
	}
}

// Acquire reports whether the caller may proceed
func (g *InFlightGuard) Acquire(action, target string) bool {
	if g == nil || !g.enabled {
		return true
	}
	// Add fails when the key is already present
	return g.entries.Add(guardKey(action, target), time.Now(), cache.DefaultExpiration) == nil
}

// Release frees the key
func (g *InFlightGuard) Release(action, target string) {
	if g == nil || !g.enabled {
		return
	}
	g.entries.Delete(guardKey(action, target))
}

// Pending returns the number of unresolved attempts
func (g *InFlightGuard) Pending() int {
	if g == nil || !g.enabled {
		return 0
	}
	return g.entries.ItemCount()
}

func guardKey(action, target string) string {
	return action + ":" + target
}
