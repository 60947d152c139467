// Package cache provides in-memory caching of fetched odds.
package cache

import (
	"fmt"
	"sync/atomic"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/yourusername/promo-hedge/internal/metrics"
	"github.com/yourusername/promo-hedge/internal/models"
)

// Key identifies one provider response
type Key struct {
	Source string
	Sport  string
}

// String returns string representation of cache key
func (k Key) String() string {
	return fmt.Sprintf("%s:%s", k.Source, k.Sport)
}

// OddsCache keeps recent provider responses so repeated scans within the TTL
// do not spend provider quota. Cached game slices are shared and must be
// treated as read-only.
type OddsCache struct {
	cache   *gocache.Cache
	ttl     time.Duration
	maxSize int

	hitCount  atomic.Uint64
	missCount atomic.Uint64
}

// NewOddsCache creates a new odds cache
func NewOddsCache(ttl time.Duration, maxSize int) *OddsCache {
	return &OddsCache{
		cache:   gocache.New(ttl, ttl*2),
		ttl:     ttl,
		maxSize: maxSize,
	}
}

// Get retrieves cached games
func (oc *OddsCache) Get(key Key) ([]models.Game, bool) {
	if v, found := oc.cache.Get(key.String()); found {
		if games, ok := v.([]models.Game); ok {
			oc.hitCount.Add(1)
			oc.updateMetrics(true)
			return games, true
		}
	}
	oc.missCount.Add(1)
	oc.updateMetrics(false)
	return nil, false
}

// Set stores games in cache. When the cache is full, expired entries are
// purged first; if it is still full the new entry is not stored.
func (oc *OddsCache) Set(key Key, games []models.Game) bool {
	if oc.maxSize > 0 && oc.ItemCount() >= oc.maxSize {
		oc.cache.DeleteExpired()
		if _, exists := oc.cache.Get(key.String()); !exists && oc.ItemCount() >= oc.maxSize {
			return false
		}
	}
	oc.cache.Set(key.String(), games, oc.ttl)
	return true
}

// Stats returns cache statistics
func (oc *OddsCache) Stats() (hits, misses uint64, ratio float64) {
	hits = oc.hitCount.Load()
	misses = oc.missCount.Load()
	if total := hits + misses; total > 0 {
		ratio = float64(hits) / float64(total)
	}
	return
}

// ItemCount returns the number of items in cache
func (oc *OddsCache) ItemCount() int {
	return oc.cache.ItemCount()
}

func (oc *OddsCache) updateMetrics(hit bool) {
	_, _, ratio := oc.Stats()
	metrics.RecordCacheLookup(hit, ratio)
}
