package cache

import (
	"sync"
	"time"

	"TradePulse/internal/domain/models"
	"TradePulse/internal/domain/repository"
)

type entry struct {
	snap   models.MarketSnapshot
	exp    time.Time
	access time.Time
}

// SnapshotCache keeps the latest market snapshot per symbol with TTL and a
// capacity bound. Eviction is LRU over symbols.
type SnapshotCache struct {
	mu       sync.RWMutex
	m        map[string]*entry
	capacity int
	ttl      time.Duration
}

var _ repository.SnapshotCache = (*SnapshotCache)(nil)

func NewSnapshotCache(capacity int, ttl time.Duration) *SnapshotCache {
	if capacity <= 0 {
		capacity = 1000
	}
	return &SnapshotCache{
		m:        make(map[string]*entry, capacity),
		capacity: capacity,
		ttl:      ttl,
	}
}

// Put stores the snapshot as the latest state of its symbol.
func (c *SnapshotCache) Put(snap models.MarketSnapshot) {
	now := time.Now()
	var exp time.Time
	if c.ttl > 0 {
		exp = now.Add(c.ttl)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if _, ok := c.m[snap.Symbol]; !ok && len(c.m) >= c.capacity {
		c.evictLRU()
	}
	c.m[snap.Symbol] = &entry{snap: snap, exp: exp, access: now}
}

// Latest returns the most recent non-expired snapshot for the symbol.
func (c *SnapshotCache) Latest(symbol string) (models.MarketSnapshot, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.m[symbol]
	if !ok {
		return models.MarketSnapshot{}, false
	}
	if !e.exp.IsZero() && time.Now().After(e.exp) {
		delete(c.m, symbol)
		return models.MarketSnapshot{}, false
	}
	e.access = time.Now()
	return e.snap, true
}

// Len reports how many symbols currently have a cached snapshot.
func (c *SnapshotCache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.m)
}

func (c *SnapshotCache) evictLRU() {
	var oldestKey string
	oldestTime := time.Now()

	for key, e := range c.m {
		if e.access.Before(oldestTime) {
			oldestTime = e.access
			oldestKey = key
		}
	}
	if oldestKey != "" {
		delete(c.m, oldestKey)
	}
}
