package counter

import (
	"sync"
	"time"
)

// CacheEntry is a timestamped snapshot of a key's total count.The value
// equals durable total plus buffered delta as observed at ObservedAt,it
// must not be trusted once the ttl elapses.
type CacheEntry struct {
	Value      int64
	ObservedAt time.Time
}

// ReadCache is the ttl bounded mapping from key to its last known
// total.It is pure storage plus the freshness predicate,it never
// initiates a store or buffer access.
type ReadCache struct {
	ttl     time.Duration
	mutex   sync.Mutex
	entries map[string]CacheEntry
	now     func() time.Time
}

// NewReadCache create ReadCache with ttl
func NewReadCache(ttl time.Duration) *ReadCache {
	return &ReadCache{
		ttl:     ttl,
		entries: map[string]CacheEntry{},
		now:     time.Now,
	}
}

// Get returns the entry of key if present
func (p *ReadCache) Get(key string) (entry CacheEntry, ok bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	entry, ok = p.entries[key]
	return
}

// Put records value for key with ObservedAt = now
func (p *ReadCache) Put(key string, value int64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.entries[key] = CacheEntry{Value: value, ObservedAt: p.now()}
}

// IsFresh reports whether entry is still inside the ttl window
func (p *ReadCache) IsFresh(entry CacheEntry) bool {
	return p.now().Sub(entry.ObservedAt) < p.ttl
}

// TTL the configured ttl
func (p *ReadCache) TTL() time.Duration {
	return p.ttl
}
