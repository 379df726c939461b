package counter

import (
	"errors"
	"time"

	c "github.com/d0ngw/visitcounter/common"
)

// ServedVia tells the caller where a count came from
type ServedVia string

// ServedVia values
const (
	// ServedViaCached the count came from a fresh read cache entry
	ServedViaCached ServedVia = "cached"
	// ServedViaDurable the count reflects the durable store plus the buffer
	ServedViaDurable ServedVia = "durable"
	// ServedViaDegraded the store was unreachable,the count reflects only
	// the local buffer
	ServedViaDegraded ServedVia = "degraded"
)

// Count is the result of RecordVisit and ReadCount
type Count struct {
	Visits    int64     `json:"visits"`
	ServedVia ServedVia `json:"served_via"`
}

// Default conf values
const (
	DefaultCacheTTLMills      = 5 * 1000
	DefaultFlushIntervalMills = 30 * 1000
)

// Conf is the visit counter config section,times in milliseconds
type Conf struct {
	CacheTTLMills      int64 `yaml:"cache_ttl_ms"`
	FlushIntervalMills int64 `yaml:"flush_interval_ms"`
}

// Parse implements Configurer.Parse,fills in the defaults
func (p *Conf) Parse() error {
	if p.CacheTTLMills < 0 || p.FlushIntervalMills < 0 {
		return errors.New("cache_ttl_ms and flush_interval_ms must be >=0")
	}
	if p.CacheTTLMills == 0 {
		p.CacheTTLMills = DefaultCacheTTLMills
	}
	if p.FlushIntervalMills == 0 {
		p.FlushIntervalMills = DefaultFlushIntervalMills
	}
	return nil
}

// CacheTTL the cache ttl as a Duration
func (p *Conf) CacheTTL() time.Duration {
	return time.Duration(p.CacheTTLMills) * time.Millisecond
}

// FlushInterval the flush interval as a Duration
func (p *Conf) FlushInterval() time.Duration {
	return time.Duration(p.FlushIntervalMills) * time.Millisecond
}

// VisitCounter is the facade over the store,the read cache,the write
// buffer and the flusher.At any instant the true total of a key is the
// durable total plus its buffered delta;no increment is dropped or
// double counted across flush boundaries.
type VisitCounter struct {
	store   Store
	cache   *ReadCache
	buffer  *WriteBuffer
	flusher *Flusher
}

// NewVisitCounter create VisitCounter,conf must be parsed
func NewVisitCounter(store Store, conf *Conf) (*VisitCounter, error) {
	if c.HasNil(store, conf) {
		return nil, errors.New("store and conf must not be nil")
	}
	cache := NewReadCache(conf.CacheTTL())
	buffer := NewWriteBuffer()
	flusher, err := NewFlusher(store, buffer, cache, conf.FlushInterval())
	if err != nil {
		return nil, err
	}
	return &VisitCounter{
		store:   store,
		cache:   cache,
		buffer:  buffer,
		flusher: flusher,
	}, nil
}

// Init implements Initable.Init
func (p *VisitCounter) Init() error {
	if c.HasNil(p.store, p.cache, p.buffer, p.flusher) {
		return errors.New("store,cache,buffer and flusher must be set")
	}
	return nil
}

// Flusher the flusher,for wiring a FlushSchedule
func (p *VisitCounter) Flusher() *Flusher {
	return p.flusher
}

// RecordVisit accepts one visit of key and returns the resulting total.
// The increment always lands in the buffer first,so a store outage
// degrades the response but never loses the count.
func (p *VisitCounter) RecordVisit(key string) (*Count, error) {
	if key == "" {
		return nil, errors.New("key must not be empty")
	}
	p.flusher.FlushIfDue()
	p.buffer.AddIncrement(key, 1)

	durable, err := p.store.GetValue(key)
	if err != nil {
		c.Warnf("get durable total fail,serve degraded,key:%s,err:%v", key, err)
		return &Count{Visits: p.buffer.Peek(key), ServedVia: ServedViaDegraded}, nil
	}

	total := durable + p.buffer.Peek(key)
	p.cache.Put(key, total)
	return &Count{Visits: total, ServedVia: ServedViaDurable}, nil
}

// ReadCount returns the current total of key.A fresh cache entry is
// served directly;otherwise the durable total is combined with the
// buffered delta and the cache is refreshed.
func (p *VisitCounter) ReadCount(key string) (*Count, error) {
	if key == "" {
		return nil, errors.New("key must not be empty")
	}
	if entry, ok := p.cache.Get(key); ok && p.cache.IsFresh(entry) {
		return &Count{Visits: entry.Value, ServedVia: ServedViaCached}, nil
	}

	p.flusher.FlushIfDue()

	durable, err := p.store.GetValue(key)
	if err != nil {
		// degraded responses never refresh the cache,a later read must
		// not see them as cached
		c.Warnf("get durable total fail,serve degraded,key:%s,err:%v", key, err)
		return &Count{Visits: p.buffer.Peek(key), ServedVia: ServedViaDegraded}, nil
	}

	total := durable + p.buffer.Peek(key)
	p.cache.Put(key, total)
	return &Count{Visits: total, ServedVia: ServedViaDurable}, nil
}
