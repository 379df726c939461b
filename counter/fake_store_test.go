package counter

import (
	"errors"
	"sync"
	"sync/atomic"
)

var errAlwaysDown = errors.New("connection refused")

// fakeStore is an in-memory Store with a switchable outage
type fakeStore struct {
	mutex         sync.Mutex
	totals        map[string]int64
	unavailable   bool
	incrManyCalls int32
	incrManyGate  chan struct{}
}

func newFakeStore() *fakeStore {
	return &fakeStore{totals: map[string]int64{}}
}

func (p *fakeStore) setUnavailable(unavailable bool) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.unavailable = unavailable
}

func (p *fakeStore) total(key string) int64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.totals[key]
}

func (p *fakeStore) Incr(key string, delta int64) (int64, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.unavailable {
		return 0, unavailable(errAlwaysDown)
	}
	p.totals[key] += delta
	return p.totals[key], nil
}

func (p *fakeStore) GetValue(key string) (int64, error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.unavailable {
		return 0, unavailable(errAlwaysDown)
	}
	return p.totals[key], nil
}

func (p *fakeStore) IncrMany(deltas map[string]int64) error {
	atomic.AddInt32(&p.incrManyCalls, 1)
	if p.incrManyGate != nil {
		<-p.incrManyGate
	}
	p.mutex.Lock()
	defer p.mutex.Unlock()
	if p.unavailable {
		return unavailable(errAlwaysDown)
	}
	for key, delta := range deltas {
		p.totals[key] += delta
	}
	return nil
}
