package counter

import (
	"fmt"
	"sync"
)

// WriteBuffer accumulates the increments which are not yet applied to
// the durable store.Batching amortizes the store round trips under
// high write rates;a buffered delta is cleared only by a successful
// flush of its key.
type WriteBuffer struct {
	mutex   sync.Mutex
	pending map[string]int64
}

// NewWriteBuffer create WriteBuffer
func NewWriteBuffer() *WriteBuffer {
	return &WriteBuffer{
		pending: map[string]int64{},
	}
}

// AddIncrement adds delta to the pending count of key
func (p *WriteBuffer) AddIncrement(key string, delta int64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	next := p.pending[key] + delta
	if next < 0 {
		panic(fmt.Errorf("negative pending count %d for key %s", next, key))
	}
	p.pending[key] = next
}

// Peek reads the pending count of key without clearing it
func (p *WriteBuffer) Peek(key string) int64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.pending[key]
}

// SnapshotAndClear takes the whole buffer and resets it to empty in one
// critical section.An increment racing with the snapshot lands either
// fully inside the returned map or fully in the emptied buffer,never in
// both and never in neither.
func (p *WriteBuffer) SnapshotAndClear() map[string]int64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	snapshot := p.pending
	p.pending = map[string]int64{}
	return snapshot
}

// Merge adds the deltas back key-wise.Used to restore a snapshot after
// a failed flush;addition,not overwrite,since new increments may have
// arrived meanwhile.
func (p *WriteBuffer) Merge(deltas map[string]int64) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	for key, delta := range deltas {
		p.pending[key] += delta
	}
}

// Len the count of keys with a pending delta
func (p *WriteBuffer) Len() int {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return len(p.pending)
}
