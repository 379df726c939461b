package counter

import (
	"errors"
	"sync"
	"sync/atomic"
	"time"

	c "github.com/d0ngw/visitcounter/common"
)

// Flusher transfers the write buffer to the durable store and
// resynchronizes the read cache for the flushed keys.A flush is
// triggered opportunistically by the facade at the start of every
// request,or by FlushSchedule;only one flush runs at a time,a
// concurrent trigger is a checked no-op.
type Flusher struct {
	store    Store
	buffer   *WriteBuffer
	cache    *ReadCache
	interval time.Duration

	flushing    int32
	mutex       sync.Mutex
	lastFlushAt time.Time
	now         func() time.Time
}

// NewFlusher create Flusher
func NewFlusher(store Store, buffer *WriteBuffer, cache *ReadCache, interval time.Duration) (*Flusher, error) {
	if c.HasNil(store, buffer, cache) {
		return nil, errors.New("store,buffer and cache must not be nil")
	}
	if interval <= 0 {
		return nil, errors.New("interval must be >0")
	}
	return &Flusher{
		store:       store,
		buffer:      buffer,
		cache:       cache,
		interval:    interval,
		lastFlushAt: time.Now(),
		now:         time.Now,
	}, nil
}

// Due reports whether the next flush is due
func (p *Flusher) Due() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.now().Sub(p.lastFlushAt) >= p.interval
}

// FlushIfDue runs a flush if one is due and no flush is running.The
// error of a failed flush is logged,not returned;the buffer keeps the
// deltas and the next due check retries.
func (p *Flusher) FlushIfDue() {
	if !p.Due() {
		return
	}
	if !atomic.CompareAndSwapInt32(&p.flushing, 0, 1) {
		return
	}
	defer atomic.StoreInt32(&p.flushing, 0)
	if !p.Due() {
		return
	}
	if err := p.flush(); err != nil {
		c.Errorf("flush fail,err:%v", err)
	}
}

// Flush runs a flush now regardless of the interval,skipping if one is
// already running.Used by FlushSchedule to drain the buffer on stop.
func (p *Flusher) Flush() error {
	if !atomic.CompareAndSwapInt32(&p.flushing, 0, 1) {
		return nil
	}
	defer atomic.StoreInt32(&p.flushing, 0)
	return p.flush()
}

// flush must only run under the flushing flag.No lock is held across a
// store call.
func (p *Flusher) flush() error {
	snapshot := p.buffer.SnapshotAndClear()
	if len(snapshot) == 0 {
		p.advance()
		return nil
	}

	if err := p.store.IncrMany(snapshot); err != nil {
		// the whole batch is treated as not applied,restore it so no
		// count is lost;lastFlushAt stays put so the next check retries
		p.buffer.Merge(snapshot)
		return err
	}

	for key := range snapshot {
		durable, err := p.store.GetValue(key)
		if err != nil {
			c.Warnf("refresh cache after flush fail,key:%s,err:%v", key, err)
			continue
		}
		p.cache.Put(key, durable+p.buffer.Peek(key))
	}
	p.advance()
	return nil
}

func (p *Flusher) advance() {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.lastFlushAt = p.now()
}

// FlushSchedule runs FlushIfDue periodically in a background goroutine
// and drains the buffer with a final flush on stop.It is an addition to
// the per-request due check,both share the Flusher single-flight guard.
type FlushSchedule struct {
	c.BaseService
	flusher      *Flusher
	scanInterval time.Duration
	stopChan     chan int
	stop         int32
	wg           sync.WaitGroup
}

// NewFlushSchedule create FlushSchedule
func NewFlushSchedule(name string, flusher *Flusher, scanInterval time.Duration) (*FlushSchedule, error) {
	if flusher == nil || scanInterval <= 0 {
		return nil, errors.New("invalid params")
	}
	return &FlushSchedule{
		BaseService:  c.BaseService{SName: name},
		flusher:      flusher,
		scanInterval: scanInterval,
		stopChan:     make(chan int, 1),
	}, nil
}

// Init implements Initable.Init
func (p *FlushSchedule) Init() error {
	if p.flusher == nil || p.scanInterval <= 0 {
		return errors.New("invalid flusher or scanInterval")
	}
	return nil
}

// Start implements Service.Start
func (p *FlushSchedule) Start() bool {
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		c.Infof("Start flush schedule")
		for atomic.LoadInt32(&p.stop) == 0 {
			p.flusher.FlushIfDue()

			timer := time.NewTimer(p.scanInterval)
			select {
			case <-timer.C:
			case <-p.stopChan:
			}
			timer.Stop()
		}
		c.Infof("Finish flush schedule")
	}()
	return true
}

// Stop implements Service.Stop,drains the buffer with a final flush
func (p *FlushSchedule) Stop() bool {
	atomic.StoreInt32(&p.stop, 1)
	close(p.stopChan)
	p.wg.Wait()
	if err := p.flusher.Flush(); err != nil {
		c.Errorf("final flush fail,err:%v", err)
	}
	return true
}
