package counter

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestFlusher(t *testing.T, store Store, interval time.Duration) (*Flusher, *WriteBuffer, *ReadCache) {
	buffer := NewWriteBuffer()
	cache := NewReadCache(5 * time.Second)
	flusher, err := NewFlusher(store, buffer, cache, interval)
	assert.Nil(t, err)
	return flusher, buffer, cache
}

func backdate(flusher *Flusher) {
	flusher.mutex.Lock()
	defer flusher.mutex.Unlock()
	flusher.lastFlushAt = time.Now().Add(-time.Hour)
}

func TestFlushSuccess(t *testing.T) {
	store := newFakeStore()
	flusher, buffer, cache := newTestFlusher(t, store, 30*time.Second)

	buffer.AddIncrement("home", 3)
	buffer.AddIncrement("about", 1)

	backdate(flusher)
	flusher.FlushIfDue()

	assert.Equal(t, int64(3), store.total("home"))
	assert.Equal(t, int64(1), store.total("about"))
	assert.Equal(t, 0, buffer.Len())

	entry, ok := cache.Get("home")
	assert.True(t, ok)
	assert.Equal(t, int64(3), entry.Value)

	// lastFlushAt advanced,the next check is not due
	assert.False(t, flusher.Due())
}

func TestFlushNotDue(t *testing.T) {
	store := newFakeStore()
	flusher, buffer, _ := newTestFlusher(t, store, 30*time.Second)

	buffer.AddIncrement("home", 1)
	flusher.FlushIfDue()

	assert.Equal(t, int64(0), store.total("home"))
	assert.Equal(t, int64(1), buffer.Peek("home"))
}

func TestFlushEmptyBufferSkipsStore(t *testing.T) {
	store := newFakeStore()
	flusher, _, _ := newTestFlusher(t, store, 30*time.Second)

	backdate(flusher)
	flusher.FlushIfDue()

	assert.Equal(t, int32(0), atomic.LoadInt32(&store.incrManyCalls))
	assert.False(t, flusher.Due())
}

func TestFlushFailureRemergesSnapshot(t *testing.T) {
	store := newFakeStore()
	flusher, buffer, _ := newTestFlusher(t, store, 30*time.Second)

	buffer.AddIncrement("home", 2)
	store.setUnavailable(true)

	backdate(flusher)
	flusher.FlushIfDue()

	// nothing lost,nothing applied,the next check retries promptly
	assert.Equal(t, int64(2), buffer.Peek("home"))
	assert.Equal(t, int64(0), store.total("home"))
	assert.True(t, flusher.Due())

	store.setUnavailable(false)
	flusher.FlushIfDue()

	assert.Equal(t, int64(2), store.total("home"))
	assert.Equal(t, 0, buffer.Len())
	assert.False(t, flusher.Due())
}

func TestFlushFailureKeepsConcurrentIncrements(t *testing.T) {
	store := newFakeStore()
	flusher, buffer, _ := newTestFlusher(t, store, 30*time.Second)

	buffer.AddIncrement("home", 2)
	store.setUnavailable(true)
	assert.NotNil(t, flusher.Flush())

	// an increment arriving after the snapshot survives the re-merge
	buffer.AddIncrement("home", 1)
	store.setUnavailable(false)
	assert.Nil(t, flusher.Flush())

	assert.Equal(t, int64(3), store.total("home"))
}

func TestFlushSingleFlight(t *testing.T) {
	store := newFakeStore()
	store.incrManyGate = make(chan struct{})
	flusher, buffer, _ := newTestFlusher(t, store, 30*time.Second)

	buffer.AddIncrement("home", 1)
	backdate(flusher)

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		flusher.FlushIfDue()
	}()

	// wait until the first flush is inside IncrMany
	for atomic.LoadInt32(&store.incrManyCalls) == 0 {
		time.Sleep(time.Millisecond)
	}

	// concurrent triggers observe the running flush and no-op
	flusher.FlushIfDue()
	assert.Nil(t, flusher.Flush())

	close(store.incrManyGate)
	wg.Wait()

	assert.Equal(t, int32(1), atomic.LoadInt32(&store.incrManyCalls))
	assert.Equal(t, int64(1), store.total("home"))
}

func TestFlushSchedule(t *testing.T) {
	store := newFakeStore()
	flusher, buffer, _ := newTestFlusher(t, store, 10*time.Millisecond)

	schedule, err := NewFlushSchedule("test", flusher, 5*time.Millisecond)
	assert.Nil(t, err)
	assert.Nil(t, schedule.Init())
	assert.True(t, schedule.Start())

	backdate(flusher)
	buffer.AddIncrement("home", 2)
	deadline := time.Now().Add(time.Second)
	for store.total("home") != 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
	}
	assert.Equal(t, int64(2), store.total("home"))

	// the final flush on stop drains the buffer
	buffer.AddIncrement("home", 1)
	assert.True(t, schedule.Stop())
	assert.Equal(t, int64(3), store.total("home"))
	assert.Equal(t, 0, buffer.Len())
}
