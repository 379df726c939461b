package counter

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func newTestVisitCounter(t *testing.T, store Store) *VisitCounter {
	conf := &Conf{}
	assert.Nil(t, conf.Parse())
	visitCounter, err := NewVisitCounter(store, conf)
	assert.Nil(t, err)
	assert.Nil(t, visitCounter.Init())
	return visitCounter
}

func TestConfDefaults(t *testing.T) {
	conf := &Conf{}
	assert.Nil(t, conf.Parse())
	assert.Equal(t, 5*time.Second, conf.CacheTTL())
	assert.Equal(t, 30*time.Second, conf.FlushInterval())

	conf = &Conf{CacheTTLMills: -1}
	assert.NotNil(t, conf.Parse())
}

func TestRecordVisitEmptyKey(t *testing.T) {
	visitCounter := newTestVisitCounter(t, newFakeStore())

	_, err := visitCounter.RecordVisit("")
	assert.NotNil(t, err)
	_, err = visitCounter.ReadCount("")
	assert.NotNil(t, err)
}

func TestRecordVisitBeforeFlush(t *testing.T) {
	store := newFakeStore()
	visitCounter := newTestVisitCounter(t, store)

	for i := int64(1); i <= 3; i++ {
		count, err := visitCounter.RecordVisit("home")
		assert.Nil(t, err)
		assert.Equal(t, i, count.Visits)
		assert.Equal(t, ServedViaDurable, count.ServedVia)
	}

	// nothing durable yet,the total is buffer only
	assert.Equal(t, int64(0), store.total("home"))

	count, err := visitCounter.ReadCount("home")
	assert.Nil(t, err)
	assert.Equal(t, int64(3), count.Visits)
	assert.Equal(t, ServedViaCached, count.ServedVia)

	assert.Nil(t, visitCounter.Flusher().Flush())
	assert.Equal(t, int64(3), store.total("home"))
	assert.Equal(t, int64(0), visitCounter.buffer.Peek("home"))
}

func TestReadCountFreshnessBound(t *testing.T) {
	store := newFakeStore()
	visitCounter := newTestVisitCounter(t, store)

	now := time.Now()
	visitCounter.cache.now = func() time.Time { return now }

	_, err := visitCounter.RecordVisit("home")
	assert.Nil(t, err)

	count, err := visitCounter.ReadCount("home")
	assert.Nil(t, err)
	assert.Equal(t, ServedViaCached, count.ServedVia)
	assert.Equal(t, int64(1), count.Visits)

	// just inside the ttl window,still cached
	now = now.Add(visitCounter.cache.TTL() - time.Millisecond)
	count, err = visitCounter.ReadCount("home")
	assert.Nil(t, err)
	assert.Equal(t, ServedViaCached, count.ServedVia)

	// past the ttl,buffer and store are re-consulted
	now = now.Add(2 * time.Millisecond)
	count, err = visitCounter.ReadCount("home")
	assert.Nil(t, err)
	assert.Equal(t, ServedViaDurable, count.ServedVia)
	assert.Equal(t, int64(1), count.Visits)
}

func TestDegradedMode(t *testing.T) {
	store := newFakeStore()
	visitCounter := newTestVisitCounter(t, store)
	store.setUnavailable(true)

	const visits = 5
	for i := int64(1); i <= visits; i++ {
		count, err := visitCounter.RecordVisit("home")
		assert.Nil(t, err)
		assert.Equal(t, i, count.Visits)
		assert.Equal(t, ServedViaDegraded, count.ServedVia)
	}

	count, err := visitCounter.ReadCount("home")
	assert.Nil(t, err)
	assert.Equal(t, int64(visits), count.Visits)
	assert.Equal(t, ServedViaDegraded, count.ServedVia)

	// the store recovers,a successful flush makes the count durable
	store.setUnavailable(false)
	assert.Nil(t, visitCounter.Flusher().Flush())
	assert.Equal(t, int64(visits), store.total("home"))

	count, err = visitCounter.ReadCount("home")
	assert.Nil(t, err)
	assert.Equal(t, int64(visits), count.Visits)
	assert.Equal(t, ServedViaCached, count.ServedVia)
}

func TestNoLostIncrements(t *testing.T) {
	store := newFakeStore()
	visitCounter := newTestVisitCounter(t, store)

	const visits = 20
	for i := 0; i < visits; i++ {
		_, err := visitCounter.RecordVisit("home")
		assert.Nil(t, err)

		// interleave successful and failed flush cycles
		switch i % 5 {
		case 1:
			assert.Nil(t, visitCounter.Flusher().Flush())
		case 3:
			store.setUnavailable(true)
			assert.NotNil(t, visitCounter.Flusher().Flush())
			store.setUnavailable(false)
		}
	}

	assert.Nil(t, visitCounter.Flusher().Flush())
	assert.Equal(t, int64(visits), store.total("home"))
	assert.Equal(t, 0, visitCounter.buffer.Len())
}

func TestNoDoubleCountAfterRestart(t *testing.T) {
	store := newFakeStore()
	visitCounter := newTestVisitCounter(t, store)

	for i := 0; i < 3; i++ {
		_, err := visitCounter.RecordVisit("home")
		assert.Nil(t, err)
	}
	assert.Nil(t, visitCounter.Flusher().Flush())

	// the process restarts with a fresh empty buffer right after the
	// store applied the batch;the flushed deltas must not resurface
	restarted := newTestVisitCounter(t, store)
	count, err := restarted.ReadCount("home")
	assert.Nil(t, err)
	assert.Equal(t, int64(3), count.Visits)
	assert.Equal(t, ServedViaDurable, count.ServedVia)
	assert.Equal(t, int64(3), store.total("home"))
}

func TestStoreErrorIsUnavailable(t *testing.T) {
	store := newFakeStore()
	store.setUnavailable(true)

	_, err := store.GetValue("home")
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	_, err = store.Incr("home", 1)
	assert.True(t, errors.Is(err, ErrStoreUnavailable))
	err = store.IncrMany(map[string]int64{"home": 1})
	assert.True(t, errors.Is(err, ErrStoreUnavailable))

	store.setUnavailable(false)
	total, err := store.Incr("home", 2)
	assert.Nil(t, err)
	assert.Equal(t, int64(2), total)
}
