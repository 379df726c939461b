// Package counter implements the visit counter service:a durable
// atomic-counter store fronted by a ttl read cache and a write
// coalescing buffer which is flushed to the store periodically.
package counter

import (
	"errors"
)

// ErrStoreUnavailable reports that the durable store can't complete a
// call.Callers serve a degraded response instead of failing the request.
var ErrStoreUnavailable = errors.New("durable store unavailable")

// Store is the client of the durable atomic-counter store.
type Store interface {
	// Incr atomically adds delta to key,returns the new total
	Incr(key string, delta int64) (int64, error)

	// GetValue returns the durable total of key,an unknown key reads as 0
	GetValue(key string) (int64, error)

	// IncrMany applies all the deltas as one batched request.Any error
	// means the whole batch must be treated as not applied;retrying can
	// duplicate the deltas which were applied before the error,this
	// at-least-once behavior is the documented trade-off.
	IncrMany(deltas map[string]int64) error
}
