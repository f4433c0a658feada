package memory

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"
)

// SessionRepository keeps live per-browser or per-workspace objects for a sliding TTL.
// onEvict runs when an entry expires or is deleted.
type SessionRepository[T any] struct {
	cache *cache.Cache
	ttl   time.Duration
	mu    sync.Mutex
}

func NewSessionRepository[T any](ttl time.Duration, onEvict func(key string, value T)) *SessionRepository[T] {
	cleanup := ttl / 6
	if cleanup < time.Second {
		cleanup = time.Second
	}
	c := cache.New(ttl, cleanup)
	if onEvict != nil {
		c.OnEvicted(func(key string, v interface{}) {
			onEvict(key, v.(T))
		})
	}
	return &SessionRepository[T]{cache: c, ttl: ttl}
}

// Save stores value and restarts its TTL.
func (r *SessionRepository[T]) Save(key string, value T) {
	r.cache.Set(key, value, cache.DefaultExpiration)
}

// Get returns a live entry and extends its TTL.
func (r *SessionRepository[T]) Get(key string) (T, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.touchLocked(key)
}

// GetOrCreate returns the live entry for key, building and saving one if absent.
func (r *SessionRepository[T]) GetOrCreate(key string, create func() T) T {
	r.mu.Lock()
	defer r.mu.Unlock()
	if v, ok := r.touchLocked(key); ok {
		return v
	}
	v := create()
	r.cache.Set(key, v, cache.DefaultExpiration)
	return v
}

func (r *SessionRepository[T]) touchLocked(key string) (T, bool) {
	var zero T
	x, found := r.cache.Get(key)
	if !found {
		return zero, false
	}
	r.cache.Set(key, x, cache.DefaultExpiration)
	return x.(T), true
}

func (r *SessionRepository[T]) Delete(key string) {
	r.cache.Delete(key)
}

func (r *SessionRepository[T]) Len() int {
	return r.cache.ItemCount()
}

// Flush evicts every entry, running onEvict for each.
func (r *SessionRepository[T]) Flush() {
	for key := range r.cache.Items() {
		r.cache.Delete(key)
	}
}
