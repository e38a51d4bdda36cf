package weakarena

import (
	"runtime"
	"sync"
)

// SafeArena is a lock-protected wrapper around Arena for concurrent access.
// Allocation, Clear and Destroy are exclusive; dereferences share a read lock.
type SafeArena struct {
	mu sync.RWMutex
	a  *Arena
}

// NewSafeArena creates a new thread-safe arena.
func NewSafeArena(initialCapacity int, opts ...Option) (*SafeArena, error) {
	a, err := NewArena(initialCapacity, opts...)
	if err != nil {
		return nil, err
	}
	return &SafeArena{a: a}, nil
}

// ID returns the identity of the wrapped arena.
func (s *SafeArena) ID() uint64 {
	return s.a.ID()
}

// Clear thread-safely invalidates all handles and rewinds the storage.
func (s *SafeArena) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Clear()
}

// Destroy thread-safely releases all storage.
func (s *SafeArena) Destroy() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.a.Destroy()
}

// IsAlive thread-safely reports whether r is still valid.
func (s *SafeArena) IsAlive(r Ref) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.a.IsAlive(r)
}

// Generic operations for SafeArena

// SafeAlloc thread-safely copies v into the arena.
func SafeAlloc[T any](s *SafeArena, v T) (Handle[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Alloc(s.a, v)
}

// SafeAllocWithCleanup thread-safely copies v into the arena and registers fn.
func SafeAllocWithCleanup[T any](s *SafeArena, v T, fn func(*T)) (Handle[T], error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return AllocWithCleanup(s.a, v, fn)
}

// SafeLoad thread-safely returns a copy of the value behind h.
// Copying under the read lock keeps a concurrent Clear from reusing the
// bytes mid-read.
func SafeLoad[T any](s *SafeArena, h Handle[T]) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var v T
	p, ok := Deref(s.a, h)
	if ok {
		v = *p
	}
	runtime.KeepAlive(s.a)
	return v, ok
}

// SafeUpdate thread-safely applies fn to the value behind h.
// It returns false if h is stale.
func SafeUpdate[T any](s *SafeArena, h Handle[T], fn func(*T)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := Deref(s.a, h)
	if !ok {
		return false
	}
	fn(p)
	return true
}

// Thread-safe metrics for SafeArena

// Len thread-safely returns the number of live allocations.
func (s *SafeArena) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.a.Len()
}

// UsedBytes thread-safely returns the bytes currently allocated.
func (s *SafeArena) UsedBytes() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.a.UsedBytes()
}

// Capacity thread-safely returns the total capacity of all segments.
func (s *SafeArena) Capacity() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.a.Capacity()
}

// Generation thread-safely returns the current generation.
func (s *SafeArena) Generation() uint32 {
	return s.a.Generation()
}

// Metrics thread-safely returns a snapshot of arena statistics.
func (s *SafeArena) Metrics() ArenaMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.a.Metrics()
}
