package weakarena

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSafeArena(t *testing.T) {
	s, err := NewSafeArena(1024)
	require.NoError(t, err)
	require.NotNil(t, s.a)
	defer s.Destroy()

	assert.Equal(t, s.a.ID(), s.ID())
	assert.Equal(t, 1024, s.Capacity())

	_, err = NewSafeArena(1024, WithMemoryLimit(1))
	assert.ErrorIs(t, err, ErrOutOfMemory)
}

func TestSafeArenaOperations(t *testing.T) {
	s, err := NewSafeArena(1024)
	require.NoError(t, err)

	h, err := SafeAlloc(s, 5)
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())
	assert.NotZero(t, s.UsedBytes())

	v, ok := SafeLoad(s, h)
	assert.True(t, ok)
	assert.Equal(t, 5, v)

	assert.True(t, SafeUpdate(s, h, func(p *int) { *p *= 10 }))
	v, _ = SafeLoad(s, h)
	assert.Equal(t, 50, v)
	assert.True(t, s.IsAlive(h.Ref()))

	cleaned := 0
	_, err = SafeAllocWithCleanup(s, 1, func(*int) { cleaned++ })
	require.NoError(t, err)

	require.NoError(t, s.Clear())
	assert.Equal(t, 1, cleaned)
	assert.Equal(t, uint32(2), s.Generation())
	assert.Zero(t, s.Len())
	assert.Zero(t, s.UsedBytes())
	assert.False(t, s.IsAlive(h.Ref()))
	assert.False(t, SafeUpdate(s, h, func(p *int) { *p = 0 }))

	_, ok = SafeLoad(s, h)
	assert.False(t, ok)

	require.NoError(t, s.Destroy())
	_, err = SafeAlloc(s, 1)
	assert.ErrorIs(t, err, ErrDestroyed)
	assert.Zero(t, s.Metrics().Capacity)
}

func TestSafeArenaConcurrentAccess(t *testing.T) {
	s, err := NewSafeArena(4096)
	require.NoError(t, err)
	defer s.Destroy()

	const (
		numWorkers = 8
		numOps     = 500
	)

	var wg sync.WaitGroup
	for w := 0; w < numWorkers; w++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for i := 0; i < numOps; i++ {
				want := [2]int64{int64(id), int64(i)}
				h, err := SafeAlloc(s, want)
				if err != nil {
					t.Errorf("SafeAlloc: %v", err)
					return
				}
				// A concurrent clear may invalidate h at any time, but a
				// live handle always yields its own value.
				if got, ok := SafeLoad(s, h); ok && got != want {
					t.Errorf("worker %d op %d: got %v, want %v", id, i, got, want)
				}
			}
		}(w)
	}

	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < 50; i++ {
			if err := s.Clear(); err != nil {
				t.Errorf("Clear: %v", err)
				return
			}
		}
	}()

	wg.Wait()
	assert.Equal(t, uint32(51), s.Generation())
}

func TestArena_IsAliveConcurrentWithClear(t *testing.T) {
	a := newTestArena(t, 1024)
	h, err := Alloc(a, 1)
	require.NoError(t, err)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := 0; i < 1000; i++ {
			_ = a.IsAlive(h.Ref())
		}
	}()
	go func() {
		defer wg.Done()
		for i := 0; i < 100; i++ {
			_ = a.Clear()
		}
	}()
	wg.Wait()

	assert.False(t, a.IsAlive(h.Ref()))
}
