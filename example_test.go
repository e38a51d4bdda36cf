package weakarena_test

import (
	"errors"
	"fmt"
	"sync"

	"github.com/pavanmanishd/weakarena"
)

// Example demonstrates basic arena usage
func Example() {
	// Create a new arena with default capacity
	a, err := weakarena.NewArena(0)
	if err != nil {
		panic(err)
	}
	defer a.Destroy() // Always clean up

	type point struct{ X, Y int32 }

	h, _ := weakarena.Alloc(a, point{X: 1, Y: 2})
	if p, ok := h.Get(); ok {
		p.X = 10
	}
	v, ok := h.Load()
	fmt.Println(v, ok)
	fmt.Println("live allocations:", a.Len())
	fmt.Println("used bytes:", a.UsedBytes())

	// Clear invalidates every handle in O(1)
	_ = a.Clear()
	_, ok = h.Load()
	fmt.Println("alive after clear:", ok)
	fmt.Println("generation:", a.Generation())

	// Output:
	// {10 2} true
	// live allocations: 1
	// used bytes: 8
	// alive after clear: false
	// generation: 2
}

// ExampleArena_Clear shows that a reused slot is never visible through a stale handle
func ExampleArena_Clear() {
	a, _ := weakarena.NewArena(1024)
	defer a.Destroy()

	first, _ := weakarena.Alloc(a, 10)
	_, _ = weakarena.Alloc(a, 20)
	_ = a.Clear()
	third, _ := weakarena.Alloc(a, 30)

	_, ok := first.Load()
	fmt.Println("first:", ok)
	v, ok := third.Load()
	fmt.Println("third:", v, ok)
	fmt.Println("same slot:", first.Ref().Slot() == third.Ref().Slot())

	// Output:
	// first: false
	// third: 30 true
	// same slot: true
}

// ExampleWithGrowth demonstrates a fixed-capacity arena
func ExampleWithGrowth() {
	a, _ := weakarena.NewArena(16, weakarena.WithGrowth(weakarena.GrowFixed))
	defer a.Destroy()

	h, _ := weakarena.Alloc(a, int64(1))
	_, _ = weakarena.Alloc(a, int64(2))

	_, err := weakarena.Alloc(a, int64(3))
	fmt.Println(errors.Is(err, weakarena.ErrOutOfMemory))
	fmt.Println(h.IsAlive())

	// Output:
	// true
	// true
}

// ExampleAllocWithCleanup shows cleanups running on Clear
func ExampleAllocWithCleanup() {
	a, _ := weakarena.NewArena(0)
	defer a.Destroy()

	type conn struct{ fd int32 }
	closeConn := func(c *conn) { fmt.Println("closing", c.fd) }

	_, _ = weakarena.AllocWithCleanup(a, conn{fd: 3}, closeConn)
	_, _ = weakarena.AllocWithCleanup(a, conn{fd: 4}, closeConn)
	_ = a.Clear()

	// Output:
	// closing 3
	// closing 4
}

// ExampleSafeArena demonstrates thread-safe arena usage
func ExampleSafeArena() {
	s, _ := weakarena.NewSafeArena(1024)
	defer s.Destroy()

	var wg sync.WaitGroup
	const numWorkers = 3
	handles := make([]weakarena.Handle[int], numWorkers)

	for i := 0; i < numWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			handles[id], _ = weakarena.SafeAlloc(s, id*100)
		}(i)
	}
	wg.Wait()

	for _, h := range handles {
		v, _ := weakarena.SafeLoad(s, h)
		fmt.Println(v)
	}
	fmt.Println("live allocations:", s.Len())

	// Output:
	// 0
	// 100
	// 200
	// live allocations: 3
}
