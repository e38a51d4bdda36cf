// Package weakarena implements a segmented bump allocator that hands out weak
// handles instead of pointers.
//
// # Overview
//
// An arena allocates values by bumping a cursor through large segments and
// frees them all at once with Clear. Instead of a raw pointer, every
// allocation returns a Handle: a small comparable value holding the arena's
// identity, a slot index and the generation the value was allocated in.
// Handles may be kept after Clear; dereferencing a stale handle returns
// false instead of reading memory that has since been reused.
//
// # Basic Usage
//
//	a, err := weakarena.NewArena(0) // Use default capacity
//	if err != nil {
//		return err
//	}
//	defer a.Destroy()
//
//	h, err := weakarena.Alloc(a, Point{X: 1, Y: 2})
//	if err != nil {
//		return err
//	}
//
//	if p, ok := h.Get(); ok {
//		p.X++
//	}
//
//	a.Clear()       // O(1): every handle issued so far is now stale
//	_, ok := h.Load() // ok == false
//
// # Generations
//
// Each arena keeps a generation counter that starts at 1 and advances by
// exactly one per Clear. Slots record the generation they were issued in.
// A handle is alive iff it names this arena, its generation equals the
// current one and its slot index was issued in that generation. Clear never
// visits slots, so invalidation is constant time. The counter never wraps:
// Clear returns ErrGenerationOverflow instead.
//
// Arena ids are unique for the lifetime of the process, so a handle never
// matches a different arena whose generation happens to coincide.
//
// # Memory Layout
//
// Storage is a list of segments obtained from a Source (HeapSource,
// MmapSource or FixedSource). With GrowSegmented, a full arena acquires a new
// segment twice the size of the last one; segments are never moved, so
// existing slots keep valid offsets. With GrowFixed, allocations fail with
// ErrOutOfMemory until the next Clear.
//
// # Restrictions
//
//   - Values must be pointer-free: arena memory is not scanned by the
//     garbage collector. Alloc rejects other types with ErrPointerType.
//   - Pointers returned by Get are valid only until the next Clear or
//     Destroy. Hold the Handle, not the pointer.
//   - Destructors are not run automatically. Register one explicitly with
//     AllocWithCleanup.
//
// # Thread Safety
//
// The basic Arena type is not thread-safe. IsAlive may be called
// concurrently with Clear, but allocation and dereference need external
// synchronization. SafeArena provides it:
//
//	s, _ := weakarena.NewSafeArena(0)
//	h, _ := weakarena.SafeAlloc(s, 42)
//	v, ok := weakarena.SafeLoad(s, h)
//
// # Metrics and Monitoring
//
//	m := a.Metrics()
//	fmt.Println(m) // Arena{id: 1, gen: 1, len: 1, used: 16 B, ...}
package weakarena
