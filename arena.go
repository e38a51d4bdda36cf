package weakarena

import (
	"errors"
	"log/slog"
	"runtime"
	"sync/atomic"
	"weak"
)

const (
	// DefaultCapacity is the size of the first segment when none is given (64 KiB).
	DefaultCapacity = 1 << 16
	// DefaultAlignment is the alignment requested from a Source for segments.
	DefaultAlignment = 8
)

var nextArenaID atomic.Uint64

// storage owns the segments of one arena. It holds no reference back to the
// arena so that it can be released by a runtime cleanup.
type storage struct {
	segments []*segment
	reserved []int64 // bytes acquired from the MemoryAcquirer, per segment
	current  int
	source   Source
	acquirer MemoryAcquirer
	cleanups []func()
	log      *slog.Logger
}

// runCleanups runs and forgets the registered cleanups.
func (s *storage) runCleanups() {
	cleanups := s.cleanups
	s.cleanups = nil
	for _, fn := range cleanups {
		fn()
	}
}

func (s *storage) acquire(size int) (*segment, error) {
	if s.acquirer != nil {
		if err := s.acquirer.Acquire(int64(size)); err != nil {
			return nil, err
		}
	}
	buf, err := s.source.Acquire(size, DefaultAlignment)
	if err != nil {
		if s.acquirer != nil {
			s.acquirer.Release(int64(size))
		}
		return nil, err
	}
	seg := newSegment(buf)
	s.segments = append(s.segments, seg)
	s.reserved = append(s.reserved, int64(size))
	s.current = len(s.segments) - 1
	return seg, nil
}

func (s *storage) release(i int) error {
	err := s.source.Release(s.segments[i].buf)
	if s.acquirer != nil {
		s.acquirer.Release(s.reserved[i])
	}
	s.log.Debug("segment released", "segment", i, "bytes", s.reserved[i])
	return err
}

// reset rewinds every segment and restarts allocation at the first one.
func (s *storage) reset(zero bool) {
	for _, seg := range s.segments {
		seg.reset(zero)
	}
	s.current = 0
}

// shrink keeps only the largest segment.
func (s *storage) shrink() error {
	if len(s.segments) <= 1 {
		return nil
	}
	keep := 0
	for i, seg := range s.segments {
		if seg.capacity() > s.segments[keep].capacity() {
			keep = i
		}
	}
	var errs []error
	for i := range s.segments {
		if i != keep {
			errs = append(errs, s.release(i))
		}
	}
	s.segments = []*segment{s.segments[keep]}
	s.reserved = []int64{s.reserved[keep]}
	s.current = 0
	return errors.Join(errs...)
}

// collect releases the storage of an arena that was garbage collected
// without being destroyed.
func (s *storage) collect() {
	s.runCleanups()
	if err := s.releaseAll(); err != nil {
		s.log.Warn("segment release failed", "error", err)
	}
}

func (s *storage) releaseAll() error {
	var errs []error
	for i := range s.segments {
		errs = append(errs, s.release(i))
	}
	s.segments = nil
	s.reserved = nil
	s.current = 0
	return errors.Join(errs...)
}

func (s *storage) capacity() int {
	sum := 0
	for _, seg := range s.segments {
		sum += seg.capacity()
	}
	return sum
}

// Arena is a bump allocator that hands out weak handles.
//
// Clear invalidates every outstanding handle in O(1) by advancing the
// generation; handles compare their stamp against it on every dereference.
//
// Arena is not goroutine-safe. Alloc, Clear and Destroy need exclusive
// access; IsAlive may run concurrently with Clear. Use SafeArena for shared
// use.
type Arena struct {
	id        uint64
	self      weak.Pointer[Arena]
	opts      options
	store     *storage
	slots     *slotTable
	gen       generation
	destroyed atomic.Bool
	finalizer runtime.Cleanup
	log       *slog.Logger
}

// NewArena creates an arena whose first segment holds initialCapacity bytes.
// If initialCapacity <= 0, DefaultCapacity is used.
func NewArena(initialCapacity int, opts ...Option) (*Arena, error) {
	if initialCapacity <= 0 {
		initialCapacity = DefaultCapacity
	}

	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.maxCapacity > 0 && initialCapacity > o.maxCapacity {
		initialCapacity = o.maxCapacity
	}

	id := nextArenaID.Add(1)
	log := o.logger.With("arena", id)
	a := &Arena{
		id:    id,
		opts:  o,
		store: &storage{source: o.source, acquirer: o.acquirer, log: log},
		slots: newSlotTable(0),
		log:   log,
	}
	a.gen.init()

	if _, err := a.store.acquire(initialCapacity); err != nil {
		return nil, &AllocError{Size: initialCapacity, Align: DefaultAlignment, cause: err}
	}
	a.log.Debug("segment acquired", "segment", 0, "bytes", a.store.segments[0].capacity())

	a.self = weak.Make(a)
	a.finalizer = runtime.AddCleanup(a, (*storage).collect, a.store)
	return a, nil
}

// ID returns the process-unique identity of the arena.
func (a *Arena) ID() uint64 {
	return a.id
}

// Generation returns the current generation.
func (a *Arena) Generation() uint32 {
	return a.gen.load()
}

// IsAlive reports whether r was issued by this arena and has not been
// invalidated by Clear or Destroy.
func (a *Arena) IsAlive(r Ref) bool {
	if a == nil || r.id != a.id || a.destroyed.Load() {
		return false
	}
	return r.gen == a.gen.load() && a.slots.contains(r.slot)
}

// Destroyed reports whether Destroy has been called.
func (a *Arena) Destroyed() bool {
	return a.destroyed.Load()
}

// reserve finds room for size bytes aligned to align, growing if allowed.
func (a *Arena) reserve(size, align int) (int, int, error) {
	st := a.store
	for {
		if off, ok := st.segments[st.current].reserve(size, align); ok {
			return st.current, off, nil
		}
		if st.current+1 >= len(st.segments) {
			break
		}
		// Segments retained across a clear are reused before growing.
		st.current++
	}

	capacity := st.capacity()
	if a.opts.growth == GrowFixed {
		return 0, 0, &AllocError{Size: size, Align: align, Capacity: capacity}
	}

	need := size
	if align > DefaultAlignment {
		need += align - 1
	}
	next := max(2*st.segments[len(st.segments)-1].capacity(), need)
	if limit := a.opts.maxCapacity; limit > 0 && capacity+next > limit {
		next = limit - capacity
		if next < need {
			return 0, 0, &AllocError{Size: size, Align: align, Capacity: capacity}
		}
	}

	seg, err := st.acquire(next)
	if err != nil {
		return 0, 0, &AllocError{Size: size, Align: align, Capacity: capacity, cause: err}
	}
	a.log.Debug("segment acquired", "segment", st.current, "bytes", seg.capacity())

	off, ok := seg.reserve(size, align)
	if !ok {
		return 0, 0, &AllocError{Size: size, Align: align, Capacity: st.capacity()}
	}
	return st.current, off, nil
}

// Clear invalidates every handle issued so far and rewinds the storage for
// reuse. Registered cleanups run first, in allocation order. Memory is not
// freed, and is zeroed only with WithZeroOnClear.
//
// Clear fails with ErrGenerationOverflow, leaving the arena untouched, once
// the generation counter is exhausted.
func (a *Arena) Clear() error {
	if a.destroyed.Load() {
		return ErrDestroyed
	}
	if !a.gen.canBump() {
		a.log.Error("clear failed", "generation", a.gen.load(), "error", ErrGenerationOverflow)
		return ErrGenerationOverflow
	}

	a.store.runCleanups()

	// The bump must precede any reuse of the storage below.
	gen, err := a.gen.bump()
	if err != nil {
		return err
	}
	a.slots.reset()
	a.store.reset(a.opts.zeroOnClear)

	if a.opts.shrinkOnClear {
		if err := a.store.shrink(); err != nil {
			a.log.Warn("segment release failed", "error", err)
		}
	}
	a.log.Debug("arena cleared", "generation", gen)
	return nil
}

// Destroy runs registered cleanups and releases all storage. Every handle
// becomes permanently stale. Destroy is idempotent.
func (a *Arena) Destroy() error {
	if a.destroyed.Swap(true) {
		return nil
	}
	a.store.runCleanups()
	a.slots.reset()
	a.finalizer.Stop()

	err := a.store.releaseAll()
	if err != nil {
		a.log.Warn("segment release failed", "error", err)
	}
	a.log.Debug("arena destroyed", "generation", a.gen.load())
	return err
}

