package weakarena

import (
	"math"
	"sync/atomic"
)

// slot records where a value lives and the generation it was created in.
// An entry is never mutated after it is issued; a later generation may
// overwrite it in place.
type slot struct {
	gen    uint32
	seg    uint32
	offset int
	size   int
}

// slotTable maps stable indices to slots. Invalidation is implicit: a clear
// only rewinds n, and stale entries fail the generation comparison.
type slotTable struct {
	entries []slot
	n       atomic.Uint32 // slots issued in the current generation
	limit   uint32
}

func newSlotTable(hint int) *slotTable {
	return &slotTable{
		entries: make([]slot, 0, hint),
		limit:   math.MaxUint32,
	}
}

// issue records a slot and returns its index.
func (t *slotTable) issue(s slot) (uint32, error) {
	idx := t.n.Load()
	if idx >= t.limit {
		return 0, ErrSlotsExhausted
	}
	if int(idx) < len(t.entries) {
		t.entries[idx] = s
	} else {
		t.entries = append(t.entries, s)
	}
	t.n.Store(idx + 1)
	return idx, nil
}

// full reports whether no further index can be issued this generation.
func (t *slotTable) full() bool {
	return t.n.Load() >= t.limit
}

// contains reports whether idx is in the range issued this generation.
func (t *slotTable) contains(idx uint32) bool {
	return idx < t.n.Load()
}

// lookup returns the slot at idx if it was issued in generation gen.
func (t *slotTable) lookup(idx, gen uint32) (slot, bool) {
	if !t.contains(idx) {
		return slot{}, false
	}
	s := t.entries[idx]
	if s.gen != gen {
		return slot{}, false
	}
	return s, true
}

func (t *slotTable) reset() { t.n.Store(0) }

func (t *slotTable) len() int { return int(t.n.Load()) }

