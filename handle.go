package weakarena

import (
	"fmt"
	"reflect"
	"runtime"
	"weak"
)

// Ref is an untyped weak reference to an arena allocation.
//
// A Ref is a comparable value that owns no memory and does not keep its arena
// reachable. It can always tell whether it is stale: once the arena is
// cleared, destroyed or garbage collected the Ref never resolves again.
type Ref struct {
	owner weak.Pointer[Arena]
	id    uint64
	slot  uint32
	gen   uint32
}

// Arena returns the id of the issuing arena (0 for the zero Ref).
func (r Ref) Arena() uint64 { return r.id }

// Slot returns the slot index.
func (r Ref) Slot() uint32 { return r.slot }

// Generation returns the generation the allocation was made in.
func (r Ref) Generation() uint32 { return r.gen }

// IsAlive reports whether the referenced allocation is still valid.
func (r Ref) IsAlive() bool {
	a := r.owner.Value()
	if a == nil {
		return false
	}
	return a.IsAlive(r)
}

func (r Ref) String() string {
	return fmt.Sprintf("ref(arena=%d slot=%d gen=%d)", r.id, r.slot, r.gen)
}

// Handle is a typed weak reference to a T stored in an arena.
// Two handles are equal iff they name the same arena, slot and generation.
type Handle[T any] struct {
	ref Ref
}

// Ref returns the untyped reference.
func (h Handle[T]) Ref() Ref { return h.ref }

// IsAlive reports whether the value can still be dereferenced.
func (h Handle[T]) IsAlive() bool { return h.ref.IsAlive() }

// Get returns a pointer to the value, or false if the handle is stale.
//
// The pointer is only valid until the arena is next cleared or destroyed;
// hold the Handle, not the pointer, across those calls. Get does not keep
// the arena reachable: a caller that holds no other reference to it should
// use Load instead.
func (h Handle[T]) Get() (*T, bool) {
	a := h.ref.owner.Value()
	if a == nil {
		return nil, false
	}
	return Deref(a, h)
}

// Load returns a copy of the value, or false if the handle is stale.
func (h Handle[T]) Load() (T, bool) {
	var v T
	a := h.ref.owner.Value()
	if a == nil {
		return v, false
	}
	p, ok := Deref(a, h)
	if ok {
		v = *p
	}
	// The copy must finish before a collected arena can release its segments.
	runtime.KeepAlive(a)
	return v, ok
}

func (h Handle[T]) String() string {
	return fmt.Sprintf("handle[%s](arena=%d slot=%d gen=%d)", reflect.TypeFor[T](), h.ref.id, h.ref.slot, h.ref.gen)
}
