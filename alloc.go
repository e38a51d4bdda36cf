package weakarena

import (
	"fmt"
	"reflect"
	"runtime"
	"sync"
)

// pointerFree caches hasPointers results per type.
var pointerFree sync.Map // reflect.Type -> bool

// Alloc copies v into the arena and returns a weak handle to it.
//
// T must not contain Go pointers (including strings, slices, maps, channels,
// funcs and interfaces): arena memory is invisible to the garbage collector.
// Such types fail with ErrPointerType. A nil or destroyed arena fails with
// ErrDestroyed.
func Alloc[T any](a *Arena, v T) (Handle[T], error) {
	p, h, err := alloc[T](a)
	if err != nil {
		return Handle[T]{}, err
	}
	*p = v
	return h, nil
}

// AllocWith stores the result of f in the arena. f is only called once the
// arena is known to accept T.
func AllocWith[T any](a *Arena, f func() T) (Handle[T], error) {
	if err := checkAlloc[T](a); err != nil {
		return Handle[T]{}, err
	}
	return Alloc(a, f())
}

// AllocWithCleanup is like Alloc but registers fn to run on the stored value
// when the arena is next cleared or destroyed, or once an arena that was never
// destroyed is garbage collected. Cleanups run in allocation order and must
// not use the arena; a cleanup that captures it keeps it from being collected.
func AllocWithCleanup[T any](a *Arena, v T, fn func(*T)) (Handle[T], error) {
	p, h, err := alloc[T](a)
	if err != nil {
		return Handle[T]{}, err
	}
	*p = v
	if fn != nil {
		a.store.cleanups = append(a.store.cleanups, func() { fn(p) })
	}
	return h, nil
}

// Deref returns a pointer to the value behind h if h is still alive in a.
// It never mutates the arena.
func Deref[T any](a *Arena, h Handle[T]) (*T, bool) {
	r := h.ref
	if a == nil || r.id != a.id || a.destroyed.Load() || r.gen != a.gen.load() {
		return nil, false
	}
	s, ok := a.slots.lookup(r.slot, r.gen)
	if !ok || s.size != int(reflect.TypeFor[T]().Size()) {
		return nil, false
	}
	return (*T)(a.store.segments[s.seg].ptr(s.offset, s.size)), true
}

// PtrAndKeepAlive returns t and keeps a reachable up to this call. Call it
// after the last use of a pointer obtained from Get or Deref, so that an
// arena with no other references is not collected, and its segments
// released, while the pointer is still in use.
func PtrAndKeepAlive[T any](a *Arena, t *T) *T {
	runtime.KeepAlive(a)
	return t
}

func checkAlloc[T any](a *Arena) error {
	if a == nil || a.destroyed.Load() {
		return ErrDestroyed
	}
	if t := reflect.TypeFor[T](); hasPointers(t) {
		return fmt.Errorf("%w: %s", ErrPointerType, t)
	}
	return nil
}

// alloc reserves storage and a slot for a T stamped with the current generation.
func alloc[T any](a *Arena) (*T, Handle[T], error) {
	if err := checkAlloc[T](a); err != nil {
		return nil, Handle[T]{}, err
	}
	if a.slots.full() {
		return nil, Handle[T]{}, ErrSlotsExhausted
	}

	t := reflect.TypeFor[T]()
	size, align := int(t.Size()), t.Align()

	seg, off, err := a.reserve(size, align)
	if err != nil {
		a.log.Warn("allocation failed", "bytes", size, "error", err)
		return nil, Handle[T]{}, err
	}

	gen := a.gen.load()
	idx, err := a.slots.issue(slot{gen: gen, seg: uint32(seg), offset: off, size: size})
	if err != nil {
		return nil, Handle[T]{}, err
	}

	p := (*T)(a.store.segments[seg].ptr(off, size))
	return p, Handle[T]{ref: Ref{owner: a.self, id: a.id, slot: idx, gen: gen}}, nil
}

// hasPointers reports whether values of t hold memory the garbage collector
// must trace.
func hasPointers(t reflect.Type) bool {
	if v, ok := pointerFree.Load(t); ok {
		return !v.(bool)
	}
	has := containsPointers(t)
	pointerFree.Store(t, !has)
	return has
}

func containsPointers(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr,
		reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return t.Len() > 0 && containsPointers(t.Elem())
	case reflect.Struct:
		for i := range t.NumField() {
			if containsPointers(t.Field(i).Type) {
				return true
			}
		}
		return false
	default:
		return true
	}
}
