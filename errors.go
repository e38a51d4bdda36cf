package weakarena

import (
	"errors"
	"fmt"

	"github.com/dustin/go-humanize"

	"github.com/pavanmanishd/weakarena/internal/mmap"
)

var (
	// ErrOutOfMemory is returned when the arena cannot satisfy an allocation
	// and growth is disabled, capped or denied by the memory budget.
	ErrOutOfMemory = errors.New("weakarena: out of memory")
	// ErrSlotsExhausted is returned when no further slot index can be issued
	// in the current generation. It wraps ErrOutOfMemory.
	ErrSlotsExhausted = fmt.Errorf("%w: slot table exhausted", ErrOutOfMemory)
	// ErrGenerationOverflow is returned by Clear when the generation counter
	// would wrap. Wrapping would let stale handles pass the liveness check.
	ErrGenerationOverflow = errors.New("weakarena: generation counter overflow")
	// ErrDestroyed is returned by operations on a destroyed arena.
	ErrDestroyed = errors.New("weakarena: arena destroyed")
	// ErrPointerType is returned when allocating a type that holds Go pointers.
	ErrPointerType = errors.New("weakarena: type contains pointers")
	// ErrInvalidAlignment is returned for an alignment that is not a power of two.
	ErrInvalidAlignment = errors.New("weakarena: alignment must be a power of two")
	// ErrSourceExhausted is returned by a FixedSource that was already handed out.
	ErrSourceExhausted = errors.New("weakarena: source exhausted")
	// ErrUnsupported is returned by MmapSource on platforms without anonymous
	// mappings.
	ErrUnsupported = mmap.ErrUnsupported
)

// AllocError describes an allocation that could not be satisfied.
//
// It matches ErrOutOfMemory with errors.Is. The underlying cause (a budget or
// source failure, if any) can be accessed via errors.Unwrap.
type AllocError struct {
	Size     int
	Align    int
	Capacity int
	cause    error
}

func (e *AllocError) Error() string {
	msg := fmt.Sprintf("weakarena: cannot allocate %s (align %d) with capacity %s",
		humanize.IBytes(uint64(e.Size)), e.Align, humanize.IBytes(uint64(e.Capacity)))
	if e.cause != nil {
		msg += ": " + e.cause.Error()
	}
	return msg
}

// Is reports ErrOutOfMemory as a match.
func (e *AllocError) Is(target error) bool { return target == ErrOutOfMemory }

func (e *AllocError) Unwrap() error { return e.cause }
