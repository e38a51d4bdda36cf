package weakarena

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/pavanmanishd/weakarena/internal/mmap"
)

// Source acquires and releases the raw memory backing arena segments.
//
// Acquire returns at least size bytes whose first byte is aligned to align.
// Release receives exactly the slice returned by Acquire.
type Source interface {
	Acquire(size, align int) ([]byte, error)
	Release(buf []byte) error
}

// HeapSource allocates segments on the Go heap.
type HeapSource struct{}

// Acquire allocates size bytes aligned to align.
func (HeapSource) Acquire(size, align int) ([]byte, error) {
	if !isPowerOfTwo(align) {
		return nil, ErrInvalidAlignment
	}
	// Over-allocate so the start can be shifted up to align-1 bytes.
	buf := make([]byte, size+align-1)
	off := alignOffset(uintptr(unsafe.Pointer(unsafe.SliceData(buf))), uintptr(align))
	return buf[off : off+uintptr(size) : off+uintptr(size)], nil
}

// Release is a no-op; the garbage collector reclaims the memory.
func (HeapSource) Release([]byte) error { return nil }

// MmapSource allocates segments as anonymous memory mappings outside the Go heap.
// Segments are page aligned, so align may not exceed the page size.
type MmapSource struct {
	mu       sync.Mutex
	mappings map[*byte]*mmap.Mapping
}

// NewMmapSource creates an MmapSource.
func NewMmapSource() *MmapSource {
	return &MmapSource{mappings: make(map[*byte]*mmap.Mapping)}
}

// Acquire maps size bytes of zeroed memory.
func (s *MmapSource) Acquire(size, align int) ([]byte, error) {
	if !isPowerOfTwo(align) || align > mmap.PageSize {
		return nil, ErrInvalidAlignment
	}
	m, err := mmap.MapAnon(size)
	if err != nil {
		return nil, fmt.Errorf("weakarena: map segment: %w", err)
	}
	buf := m.Bytes()

	s.mu.Lock()
	s.mappings[unsafe.SliceData(buf)] = m
	s.mu.Unlock()
	return buf, nil
}

// Release unmaps a segment returned by Acquire.
func (s *MmapSource) Release(buf []byte) error {
	if len(buf) == 0 {
		return nil
	}
	key := unsafe.SliceData(buf)

	s.mu.Lock()
	m, ok := s.mappings[key]
	delete(s.mappings, key)
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("weakarena: release of unknown segment %p", key)
	}
	return m.Close()
}

// FixedSource hands out a single caller-provided buffer.
// A second Acquire fails with ErrSourceExhausted until the buffer is released.
type FixedSource struct {
	mu    sync.Mutex
	buf   []byte
	taken bool
}

// NewFixedSource wraps buf.
func NewFixedSource(buf []byte) *FixedSource {
	return &FixedSource{buf: buf}
}

// Acquire returns the aligned remainder of the buffer, which may exceed size.
func (s *FixedSource) Acquire(size, align int) ([]byte, error) {
	if !isPowerOfTwo(align) {
		return nil, ErrInvalidAlignment
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.taken {
		return nil, ErrSourceExhausted
	}
	if len(s.buf) == 0 {
		return nil, ErrSourceExhausted
	}
	off := int(alignOffset(uintptr(unsafe.Pointer(unsafe.SliceData(s.buf))), uintptr(align)))
	if off > len(s.buf) || len(s.buf)-off < size {
		return nil, &AllocError{Size: size, Align: align, Capacity: len(s.buf)}
	}
	s.taken = true
	return s.buf[off:len(s.buf):len(s.buf)], nil
}

// Release makes the buffer available again.
func (s *FixedSource) Release([]byte) error {
	s.mu.Lock()
	s.taken = false
	s.mu.Unlock()
	return nil
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

// alignOffset returns the padding needed to move addr up to a multiple of align.
func alignOffset(addr, align uintptr) uintptr {
	return (align - addr&(align-1)) & (align - 1)
}
