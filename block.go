package weakarena

import "unsafe"

// zerobase is the address handed out for zero-sized values.
var zerobase uintptr

// segment is a contiguous storage block with a bump cursor.
// Segments are never moved or resized once acquired.
type segment struct {
	buf    []byte
	cursor int // 0 <= cursor <= len(buf)
}

func newSegment(buf []byte) *segment {
	return &segment{buf: buf}
}

// reserve bumps the cursor past size bytes aligned to align and returns the
// offset of the reserved region. Alignment is computed on the absolute
// address, so it holds regardless of how the segment base is aligned.
func (s *segment) reserve(size, align int) (int, bool) {
	if size == 0 {
		return s.cursor, true
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(s.buf)))
	pad := int(alignOffset(base+uintptr(s.cursor), uintptr(align)))
	off := s.cursor + pad
	if off > len(s.buf) || len(s.buf)-off < size {
		return 0, false
	}
	s.cursor = off + size
	return off, true
}

// reset rewinds the cursor. Memory is zeroed only when zero is set.
func (s *segment) reset(zero bool) {
	if zero && s.cursor > 0 {
		clear(s.buf[:s.cursor])
	}
	s.cursor = 0
}

// ptr returns the address of the value stored at off.
func (s *segment) ptr(off, size int) unsafe.Pointer {
	if size == 0 {
		return unsafe.Pointer(&zerobase)
	}
	return unsafe.Pointer(&s.buf[off])
}

func (s *segment) capacity() int { return len(s.buf) }

func (s *segment) used() int { return s.cursor }
