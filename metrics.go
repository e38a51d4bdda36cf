package weakarena

import (
	"fmt"

	"github.com/dustin/go-humanize"
)

// UsedBytes returns the bytes bumped past in all segments since the last
// clear. This includes alignment padding.
func (a *Arena) UsedBytes() int {
	if a.destroyed.Load() {
		return 0
	}
	sum := 0
	for _, seg := range a.store.segments {
		sum += seg.used()
	}
	return sum
}

// Len returns the number of live allocations.
func (a *Arena) Len() int {
	if a.destroyed.Load() {
		return 0
	}
	return a.slots.len()
}

// NumSegments returns the number of segments currently held.
func (a *Arena) NumSegments() int {
	if a.destroyed.Load() {
		return 0
	}
	return len(a.store.segments)
}

// Capacity returns the total capacity (in bytes) of all segments.
func (a *Arena) Capacity() int {
	if a.destroyed.Load() {
		return 0
	}
	return a.store.capacity()
}

// Utilization returns the ratio of bytes in use to total capacity (0.0 to 1.0).
// Returns 0.0 if the arena has no capacity.
func (a *Arena) Utilization() float64 {
	capacity := a.Capacity()
	if capacity == 0 {
		return 0
	}
	return float64(a.UsedBytes()) / float64(capacity)
}

// Metrics returns a snapshot of arena statistics.
func (a *Arena) Metrics() ArenaMetrics {
	return ArenaMetrics{
		ID:          a.id,
		Generation:  a.Generation(),
		Len:         a.Len(),
		UsedBytes:   a.UsedBytes(),
		Capacity:    a.Capacity(),
		NumSegments: a.NumSegments(),
		Utilization: a.Utilization(),
	}
}

func (a *Arena) String() string {
	return a.Metrics().String()
}

// ArenaMetrics contains statistical information about an arena.
type ArenaMetrics struct {
	ID          uint64  // Arena identity
	Generation  uint32  // Current generation
	Len         int     // Live allocations
	UsedBytes   int     // Bytes currently allocated
	Capacity    int     // Total capacity in bytes
	NumSegments int     // Number of segments
	Utilization float64 // Ratio of used to total capacity (0.0-1.0)
}

func (m ArenaMetrics) String() string {
	return fmt.Sprintf("Arena{id: %d, gen: %d, len: %d, used: %s, capacity: %s, segments: %d, usage: %.1f%%}",
		m.ID,
		m.Generation,
		m.Len,
		humanize.IBytes(uint64(m.UsedBytes)),
		humanize.IBytes(uint64(m.Capacity)),
		m.NumSegments,
		m.Utilization*100,
	)
}
