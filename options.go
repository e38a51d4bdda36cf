package weakarena

import (
	"log/slog"

	"github.com/pavanmanishd/weakarena/internal/budget"
)

// Growth selects what the arena does when its storage is exhausted.
type Growth int

const (
	// GrowSegmented acquires an additional segment, twice the size of the
	// last one. Existing segments are never moved, so offsets stay valid.
	GrowSegmented Growth = iota
	// GrowFixed never grows; allocations that do not fit fail with
	// ErrOutOfMemory until the arena is cleared.
	GrowFixed
)

func (g Growth) String() string {
	switch g {
	case GrowSegmented:
		return "segmented"
	case GrowFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// MemoryAcquirer is consulted before every segment is acquired and informed
// when one is released.
type MemoryAcquirer interface {
	Acquire(bytes int64) error
	Release(bytes int64)
}

type options struct {
	growth        Growth
	zeroOnClear   bool
	shrinkOnClear bool
	maxCapacity   int
	source        Source
	acquirer      MemoryAcquirer
	logger        *slog.Logger
}

func defaultOptions() options {
	return options{
		growth: GrowSegmented,
		source: HeapSource{},
		logger: slog.New(slog.DiscardHandler),
	}
}

// Option is a configuration option for Arena.
type Option func(*options)

// WithGrowth sets the growth policy. The default is GrowSegmented.
func WithGrowth(g Growth) Option {
	return func(o *options) {
		o.growth = g
	}
}

// WithZeroOnClear zeroes used storage on every Clear.
func WithZeroOnClear(enabled bool) Option {
	return func(o *options) {
		o.zeroOnClear = enabled
	}
}

// WithShrinkOnClear releases every segment except the largest on Clear.
func WithShrinkOnClear(enabled bool) Option {
	return func(o *options) {
		o.shrinkOnClear = enabled
	}
}

// WithMaxCapacity caps the total bytes of all segments. Zero means no cap.
func WithMaxCapacity(bytes int) Option {
	return func(o *options) {
		o.maxCapacity = bytes
	}
}

// WithSource sets where segments come from. The default is HeapSource.
func WithSource(s Source) Option {
	return func(o *options) {
		if s != nil {
			o.source = s
		}
	}
}

// WithMemoryAcquirer sets the memory acquirer for the arena.
func WithMemoryAcquirer(acquirer MemoryAcquirer) Option {
	return func(o *options) {
		o.acquirer = acquirer
	}
}

// WithMemoryLimit limits the bytes the arena may hold across all segments.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.acquirer = budget.New(bytes)
	}
}

// WithLogger sets the logger. By default nothing is logged.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}
