// Package budget tracks and limits the memory an arena may acquire.
package budget

import (
	"errors"
	"sync/atomic"

	"golang.org/x/sync/semaphore"
)

// ErrMemoryLimitExceeded is returned when an acquisition would exceed the limit.
var ErrMemoryLimitExceeded = errors.New("budget: memory limit exceeded")

// Controller reserves bytes against an optional hard limit.
// A nil *Controller accepts every request.
type Controller struct {
	limit int64
	sem   *semaphore.Weighted // nil if unlimited
	used  atomic.Int64
}

// New returns a Controller. A limit <= 0 only tracks usage.
func New(limit int64) *Controller {
	c := &Controller{limit: limit}
	if limit > 0 {
		c.sem = semaphore.NewWeighted(limit)
	}
	return c
}

// Acquire reserves bytes. It never blocks; callers decide whether to retry.
func (c *Controller) Acquire(bytes int64) error {
	if c == nil || bytes <= 0 {
		return nil
	}
	if c.sem != nil && !c.sem.TryAcquire(bytes) {
		return ErrMemoryLimitExceeded
	}
	c.used.Add(bytes)
	return nil
}

// Release returns previously acquired bytes.
func (c *Controller) Release(bytes int64) {
	if c == nil || bytes <= 0 {
		return
	}
	if c.sem != nil {
		c.sem.Release(bytes)
	}
	c.used.Add(-bytes)
}

// Used returns the bytes currently reserved.
func (c *Controller) Used() int64 {
	if c == nil {
		return 0
	}
	return c.used.Load()
}

// Limit returns the configured limit (0 if unlimited).
func (c *Controller) Limit() int64 {
	if c == nil {
		return 0
	}
	return c.limit
}
