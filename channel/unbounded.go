// File: channel/unbounded.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package channel

import (
	"sync/atomic"

	"github.com/momentics/taskpar/api"
	"github.com/momentics/taskpar/core/concurrency"
)

// Unbounded is a blocking-receive channel whose senders never block.
type Unbounded[T any] struct {
	queue  *concurrency.Queue[T]
	closed atomic.Bool
	waiter concurrency.Waiter
}

// NewUnbounded creates an unbounded channel. blockSize <= 0 selects the
// queue's default ring size.
func NewUnbounded[T any](blockSize int) *Unbounded[T] {
	return &Unbounded[T]{queue: concurrency.NewQueue[T](blockSize)}
}

// Send queues the value. Fails only after Close.
func (c *Unbounded[T]) Send(v T) error {
	if c.closed.Load() {
		return api.ErrChannelClosed
	}
	c.queue.Enqueue(v)
	c.waiter.NotifyAll(nil)
	return nil
}

// Receive blocks until an item arrives or the channel is closed and
// drained; ok is false at the latter.
func (c *Unbounded[T]) Receive() (item T, ok bool) {
	for {
		if v, ok := c.queue.Dequeue(); ok {
			return v, true
		}
		if c.closed.Load() {
			if v, ok := c.queue.Dequeue(); ok {
				return v, true
			}
			var zero T
			return zero, false
		}
		c.waiter.Wait(func() bool {
			return !c.queue.Empty() || c.closed.Load()
		})
	}
}

// TryReceive removes an item without blocking.
func (c *Unbounded[T]) TryReceive() (item T, ok bool) {
	return c.queue.Dequeue()
}

// Close marks the channel closed and wakes every waiter.
func (c *Unbounded[T]) Close() {
	c.closed.Store(true)
	c.waiter.NotifyAll(nil)
}

// IsClosed reports whether Close was called.
func (c *Unbounded[T]) IsClosed() bool { return c.closed.Load() }

// Len returns the number of queued items.
func (c *Unbounded[T]) Len() int { return c.queue.Len() }

// Empty reports whether no item is queued.
func (c *Unbounded[T]) Empty() bool { return c.queue.Empty() }
