// File: channel/channel.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package channel

import (
	"sync/atomic"

	"github.com/momentics/taskpar/api"
	"github.com/momentics/taskpar/core/concurrency"
)

// Bounded is a blocking MPMC channel with fixed capacity.
type Bounded[T any] struct {
	ring   concurrency.Ring[T]
	closed atomic.Bool
	waiter concurrency.Waiter
}

// NewBounded creates a channel with capacity rounded up to a power of two.
func NewBounded[T any](capacity int) *Bounded[T] {
	c := &Bounded[T]{}
	c.ring.Init(capacity)
	return c
}

// Send blocks until the value is queued or the channel closes.
func (c *Bounded[T]) Send(v T) error {
	for {
		if c.closed.Load() {
			return api.ErrChannelClosed
		}
		if c.ring.Enqueue(v) {
			c.waiter.NotifyAll(nil)
			return nil
		}
		c.waiter.Wait(func() bool {
			return !c.ring.Full() || c.closed.Load()
		})
	}
}

// TrySend queues the value without blocking. Returns false when the
// channel is full, an error when it is closed.
func (c *Bounded[T]) TrySend(v T) (bool, error) {
	if c.closed.Load() {
		return false, api.ErrChannelClosed
	}
	if c.ring.Enqueue(v) {
		c.waiter.NotifyAll(nil)
		return true, nil
	}
	return false, nil
}

// Receive blocks until an item arrives or the channel is closed and
// drained; ok is false at the latter.
func (c *Bounded[T]) Receive() (item T, ok bool) {
	for {
		if v, ok := c.ring.Dequeue(); ok {
			c.waiter.NotifyAll(nil)
			return v, true
		}
		if c.closed.Load() {
			// Items sent before close may still be landing; one more
			// look before reporting drained.
			if v, ok := c.ring.Dequeue(); ok {
				c.waiter.NotifyAll(nil)
				return v, true
			}
			var zero T
			return zero, false
		}
		c.waiter.Wait(func() bool {
			return !c.ring.Empty() || c.closed.Load()
		})
	}
}

// TryReceive removes an item without blocking.
func (c *Bounded[T]) TryReceive() (item T, ok bool) {
	if v, ok := c.ring.Dequeue(); ok {
		c.waiter.NotifyAll(nil)
		return v, true
	}
	var zero T
	return zero, false
}

// Close marks the channel closed and wakes every waiter.
func (c *Bounded[T]) Close() {
	c.closed.Store(true)
	c.waiter.NotifyAll(nil)
}

// IsClosed reports whether Close was called.
func (c *Bounded[T]) IsClosed() bool { return c.closed.Load() }

// Len returns the number of queued items.
func (c *Bounded[T]) Len() int { return c.ring.Len() }

// Cap returns the channel capacity.
func (c *Bounded[T]) Cap() int { return c.ring.Cap() }

// Empty reports whether no item is queued.
func (c *Bounded[T]) Empty() bool { return c.ring.Empty() }
