// File: channel/bytes.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Bytes is a bounded channel specialized for byte payloads. Send copies
// the payload into an arena region and the ring carries only the region
// header, so steady-state messaging allocates nothing on the Go heap.
// Receivers hand regions back through Free once consumed.

package channel

import (
	"github.com/momentics/taskpar/pool"
)

// Bytes is an arena-boxed bounded byte channel.
type Bytes struct {
	inner *Bounded[[]byte]
	arena *pool.Block
}

// NewBytes creates a byte channel of the given capacity. A nil arena
// uses the process-wide current allocator.
func NewBytes(capacity int, arena *pool.Block) *Bytes {
	if arena == nil {
		arena = pool.Current()
	}
	return &Bytes{
		inner: NewBounded[[]byte](capacity),
		arena: arena,
	}
}

// Send stages a copy of p in the arena and queues the region. Blocks
// while the channel is full.
func (c *Bytes) Send(p []byte) error {
	region := c.arena.Alloc(len(p), 1)
	if region == nil {
		// Arena exhausted; fall back to the runtime for this payload.
		region = make([]byte, len(p))
	}
	copy(region, p)
	if err := c.inner.Send(region); err != nil {
		c.arena.Dealloc(region)
		return err
	}
	return nil
}

// Receive returns the next payload region. The region aliases arena
// memory; pass it to Free when done.
func (c *Bytes) Receive() ([]byte, bool) {
	return c.inner.Receive()
}

// Free releases a region obtained from Receive back to the arena.
func (c *Bytes) Free(region []byte) {
	c.arena.Dealloc(region)
}

// Close marks the channel closed and wakes every waiter.
func (c *Bytes) Close() { c.inner.Close() }

// IsClosed reports whether Close was called.
func (c *Bytes) IsClosed() bool { return c.inner.IsClosed() }

// Len returns the number of queued payloads.
func (c *Bytes) Len() int { return c.inner.Len() }
