// File: core/concurrency/ring.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Ring is a bounded MPMC queue with per-slot sequence numbers, following
// the Vyukov design. Head and tail counters live on their own cache lines
// and are hints only; the per-slot sequence word is the authority for
// whether a slot is empty, full, or stale. A producer that observes a
// claimed slot under a lagging tail helps advance the tail, and consumers
// mirror producers on the head.

package concurrency

import (
	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"

	"github.com/momentics/taskpar/api"
)

// Ensure compile-time interface compliance.
var _ api.Ring[any] = (*Ring[any])(nil)

const cacheLinePad = 64

type pad [cacheLinePad]byte

type cell[T any] struct {
	seq   atomix.Uint64
	value T
}

// Ring is a fixed-capacity lock-free MPMC queue.
type Ring[T any] struct {
	_     pad
	tail  atomix.Uint64
	_     pad
	head  atomix.Uint64
	_     pad
	mask  uint64
	cells []cell[T]
}

// NewRing allocates a ring with capacity rounded up to a power of two.
func NewRing[T any](capacity int) *Ring[T] {
	r := &Ring[T]{}
	r.Init(capacity)
	return r
}

// Init sizes the ring in place. Must be called once before use when the
// ring is embedded as a value.
func (r *Ring[T]) Init(capacity int) {
	if capacity < 2 {
		capacity = 2
	}
	n := uint64(roundToPow2(capacity))
	r.mask = n - 1
	r.cells = make([]cell[T], n)
	for i := range r.cells {
		r.cells[i].seq.StoreRelaxed(uint64(i))
	}
}

// Enqueue adds an item; returns false if the ring is full.
func (r *Ring[T]) Enqueue(item T) bool {
	sw := spin.Wait{}
	for {
		tail := r.tail.LoadRelaxed()
		c := &r.cells[tail&r.mask]
		seq := c.seq.LoadAcquire()
		dif := int64(seq) - int64(tail)

		switch {
		case dif == 0:
			// Slot empty for this lap; claim it by advancing the tail.
			if r.tail.CompareAndSwapAcqRel(tail, tail+1) {
				c.value = item
				c.seq.StoreRelease(tail + 1)
				return true
			}
			sw.Once()
		case dif < 0:
			return false // full for this lap
		default:
			// Another producer already claimed this slot; help the tail.
			r.tail.CompareAndSwapAcqRel(tail, tail+1)
		}
	}
}

// Dequeue removes the oldest item; ok is false if the ring is empty.
func (r *Ring[T]) Dequeue() (item T, ok bool) {
	sw := spin.Wait{}
	for {
		head := r.head.LoadRelaxed()
		c := &r.cells[head&r.mask]
		seq := c.seq.LoadAcquire()
		dif := int64(seq) - int64(head+1)

		switch {
		case dif == 0:
			if r.head.CompareAndSwapAcqRel(head, head+1) {
				item = c.value
				var zero T
				c.value = zero
				c.seq.StoreRelease(head + r.mask + 1)
				return item, true
			}
			sw.Once()
		case dif < 0:
			var zero T
			return zero, false // empty
		default:
			r.head.CompareAndSwapAcqRel(head, head+1)
		}
	}
}

// Len returns the number of items currently queued.
func (r *Ring[T]) Len() int {
	tail := r.tail.LoadAcquire()
	head := r.head.LoadAcquire()
	if tail < head {
		return 0
	}
	n := tail - head
	if n > uint64(len(r.cells)) {
		n = uint64(len(r.cells))
	}
	return int(n)
}

// Cap returns the fixed capacity.
func (r *Ring[T]) Cap() int { return len(r.cells) }

// Empty reports whether no item is queued.
func (r *Ring[T]) Empty() bool { return r.Len() == 0 }

// Full reports whether the ring holds Cap items.
func (r *Ring[T]) Full() bool { return r.Len() == r.Cap() }

// Clear drains the ring. Callers must quiesce producers first.
func (r *Ring[T]) Clear() {
	for {
		if _, ok := r.Dequeue(); !ok {
			return
		}
	}
}

// roundToPow2 rounds n up to the next power of two.
func roundToPow2(n int) int {
	size := 1
	for size < n {
		size <<= 1
	}
	return size
}
