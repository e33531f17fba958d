// File: core/concurrency/queue.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Queue is an unbounded MPMC queue built from a linked list of bounded
// rings. Producers fill the head ring and install a fresh ring when it is
// full; consumers drain the tail ring and advance past drained rings.
// Detached rings are recycled through a bounded free list, overflowing
// into hazard-pointer retirement so no consumer ever dereferences a
// reclaimed node.

package concurrency

import (
	"sync/atomic"

	"code.hybscloud.com/atomix"
	"code.hybscloud.com/spin"

	"github.com/momentics/taskpar/api"
)

// DefaultBlockSize is the per-ring capacity of queue nodes.
const DefaultBlockSize = 128

// Ensure compile-time interface compliance.
var _ api.Queue[any] = (*Queue[any])(nil)

type qnode[T any] struct {
	ring Ring[T]
	next atomic.Pointer[qnode[T]]
}

// Queue is an unbounded lock-free MPMC queue.
type Queue[T any] struct {
	head atomic.Pointer[qnode[T]]
	_    pad
	tail atomic.Pointer[qnode[T]]
	_    pad

	domain    *HazardDomain
	free      Ring[*qnode[T]]
	blockSize int

	resetting atomix.Uint32
}

// NewQueue creates a queue whose nodes hold blockSize items each.
// blockSize <= 0 selects DefaultBlockSize.
func NewQueue[T any](blockSize int) *Queue[T] {
	if blockSize <= 0 {
		blockSize = DefaultBlockSize
	}
	q := &Queue[T]{
		domain:    NewHazardDomain(0),
		blockSize: blockSize,
	}
	q.free.Init(16)
	return q
}

// Enqueue adds an item. Only allocation failure can refuse it, so the
// return value is effectively always true.
func (q *Queue[T]) Enqueue(item T) bool {
	q.checkNotResetting()
	var spare *qnode[T]
	sw := spin.Wait{}
	for {
		head := q.head.Load()
		if head != nil && head.ring.Enqueue(item) {
			if spare != nil {
				q.recycle(spare)
			}
			return true
		}

		if spare == nil {
			spare = q.grabNode()
		}
		if q.head.CompareAndSwap(head, spare) {
			node := spare
			spare = nil
			if head != nil {
				head.next.Store(node)
			} else {
				q.tail.CompareAndSwap(nil, node)
			}
			continue
		}
		sw.Once()
	}
}

// Dequeue removes the oldest item; ok is false if the queue is empty.
func (q *Queue[T]) Dequeue() (item T, ok bool) {
	q.checkNotResetting()
	var zero T
	hp := q.domain.Acquire()
	defer hp.Release()
	for {
		tail := ProtectPointer(hp, &q.tail)
		if tail == nil {
			return zero, false
		}
		if v, ok := tail.ring.Dequeue(); ok {
			return v, true
		}
		next := tail.next.Load()
		if next == nil {
			return zero, false
		}
		if q.tail.CompareAndSwap(tail, next) {
			hp.Clear()
			q.detach(tail)
		}
	}
}

// Len walks the node list and sums ring occupancy.
func (q *Queue[T]) Len() int {
	n := 0
	for node := q.tail.Load(); node != nil; node = node.next.Load() {
		n += node.ring.Len()
	}
	return n
}

// Empty reports whether no item is queued.
func (q *Queue[T]) Empty() bool { return q.Len() == 0 }

// Nodes returns the current length of the node list.
func (q *Queue[T]) Nodes() int {
	n := 0
	for node := q.tail.Load(); node != nil; node = node.next.Load() {
		n++
	}
	return n
}

// Reset drops all items and nodes. Must not run concurrently with
// Enqueue or Dequeue; debug builds assert the overlap.
func (q *Queue[T]) Reset() {
	q.beginReset()
	node := q.tail.Load()
	q.head.Store(nil)
	q.tail.Store(nil)
	for node != nil {
		next := node.next.Load()
		node.ring.Clear()
		RetireObject(q.domain, node, func(*qnode[T]) {})
		node = next
	}
	for {
		spare, ok := q.free.Dequeue()
		if !ok {
			break
		}
		RetireObject(q.domain, spare, func(*qnode[T]) {})
	}
	q.domain.Cleanup()
	q.endReset()
}

// Domain exposes the reclamation domain for tests.
func (q *Queue[T]) Domain() *HazardDomain { return q.domain }

// grabNode reuses a cached node or allocates a fresh one.
func (q *Queue[T]) grabNode() *qnode[T] {
	if node, ok := q.free.Dequeue(); ok {
		node.next.Store(nil)
		return node
	}
	node := &qnode[T]{}
	node.ring.Init(q.blockSize)
	return node
}

// detach recycles a drained ring that consumers moved past. A producer
// that raced the advance may have landed items in it; put them back
// before the node is reused.
func (q *Queue[T]) detach(node *qnode[T]) {
	for {
		v, ok := node.ring.Dequeue()
		if !ok {
			break
		}
		q.Enqueue(v)
	}
	q.recycle(node)
}

// recycle caches the node for reuse, retiring it when the cache is full.
func (q *Queue[T]) recycle(node *qnode[T]) {
	node.next.Store(nil)
	if q.free.Enqueue(node) {
		return
	}
	RetireObject(q.domain, node, func(*qnode[T]) {})
}

func (q *Queue[T]) beginReset() {
	if !q.resetting.CompareAndSwapAcqRel(0, 1) {
		panic("concurrency: queue reset overlaps another reset")
	}
}

func (q *Queue[T]) endReset() {
	q.resetting.StoreRelease(0)
}

func (q *Queue[T]) checkNotResetting() {
	if debugChecks && q.resetting.LoadAcquire() != 0 {
		panic("concurrency: queue operation during reset")
	}
}
