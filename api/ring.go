// Package api
// Author: momentics@gmail.com
//
// Lock-free queue contracts for cross-thread producer/consumer exchange.

package api

// Ring is a bounded lock-free queue contract.
type Ring[T any] interface {
	// Enqueue adds an item, returns false if full.
	Enqueue(item T) bool
	// Dequeue removes the oldest item, returns false if empty.
	Dequeue() (T, bool)
	// Len returns the current number of items.
	Len() int
	// Cap returns the fixed capacity.
	Cap() int
}

// Queue is an unbounded queue contract backed by a list of rings.
type Queue[T any] interface {
	// Enqueue adds an item. Grows the backing storage when the head
	// ring is full; only allocation failure can refuse an item.
	Enqueue(item T) bool
	// Dequeue removes the oldest item, returns false if empty.
	Dequeue() (T, bool)
	// Len walks the ring list and returns the item count.
	Len() int
	// Empty reports whether no item is queued.
	Empty() bool
}
