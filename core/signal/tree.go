// File: core/signal/tree.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Derived from the counting-tree approach of buildingcpp/work_contract.
//
// Set walks leaf to root so a positive ancestor always has a committed
// leaf below it. Select walks root to leaf: the root decrement claims one
// unit, and each lower level spins until the claimed unit becomes visible
// in one of the two children. Descent is left-biased; dependencies, not
// fairness, dominate scheduling decisions.

package signal

import (
	"math/bits"

	"code.hybscloud.com/spin"
)

// InvalidSlot is returned by Select when the tree is empty.
const InvalidSlot = -1

// Tree is a log-depth counting tree over a power-of-two slot capacity.
type Tree struct {
	capacity int
	levels   []level // levels[0] is the root row
}

// NewTree builds a tree over capacity slots. capacity must be a
// power of two and at least 2.
func NewTree(capacity int) *Tree {
	if capacity < 2 || capacity&(capacity-1) != 0 {
		panic("signal: capacity must be a power of two >= 2")
	}
	depth := bits.TrailingZeros(uint(capacity)) + 1
	t := &Tree{
		capacity: capacity,
		levels:   make([]level, depth),
	}
	for l := 0; l < depth; l++ {
		t.levels[l] = newLevel(1<<l, uint(depth-l))
	}
	return t
}

// Capacity returns the number of leaf slots.
func (t *Tree) Capacity() int { return t.capacity }

// Set marks slot i ready. Idempotent: a leaf that is already set leaves
// the tree untouched and reports applied=false. wasEmpty reports whether
// the root count was zero before this signal landed.
func (t *Tree) Set(i int) (wasEmpty, applied bool) {
	if i < 0 || i >= t.capacity {
		return false, false
	}
	leaf := len(t.levels) - 1
	if _, ok := t.levels[leaf].inc(i); !ok {
		return false, false
	}
	idx := i
	var rootOld uint64
	for l := leaf - 1; l >= 0; l-- {
		idx >>= 1
		rootOld, _ = t.levels[l].inc(idx)
	}
	return rootOld == 0, true
}

// Select atomically claims one ready slot. Returns the slot index and
// whether this claim took the last ready slot; slot is InvalidSlot when
// the tree held none.
func (t *Tree) Select() (slot int, wasLast bool) {
	rootOld, ok := t.levels[0].decIfPositive(0)
	if !ok {
		return InvalidSlot, false
	}
	idx := 0
	for l := 1; l < len(t.levels); l++ {
		left := idx * 2
		sw := spin.Wait{}
		for {
			if _, ok := t.levels[l].decIfPositive(left); ok {
				idx = left
				break
			}
			if _, ok := t.levels[l].decIfPositive(left + 1); ok {
				idx = left + 1
				break
			}
			// The unit claimed at the parent is still in flight in a
			// racing Set or Select; wait for it to land.
			sw.Once()
		}
	}
	return idx, rootOld == 1
}

// Empty reports whether the root counter is zero.
func (t *Tree) Empty() bool {
	return t.levels[0].value(0) == 0
}

// Len returns the root counter, the number of ready slots.
func (t *Tree) Len() int {
	return int(t.levels[0].value(0))
}

// Clear zeroes every counter. Callers must quiesce the tree first.
func (t *Tree) Clear() {
	for l := range t.levels {
		t.levels[l].clear()
	}
}

// count reads the counter at (level, idx); used by invariant checks.
func (t *Tree) count(level, idx int) uint64 {
	return t.levels[level].value(idx)
}

// depth returns the number of levels including the leaf row.
func (t *Tree) depth() int { return len(t.levels) }
