// File: pool/block.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Block chains bump arenas into an allocator that never runs out.
// Exhaustion allocates a fresh arena and CAS-links it as the new list
// head; deallocation locates the owning arena by address containment.
// A marker/restore interface discards every arena added after the
// snapshot, and Reset either rewinds arenas for reuse or drops them.

package pool

import (
	"sync/atomic"

	"github.com/momentics/taskpar/api"
)

// DefaultBlockBytes is the arena size used when a request does not
// force a larger one.
const DefaultBlockBytes = 2 * 1024 * 1024 // 2 MiB

// Ensure compile-time interface compliance.
var _ api.Arena = (*Block)(nil)

type blockNode struct {
	bump *Bump
	next atomic.Pointer[blockNode]
}

// Block is a linked-list-of-arenas allocator.
type Block struct {
	root      atomic.Pointer[blockNode]
	blockSize int
	name      string
}

// NewBlock creates an empty block allocator with DefaultBlockBytes arenas.
func NewBlock(name string) *Block {
	return &Block{blockSize: DefaultBlockBytes, name: name}
}

// NewBlockSize creates a block allocator with a custom arena size.
func NewBlockSize(name string, blockBytes int) *Block {
	if blockBytes <= 0 {
		blockBytes = DefaultBlockBytes
	}
	return &Block{blockSize: blockBytes, name: name}
}

// Name returns the allocator label used in debug probes.
func (b *Block) Name() string { return b.name }

// Alloc returns a region of n bytes aligned to align. A request larger
// than the free space of every arena links in a new arena sized to fit.
func (b *Block) Alloc(n, align int) []byte {
	if n <= 0 {
		return nil
	}
	for {
		for node := b.root.Load(); node != nil; node = node.next.Load() {
			if region := node.bump.Alloc(n, align); region != nil {
				return region
			}
		}

		size := b.blockSize
		if need := 2 * n; need > size {
			size = need
		}
		node := &blockNode{bump: NewBump(size)}
		region := node.bump.Alloc(n, align)
		root := b.root.Load()
		node.next.Store(root)
		if b.root.CompareAndSwap(root, node) {
			return region
		}
		// Lost the race; drop the fresh arena and retry through the list.
	}
}

// Dealloc releases a region to the arena that owns it.
func (b *Block) Dealloc(region []byte) bool {
	if region == nil {
		return false
	}
	for node := b.root.Load(); node != nil; node = node.next.Load() {
		if node.bump.Contains(region) {
			return node.bump.Dealloc(region)
		}
	}
	return false
}

// Realloc resizes a region in place when its arena allows it; otherwise
// a new region is allocated, the payload copied, and the old released.
func (b *Block) Realloc(region []byte, newLen int) []byte {
	for node := b.root.Load(); node != nil; node = node.next.Load() {
		if !node.bump.Contains(region) {
			continue
		}
		if resized := node.bump.Realloc(region, newLen); resized != nil {
			return resized
		}
		break
	}
	fresh := b.Alloc(newLen, 1)
	if fresh == nil {
		return nil
	}
	copy(fresh, region)
	b.Dealloc(region)
	return fresh
}

// BlockMarker snapshots the allocator: the head arena and its position.
type BlockMarker struct {
	node *blockNode
	mark Marker
}

// Marker snapshots the current head arena position.
func (b *Block) Marker() BlockMarker {
	root := b.root.Load()
	if root == nil {
		return BlockMarker{}
	}
	return BlockMarker{node: root, mark: root.bump.Marker()}
}

// SetMarker rewinds to a snapshot, discarding every arena linked in
// after it was taken. Callers must guarantee nothing allocated after
// the snapshot is still referenced.
func (b *Block) SetMarker(m BlockMarker) {
	if m.node == nil {
		b.root.Store(nil)
		return
	}
	m.node.bump.SetMarker(m.mark)
	b.root.Store(m.node)
}

// Reset reclaims all storage. reuse rewinds each arena in place;
// otherwise the whole chain is dropped for the runtime to collect.
func (b *Block) Reset(reuse bool) {
	if !reuse {
		b.root.Store(nil)
		return
	}
	for node := b.root.Load(); node != nil; node = node.next.Load() {
		node.bump.Reset()
	}
}

// NBlocks returns the arena count.
func (b *Block) NBlocks() int {
	n := 0
	for node := b.root.Load(); node != nil; node = node.next.Load() {
		n++
	}
	return n
}

// TotalBytes sums the capacity of all arenas.
func (b *Block) TotalBytes() int {
	n := 0
	for node := b.root.Load(); node != nil; node = node.next.Load() {
		n += node.bump.Size()
	}
	return n
}

// TotalObjects sums outstanding allocations across arenas.
func (b *Block) TotalObjects() int {
	n := 0
	for node := b.root.Load(); node != nil; node = node.next.Load() {
		n += node.bump.Objects()
	}
	return n
}

// Empty reports whether the allocator holds no arenas.
func (b *Block) Empty() bool { return b.root.Load() == nil }
