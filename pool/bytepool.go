// File: pool/bytepool.go
// Author: momentics <momentics@gmail.com>

package pool

import "github.com/momentics/taskpar/api"

// Ensure compile-time interface compliance.
var _ api.BytePool = (*BytePool)(nil)

// BytePool lends byte buffers out of a block arena, falling back to the
// runtime when the arena cannot serve a request.
type BytePool struct {
	arena *Block
}

// NewBytePool creates a pool over the given arena. A nil arena uses the
// process-wide current allocator.
func NewBytePool(arena *Block) *BytePool {
	if arena == nil {
		arena = Current()
	}
	return &BytePool{arena: arena}
}

// Acquire returns a slice of at least n bytes.
func (b *BytePool) Acquire(n int) []byte {
	if buf := b.arena.Alloc(n, 1); buf != nil {
		return buf
	}
	// fallback: make regular slice, GC handles memory
	return make([]byte, n)
}

// Release returns a buffer to the pool.
func (b *BytePool) Release(buf []byte) {
	b.arena.Dealloc(buf)
}
