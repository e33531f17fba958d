// File: pool/default.go
// Author: momentics <momentics@gmail.com>

package pool

import (
	"sync"
	"sync/atomic"
)

var (
	globalOnce  sync.Once
	globalBlock *Block
	current     atomic.Pointer[Block]
)

// Global returns the process-wide block allocator so components reuse
// the same arenas instead of fragmenting allocations.
func Global() *Block {
	globalOnce.Do(func() {
		globalBlock = NewBlock("global")
	})
	return globalBlock
}

// Current returns the allocator new components should draw from. It is
// Global unless Swap installed another one.
func Current() *Block {
	if b := current.Load(); b != nil {
		return b
	}
	return Global()
}

// Swap installs b as the current allocator and returns the previous
// one. Intended for tests and scoped overrides; pair with Restore.
func Swap(b *Block) *Block {
	prev := Current()
	current.Store(b)
	return prev
}

// Restore resets the current allocator back to Global.
func Restore() {
	current.Store(nil)
}
